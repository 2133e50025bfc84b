package settings

import "github.com/iulianpascalau/status-page/services/statuspage/common"

// Action types understood by Reduce
const (
	ListSettingsType = "LIST_SETTINGS"
	EditSettingsType = "EDIT_SETTINGS"
	EditLogoType     = "EDIT_LOGO"
	RemoveLogoType   = "REMOVE_LOGO"
	AddAPIKeyType    = "ADD_API_KEY"
	RemoveAPIKeyType = "REMOVE_API_KEY"
)

// Action is a settings mutation dispatched to the store
type Action interface {
	Type() string
}

// List replaces the whole settings record with the one fetched from the settings API
type List struct {
	Settings common.Settings
}

// Type -
func (a List) Type() string { return ListSettingsType }

// EditSettings merges the present fields of the patch into the current record
type EditSettings struct {
	Patch common.SettingsPatch
}

// Type -
func (a EditSettings) Type() string { return EditSettingsType }

// EditLogo points the record to a new logo
type EditLogo struct {
	Logo common.Logo
}

// Type -
func (a EditLogo) Type() string { return EditLogoType }

// RemoveLogo clears the logo id
type RemoveLogo struct{}

// Type -
func (a RemoveLogo) Type() string { return RemoveLogoType }

// AddAPIKey appends a key to the record
type AddAPIKey struct {
	Key common.APIKey
}

// Type -
func (a AddAPIKey) Type() string { return AddAPIKeyType }

// RemoveAPIKey drops the key with the given id
type RemoveAPIKey struct {
	KeyID string
}

// Type -
func (a RemoveAPIKey) Type() string { return RemoveAPIKeyType }
