package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/iulianpascalau/status-page/services/statuspage/common"
	"github.com/iulianpascalau/status-page/services/statuspage/settings"
	"github.com/tidwall/gjson"
)

const (
	serviceNameField = "serviceName"
	logoIDField      = "logoID"
	apiKeysField     = "apiKeys"
)

func (s *server) handleGetPublicSettings(c *gin.Context) {
	current := s.settings.Settings()

	c.JSON(http.StatusOK, gin.H{
		serviceNameField: current.ServiceName,
		logoIDField:      current.LogoID,
	})
}

func (s *server) handleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": settingsResponse(s.settings.Settings())})
}

// handleEditSettings merges only the fields present in the JSON body. Unknown top level fields are kept as
// opaque settings
func (s *server) handleEditSettings(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || !gjson.ValidBytes(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	patch := parsePatch(parsed)
	if hasDuplicateKeyIDs(patch.APIKeys) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duplicate api key id"})
		return
	}

	s.dispatch(c, settings.EditSettings{Patch: patch})
}

func parsePatch(parsed gjson.Result) common.SettingsPatch {
	patch := common.SettingsPatch{}
	parsed.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case serviceNameField:
			serviceName := value.String()
			patch.ServiceName = &serviceName
		case logoIDField:
			logoID := value.String()
			patch.LogoID = &logoID
		case apiKeysField:
			patch.APIKeys = parseAPIKeys(value)
		default:
			if patch.Extra == nil {
				patch.Extra = make(map[string]json.RawMessage)
			}
			patch.Extra[key.String()] = json.RawMessage(value.Raw)
		}
		return true
	})

	return patch
}

func parseAPIKeys(value gjson.Result) []common.APIKey {
	keys := make([]common.APIKey, 0)
	for _, item := range value.Array() {
		keys = append(keys, common.APIKey{
			ID:          item.Get("id").String(),
			Value:       item.Get("value").String(),
			Enabled:     item.Get("enabled").Bool(),
			CreatedDate: item.Get("createdDate").String(),
		})
	}

	return keys
}

func hasDuplicateKeyIDs(keys []common.APIKey) bool {
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		_, found := seen[key.ID]
		if found {
			return true
		}
		seen[key.ID] = struct{}{}
	}

	return false
}

func (s *server) handleEditLogo(c *gin.Context) {
	var logo common.Logo
	if err := c.ShouldBindJSON(&logo); err != nil || len(logo.ID) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	s.dispatch(c, settings.EditLogo{Logo: logo})
}

func (s *server) handleRemoveLogo(c *gin.Context) {
	s.dispatch(c, settings.RemoveLogo{})
}

func (s *server) handleAddAPIKey(c *gin.Context) {
	key := common.APIKey{
		ID:          uuid.NewString(),
		Value:       uuid.NewString(),
		Enabled:     true,
		CreatedDate: time.Now().UTC().Format(time.RFC3339),
	}

	updated, err := s.settings.Dispatch(c.Request.Context(), settings.AddAPIKey{Key: key})
	if err != nil {
		log.Warn("failed to add api key", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Info("api key created", "id", key.ID)
	c.JSON(http.StatusOK, gin.H{"apiKey": key, "settings": settingsResponse(updated)})
}

func (s *server) handleRemoveAPIKey(c *gin.Context) {
	s.dispatch(c, settings.RemoveAPIKey{KeyID: c.Param("id")})
}

func (s *server) dispatch(c *gin.Context, action settings.Action) {
	updated, err := s.settings.Dispatch(c.Request.Context(), action)
	if err != nil {
		log.Warn("failed to update settings", "action", action.Type(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settingsResponse(updated)})
}

// settingsResponse flattens the opaque fields, emitted as received, next to the known ones
func settingsResponse(current common.Settings) gin.H {
	response := gin.H{}
	for key, value := range current.Extra {
		response[key] = value
	}

	apiKeys := current.APIKeys
	if apiKeys == nil {
		apiKeys = make([]common.APIKey, 0)
	}
	response[serviceNameField] = current.ServiceName
	response[logoIDField] = current.LogoID
	response[apiKeysField] = apiKeys

	return response
}
