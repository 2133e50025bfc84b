package settings

import (
	"encoding/json"
	"sort"

	"github.com/iulianpascalau/status-page/services/statuspage/common"
)

// Reduce computes the settings record that results from applying the action on the provided state.
// The provided state is never mutated. Unknown actions return the state unchanged
func Reduce(state common.Settings, action Action) common.Settings {
	switch a := action.(type) {
	case List:
		return listSettings(a)
	case EditSettings:
		return editSettings(state, a)
	case EditLogo:
		next := clone(state)
		next.LogoID = a.Logo.ID
		return next
	case RemoveLogo:
		next := clone(state)
		next.LogoID = ""
		return next
	case AddAPIKey:
		next := clone(state)
		next.APIKeys = append(next.APIKeys, a.Key)
		return next
	case RemoveAPIKey:
		return removeAPIKey(state, a)
	default:
		return state
	}
}

func listSettings(action List) common.Settings {
	next := clone(action.Settings)
	sort.SliceStable(next.APIKeys, func(i, j int) bool {
		return next.APIKeys[i].CreatedDate < next.APIKeys[j].CreatedDate
	})

	return next
}

func editSettings(state common.Settings, action EditSettings) common.Settings {
	next := clone(state)
	patch := action.Patch
	if patch.ServiceName != nil {
		next.ServiceName = *patch.ServiceName
	}
	if patch.LogoID != nil {
		next.LogoID = *patch.LogoID
	}
	if patch.APIKeys != nil {
		next.APIKeys = make([]common.APIKey, len(patch.APIKeys))
		copy(next.APIKeys, patch.APIKeys)
	}
	if len(patch.Extra) > 0 && next.Extra == nil {
		next.Extra = make(map[string]json.RawMessage, len(patch.Extra))
	}
	for key, value := range patch.Extra {
		next.Extra[key] = cloneRaw(value)
	}

	return next
}

func removeAPIKey(state common.Settings, action RemoveAPIKey) common.Settings {
	next := clone(state)
	next.APIKeys = make([]common.APIKey, 0, len(state.APIKeys))
	for _, key := range state.APIKeys {
		if key.ID != action.KeyID {
			next.APIKeys = append(next.APIKeys, key)
		}
	}

	return next
}

func clone(settings common.Settings) common.Settings {
	result := settings
	if settings.APIKeys != nil {
		result.APIKeys = make([]common.APIKey, len(settings.APIKeys))
		copy(result.APIKeys, settings.APIKeys)
	}
	if settings.Extra != nil {
		result.Extra = make(map[string]json.RawMessage, len(settings.Extra))
		for key, value := range settings.Extra {
			result.Extra[key] = cloneRaw(value)
		}
	}

	return result
}

func cloneRaw(value json.RawMessage) json.RawMessage {
	if value == nil {
		return nil
	}

	return append(json.RawMessage{}, value...)
}
