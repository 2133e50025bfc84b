package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/iulianpascalau/status-page/services/statuspage/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("settings")

// Persister saves the settings record produced by each dispatched action
type Persister interface {
	SaveSettings(ctx context.Context, settings common.Settings) error
	IsInterfaceNil() bool
}

type settingsStore struct {
	mut       sync.RWMutex
	state     common.Settings
	persister Persister
}

// NewSettingsStore creates a store holding the session settings record, initially empty
func NewSettingsStore(persister Persister) (*settingsStore, error) {
	if check.IfNil(persister) {
		return nil, errors.New("nil persister")
	}

	return &settingsStore{
		persister: persister,
	}, nil
}

// Dispatch reduces the action over the current record, persists the result and makes it current.
// The current record is left untouched if persisting fails
func (s *settingsStore) Dispatch(ctx context.Context, action Action) (common.Settings, error) {
	s.mut.Lock()
	defer s.mut.Unlock()

	next := Reduce(s.state, action)
	err := s.persister.SaveSettings(ctx, next)
	if err != nil {
		return clone(s.state), fmt.Errorf("%w while persisting %s", err, actionName(action))
	}

	log.Debug("settings updated", "action", actionName(action), "num api keys", len(next.APIKeys))
	s.state = next

	return clone(next), nil
}

// Settings returns a copy of the current record
func (s *settingsStore) Settings() common.Settings {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return clone(s.state)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *settingsStore) IsInterfaceNil() bool {
	return s == nil
}

func actionName(action Action) string {
	if action == nil {
		return "<nil>"
	}

	return action.Type()
}
