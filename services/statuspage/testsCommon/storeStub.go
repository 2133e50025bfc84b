package testsCommon

import (
	"context"

	"github.com/iulianpascalau/status-page/services/statuspage/common"
)

// StoreStub -
type StoreStub struct {
	LoadSettingsHandler        func(ctx context.Context) (common.Settings, error)
	SaveSettingsHandler        func(ctx context.Context, settings common.Settings) error
	SaveEventHandler           func(ctx context.Context, event common.Event) error
	DeleteEventHandler         func(ctx context.Context, kind common.EventKind, id string) error
	GetEventsHandler           func(ctx context.Context, kind common.EventKind) ([]common.Event, error)
	SaveMonitoringPropsHandler func(ctx context.Context, props common.MonitoringProps) error
	GetMonitoringPropsHandler  func(ctx context.Context) (*common.MonitoringProps, error)
	CloseHandler               func() error
}

// LoadSettings -
func (stub *StoreStub) LoadSettings(ctx context.Context) (common.Settings, error) {
	if stub.LoadSettingsHandler != nil {
		return stub.LoadSettingsHandler(ctx)
	}

	return common.Settings{}, nil
}

// SaveSettings -
func (stub *StoreStub) SaveSettings(ctx context.Context, settings common.Settings) error {
	if stub.SaveSettingsHandler != nil {
		return stub.SaveSettingsHandler(ctx, settings)
	}

	return nil
}

// SaveEvent -
func (stub *StoreStub) SaveEvent(ctx context.Context, event common.Event) error {
	if stub.SaveEventHandler != nil {
		return stub.SaveEventHandler(ctx, event)
	}

	return nil
}

// DeleteEvent -
func (stub *StoreStub) DeleteEvent(ctx context.Context, kind common.EventKind, id string) error {
	if stub.DeleteEventHandler != nil {
		return stub.DeleteEventHandler(ctx, kind, id)
	}

	return nil
}

// GetEvents -
func (stub *StoreStub) GetEvents(ctx context.Context, kind common.EventKind) ([]common.Event, error) {
	if stub.GetEventsHandler != nil {
		return stub.GetEventsHandler(ctx, kind)
	}

	return make([]common.Event, 0), nil
}

// SaveMonitoringProps -
func (stub *StoreStub) SaveMonitoringProps(ctx context.Context, props common.MonitoringProps) error {
	if stub.SaveMonitoringPropsHandler != nil {
		return stub.SaveMonitoringPropsHandler(ctx, props)
	}

	return nil
}

// GetMonitoringProps -
func (stub *StoreStub) GetMonitoringProps(ctx context.Context) (*common.MonitoringProps, error) {
	if stub.GetMonitoringPropsHandler != nil {
		return stub.GetMonitoringPropsHandler(ctx)
	}

	return nil, nil
}

// Close -
func (stub *StoreStub) Close() error {
	if stub.CloseHandler != nil {
		return stub.CloseHandler()
	}

	return nil
}

// IsInterfaceNil -
func (stub *StoreStub) IsInterfaceNil() bool {
	return stub == nil
}
