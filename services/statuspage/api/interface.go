package api

import (
	"context"

	"github.com/iulianpascalau/status-page/services/statuspage/common"
	"github.com/iulianpascalau/status-page/services/statuspage/cwmetrics"
	"github.com/iulianpascalau/status-page/services/statuspage/settings"
)

// Storage defines the interface for persisting the status page data
type Storage interface {
	// LoadSettings returns the persisted settings record
	LoadSettings(ctx context.Context) (common.Settings, error)

	// SaveSettings replaces the persisted settings record
	SaveSettings(ctx context.Context, settings common.Settings) error

	// SaveEvent upserts an incident or a maintenance
	SaveEvent(ctx context.Context, event common.Event) error

	// DeleteEvent removes an incident or a maintenance, returning common.ErrEventNotFound for unknown ids
	DeleteEvent(ctx context.Context, kind common.EventKind, id string) error

	// GetEvents returns all the events of the provided kind
	GetEvents(ctx context.Context, kind common.EventKind) ([]common.Event, error)

	// SaveMonitoringProps stores the CloudWatch monitoring configuration
	SaveMonitoringProps(ctx context.Context, props common.MonitoringProps) error

	// GetMonitoringProps returns the stored CloudWatch monitoring configuration, nil if none was saved
	GetMonitoringProps(ctx context.Context) (*common.MonitoringProps, error)

	// Close shuts down the database connection
	Close() error

	IsInterfaceNil() bool
}

// SettingsStore holds the session settings record and applies the dispatched actions
type SettingsStore interface {
	Dispatch(ctx context.Context, action settings.Action) (common.Settings, error)
	Settings() common.Settings
	IsInterfaceNil() bool
}

// MetricsCatalog provides the CloudWatch metrics of a region
type MetricsCatalog interface {
	Metrics(ctx context.Context, region string) ([]common.Metric, error)
	State(region string) cwmetrics.FetchState
	IsInterfaceNil() bool
}
