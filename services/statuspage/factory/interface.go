package factory

import (
	"context"

	"github.com/iulianpascalau/status-page/services/statuspage/api"
)

// Server defines the operation of an entity able to serve requests
type Server interface {
	Start()
	Address() string
	Close() error
}

// MetricsCatalog is the api catalog that can also be refreshed in the background
type MetricsCatalog interface {
	api.MetricsCatalog
	Refresh(ctx context.Context, region string) error
}
