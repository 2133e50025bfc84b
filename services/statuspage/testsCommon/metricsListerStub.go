package testsCommon

import (
	"context"

	"github.com/iulianpascalau/status-page/services/statuspage/common"
)

// MetricsListerStub -
type MetricsListerStub struct {
	ListMetricsHandler func(ctx context.Context, region string) ([]common.Metric, error)
}

// ListMetrics -
func (stub *MetricsListerStub) ListMetrics(ctx context.Context, region string) ([]common.Metric, error) {
	if stub.ListMetricsHandler != nil {
		return stub.ListMetricsHandler(ctx, region)
	}

	return make([]common.Metric, 0), nil
}

// IsInterfaceNil -
func (stub *MetricsListerStub) IsInterfaceNil() bool {
	return stub == nil
}
