package cwmetrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iulianpascalau/status-page/services/statuspage/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/patrickmn/go-cache"
)

var log = logger.GetOrCreate("cwmetrics")

var errNilClientFactory = errors.New("nil client factory")
var errNilMetricsLister = errors.New("nil metrics lister")

// MetricsLister fetches the metrics available in a region
type MetricsLister interface {
	ListMetrics(ctx context.Context, region string) ([]common.Metric, error)
	IsInterfaceNil() bool
}

// ArgsMetricsCatalog defines the metrics catalog arguments
type ArgsMetricsCatalog struct {
	Lister   MetricsLister
	CacheTTL time.Duration
}

type metricsCatalog struct {
	lister    MetricsLister
	cache     *cache.Cache
	mutStates sync.RWMutex
	states    map[string]FetchState
}

// NewMetricsCatalog creates a catalog that keeps the listed metrics of each region for CacheTTL
func NewMetricsCatalog(args ArgsMetricsCatalog) (*metricsCatalog, error) {
	if check.IfNil(args.Lister) {
		return nil, errNilMetricsLister
	}

	ttl := args.CacheTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}

	return &metricsCatalog{
		lister: args.Lister,
		cache:  cache.New(ttl, 2*ttl),
		states: make(map[string]FetchState),
	}, nil
}

// Metrics returns the metrics of the region, fetching them only if they are not cached
func (mc *metricsCatalog) Metrics(ctx context.Context, region string) ([]common.Metric, error) {
	_, err := RegionByID(region)
	if err != nil {
		return nil, err
	}

	cached, found := mc.cache.Get(region)
	if found {
		return cached.([]common.Metric), nil
	}

	return mc.fetch(ctx, region)
}

// Refresh fetches the metrics of the region even if they are cached
func (mc *metricsCatalog) Refresh(ctx context.Context, region string) error {
	_, err := RegionByID(region)
	if err != nil {
		return err
	}

	_, err = mc.fetch(ctx, region)
	return err
}

func (mc *metricsCatalog) fetch(ctx context.Context, region string) ([]common.Metric, error) {
	mc.setState(region, loadingState())

	metrics, err := mc.lister.ListMetrics(ctx, region)
	if err != nil {
		log.Warn("failed to fetch metrics", "region", region, "error", err)
		mc.setState(region, failedState(err))
		return nil, err
	}

	log.Debug("fetched metrics", "region", region, "num metrics", len(metrics))
	mc.cache.SetDefault(region, metrics)
	mc.setState(region, succeededState())

	return metrics, nil
}

// State returns the state of the last metrics request for the region
func (mc *metricsCatalog) State(region string) FetchState {
	mc.mutStates.RLock()
	defer mc.mutStates.RUnlock()

	state, found := mc.states[region]
	if !found {
		return idleState()
	}

	return state
}

func (mc *metricsCatalog) setState(region string, state FetchState) {
	mc.mutStates.Lock()
	mc.states[region] = state
	mc.mutStates.Unlock()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (mc *metricsCatalog) IsInterfaceNil() bool {
	return mc == nil
}
