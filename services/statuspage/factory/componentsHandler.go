package factory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iulianpascalau/status-page/commonGo"
	"github.com/iulianpascalau/status-page/services/statuspage/api"
	"github.com/iulianpascalau/status-page/services/statuspage/config"
	"github.com/iulianpascalau/status-page/services/statuspage/cwmetrics"
	"github.com/iulianpascalau/status-page/services/statuspage/history"
	"github.com/iulianpascalau/status-page/services/statuspage/metricexpr"
	"github.com/iulianpascalau/status-page/services/statuspage/settings"
	"github.com/iulianpascalau/status-page/services/statuspage/storage"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("factory")

type componentsHandler struct {
	store           api.Storage
	settings        api.SettingsStore
	catalog         MetricsCatalog
	server          Server
	defaultRegion   string
	refreshInterval time.Duration
	mutCancel       sync.Mutex
	cancel          func()
}

// NewComponentsHandler creates a new components handler. A nil clientFactory means the AWS default credentials
// chain is used for the CloudWatch clients
func NewComponentsHandler(
	sqlitePath string,
	serviceKeyApi string,
	authUsername string,
	authPassword string,
	cfg config.Config,
	clientFactory cwmetrics.ClientFactory,
) (*componentsHandler, error) {
	location, err := loadLocation(cfg.HistoryTimeZone)
	if err != nil {
		return nil, err
	}

	defaultRegion := resolveDefaultRegion(cfg.CloudWatch)
	_, err = cwmetrics.RegionByID(defaultRegion)
	if err != nil {
		return nil, err
	}

	if clientFactory == nil {
		clientFactory = cwmetrics.NewAWSClientFactory()
	}
	lister, err := cwmetrics.NewMetricsLister(clientFactory)
	if err != nil {
		return nil, err
	}

	catalog, err := cwmetrics.NewMetricsCatalog(cwmetrics.ArgsMetricsCatalog{
		Lister:   lister,
		CacheTTL: time.Duration(cfg.CloudWatch.CacheTTLInSeconds) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(sqlitePath, cfg.RetentionSeconds)
	if err != nil {
		return nil, err
	}

	settingsStore, err := loadSettingsStore(store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	serverArgs := api.ArgsWebServer{
		ServiceKeyApi:  serviceKeyApi,
		AuthUsername:   authUsername,
		AuthPassword:   authPassword,
		ListenAddress:  cfg.ListenAddress,
		StaticDir:      cfg.StaticDir,
		DefaultRegion:  defaultRegion,
		Storage:        store,
		Settings:       settingsStore,
		Catalog:        catalog,
		MonthLabeler:   history.MonthLabel(location),
		GeneralHandler: api.CORSMiddleware,
	}

	server, err := api.NewServer(serverArgs)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &componentsHandler{
		store:           store,
		settings:        settingsStore,
		catalog:         catalog,
		server:          server,
		defaultRegion:   defaultRegion,
		refreshInterval: time.Duration(cfg.CloudWatch.RefreshIntervalInSeconds) * time.Second,
	}, nil
}

func loadLocation(timeZone string) (*time.Location, error) {
	if len(timeZone) == 0 {
		return time.UTC, nil
	}

	location, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, fmt.Errorf("%w while loading the history time zone", err)
	}

	return location, nil
}

// resolveDefaultRegion prefers the configured region, then the region of the user pool
func resolveDefaultRegion(cfg config.CloudWatchConfig) string {
	if len(cfg.DefaultRegion) > 0 {
		return cfg.DefaultRegion
	}

	return metricexpr.RegionFromUserPoolID(cfg.UserPoolID, cwmetrics.DefaultRegion)
}

// loadSettingsStore seeds the settings store with the persisted record
func loadSettingsStore(store api.Storage) (api.SettingsStore, error) {
	settingsStore, err := settings.NewSettingsStore(store)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	persisted, err := store.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}

	current, err := settingsStore.Dispatch(ctx, settings.List{Settings: persisted})
	if err != nil {
		return nil, err
	}

	log.Debug("loaded settings", "service name", current.ServiceName, "num api keys", len(current.APIKeys))

	return settingsStore, nil
}

// GetStore returns the storage component
func (ch *componentsHandler) GetStore() api.Storage {
	return ch.store
}

// GetSettings returns the settings store component
func (ch *componentsHandler) GetSettings() api.SettingsStore {
	return ch.settings
}

// GetCatalog returns the metrics catalog component
func (ch *componentsHandler) GetCatalog() MetricsCatalog {
	return ch.catalog
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// Start starts the inner components
func (ch *componentsHandler) Start() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		return
	}

	ch.server.Start()

	var ctx context.Context
	ctx, ch.cancel = context.WithCancel(context.Background())

	if ch.refreshInterval > 0 {
		commonGo.CronJobStarter(ctx, ch.refreshCatalog, ch.refreshInterval)
	}
}

func (ch *componentsHandler) refreshCatalog(ctx context.Context) {
	err := ch.catalog.Refresh(ctx, ch.defaultRegion)
	if err != nil {
		log.Debug("metrics catalog refresh failed", "region", ch.defaultRegion, "error", err)
	}
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	ch.mutCancel.Lock()
	if ch.cancel != nil {
		ch.cancel()
		ch.cancel = nil
	}
	ch.mutCancel.Unlock()

	_ = ch.server.Close()
	_ = ch.store.Close()
}
