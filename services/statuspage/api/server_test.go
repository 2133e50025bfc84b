package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iulianpascalau/status-page/services/statuspage/common"
	"github.com/iulianpascalau/status-page/services/statuspage/cwmetrics"
	"github.com/iulianpascalau/status-page/services/statuspage/settings"
	"github.com/iulianpascalau/status-page/services/statuspage/storage"
	"github.com/iulianpascalau/status-page/services/statuspage/testsCommon"
	"github.com/stretchr/testify/require"
)

func createTestMetrics() []common.Metric {
	return []common.Metric{
		{
			Namespace:  "AWS/EC2",
			Name:       "CPUUtilization",
			Dimensions: []common.MetricDimension{{Name: "InstanceId", Value: "i-1"}},
		},
		{
			Namespace: "AWS/ApplicationELB",
			Name:      "TargetResponseTime",
			Dimensions: []common.MetricDimension{
				{Name: "TargetGroup", Value: "targetgroup/tg/1"},
				{Name: "LoadBalancer", Value: "app/lb/2"},
			},
		},
	}
}

func setupTestServer(t *testing.T) (*server, Storage) {
	store, err := storage.NewSQLiteStorage(":memory:", 0)
	require.NoError(t, err)

	settingsStore, err := settings.NewSettingsStore(store)
	require.NoError(t, err)

	catalog, err := cwmetrics.NewMetricsCatalog(cwmetrics.ArgsMetricsCatalog{
		Lister: &testsCommon.MetricsListerStub{
			ListMetricsHandler: func(ctx context.Context, region string) ([]common.Metric, error) {
				return createTestMetrics(), nil
			},
		},
	})
	require.NoError(t, err)

	args := ArgsWebServer{
		ServiceKeyApi:  "test-secret",
		AuthUsername:   "admin",
		AuthPassword:   "password",
		ListenAddress:  ":0",
		Storage:        store,
		Settings:       settingsStore,
		Catalog:        catalog,
		GeneralHandler: func(h http.Handler) http.Handler { return h },
	}

	serv, err := NewServer(args)
	require.NoError(t, err)

	return serv, store
}

func getValidToken(serv *server) string {
	loginBody := `{"username":"admin", "password":"password"}`
	req, _ := http.NewRequest("POST", "/api/auth/login", bytes.NewBuffer([]byte(loginBody)))
	w := httptest.NewRecorder()
	serv.router.ServeHTTP(w, req)

	var loginResp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &loginResp)
	return loginResp["token"]
}

func doRequest(serv *server, method string, url string, body string, headers map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, bytes.NewBuffer([]byte(body)))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	serv.router.ServeHTTP(w, req)

	return w
}

func adminHeaders(serv *server) map[string]string {
	return map[string]string{"Authorization": "Bearer " + getValidToken(serv)}
}

func TestLogin(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	w := doRequest(serv, "POST", "/api/auth/login", `{"username":"admin", "password":"wrong"}`, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(serv, "POST", "/api/auth/login", `not json`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	require.NotEmpty(t, getValidToken(serv))

	// admin routes require the token
	w = doRequest(serv, "GET", "/api/admin/settings", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(serv, "GET", "/api/admin/settings", "", map[string]string{"Authorization": "Bearer a.b.c"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(serv, "GET", "/api/admin/settings", "", adminHeaders(serv))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSettingsEndpoints(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	headers := adminHeaders(serv)

	// Edit: only the present fields are merged, unknown fields are kept as opaque settings
	w := doRequest(serv, "PATCH", "/api/admin/settings", `{"serviceName":"Acme", "theme":"dark"}`, headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"serviceName":"Acme"`)
	require.Contains(t, w.Body.String(), `"theme":"dark"`)

	w = doRequest(serv, "PATCH", "/api/admin/settings", `{"theme":"light"}`, headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"serviceName":"Acme"`)
	require.Contains(t, w.Body.String(), `"theme":"light"`)

	w = doRequest(serv, "PATCH", "/api/admin/settings", `[1, 2]`, headers)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = doRequest(serv, "PATCH", "/api/admin/settings", `{"serviceName":`, headers)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Logo
	w = doRequest(serv, "PUT", "/api/admin/settings/logo", `{"id":"logo-7"}`, headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"logoID":"logo-7"`)

	w = doRequest(serv, "PUT", "/api/admin/settings/logo", `{}`, headers)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(serv, "GET", "/api/settings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"logoID":"logo-7","serviceName":"Acme"}`, w.Body.String())

	w = doRequest(serv, "DELETE", "/api/admin/settings/logo", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"logoID":""`)

	// Persisted
	persisted, err := store.LoadSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Acme", persisted.ServiceName)
	require.Equal(t, "", persisted.LogoID)
	require.Equal(t, map[string]json.RawMessage{"theme": json.RawMessage(`"light"`)}, persisted.Extra)
}

func TestSettingsEndpoints_OpaqueFieldsKeepTheirJSONType(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	headers := adminHeaders(serv)

	w := doRequest(serv, "PATCH", "/api/admin/settings",
		`{"maxIncidents":5,"public":true,"theme":{"color":"red","sizes":[1,2]},"footer":null}`, headers)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(serv, "GET", "/api/admin/settings", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"settings":{
		"serviceName":"",
		"logoID":"",
		"apiKeys":[],
		"maxIncidents":5,
		"public":true,
		"theme":{"color":"red","sizes":[1,2]},
		"footer":null
	}}`, w.Body.String())

	persisted, err := store.LoadSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, json.RawMessage(`5`), persisted.Extra["maxIncidents"])
	require.Equal(t, json.RawMessage(`true`), persisted.Extra["public"])
	require.JSONEq(t, `{"color":"red","sizes":[1,2]}`, string(persisted.Extra["theme"]))
}

func TestSettingsEndpoints_DuplicateAPIKeyIDs(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	headers := adminHeaders(serv)

	w := doRequest(serv, "PATCH", "/api/admin/settings",
		`{"apiKeys":[{"id":"a","value":"v1","enabled":true},{"id":"a","value":"v2","enabled":true}]}`, headers)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "duplicate api key id")

	require.Empty(t, serv.settings.Settings().APIKeys)
	persisted, err := store.LoadSettings(context.Background())
	require.NoError(t, err)
	require.Empty(t, persisted.APIKeys)

	// neither value is accepted for ingestion
	w = doRequest(serv, "POST", "/api/incidents", `{"id":"x"}`, map[string]string{"X-Api-Key": "v1"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(serv, "PATCH", "/api/admin/settings",
		`{"apiKeys":[{"id":"a","value":"v1","enabled":true},{"id":"b","value":"v2","enabled":true}]}`, headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, serv.settings.Settings().APIKeys, 2)
}

func TestAPIKeysEndpoints(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	headers := adminHeaders(serv)

	w := doRequest(serv, "POST", "/api/admin/settings/apikeys", "", headers)
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		APIKey common.APIKey `json:"apiKey"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.APIKey.ID)
	require.NotEmpty(t, created.APIKey.Value)
	require.True(t, created.APIKey.Enabled)

	// the new key is accepted for ingestion
	event := `{"id":"inc-1","name":"Outage","status":"investigating","updatedAt":"2021-03-02T10:00:00Z"}`
	w = doRequest(serv, "POST", "/api/incidents", event, map[string]string{"X-Api-Key": created.APIKey.Value})
	require.Equal(t, http.StatusOK, w.Code)

	// removing a missing key is a no-op
	w = doRequest(serv, "DELETE", "/api/admin/settings/apikeys/missing", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), created.APIKey.ID)

	w = doRequest(serv, "DELETE", "/api/admin/settings/apikeys/"+created.APIKey.ID, "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"apiKeys":[]`)

	w = doRequest(serv, "POST", "/api/incidents", event, map[string]string{"X-Api-Key": created.APIKey.Value})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHistoryEndpoints(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	keyHeader := map[string]string{"X-Api-Key": "test-secret"}

	// Unauthenticated
	w := doRequest(serv, "POST", "/api/incidents", `{"id":"a"}`, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Invalid payloads
	w = doRequest(serv, "POST", "/api/incidents", `{"name":"no id"}`, keyHeader)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = doRequest(serv, "POST", "/api/incidents", `{"id":"a","updatedAt":"yesterday"}`, keyHeader)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(serv, "POST", "/api/incidents", `{"id":"a","updatedAt":"2021-03-02T10:00:00Z"}`, keyHeader)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(serv, "POST", "/api/incidents", `{"id":"b","updatedAt":"2021-03-05T10:00:00Z"}`, keyHeader)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(serv, "POST", "/api/maintenances", `{"id":"m","updatedAt":"2021-02-10T10:00:00+02:00"}`, keyHeader)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"updatedAt":"2021-02-10T08:00:00Z"`)

	w = doRequest(serv, "GET", "/api/history", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Months []common.MonthGroup `json:"months"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Months, 2)
	require.Equal(t, "March 2021", resp.Months[0].Month)
	require.Len(t, resp.Months[0].Events, 2)
	require.Equal(t, "b", resp.Months[0].Events[0].ID)
	require.Equal(t, "a", resp.Months[0].Events[1].ID)
	require.Equal(t, "February 2021", resp.Months[1].Month)
	require.Equal(t, common.MaintenanceEvent, resp.Months[1].Events[0].Kind)

	// Delete
	headers := adminHeaders(serv)
	w = doRequest(serv, "DELETE", "/api/admin/incidents/a", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(serv, "DELETE", "/api/admin/incidents/a", "", headers)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = doRequest(serv, "DELETE", "/api/admin/maintenances/m", "", headers)
	require.Equal(t, http.StatusOK, w.Code)

	events, err := store.GetEvents(context.Background(), common.IncidentEvent)
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestCloudWatchEndpoints(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	headers := adminHeaders(serv)

	w := doRequest(serv, "GET", "/api/admin/cloudwatch/regions", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"defaultRegion":"us-east-1"`)

	w = doRequest(serv, "GET", "/api/admin/cloudwatch/metrics?region=mars", "", headers)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(serv, "GET", "/api/admin/cloudwatch/metrics", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"namespaces":["AWS/ApplicationELB","AWS/EC2"]`)
	require.Contains(t, w.Body.String(), `"expressions":[]`)
	require.Contains(t, w.Body.String(), `"status":"succeeded"`)

	w = doRequest(serv, "GET", "/api/admin/cloudwatch/metrics?region=EU%20(Ireland)&namespace=AWS/ApplicationELB", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"id":"eu-west-1"`)
	require.Contains(t, w.Body.String(), `"expressions":["TargetResponseTime - [TargetGroup: targetgroup/tg/1, LoadBalancer: app/lb/2]"]`)

	// No selection yet
	w = doRequest(serv, "GET", "/api/admin/cloudwatch/selection", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"props":null`)
	require.Contains(t, w.Body.String(), `"statistics":"Average"`)

	// Malformed expression
	w = doRequest(serv, "PUT", "/api/admin/cloudwatch/selection",
		`{"region":"us-east-1","namespace":"AWS/EC2","metric":"CPUUtilization","statistics":"Average"}`, headers)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "malformed metric expression")

	// Invalid statistics
	w = doRequest(serv, "PUT", "/api/admin/cloudwatch/selection",
		`{"region":"us-east-1","namespace":"AWS/EC2","metric":"CPUUtilization - [InstanceId: i-1]","statistics":"Median"}`, headers)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Compact form by region name
	w = doRequest(serv, "PUT", "/api/admin/cloudwatch/selection",
		`{"region":"US West (Oregon)","namespace":"AWS/EC2","metric":"CPUUtilization-[InstanceId: i-1]","statistics":"p99"}`, headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"expression":"CPUUtilization - [InstanceId: i-1]"`)

	props, err := store.GetMonitoringProps(context.Background())
	require.NoError(t, err)
	require.Equal(t, &common.MonitoringProps{
		Region:     "us-west-2",
		Namespace:  "AWS/EC2",
		MetricName: "CPUUtilization",
		Dimensions: []common.MetricDimension{{Name: "InstanceId", Value: "i-1"}},
		Statistics: "p99",
	}, props)

	w = doRequest(serv, "GET", "/api/admin/cloudwatch/selection", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"region":"us-west-2"`)
	require.Contains(t, w.Body.String(), `"expression":"CPUUtilization - [InstanceId: i-1]"`)
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req, _ := http.NewRequest(http.MethodOptions, "/api/history", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req, _ = http.NewRequest(http.MethodGet, "/api/history", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusTeapot, w.Code)
}
