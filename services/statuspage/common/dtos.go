package common

import "encoding/json"

// MetricDimension is a name/value pair qualifying a metric (e.g. InstanceId = i-1)
type MetricDimension struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

// MetricIdentity identifies a metric by its name and the ordered list of its dimensions
type MetricIdentity struct {
	Name       string            `json:"MetricName"`
	Dimensions []MetricDimension `json:"Dimensions"`
}

// Metric is a CloudWatch metric as listed by the monitoring service
type Metric struct {
	Namespace  string            `json:"Namespace"`
	Name       string            `json:"MetricName"`
	Dimensions []MetricDimension `json:"Dimensions"`
}

// Identity returns the metric identity (name and dimensions) of the metric
func (m Metric) Identity() MetricIdentity {
	return MetricIdentity{
		Name:       m.Name,
		Dimensions: m.Dimensions,
	}
}

// MonitoringProps is the monitoring service configuration produced when a metric selection is committed
type MonitoringProps struct {
	Region     string            `json:"Region"`
	Namespace  string            `json:"Namespace"`
	MetricName string            `json:"MetricName"`
	Dimensions []MetricDimension `json:"Dimensions"`
	Statistics string            `json:"Statistics"`
}

// APIKey is a credential record managed from the settings page
type APIKey struct {
	ID          string `json:"id"`
	Value       string `json:"value,omitempty"`
	Enabled     bool   `json:"enabled"`
	CreatedDate string `json:"createdDate"`
}

// Settings is the persisted configuration blob of the hosted service. Extra holds the opaque fields as raw JSON
type Settings struct {
	ServiceName string                     `json:"serviceName"`
	LogoID      string                     `json:"logoID"`
	APIKeys     []APIKey                   `json:"apiKeys"`
	Extra       map[string]json.RawMessage `json:"extra,omitempty"`
}

// SettingsPatch holds the fields of a partial settings update. Nil fields are left untouched
type SettingsPatch struct {
	ServiceName *string
	LogoID      *string
	APIKeys     []APIKey
	Extra       map[string]json.RawMessage
}

// Logo references an uploaded logo
type Logo struct {
	ID string `json:"id"`
}

// EventKind tags a history event
type EventKind string

const (
	// IncidentEvent marks an incident record
	IncidentEvent EventKind = "incident"
	// MaintenanceEvent marks a maintenance record
	MaintenanceEvent EventKind = "maintenance"
)

// Event is an incident or a maintenance shown in the status page history
type Event struct {
	Kind      EventKind `json:"kind"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	UpdatedAt string    `json:"updatedAt"`
}

// MonthGroup holds the history events that share the same month label
type MonthGroup struct {
	Month  string  `json:"month"`
	Events []Event `json:"events"`
}
