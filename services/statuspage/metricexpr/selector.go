package metricexpr

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/iulianpascalau/status-page/services/statuspage/common"
)

// Statistics is a CloudWatch statistic or extended (percentile) statistic
type Statistics string

const (
	StatisticsAverage     Statistics = "Average"
	StatisticsMinimum     Statistics = "Minimum"
	StatisticsMaximum     Statistics = "Maximum"
	StatisticsSum         Statistics = "Sum"
	StatisticsSampleCount Statistics = "SampleCount"
	StatisticsP99         Statistics = "p99"
	StatisticsP95         Statistics = "p95"
	StatisticsP90         Statistics = "p90"
	StatisticsP50         Statistics = "p50"
	StatisticsP10         Statistics = "p10"
)

// DefaultStatistics is preselected when nothing was saved before
const DefaultStatistics = StatisticsAverage

var statisticsList = []Statistics{
	StatisticsAverage,
	StatisticsMinimum,
	StatisticsMaximum,
	StatisticsSum,
	StatisticsSampleCount,
	StatisticsP99,
	StatisticsP95,
	StatisticsP90,
	StatisticsP50,
	StatisticsP10,
}

var userPoolRegion = regexp.MustCompile(`^([a-z0-9-]+)_.+`)

// Validate returns an error if the statistics value is not supported
func (st Statistics) Validate() error {
	for _, s := range statisticsList {
		if s == st {
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrInvalidStatistics, string(st))
}

// StatisticsList returns the supported statistics in display order
func StatisticsList() []Statistics {
	result := make([]Statistics, len(statisticsList))
	copy(result, statisticsList)

	return result
}

// Selection is the raw state of the metric selector when the user commits a choice
type Selection struct {
	Region     string `json:"region"`
	Namespace  string `json:"namespace"`
	Metric     string `json:"metric" binding:"required"`
	Statistics string `json:"statistics"`
}

// BuildSelection decodes the selected metric expression and produces the monitoring service properties
func BuildSelection(selection Selection) (common.MonitoringProps, error) {
	if len(selection.Namespace) == 0 {
		return common.MonitoringProps{}, ErrEmptyNamespace
	}

	statistics := Statistics(selection.Statistics)
	if len(statistics) == 0 {
		statistics = DefaultStatistics
	}
	err := statistics.Validate()
	if err != nil {
		return common.MonitoringProps{}, err
	}

	identity, err := Decode(selection.Metric)
	if err != nil {
		return common.MonitoringProps{}, err
	}

	return common.MonitoringProps{
		Region:     selection.Region,
		Namespace:  selection.Namespace,
		MetricName: identity.Name,
		Dimensions: identity.Dimensions,
		Statistics: string(statistics),
	}, nil
}

// ExpressionFromProps rebuilds the metric expression of previously saved monitoring properties
func ExpressionFromProps(props common.MonitoringProps) string {
	return Encode(common.MetricIdentity{
		Name:       props.MetricName,
		Dimensions: props.Dimensions,
	})
}

// Namespaces returns the distinct namespaces of the provided metrics, sorted
func Namespaces(metrics []common.Metric) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0)
	for _, metric := range metrics {
		_, found := seen[metric.Namespace]
		if found {
			continue
		}

		seen[metric.Namespace] = struct{}{}
		result = append(result, metric.Namespace)
	}
	sort.Strings(result)

	return result
}

// Expressions returns the sorted metric expressions of all metrics from the provided namespace
func Expressions(metrics []common.Metric, namespace string) []string {
	result := make([]string, 0)
	for _, metric := range metrics {
		if metric.Namespace != namespace {
			continue
		}

		result = append(result, Encode(metric.Identity()))
	}
	sort.Strings(result)

	return result
}

// RegionFromUserPoolID extracts the region prefix of a Cognito user pool id (e.g. "us-west-2_abc")
func RegionFromUserPoolID(userPoolID string, fallback string) string {
	matched := userPoolRegion.FindStringSubmatch(userPoolID)
	if len(matched) != 2 {
		return fallback
	}

	return matched[1]
}
