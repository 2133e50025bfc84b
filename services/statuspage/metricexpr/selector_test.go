package metricexpr

import (
	"errors"
	"testing"

	"github.com/iulianpascalau/status-page/services/statuspage/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestMetrics() []common.Metric {
	return []common.Metric{
		{
			Namespace:  "AWS/EC2",
			Name:       "NetworkIn",
			Dimensions: []common.MetricDimension{{Name: "InstanceId", Value: "i-2"}},
		},
		{
			Namespace: "AWS/ApplicationELB",
			Name:      "RequestCountPerTarget",
			Dimensions: []common.MetricDimension{
				{Name: "TargetGroup", Value: "targetgroup/tg/1"},
			},
		},
		{
			Namespace:  "AWS/EC2",
			Name:       "CPUUtilization",
			Dimensions: []common.MetricDimension{{Name: "InstanceId", Value: "i-1"}},
		},
	}
}

func TestStatistics_Validate(t *testing.T) {
	t.Parallel()

	for _, st := range StatisticsList() {
		assert.NoError(t, st.Validate())
	}

	err := Statistics("p42").Validate()
	assert.True(t, errors.Is(err, ErrInvalidStatistics))
	assert.Contains(t, err.Error(), "p42")
}

func TestStatisticsList(t *testing.T) {
	t.Parallel()

	list := StatisticsList()
	require.Len(t, list, 10)
	assert.Equal(t, StatisticsAverage, list[0])
	assert.Equal(t, StatisticsP10, list[9])

	list[0] = "altered"
	assert.Equal(t, StatisticsAverage, StatisticsList()[0])
}

func TestNamespaces(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"AWS/ApplicationELB", "AWS/EC2"}, Namespaces(createTestMetrics()))
	assert.Empty(t, Namespaces(nil))
}

func TestExpressions(t *testing.T) {
	t.Parallel()

	expressions := Expressions(createTestMetrics(), "AWS/EC2")
	assert.Equal(t, []string{
		"CPUUtilization - [InstanceId: i-1]",
		"NetworkIn - [InstanceId: i-2]",
	}, expressions)

	assert.Empty(t, Expressions(createTestMetrics(), "AWS/Lambda"))
}

func TestRegionFromUserPoolID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ap-northeast-1", RegionFromUserPoolID("ap-northeast-1_AbCdEf", "us-east-1"))
	assert.Equal(t, "us-east-1", RegionFromUserPoolID("invalid", "us-east-1"))
	assert.Equal(t, "us-east-1", RegionFromUserPoolID("", "us-east-1"))
}

func TestBuildSelection(t *testing.T) {
	t.Parallel()

	t.Run("empty namespace should error", func(t *testing.T) {
		t.Parallel()

		_, err := BuildSelection(Selection{
			Region: "us-east-1",
			Metric: "CPUUtilization - [InstanceId: i-1]",
		})
		assert.Equal(t, ErrEmptyNamespace, err)
	})
	t.Run("invalid statistics should error", func(t *testing.T) {
		t.Parallel()

		_, err := BuildSelection(Selection{
			Region:     "us-east-1",
			Namespace:  "AWS/EC2",
			Metric:     "CPUUtilization - [InstanceId: i-1]",
			Statistics: "Median",
		})
		assert.True(t, errors.Is(err, ErrInvalidStatistics))
	})
	t.Run("malformed metric should error", func(t *testing.T) {
		t.Parallel()

		_, err := BuildSelection(Selection{
			Region:    "us-east-1",
			Namespace: "AWS/EC2",
			Metric:    "CPUUtilization",
		})
		assert.True(t, errors.Is(err, ErrMalformedExpression))
	})
	t.Run("should work", func(t *testing.T) {
		t.Parallel()

		props, err := BuildSelection(Selection{
			Region:     "us-west-2",
			Namespace:  "AWS/EC2",
			Metric:     "CPUUtilization-[InstanceId: i-1]",
			Statistics: "p99",
		})
		require.NoError(t, err)
		assert.Equal(t, common.MonitoringProps{
			Region:     "us-west-2",
			Namespace:  "AWS/EC2",
			MetricName: "CPUUtilization",
			Dimensions: []common.MetricDimension{{Name: "InstanceId", Value: "i-1"}},
			Statistics: "p99",
		}, props)
		assert.Equal(t, "CPUUtilization - [InstanceId: i-1]", ExpressionFromProps(props))
	})
	t.Run("empty statistics defaults to average", func(t *testing.T) {
		t.Parallel()

		props, err := BuildSelection(Selection{
			Region:    "us-west-2",
			Namespace: "AWS/EC2",
			Metric:    "CPUUtilization - [InstanceId: i-1]",
		})
		require.NoError(t, err)
		assert.Equal(t, string(StatisticsAverage), props.Statistics)
	})
}
