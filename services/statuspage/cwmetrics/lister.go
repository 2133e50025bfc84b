package cwmetrics

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"github.com/iulianpascalau/status-page/services/statuspage/common"
)

// ClientFactory creates the CloudWatch client of a region
type ClientFactory func(region string) (cloudwatchiface.CloudWatchAPI, error)

type cwmLister struct {
	newClient ClientFactory
}

// NewAWSClientFactory creates clients from the default AWS credentials chain
func NewAWSClientFactory() ClientFactory {
	return func(region string) (cloudwatchiface.CloudWatchAPI, error) {
		sess, err := session.NewSession(aws.NewConfig().WithRegion(region))
		if err != nil {
			return nil, fmt.Errorf("%w while creating the AWS session", err)
		}

		return cloudwatch.New(sess), nil
	}
}

// NewMetricsLister creates a lister that pages through all the metrics of a region
func NewMetricsLister(factory ClientFactory) (*cwmLister, error) {
	if factory == nil {
		return nil, errNilClientFactory
	}

	return &cwmLister{
		newClient: factory,
	}, nil
}

// ListMetrics returns every metric of every namespace from the provided region
func (l *cwmLister) ListMetrics(ctx context.Context, region string) ([]common.Metric, error) {
	client, err := l.newClient(region)
	if err != nil {
		return nil, err
	}

	result := make([]common.Metric, 0)
	err = client.ListMetricsPagesWithContext(ctx, &cloudwatch.ListMetricsInput{},
		func(page *cloudwatch.ListMetricsOutput, lastPage bool) bool {
			for _, met := range page.Metrics {
				result = append(result, convertMetric(met))
			}
			return page.NextToken != nil
		})
	if err != nil {
		return nil, fmt.Errorf("%w while listing the metrics of %s", err, region)
	}

	return result, nil
}

func convertMetric(met *cloudwatch.Metric) common.Metric {
	dims := make([]common.MetricDimension, 0, len(met.Dimensions))
	for _, dim := range met.Dimensions {
		dims = append(dims, common.MetricDimension{
			Name:  aws.StringValue(dim.Name),
			Value: aws.StringValue(dim.Value),
		})
	}

	return common.Metric{
		Namespace:  aws.StringValue(met.Namespace),
		Name:       aws.StringValue(met.MetricName),
		Dimensions: dims,
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (l *cwmLister) IsInterfaceNil() bool {
	return l == nil
}
