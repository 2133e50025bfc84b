package testsCommon

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
)

// CloudWatchClientStub -
type CloudWatchClientStub struct {
	cloudwatchiface.CloudWatchAPI
	ListMetricsPagesHandler func(input *cloudwatch.ListMetricsInput, fn func(*cloudwatch.ListMetricsOutput, bool) bool) error
}

// ListMetricsPagesWithContext -
func (stub *CloudWatchClientStub) ListMetricsPagesWithContext(
	_ aws.Context,
	input *cloudwatch.ListMetricsInput,
	fn func(*cloudwatch.ListMetricsOutput, bool) bool,
	_ ...request.Option,
) error {
	if stub.ListMetricsPagesHandler != nil {
		return stub.ListMetricsPagesHandler(input, fn)
	}

	return nil
}
