package metricexpr

import (
	"fmt"
	"strings"

	"github.com/iulianpascalau/status-page/services/statuspage/common"
)

const (
	separator        = " - ["
	compactSeparator = "-["
	dimsSeparator    = ", "
	dimValueSep      = ": "
	closingBracket   = "]"
)

// Encode builds the metric expression displayed in the metrics dropdown:
// "<name> - [<dim1.name>: <dim1.value>, <dim2.name>: <dim2.value>]"
func Encode(identity common.MetricIdentity) string {
	dims := make([]string, 0, len(identity.Dimensions))
	for _, dim := range identity.Dimensions {
		dims = append(dims, dim.Name+dimValueSep+dim.Value)
	}

	return identity.Name + separator + strings.Join(dims, dimsSeparator) + closingBracket
}

// Decode parses a metric expression produced by Encode. The compact "<name>-[...]" form emitted by
// some browsers is also accepted. The expression must end with the closing bracket
func Decode(expression string) (common.MetricIdentity, error) {
	if !strings.HasSuffix(expression, closingBracket) {
		return common.MetricIdentity{}, fmt.Errorf("%w: %q", ErrMalformedExpression, expression)
	}

	sep := separator
	splitIndex := strings.Index(expression, sep)
	if splitIndex < 0 {
		sep = compactSeparator
		splitIndex = strings.Index(expression, sep)
	}
	if splitIndex < 0 {
		return common.MetricIdentity{}, fmt.Errorf("%w: %q", ErrMalformedExpression, expression)
	}

	identity := common.MetricIdentity{
		Name:       expression[:splitIndex],
		Dimensions: make([]common.MetricDimension, 0),
	}

	bodyStart := splitIndex + len(sep)
	bodyEnd := len(expression) - len(closingBracket)
	if bodyEnd <= bodyStart {
		return identity, nil
	}

	for _, rawDim := range strings.Split(expression[bodyStart:bodyEnd], dimsSeparator) {
		identity.Dimensions = append(identity.Dimensions, decodeDimension(rawDim))
	}

	return identity, nil
}

func decodeDimension(rawDim string) common.MetricDimension {
	name, value, found := strings.Cut(rawDim, dimValueSep)
	if !found {
		return common.MetricDimension{Value: rawDim}
	}

	return common.MetricDimension{
		Name:  name,
		Value: value,
	}
}
