package metricexpr

import "errors"

// ErrMalformedExpression signals a metric expression without any name/dimensions separator
var ErrMalformedExpression = errors.New("malformed metric expression")

// ErrInvalidStatistics signals a statistics value outside the supported list
var ErrInvalidStatistics = errors.New("invalid statistics")

// ErrEmptyNamespace signals a selection committed without a namespace
var ErrEmptyNamespace = errors.New("empty namespace")
