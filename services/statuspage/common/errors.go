package common

import "errors"

// ErrEventNotFound signals a request for an unknown incident or maintenance
var ErrEventNotFound = errors.New("event not found")
