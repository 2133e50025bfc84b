package commonGo

import "time"

// FileLoggingHandler defines the operations of the rotating log file attached by AttachFileLogger
type FileLoggingHandler interface {
	ChangeFileLifeSpan(newDuration time.Duration, newSizeInMB uint64) error
	Close() error
	IsInterfaceNil() bool
}
