package commonGo

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-chain-logger-go/file"
)

// AttachFileLogger attaches, if required, a log file
func AttachFileLogger(
	log logger.Logger,
	defaultLogsPath string,
	logFilePrefix string,
	saveLogFile bool,
	workingDir string) (FileLoggingHandler, error) {
	if !saveLogFile {
		return nil, nil
	}

	argsFileLogging := file.ArgsFileLogging{
		WorkingDir:      workingDir,
		DefaultLogsPath: defaultLogsPath,
		LogFilePrefix:   logFilePrefix,
	}
	logFile, err := file.NewFileLogging(argsFileLogging)
	if err != nil {
		return nil, fmt.Errorf("%w creating a log file", err)
	}

	log.Debug("attached file logger", "path", defaultLogsPath, "prefix", logFilePrefix)

	return logFile, nil
}

// ReadEnvFile reads the .env file and fills the provided map. Every key present in the map is mandatory,
// keys listed in optional may be missing and keep their initial value
func ReadEnvFile(envFile string, m map[string]string, optional ...string) error {
	err := godotenv.Load(envFile)
	if err != nil {
		return err
	}

	isOptional := make(map[string]struct{}, len(optional))
	for _, key := range optional {
		isOptional[key] = struct{}{}
	}

	for k := range m {
		val := os.Getenv(k)
		if len(val) > 0 {
			m[k] = val
			continue
		}

		_, found := isOptional[k]
		if !found {
			return fmt.Errorf("%s is not set in the .env file", k)
		}
	}

	return nil
}

// CronJobStarter is able to start a go routine that periodically calls the provided handler. The time between calls is
// provided as timeToCall
func CronJobStarter(ctx context.Context, handler func(ctx context.Context), timeToCall time.Duration) {
	go func() {
		timer := time.NewTimer(timeToCall)
		defer timer.Stop()

		handler(ctx)

		for {
			select {
			case <-timer.C:
				handler(ctx)
				timer.Reset(timeToCall)
			case <-ctx.Done():
				return
			}
		}
	}()
}
