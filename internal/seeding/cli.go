package seeding

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/eventboard/pkg/logger"
)

// SetupLogging sends log output to stdout and to logFile. An empty logFile
// gets a timestamped name. The returned closer releases the file.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	if logFile == "" {
		logFile = "seed_log_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.InitWithOptions(io.MultiWriter(os.Stdout, file), logger.FormatText); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return file, nil
}
