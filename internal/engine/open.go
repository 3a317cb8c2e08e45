package engine

import (
	"fmt"
	"os"

	"go.leafdb/internal/config"
	"go.leafdb/internal/logger"
)

// OpenFromConfig opens name (resolved against the data dir) and logs to a
// per-database file under the log dir.
func OpenFromConfig(cfg *config.Config, name string) (*Database, error) {
	dbPath := cfg.DatabasePath(name)
	logPath := cfg.LogPath(dbPath)

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	logFile, lErr := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
	if lErr != nil {
		return nil, fmt.Errorf("failed to open log file: %w", lErr)
	}

	db, err := Open(dbPath, Options{
		MaxPages: cfg.MaxPages,
		Log:      logger.New(logFile, level),
	})
	if err != nil {
		logFile.Close()
		return nil, err
	}

	db.logFile = logFile
	return db, nil
}
