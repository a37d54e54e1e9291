package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// GetLogger returns zap.Logger instance, but using singleton pattern creates only one reusable instace
// production config by default, development config when APP_ENV=development
func GetLogger() *zap.Logger {
	once.Do(func() {
		var err error
		if os.Getenv("APP_ENV") == "development" {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			panic("failed logger setup : " + err.Error())
		}

	})
	return logger
}

// Sync flushes any buffered log entries, meant to be deferred from main
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
