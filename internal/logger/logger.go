package logger

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once sync.Once
	log  zerolog.Logger
)

// Get returns the process-wide logger, initializing it on first use.
func Get() *zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339
		level := zerolog.InfoLevel
		if os.Getenv("LOG_DEBUG") == "true" {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	})
	return &log
}
