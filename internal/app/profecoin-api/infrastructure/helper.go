package infrastructure

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func NewHelper(config *Config) *Helper {
	return &Helper{config: *config}
}

type Helper struct {
	config Config
}

func (h *Helper) Unix() int64 {
	return time.Now().Unix()
}

// SetupLogger applies LOG_LEVEL and LOG_PRETTY to the global zerolog logger.
// An unknown level falls back to info.
func (h *Helper) SetupLogger() {
	level, err := zerolog.ParseLevel(h.config.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if h.config.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
