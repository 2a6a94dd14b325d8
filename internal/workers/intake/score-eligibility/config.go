package scoreeligibility

import (
	"time"

	"coaching-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

// LoadConfig derives the handler settings from the worker section of the app config.
// Scoring waits on remote lookups, so the timeout never drops below 15s.
func LoadConfig(wc config.WorkerConfig) *Config {
	timeout := config.GetDuration(wc.Timeout)
	if timeout < 15*time.Second {
		timeout = 15 * time.Second
	}
	return &Config{Timeout: timeout}
}
