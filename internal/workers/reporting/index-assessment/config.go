package indexassessment

import (
	"time"

	"coaching-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// IncludeCounts asks for the per-verdict totals of the program after indexing.
	IncludeCounts bool
}

func LoadConfig(wc config.WorkerConfig) *Config {
	return &Config{Timeout: config.GetDuration(wc.Timeout), IncludeCounts: true}
}
