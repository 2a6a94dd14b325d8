package senddecisionnotification

import (
	"time"

	"coaching-workers/internal/common/config"
)

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	SMSSenderID  string
	Timeout      time.Duration
}

func LoadConfig(wc config.WorkerConfig, nc config.NotificationConfig) *Config {
	return &Config{
		EmailEnabled: nc.Email.Enabled,
		SMSEnabled:   nc.SMS.Enabled,
		FromEmail:    nc.Email.FromEmail,
		SMSSenderID:  nc.SMS.SenderID,
		Timeout:      config.GetDuration(wc.Timeout),
	}
}
