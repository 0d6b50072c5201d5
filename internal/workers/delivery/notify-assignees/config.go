package notifyassignees

import (
	"time"

	"meeting-workers/internal/models"
)

type Config struct {
	EmailEnabled         bool
	SMSEnabled           bool
	FromEmail            string
	SMSPriorityThreshold models.PriorityLevel
	Timeout              time.Duration
}

func LoadConfig() *Config {
	return &Config{
		EmailEnabled:         true,
		SMSEnabled:           true,
		SMSPriorityThreshold: models.PriorityCritical,
		Timeout:              30 * time.Second,
	}
}
