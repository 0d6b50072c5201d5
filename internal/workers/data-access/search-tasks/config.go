// internal/workers/data-access/search-tasks/config.go
package searchtasks

import "time"

type Config struct {
	Index       string
	DefaultSize int
	Timeout     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Index:       "meeting-tasks",
		DefaultSize: 20,
		Timeout:     10 * time.Second,
	}
}
