package indextasks

import "time"

type Config struct {
	Index   string
	Refresh bool
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Index:   "meeting-tasks",
		Refresh: false,
		Timeout: 15 * time.Second,
	}
}
