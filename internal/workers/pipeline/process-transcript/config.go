package processtranscript

import "time"

type Config struct {
	// Timeout covers transcription as well, so it is longer than the
	// transcription service's own polling limit.
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 6 * time.Minute,
	}
}
