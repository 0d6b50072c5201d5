package transcribeaudio

import (
	"os"
	"time"
)

type Config struct {
	BaseURL        string
	APIKey         string
	PollInterval   time.Duration
	PollTimeout    time.Duration
	RequestTimeout time.Duration
	Timeout        time.Duration
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:        "https://api.assemblyai.com/v2",
		APIKey:         os.Getenv("ASSEMBLYAI_API_KEY"),
		PollInterval:   3 * time.Second,
		PollTimeout:    300 * time.Second,
		RequestTimeout: 60 * time.Second,
		Timeout:        330 * time.Second,
	}
}
