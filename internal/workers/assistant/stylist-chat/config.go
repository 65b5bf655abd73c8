// internal/workers/assistant/stylist-chat/config.go
package stylistchat

import "time"

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	MaxTokens   int
	Temperature float64
}

func LoadConfig() *Config {
	return &Config{
		Model:       "gpt-4o-mini",
		Timeout:     20 * time.Second,
		MaxRetries:  1,
		MaxTokens:   500,
		Temperature: 0.7,
	}
}
