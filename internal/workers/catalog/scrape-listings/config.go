// internal/workers/catalog/scrape-listings/config.go
package scrapelistings

import "time"

type Config struct {
	UserAgent   string
	Timeout     time.Duration
	MaxRetries  int
	MaxListings int
}

func LoadConfig() *Config {
	return &Config{
		UserAgent:   "fitengine-bot/1.0",
		Timeout:     15 * time.Second,
		MaxRetries:  2,
		MaxListings: 50,
	}
}
