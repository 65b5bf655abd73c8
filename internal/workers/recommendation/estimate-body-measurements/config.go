// internal/workers/recommendation/estimate-body-measurements/config.go
package estimatebodymeasurements

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
