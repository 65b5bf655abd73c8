// internal/workers/analytics/record-widget-event/config.go
package recordwidgetevent

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
