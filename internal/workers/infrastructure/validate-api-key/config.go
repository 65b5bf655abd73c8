// internal/workers/infrastructure/validate-api-key/config.go
package validateapikey

import "time"

type Config struct {
	CacheTTL     time.Duration
	Timeout      time.Duration
	DemoTenantID string
	DemoAPIKey   string
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL:     5 * time.Minute,
		Timeout:      10 * time.Second,
		DemoTenantID: "demo-tenant",
		DemoAPIKey:   "test-api-key",
	}
}
