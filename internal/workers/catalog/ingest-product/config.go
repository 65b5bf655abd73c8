// internal/workers/catalog/ingest-product/config.go
package ingestproduct

import "time"

type Config struct {
	ProductIndex string
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		ProductIndex: "products",
		Timeout:      15 * time.Second,
	}
}
