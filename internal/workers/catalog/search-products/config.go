// internal/workers/catalog/search-products/config.go
package searchproducts

import "time"

type Config struct {
	DefaultIndex string
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultIndex: "products",
		Timeout:      15 * time.Second,
	}
}
