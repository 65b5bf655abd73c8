// internal/workers/communication/send-fit-report/config.go
package sendfitreport

import "time"

type Config struct {
	EmailEnabled      bool
	SMSEnabled        bool
	FromEmail         string
	AWSRegion         string
	PriorityThreshold string
	Timeout           time.Duration
}

func LoadConfig() *Config {
	return &Config{
		FromEmail:         "reports@fitengine.io",
		AWSRegion:         "eu-central-1",
		PriorityThreshold: "high",
		Timeout:           30 * time.Second,
	}
}
