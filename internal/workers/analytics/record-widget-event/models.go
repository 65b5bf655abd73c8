// internal/workers/analytics/record-widget-event/models.go
package recordwidgetevent

type Input struct {
	TenantID  string                 `json:"tenantId"`
	SessionID string                 `json:"sessionId"`
	EventType string                 `json:"eventType"`
	ProductID string                 `json:"productId,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

type Output struct {
	EventID  string `json:"eventId"`
	Recorded bool   `json:"recorded"`
}
