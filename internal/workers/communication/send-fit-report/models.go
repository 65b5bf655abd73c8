// internal/workers/communication/send-fit-report/models.go
package sendfitreport

import "fitengine-workers/internal/models"

type Input struct {
	TenantID       string                 `json:"tenantId"`
	SessionID      string                 `json:"sessionId,omitempty"`
	ReportType     string                 `json:"reportType"`
	RecipientEmail string                 `json:"recipientEmail,omitempty"`
	RecipientPhone string                 `json:"recipientPhone,omitempty"`
	Language       string                 `json:"language,omitempty"` // "en" or "tr"
	Priority       string                 `json:"priority,omitempty"`
	ProductName    string                 `json:"productName,omitempty"`
	Recommendation *models.Recommendation `json:"recommendation,omitempty"`
	Analysis       *models.BodyAnalysis   `json:"analysis,omitempty"`
}

type Output struct {
	ReportID string   `json:"reportId"`
	Status   string   `json:"status"` // "sent", "failed", "disabled"
	Channels []string `json:"channels,omitempty"`
	SentAt   string   `json:"sentAt"` // ISO 8601
}

// Report types
const (
	TypeSizeRecommendation = "size_recommendation"
	TypeFitAnalysis        = "fit_analysis"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
