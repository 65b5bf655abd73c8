// internal/workers/assistant/stylist-chat/models.go
package stylistchat

import "fitengine-workers/internal/models"

type Input struct {
	Question       string                 `json:"question"`
	Language       string                 `json:"language,omitempty"` // "en" or "tr"
	Recommendation *models.Recommendation `json:"recommendation,omitempty"`
	BodyAnalysis   *models.BodyAnalysis   `json:"bodyAnalysis,omitempty"`
	ProductName    string                 `json:"productName,omitempty"`
}

type Output struct {
	Reply  string `json:"reply"`
	Source string `json:"source"` // "llm" or "rules"
	Model  string `json:"model,omitempty"`
}

// OpenAI-compatible chat completion wire types.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
