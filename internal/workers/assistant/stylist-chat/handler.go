// internal/workers/assistant/stylist-chat/handler.go
package stylistchat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	commonerrors "fitengine-workers/internal/common/errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "stylist-chat"
)

var (
	ErrStylistTimeout    = errors.New("STYLIST_TIMEOUT")
	ErrStylistChatFailed = errors.New("STYLIST_CHAT_FAILED")
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config *Config
	client *http.Client
	logger Logger
}

func NewHandler(config *Config, log Logger) *Handler {
	return &Handler{
		config: config,
		// No client timeout, the request context carries the deadline.
		client: &http.Client{},
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "STYLIST_CHAT_FAILED"
		if errors.Is(err, ErrStylistTimeout) {
			errorCode = "STYLIST_TIMEOUT"
		}
		retries := int32(commonerrors.GetRetryCount(commonerrors.ErrorCode(errorCode)))
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, fmt.Errorf("%w: question is required", ErrStylistChatFailed)
	}

	if h.config.APIKey == "" {
		return h.ruleBasedReply(input), nil
	}

	reply, err := h.callLLM(ctx, input)
	if err != nil {
		if errors.Is(err, ErrStylistTimeout) {
			return nil, err
		}
		// Degrade to the rule-based stylist instead of failing the chat.
		h.logger.Warn("LLM call failed, using rule-based reply", map[string]interface{}{
			"error": err.Error(),
		})
		return h.ruleBasedReply(input), nil
	}

	return &Output{
		Reply:  reply,
		Source: "llm",
		Model:  h.config.Model,
	}, nil
}

func (h *Handler) callLLM(ctx context.Context, input *Input) (string, error) {
	requestBody := chatRequest{
		Model: h.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: h.systemPrompt(input)},
			{Role: "user", Content: input.Question},
		},
		MaxTokens:   h.config.MaxTokens,
		Temperature: h.config.Temperature,
	}

	body, _ := json.Marshal(requestBody)

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ErrStylistTimeout
			}
		}

		// Fresh request per attempt so the body is readable on retries.
		req, err := http.NewRequestWithContext(ctx, "POST", h.config.BaseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrStylistChatFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+h.config.APIKey)

		resp, lastErr = h.client.Do(req)
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}

		if ctx.Err() != nil {
			return "", ErrStylistTimeout
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrStylistTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrStylistChatFailed, lastErr)
	}
	defer resp.Body.Close()

	var apiResponse chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrStylistChatFailed, err)
	}
	if len(apiResponse.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrStylistChatFailed)
	}

	reply := stripCodeFences(apiResponse.Choices[0].Message.Content)
	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("%w: blank reply", ErrStylistChatFailed)
	}
	return reply, nil
}

func (h *Handler) systemPrompt(input *Input) string {
	var parts []string

	parts = append(parts, "You are a friendly personal stylist for an online clothing store. Give short, practical fit and styling advice grounded ONLY in the provided data. Do not invent measurements.")

	if input.Language == "tr" {
		parts = append(parts, "Answer in Turkish.")
	} else {
		parts = append(parts, "Answer in English.")
	}

	if input.ProductName != "" {
		parts = append(parts, fmt.Sprintf("Product: %s", input.ProductName))
	}

	if input.Recommendation != nil {
		recJSON, _ := json.MarshalIndent(input.Recommendation, "", "  ")
		parts = append(parts, "Size recommendation data:")
		parts = append(parts, string(recJSON))
	}

	if input.BodyAnalysis != nil {
		analysisJSON, _ := json.MarshalIndent(input.BodyAnalysis, "", "  ")
		parts = append(parts, "Body analysis data:")
		parts = append(parts, string(analysisJSON))
	}

	return strings.Join(parts, "\n")
}

// ruleBasedReply answers from the recommendation alone when no LLM is
// configured or reachable.
func (h *Handler) ruleBasedReply(input *Input) *Output {
	var parts []string

	if rec := input.Recommendation; rec != nil {
		if input.Language == "tr" {
			parts = append(parts, fmt.Sprintf("Size %s bedenini öneriyoruz (uyum puanı %d/100).", rec.RecommendedSize, rec.ConfidenceScore))
			if rec.FitDescriptionTR != "" {
				parts = append(parts, rec.FitDescriptionTR)
			}
			if rec.AlternativeSize != "" {
				parts = append(parts, fmt.Sprintf("%s bedeni de iyi bir seçenek olabilir.", rec.AlternativeSize))
			}
		} else {
			parts = append(parts, fmt.Sprintf("We recommend size %s (fit score %d/100).", rec.RecommendedSize, rec.ConfidenceScore))
			if rec.FitDescription != "" {
				parts = append(parts, rec.FitDescription)
			}
			if rec.AlternativeSize != "" {
				parts = append(parts, fmt.Sprintf("Size %s could also work for you.", rec.AlternativeSize))
			}
			if rec.Notes != "" {
				parts = append(parts, rec.Notes)
			}
		}
	} else {
		if input.Language == "tr" {
			parts = append(parts, "Beden önerisi için lütfen boy ve kilo bilgilerinizi girin.")
		} else {
			parts = append(parts, "Please enter your height and weight so I can suggest a size.")
		}
	}

	return &Output{
		Reply:  strings.Join(parts, " "),
		Source: "rules",
	}
}

// stripCodeFences removes a wrapping markdown fence some models add.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
