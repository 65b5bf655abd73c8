// internal/workers/analytics/record-widget-event/handler.go
package recordwidgetevent

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	commonerrors "fitengine-workers/internal/common/errors"
	"fitengine-workers/internal/common/logger"
	"fitengine-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "record-widget-event"
)

var (
	ErrEventInvalid      = errors.New("EVENT_INVALID")
	ErrEventRecordFailed = errors.New("EVENT_RECORD_FAILED")
)

// eventTypes lists the widget funnel events the dashboard knows about.
var eventTypes = map[string]bool{
	"widget_open":          true,
	"profile_submitted":    true,
	"recommendation_shown": true,
	"size_selected":        true,
	"add_to_cart":          true,
	"chat_message":         true,
}

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		errorCode := "EVENT_RECORD_FAILED"
		if errors.Is(err, ErrEventInvalid) {
			errorCode = "EVENT_INVALID"
		}
		retries := int32(commonerrors.GetRetryCount(commonerrors.ErrorCode(errorCode)))
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.TenantID == "" || input.SessionID == "" {
		return nil, fmt.Errorf("%w: tenantId and sessionId are required", ErrEventInvalid)
	}
	if !eventTypes[input.EventType] {
		return nil, fmt.Errorf("%w: unknown event type %q", ErrEventInvalid, input.EventType)
	}

	eventID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	payloadJSON, err := json.Marshal(input.Payload)
	if err != nil {
		h.logger.Warn("failed to marshal event payload", map[string]interface{}{
			"error": err,
		})
		payloadJSON = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO widget_events (id, tenant_id, session_id, event_type, product_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		eventID,
		input.TenantID,
		input.SessionID,
		input.EventType,
		input.ProductID,
		payloadJSON,
		createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert failed: %v", ErrEventRecordFailed, err)
	}

	metrics.WidgetEventsRecorded.WithLabelValues(input.EventType).Inc()

	h.logger.Info("widget event recorded", map[string]interface{}{
		"eventId":   eventID,
		"tenantId":  input.TenantID,
		"eventType": input.EventType,
	})

	return &Output{EventID: eventID, Recorded: true}, nil
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
