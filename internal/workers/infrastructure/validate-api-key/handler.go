// internal/workers/infrastructure/validate-api-key/handler.go
package validateapikey

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	commonerrors "fitengine-workers/internal/common/errors"
	"fitengine-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "validate-api-key"
)

var (
	ErrInvalidKey      = errors.New("AUTH_INVALID_KEY")
	ErrInactiveKey     = errors.New("AUTH_INACTIVE_KEY")
	ErrAuthCheckFailed = errors.New("AUTH_CHECK_FAILED")
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  redisClient,
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
		errorCode := "UNKNOWN_ERROR"
		if errors.Is(err, ErrInvalidKey) || errors.Is(err, ErrInactiveKey) {
			errorCode = err.Error()
		} else if errors.Is(err, ErrAuthCheckFailed) {
			errorCode = "AUTH_CHECK_FAILED"
		}
		retries := int32(commonerrors.GetRetryCount(commonerrors.ErrorCode(errorCode)))
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	apiKey := strings.TrimSpace(input.APIKey)
	if apiKey == "" {
		return nil, ErrInvalidKey
	}

	// The demo key always resolves, so integrators can try the widget
	// before onboarding.
	if apiKey == h.config.DemoAPIKey {
		return &Output{
			IsValid:    true,
			TenantID:   h.config.DemoTenantID,
			TenantName: "Demo Tenant",
		}, nil
	}

	cacheKey := "tenant:key:" + apiKey
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var tenant tenantRecord
		if err := json.Unmarshal([]byte(val), &tenant); err == nil {
			return h.verdict(&tenant, input.Origin)
		}
	}

	var tenant tenantRecord
	query := `SELECT id, name, domain, is_active FROM tenants WHERE api_key = $1`
	err := h.db.QueryRowContext(ctx, query, apiKey).Scan(
		&tenant.ID, &tenant.Name, &tenant.Domain, &tenant.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidKey
		}
		return nil, fmt.Errorf("%w: %v", ErrAuthCheckFailed, err)
	}

	data, _ := json.Marshal(tenant)
	h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)

	return h.verdict(&tenant, input.Origin)
}

// verdict applies the checks shared by the cached and database paths.
// The origin check runs on every request; only the tenant row is
// cached, never the outcome.
func (h *Handler) verdict(tenant *tenantRecord, origin string) (*Output, error) {
	if !tenant.IsActive {
		return nil, ErrInactiveKey
	}

	if origin != "" && tenant.Domain != "" && !originMatchesDomain(origin, tenant.Domain) {
		h.logger.Warn("origin does not match tenant domain", map[string]interface{}{
			"tenantId": tenant.ID,
			"origin":   origin,
		})
		return nil, ErrInvalidKey
	}

	return &Output{IsValid: true, TenantID: tenant.ID, TenantName: tenant.Name}, nil
}

func originMatchesDomain(origin, domain string) bool {
	origin = strings.TrimPrefix(origin, "https://")
	origin = strings.TrimPrefix(origin, "http://")
	origin = strings.SplitN(origin, "/", 2)[0]
	origin = strings.SplitN(origin, ":", 2)[0]

	return origin == domain || strings.HasSuffix(origin, "."+domain)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
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
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
