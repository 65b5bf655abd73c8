// internal/workers/recommendation/recommend-size/handler.go
package recommendsize

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fitengine-workers/internal/common/logger"
	"fitengine-workers/internal/common/metrics"
	"fitengine-workers/internal/models"
	"fitengine-workers/internal/sizing/engine"
	"fitengine-workers/internal/sizing/estimator"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "recommend-size"
)

var (
	ErrProductNotFound      = errors.New("PRODUCT_NOT_FOUND")
	ErrMissingBody          = errors.New("PROFILE_INVALID")
	ErrRecommendationFailed = errors.New("RECOMMENDATION_FAILED")
)

// quickModeChart is a generic unisex top chart used when the caller
// has neither a catalog product nor inline garment data.
var quickModeChart = models.SizeChart{
	"S":  {"chest_width": 104, "length": 72},
	"M":  {"chest_width": 110, "length": 74},
	"L":  {"chest_width": 116, "length": 76},
	"XL": {"chest_width": 122, "length": 78},
}

type Handler struct {
	config    *Config
	db        *sql.DB
	redis     *redis.Client
	estimator *estimator.Estimator
	engine    *engine.Engine
	logger    logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		db:        db,
		redis:     redisClient,
		estimator: estimator.New(nil),
		engine:    engine.New(nil),
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, errorCode(err), err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	body, err := h.resolveBody(input)
	if err != nil {
		return nil, err
	}

	spec, err := h.resolveProduct(ctx, input)
	if err != nil {
		return nil, err
	}

	fitType := spec.FitType
	if fitType == "" {
		fitType = models.FitTypeRegular
	}

	preferredFit := models.PreferTrueToSize
	if input.UserProfile != nil && input.UserProfile.PreferredFit != "" {
		preferredFit = input.UserProfile.PreferredFit
	}

	rec, err := h.engine.Recommend(body, spec.SizeChart, fitType, spec.FabricComposition, preferredFit)
	if err != nil {
		return nil, err
	}

	metrics.RecommendationsServed.WithLabelValues(rec.RecommendedSize).Inc()
	metrics.RecommendationConfidence.Observe(float64(rec.ConfidenceScore))

	h.logger.Info("size recommended", map[string]interface{}{
		"recommendedSize": rec.RecommendedSize,
		"confidence":      rec.ConfidenceScore,
		"alternative":     rec.AlternativeSize,
	})

	return &Output{
		Recommendation:   rec,
		BodyMeasurements: body,
	}, nil
}

func (h *Handler) resolveBody(input *Input) (models.Measurements, error) {
	if len(input.Measurements) > 0 {
		return input.Measurements, nil
	}
	if input.UserProfile == nil {
		return nil, fmt.Errorf("%w: userProfile or measurements required", ErrMissingBody)
	}
	return h.estimator.Estimate(*input.UserProfile)
}

func (h *Handler) resolveProduct(ctx context.Context, input *Input) (*ProductSpec, error) {
	if input.Product != nil {
		return input.Product, nil
	}
	if input.ProductID != "" {
		return h.getProduct(ctx, input.ProductID)
	}
	if input.QuickMode {
		return &ProductSpec{
			FitType:           models.FitTypeRegular,
			FabricComposition: models.FabricComposition{"cotton": 100},
			SizeChart:         quickModeChart,
		}, nil
	}
	return nil, fmt.Errorf("%w: product, productId or quickMode required", ErrProductNotFound)
}

func (h *Handler) getProduct(ctx context.Context, productID string) (*ProductSpec, error) {
	cacheKey := "product:spec:" + productID
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var spec ProductSpec
		if err := json.Unmarshal([]byte(val), &spec); err == nil {
			return &spec, nil
		}
	}

	row := h.db.QueryRowContext(ctx, `
		SELECT fit_type, fabric_composition, size_chart
		FROM products WHERE id = $1 OR external_id = $1`, productID)

	var spec ProductSpec
	var fabric, chart []byte
	err := row.Scan(&spec.FitType, &fabric, &chart)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecommendationFailed, err)
	}

	if err := json.Unmarshal(fabric, &spec.FabricComposition); err != nil {
		spec.FabricComposition = models.FabricComposition{}
	}
	if err := json.Unmarshal(chart, &spec.SizeChart); err != nil {
		return nil, fmt.Errorf("%w: corrupt size chart for %s", ErrRecommendationFailed, productID)
	}

	data, _ := json.Marshal(spec)
	h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)

	return &spec, nil
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrProductNotFound):
		return "PRODUCT_NOT_FOUND"
	case errors.Is(err, engine.ErrEmptySizeChart):
		return "SIZE_CHART_EMPTY"
	case errors.Is(err, ErrMissingBody), errors.Is(err, estimator.ErrInvalidProfile):
		return "PROFILE_INVALID"
	default:
		return "RECOMMENDATION_FAILED"
	}
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
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
