// internal/workers/catalog/ingest-product/handler.go
package ingestproduct

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	commonerrors "fitengine-workers/internal/common/errors"
	"fitengine-workers/internal/common/logger"
	"fitengine-workers/internal/common/validation"
	"fitengine-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "ingest-product"
)

var (
	ErrValidationFailed = errors.New("PRODUCT_VALIDATION_FAILED")
	ErrInsertFailed     = errors.New("PRODUCT_INSERT_FAILED")
	ErrDuplicateProduct = errors.New("DUPLICATE_PRODUCT")
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	es     *elasticsearch.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, es *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  redisClient,
		es:     es,
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
		errorCode := "PRODUCT_INSERT_FAILED"
		if errors.Is(err, ErrValidationFailed) {
			errorCode = "PRODUCT_VALIDATION_FAILED"
		} else if errors.Is(err, ErrDuplicateProduct) {
			errorCode = "DUPLICATE_PRODUCT"
		}
		retries := int32(commonerrors.GetRetryCount(commonerrors.ErrorCode(errorCode)))
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	result := validation.ValidateProduct(input.Product)
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, summarizeErrors(result))
	}

	product, err := decodeProduct(input.Product)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if product.ExternalID != "" {
		var exists bool
		err := h.db.QueryRowContext(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM products
				WHERE tenant_id = $1 AND external_id = $2
			)`, product.TenantID, product.ExternalID).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrInsertFailed, err)
		}
		if exists {
			return nil, fmt.Errorf("%w: product %s already exists for tenant %s",
				ErrDuplicateProduct, product.ExternalID, product.TenantID)
		}
	}

	product.ID = uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	fabricJSON, err := json.Marshal(product.FabricComposition)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal fabric composition: %v", ErrInsertFailed, err)
	}
	chartJSON, err := json.Marshal(product.SizeChart)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal size chart: %v", ErrInsertFailed, err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO products (
			id, external_id, tenant_id, name, brand, category,
			image_url, product_url, fit_type, fabric_composition, size_chart,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
		product.ID,
		product.ExternalID,
		product.TenantID,
		product.Name,
		product.Brand,
		product.Category,
		product.ImageURL,
		product.ProductURL,
		product.FitType,
		fabricJSON,
		chartJSON,
		createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert failed: %v", ErrInsertFailed, err)
	}

	// Stale cache entries are keyed by both ids.
	h.redis.Del(ctx, "product:spec:"+product.ID, "product:spec:"+product.ExternalID)

	indexed := h.indexProduct(ctx, product)

	h.logger.Info("product ingested", map[string]interface{}{
		"productId": product.ID,
		"tenantId":  product.TenantID,
		"indexed":   indexed,
	})

	return &Output{
		ProductID:  product.ID,
		Status:     "created",
		Indexed:    indexed,
		Validation: result,
	}, nil
}

// indexProduct mirrors the product into Elasticsearch for search.
// Indexing failures are logged, not fatal: the catalog row is the
// source of truth.
func (h *Handler) indexProduct(ctx context.Context, product *models.Product) bool {
	if h.es == nil {
		return false
	}

	doc, err := json.Marshal(product)
	if err != nil {
		h.logger.Warn("failed to marshal product for indexing", map[string]interface{}{
			"productId": product.ID,
			"error":     err,
		})
		return false
	}

	req := esapi.IndexRequest{
		Index:      h.config.ProductIndex,
		DocumentID: product.ID,
		Body:       bytes.NewReader(doc),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, h.es)
	if err != nil {
		h.logger.Warn("failed to index product", map[string]interface{}{
			"productId": product.ID,
			"error":     err,
		})
		return false
	}
	defer res.Body.Close()

	if res.IsError() {
		h.logger.Warn("elasticsearch rejected product document", map[string]interface{}{
			"productId": product.ID,
			"status":    res.StatusCode,
		})
		return false
	}

	return true
}

func decodeProduct(payload map[string]interface{}) (*models.Product, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var raw productPayload
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	product := &models.Product{
		ExternalID:        raw.ExternalID,
		TenantID:          raw.TenantID,
		Name:              raw.Name,
		Brand:             raw.Brand,
		Category:          raw.Category,
		ImageURL:          raw.ImageURL,
		ProductURL:        raw.ProductURL,
		FitType:           models.FitType(raw.FitType),
		FabricComposition: raw.FabricComposition,
		SizeChart:         models.SizeChart{},
	}
	for size, measurements := range raw.SizeChart {
		product.SizeChart[size] = models.GarmentMeasurements(measurements)
	}
	return product, nil
}

func summarizeErrors(result *validation.ValidationResult) string {
	if len(result.Errors) == 0 {
		return "invalid product"
	}
	first := result.Errors[0]
	if len(result.Errors) == 1 {
		return fmt.Sprintf("%s: %s", first.Field, first.Message)
	}
	return fmt.Sprintf("%s: %s (and %d more)", first.Field, first.Message, len(result.Errors)-1)
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
