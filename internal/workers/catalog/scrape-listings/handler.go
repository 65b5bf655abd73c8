// internal/workers/catalog/scrape-listings/handler.go
package scrapelistings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	httpclient "fitengine-workers/internal/common/http"
	"fitengine-workers/internal/models"
)

const (
	TaskType = "scrape-listings"
)

var (
	ErrScrapeFetchFailed = errors.New("SCRAPE_FETCH_FAILED")
	ErrScrapeTimeout     = errors.New("SCRAPE_TIMEOUT")
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
	client *httpclient.Client
	logger Logger
}

func NewHandler(config *Config, log Logger) *Handler {
	return &Handler{
		config: config,
		client: httpclient.NewClient(config.Timeout),
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
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "SCRAPE_FETCH_FAILED"
		if errors.Is(err, ErrScrapeTimeout) {
			errorCode = "SCRAPE_TIMEOUT"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.TenantID == "" {
		return nil, fmt.Errorf("%w: tenantId is required", ErrScrapeFetchFailed)
	}
	if len(input.FeedURLs) == 0 {
		return nil, fmt.Errorf("%w: no feed urls given", ErrScrapeFetchFailed)
	}

	output := &Output{Products: []ScrapedProduct{}}

	for _, feedURL := range input.FeedURLs {
		listings, err := h.fetchFeed(ctx, feedURL)
		if err != nil {
			if errors.Is(err, ErrScrapeTimeout) {
				return nil, err
			}
			// A broken feed should not sink the rest of the batch.
			h.logger.Warn("feed fetch failed", map[string]interface{}{
				"feedUrl": feedURL,
				"error":   err.Error(),
			})
			output.Skipped++
			continue
		}
		output.Fetched++

		for _, l := range listings {
			if len(output.Products) >= h.config.MaxListings {
				break
			}
			product, ok := h.normalize(input, l)
			if !ok {
				output.Skipped++
				continue
			}
			output.Products = append(output.Products, product)
		}
	}

	if output.Fetched == 0 {
		return nil, fmt.Errorf("%w: all %d feeds failed", ErrScrapeFetchFailed, len(input.FeedURLs))
	}

	h.logger.Info("listings scraped", map[string]interface{}{
		"tenantId": input.TenantID,
		"products": len(output.Products),
		"fetched":  output.Fetched,
		"skipped":  output.Skipped,
	})

	return output, nil
}

func (h *Handler) fetchFeed(ctx context.Context, feedURL string) ([]listing, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", h.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.DoWithRetry(ctx, req, h.config.MaxRetries)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded ||
			strings.Contains(err.Error(), "timeout") ||
			strings.Contains(err.Error(), "deadline") {
			return nil, ErrScrapeTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %d", resp.StatusCode)
	}

	var f feed
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, err
	}
	return f.Listings, nil
}

// normalize maps one raw listing to an ingest-ready product. Listings
// without a name are dropped; missing size charts fall back to the
// brand chart.
func (h *Handler) normalize(input *Input, l listing) (ScrapedProduct, bool) {
	if strings.TrimSpace(l.Name) == "" {
		return ScrapedProduct{}, false
	}

	brand := l.Brand
	if brand == "" {
		brand = input.Brand
	}

	fitType := l.FitType
	if fitType == "" {
		fitType = string(models.FitTypeRegular)
	}

	product := ScrapedProduct{
		ExternalID:        l.ID,
		TenantID:          input.TenantID,
		Name:              strings.TrimSpace(l.Name),
		Brand:             brand,
		Category:          l.Category,
		ImageURL:          l.ImageURL,
		ProductURL:        l.ProductURL,
		FitType:           fitType,
		FabricComposition: parseFabric(l.Fabric),
	}

	if len(l.SizeChart) > 0 {
		product.SizeChart = models.SizeChart{}
		for size, measurements := range l.SizeChart {
			product.SizeChart[size] = models.GarmentMeasurements(measurements)
		}
		product.ChartSource = "listing"
	} else {
		product.SizeChart = fallbackChart(brand)
		product.ChartSource = "brand_default"
	}

	return product, true
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
