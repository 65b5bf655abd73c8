// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fitengine-workers/internal/common/config"
	"fitengine-workers/internal/common/database"
	"fitengine-workers/internal/common/logger"
	"fitengine-workers/internal/common/observability"
	"fitengine-workers/pkg/registry"

	// Recommendation Workers (2)
	ebm "fitengine-workers/internal/workers/recommendation/estimate-body-measurements"
	rs "fitengine-workers/internal/workers/recommendation/recommend-size"

	// Catalog Workers (4)
	ip "fitengine-workers/internal/workers/catalog/ingest-product"
	qp "fitengine-workers/internal/workers/catalog/query-products"
	sl "fitengine-workers/internal/workers/catalog/scrape-listings"
	sp "fitengine-workers/internal/workers/catalog/search-products"

	// Assistant Workers (1)
	sc "fitengine-workers/internal/workers/assistant/stylist-chat"

	// Infrastructure, Analytics & Communication Workers (3)
	rwe "fitengine-workers/internal/workers/analytics/record-widget-event"
	sfr "fitengine-workers/internal/workers/communication/send-fit-report"
	vak "fitengine-workers/internal/workers/infrastructure/validate-api-key"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Load Task Registry ---
	registryPath := cfg.RegistryPath
	if registryPath == "" {
		registryPath = "configs/task-registry.json"
	}
	if reg, err := registry.LoadRegistry(registryPath); err != nil {
		zapLog.Warn("task registry not loaded", zap.String("path", registryPath), zap.Error(err))
	} else if err := reg.Validate(); err != nil {
		zapLog.Fatal("task registry invalid", zap.Error(err))
	} else {
		zapLog.Info("task registry loaded", zap.Int("tasks", len(reg.Tasks)))
	}

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- START: Register ALL 10 Workers ---

	// --- 1. Recommendation Workers (2) ---
	if cfg.Workers[ebm.TaskType].Enabled {
		handler := ebm.NewHandler(
			&ebm.Config{
				Timeout: time.Duration(cfg.Workers[ebm.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, ebm.TaskType, cfg.Workers[ebm.TaskType], handler.Handle, obs, zapLog)
	}

	if cfg.Workers[rs.TaskType].Enabled {
		handler := rs.NewHandler(
			&rs.Config{
				CacheTTL: time.Duration(cfg.Catalog.CacheTTL) * time.Second,
				Timeout:  time.Duration(cfg.Workers[rs.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, rs.TaskType, cfg.Workers[rs.TaskType], handler.Handle, obs, zapLog)
	}

	// --- 2. Catalog Workers (4) ---
	if cfg.Workers[ip.TaskType].Enabled {
		handler := ip.NewHandler(
			&ip.Config{
				ProductIndex: cfg.Catalog.ProductIndex,
				Timeout:      time.Duration(cfg.Workers[ip.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, redis.Client, esClient.Client, log,
		)
		startWorker(zeebeClient, ip.TaskType, cfg.Workers[ip.TaskType], handler.Handle, obs, zapLog)
	}

	if cfg.Workers[qp.TaskType].Enabled {
		handler := qp.NewHandler(
			&qp.Config{
				Timeout: time.Duration(cfg.Workers[qp.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, qp.TaskType, cfg.Workers[qp.TaskType], handler.Handle, obs, zapLog)
	}

	if cfg.Workers[sp.TaskType].Enabled {
		handler := sp.NewHandler(
			&sp.Config{
				DefaultIndex: cfg.Catalog.ProductIndex,
				Timeout:      time.Duration(cfg.Workers[sp.TaskType].Timeout) * time.Millisecond,
			},
			esClient.Client, log,
		)
		startWorker(zeebeClient, sp.TaskType, cfg.Workers[sp.TaskType], handler.Handle, obs, zapLog)
	}

	slLogAdapter := &scrapeListingsLoggerAdapter{log}
	if cfg.Workers[sl.TaskType].Enabled {
		handler := sl.NewHandler(
			&sl.Config{
				UserAgent:   cfg.Scraper.UserAgent,
				Timeout:     time.Duration(cfg.Scraper.Timeout) * time.Millisecond,
				MaxRetries:  cfg.Scraper.MaxRetries,
				MaxListings: cfg.Scraper.MaxListings,
			},
			slLogAdapter,
		)
		startWorker(zeebeClient, sl.TaskType, cfg.Workers[sl.TaskType], handler.Handle, obs, zapLog)
	}

	// --- 3. Assistant Workers (1) ---
	scLogAdapter := &stylistChatLoggerAdapter{log}
	if cfg.Workers[sc.TaskType].Enabled {
		model := cfg.APIs.Stylist.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		handler := sc.NewHandler(
			&sc.Config{
				BaseURL:     cfg.APIs.Stylist.BaseURL,
				APIKey:      cfg.APIs.Stylist.APIKey,
				Model:       model,
				Timeout:     time.Duration(cfg.APIs.Stylist.Timeout) * time.Millisecond,
				MaxRetries:  1,
				MaxTokens:   cfg.APIs.Stylist.MaxTokens,
				Temperature: cfg.APIs.Stylist.Temperature,
			},
			scLogAdapter,
		)
		startWorker(zeebeClient, sc.TaskType, cfg.Workers[sc.TaskType], handler.Handle, obs, zapLog)
	}

	// --- 4. Infrastructure, Analytics & Communication Workers (3) ---
	if cfg.Workers[vak.TaskType].Enabled {
		handler := vak.NewHandler(
			&vak.Config{
				CacheTTL:     time.Duration(cfg.Catalog.TenantCacheTTL) * time.Second,
				Timeout:      time.Duration(cfg.Workers[vak.TaskType].Timeout) * time.Millisecond,
				DemoTenantID: cfg.Catalog.DemoTenantID,
				DemoAPIKey:   cfg.Catalog.DemoAPIKey,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, vak.TaskType, cfg.Workers[vak.TaskType], handler.Handle, obs, zapLog)
	}

	if cfg.Workers[rwe.TaskType].Enabled {
		handler := rwe.NewHandler(
			&rwe.Config{
				Timeout: time.Duration(cfg.Workers[rwe.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, rwe.TaskType, cfg.Workers[rwe.TaskType], handler.Handle, obs, zapLog)
	}

	if cfg.Workers[sfr.TaskType].Enabled {
		handler, err := sfr.NewHandler(
			&sfr.Config{
				EmailEnabled:      cfg.Reports.Email.Enabled,
				SMSEnabled:        cfg.Reports.SMS.Enabled,
				FromEmail:         cfg.Reports.Email.FromEmail,
				AWSRegion:         cfg.Reports.AWS.Region,
				PriorityThreshold: cfg.Reports.SMS.PriorityThreshold,
				Timeout:           time.Duration(cfg.Workers[sfr.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		if err != nil {
			zapLog.Fatal("failed to create send-fit-report handler", zap.Error(err))
		}
		startWorker(zeebeClient, sfr.TaskType, cfg.Workers[sfr.TaskType], handler.Handle, obs, zapLog)
	}

	zapLog.Info("All 10 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// Logger adapters for workers that declare their own Logger interfaces
type scrapeListingsLoggerAdapter struct {
	logger.Logger
}

func (a *scrapeListingsLoggerAdapter) With(fields map[string]interface{}) sl.Logger {
	return &scrapeListingsLoggerAdapter{a.Logger.With(fields)}
}

type stylistChatLoggerAdapter struct {
	logger.Logger
}

func (a *stylistChatLoggerAdapter) With(fields map[string]interface{}) sc.Logger {
	return &stylistChatLoggerAdapter{a.Logger.With(fields)}
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), obs *observability.Observability, log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	instrumented := func(jobClient worker.JobClient, job entities.Job) {
		start := time.Now()
		handlerFunc(jobClient, job)
		obs.RecordJob(context.Background(), taskType, time.Since(start))
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(instrumented).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
