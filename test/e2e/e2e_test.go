// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fitengine-workers/internal/common/config"
	"fitengine-workers/internal/common/database"
	"fitengine-workers/internal/common/logger"
	"fitengine-workers/internal/models"

	recordwidgetevent "fitengine-workers/internal/workers/analytics/record-widget-event"
	stylistchat "fitengine-workers/internal/workers/assistant/stylist-chat"
	ingestproduct "fitengine-workers/internal/workers/catalog/ingest-product"
	queryproducts "fitengine-workers/internal/workers/catalog/query-products"
	scrapelistings "fitengine-workers/internal/workers/catalog/scrape-listings"
	searchproducts "fitengine-workers/internal/workers/catalog/search-products"
	sendfitreport "fitengine-workers/internal/workers/communication/send-fit-report"
	validateapikey "fitengine-workers/internal/workers/infrastructure/validate-api-key"
	estimatebodymeasurements "fitengine-workers/internal/workers/recommendation/estimate-body-measurements"
	recommendsize "fitengine-workers/internal/workers/recommendation/recommend-size"
)

// Logger adapters to bridge logger.Logger to worker-specific Logger interfaces
type scrapeListingsLoggerAdapter struct {
	logger.Logger
}

func (a *scrapeListingsLoggerAdapter) With(fields map[string]interface{}) scrapelistings.Logger {
	return &scrapeListingsLoggerAdapter{a.Logger.With(fields)}
}

type stylistChatLoggerAdapter struct {
	logger.Logger
}

func (a *stylistChatLoggerAdapter) With(fields map[string]interface{}) stylistchat.Logger {
	return &stylistChatLoggerAdapter{a.Logger.With(fields)}
}

func TestFullE2E(t *testing.T) {
	zapLog, _ := zap.NewDevelopment()

	cfg, err := config.Load()
	if err != nil {
		t.Skipf("config not loadable, skipping e2e: %v", err)
	}

	t.Log("🚀 Starting FULL E2E Test with real services...")

	// Force localhost for e2e runs
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"
	cfg.Database.Elasticsearch.URL = "http://localhost:9200"

	db, es, rdb := connectServicesOrSkip(t, cfg)
	defer db.Close()
	defer rdb.Close()

	checkZeebeOrLog(t)

	createDatabaseTables(t, db)

	log := logger.NewZapAdapter(zapLog)

	testCases := []struct {
		name   string
		testFn func(*testing.T, *config.Config, logger.Logger, *sql.DB, *elasticsearch.Client, *redis.Client)
	}{
		{"estimate-body-measurements", testEstimateBodyMeasurements},
		{"recommend-size", testRecommendSize},
		{"ingest-product", testIngestProduct},
		{"query-products", testQueryProducts},
		{"search-products", testSearchProducts},
		{"scrape-listings", testScrapeListings},
		{"stylist-chat", testStylistChat},
		{"validate-api-key", testValidateAPIKey},
		{"record-widget-event", testRecordWidgetEvent},
		{"send-fit-report", testSendFitReport},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.testFn(t, cfg, log, db, es, rdb)
		})
	}

	t.Log("✅ ALL TESTS PASSED — Full E2E workflow successful!")
}

func connectServicesOrSkip(t *testing.T, cfg *config.Config) (*sql.DB, *elasticsearch.Client, *redis.Client) {
	t.Log("🔍 Checking service connectivity...")

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil || pg.Ping(context.Background()) != nil {
		t.Skipf("PostgreSQL unreachable, skipping e2e")
	}
	t.Log("✅ PostgreSQL connected")

	rdbClient, err := database.NewRedis(cfg.Database.Redis)
	if err != nil || rdbClient.Ping(context.Background()) != nil {
		t.Skipf("Redis unreachable, skipping e2e")
	}
	t.Log("✅ Redis connected")

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Database.Elasticsearch.GetURL()},
	})
	require.NoError(t, err)
	res, err := es.Info()
	if err != nil || res.IsError() {
		t.Skipf("Elasticsearch unreachable, skipping e2e")
	}
	res.Body.Close()
	t.Log("✅ Elasticsearch connected")

	return pg.GetDB(), es, rdbClient.GetClient()
}

// Zeebe is optional for these tests; the workers are exercised through
// Execute, not through job polling.
func checkZeebeOrLog(t *testing.T) {
	client, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         "localhost:26500",
		UsePlaintextConnection: true,
	})
	if err != nil {
		t.Log("⚠️ Zeebe client creation failed, continuing without broker")
		return
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.NewTopologyCommand().Send(ctx); err != nil {
		t.Log("⚠️ Zeebe broker unreachable, continuing without broker")
		return
	}
	t.Log("✅ Zeebe connected")
}

func createDatabaseTables(t *testing.T, db *sql.DB) {
	t.Log("🔧 Creating database tables and inserting test data...")

	queries := []string{
		`CREATE TABLE IF NOT EXISTS tenants (
			id VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			domain VARCHAR(255),
			api_key VARCHAR(255) UNIQUE NOT NULL,
			is_active BOOLEAN DEFAULT true,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(255) PRIMARY KEY,
			external_id VARCHAR(255),
			tenant_id VARCHAR(255) REFERENCES tenants(id),
			name VARCHAR(500) NOT NULL,
			brand VARCHAR(255),
			category VARCHAR(100),
			image_url TEXT,
			product_url TEXT,
			fit_type VARCHAR(50),
			fabric_composition JSONB,
			size_chart JSONB,
			created_at TEXT,
			updated_at TEXT,
			UNIQUE(tenant_id, external_id)
		)`,
		`CREATE TABLE IF NOT EXISTS widget_events (
			id VARCHAR(255) PRIMARY KEY,
			tenant_id VARCHAR(255) NOT NULL,
			session_id VARCHAR(255) NOT NULL,
			event_type VARCHAR(100) NOT NULL,
			product_id VARCHAR(255),
			payload JSONB,
			created_at TEXT
		)`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(context.Background(), query); err != nil {
			t.Logf("Warning: Failed to create table: %v", err)
		}
	}

	testData := []string{
		`INSERT INTO tenants (id, name, domain, api_key, is_active)
		 VALUES ('tenant-e2e', 'E2E Tenant', 'example.com', 'e2e-api-key', true)
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO products (id, external_id, tenant_id, name, brand, category,
			image_url, product_url, fit_type, fabric_composition, size_chart, created_at, updated_at)
		 VALUES ('prod-e2e-001', 'SKU-E2E-1', 'tenant-e2e', 'E2E Tee', 'Fitengine', 'tshirt',
			'', '', 'regular_fit',
			'{"cotton": 100}',
			'{"S": {"chest_width": 104}, "M": {"chest_width": 110}, "L": {"chest_width": 116}, "XL": {"chest_width": 122}}',
			'2026-08-14T09:00:00Z', '2026-08-14T09:00:00Z')
		 ON CONFLICT (id) DO NOTHING`,
	}

	for _, query := range testData {
		if _, err := db.ExecContext(context.Background(), query); err != nil {
			t.Logf("Warning: Failed to insert test data: %v", err)
		}
	}

	t.Log("✅ Database tables created/verified with test data")
}

// ==========================
// Worker Test Functions
// ==========================

func testEstimateBodyMeasurements(t *testing.T, cfg *config.Config, log logger.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := estimatebodymeasurements.NewHandler(&estimatebodymeasurements.Config{
		Timeout: 10 * time.Second,
	}, log)

	output, err := handler.Execute(context.Background(), &estimatebodymeasurements.Input{
		Operation: estimatebodymeasurements.OperationEstimate,
		UserProfile: models.UserProfile{
			HeightCM:  180,
			WeightKG:  85,
			BodyShape: models.BodyShapeAverage,
			Age:       30,
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 106.0, output.Measurements["chest"], 0.01)
	assert.InDelta(t, 95.0, output.Measurements["waist"], 0.01)
}

func testRecommendSize(t *testing.T, cfg *config.Config, log logger.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := recommendsize.NewHandler(&recommendsize.Config{
		CacheTTL: time.Minute,
		Timeout:  10 * time.Second,
	}, db, rdb, log)

	output, err := handler.Execute(context.Background(), &recommendsize.Input{
		UserProfile: &models.UserProfile{HeightCM: 180, WeightKG: 85},
		ProductID:   "prod-e2e-001",
	})
	require.NoError(t, err)
	require.NotNil(t, output.Recommendation)
	assert.Equal(t, "M", output.Recommendation.RecommendedSize)
}

func testIngestProduct(t *testing.T, cfg *config.Config, log logger.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := ingestproduct.NewHandler(&ingestproduct.Config{
		ProductIndex: cfg.Catalog.ProductIndex,
		Timeout:      15 * time.Second,
	}, db, rdb, es, log)

	externalID := "SKU-E2E-" + uuid.New().String()
	output, err := handler.Execute(context.Background(), &ingestproduct.Input{
		Product: map[string]interface{}{
			"external_id": externalID,
			"tenant_id":   "tenant-e2e",
			"name":        "E2E Ingested Hoodie",
			"brand":       "Fitengine",
			"category":    "hoodie",
			"fit_type":    "loose_fit",
			"fabric_composition": map[string]interface{}{
				"cotton":    80.0,
				"polyester": 20.0,
			},
			"size_chart": map[string]interface{}{
				"M": map[string]interface{}{"chest_width": 112.0},
				"L": map[string]interface{}{"chest_width": 118.0},
			},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output.ProductID)
	assert.True(t, output.Indexed)
}

func testQueryProducts(t *testing.T, cfg *config.Config, log logger.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := queryproducts.NewHandler(&queryproducts.Config{
		Timeout: 10 * time.Second,
	}, db, log)

	output, err := handler.Execute(context.Background(), &queryproducts.Input{
		QueryType: string(models.QueryTypeProductByID),
		ProductID: "prod-e2e-001",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, output.RowCount)
}

func testSearchProducts(t *testing.T, cfg *config.Config, log logger.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := searchproducts.NewHandler(&searchproducts.Config{
		DefaultIndex: cfg.Catalog.ProductIndex,
		Timeout:      15 * time.Second,
	}, es, log)

	// The index exists once ingest-product has run at least once.
	output, err := handler.Execute(context.Background(), &searchproducts.Input{
		QueryType: "product_search",
		TenantID:  "tenant-e2e",
		Filters:   map[string]interface{}{"keywords": "hoodie"},
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, output.TotalHits, int64(0))
}

func testScrapeListings(t *testing.T, cfg *config.Config, log logger.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"listings": [
			{"id": "LST-1", "name": "Basic Tişört", "brand": "lc waikiki", "category": "tshirt",
			 "fabric": "%95 Pamuk %5 Elastan", "fit_type": "regular_fit"}
		]}`)
	}))
	defer feed.Close()

	logAdapter := &scrapeListingsLoggerAdapter{log}
	handler := scrapelistings.NewHandler(&scrapelistings.Config{
		UserAgent:   "fitengine-bot/1.0",
		Timeout:     10 * time.Second,
		MaxRetries:  1,
		MaxListings: 10,
	}, logAdapter)

	output, err := handler.Execute(context.Background(), &scrapelistings.Input{
		TenantID: "tenant-e2e",
		FeedURLs: []string{feed.URL},
	})
	require.NoError(t, err)
	require.Len(t, output.Products, 1)
	assert.InDelta(t, 95.0, output.Products[0].FabricComposition["cotton"], 0.01)
}

func testStylistChat(t *testing.T, cfg *config.Config, log logger.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	logAdapter := &stylistChatLoggerAdapter{log}

	// No API key configured forces the rule based reply path.
	handler := stylistchat.NewHandler(&stylistchat.Config{
		Model:       "gpt-4o-mini",
		Timeout:     5 * time.Second,
		MaxRetries:  1,
		MaxTokens:   200,
		Temperature: 0.7,
	}, logAdapter)

	output, err := handler.Execute(context.Background(), &stylistchat.Input{
		Question: "Which size should I pick?",
		Recommendation: &models.Recommendation{
			RecommendedSize: "M",
			ConfidenceScore: 100,
			FitDescription:  "Good overall fit",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "rules", output.Source)
	assert.Contains(t, output.Reply, "size M")
}

func testValidateAPIKey(t *testing.T, cfg *config.Config, log logger.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := validateapikey.NewHandler(&validateapikey.Config{
		CacheTTL:     time.Minute,
		Timeout:      10 * time.Second,
		DemoTenantID: cfg.Catalog.DemoTenantID,
		DemoAPIKey:   cfg.Catalog.DemoAPIKey,
	}, db, rdb, log)

	output, err := handler.Execute(context.Background(), &validateapikey.Input{
		APIKey: "e2e-api-key",
		Origin: "https://shop.example.com",
	})
	require.NoError(t, err)
	assert.True(t, output.IsValid)
	assert.Equal(t, "tenant-e2e", output.TenantID)
}

func testRecordWidgetEvent(t *testing.T, cfg *config.Config, log logger.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := recordwidgetevent.NewHandler(&recordwidgetevent.Config{
		Timeout: 10 * time.Second,
	}, db, log)

	output, err := handler.Execute(context.Background(), &recordwidgetevent.Input{
		TenantID:  "tenant-e2e",
		SessionID: uuid.New().String(),
		EventType: "recommendation_shown",
		ProductID: "prod-e2e-001",
		Payload:   map[string]interface{}{"size": "M"},
	})
	require.NoError(t, err)
	assert.True(t, output.Recorded)
	assert.NotEmpty(t, output.EventID)
}

func testSendFitReport(t *testing.T, cfg *config.Config, log logger.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	// Both channels disabled; verifies the worker wiring without AWS calls.
	handler, err := sendfitreport.NewHandler(&sendfitreport.Config{
		EmailEnabled:      false,
		SMSEnabled:        false,
		FromEmail:         "reports@fitengine.io",
		AWSRegion:         "eu-central-1",
		PriorityThreshold: "high",
		Timeout:           10 * time.Second,
	}, log)
	require.NoError(t, err)

	output, err := handler.Execute(context.Background(), &sendfitreport.Input{
		TenantID:       "tenant-e2e",
		ReportType:     sendfitreport.TypeSizeRecommendation,
		RecipientEmail: "shopper@example.com",
		Recommendation: &models.Recommendation{RecommendedSize: "M", ConfidenceScore: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, sendfitreport.StatusDisabled, output.Status)
}
