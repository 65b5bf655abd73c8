// internal/workers/catalog/ingest-product/handler_test.go
package ingestproduct

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitengine-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return LoadConfig()
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func setupMockRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

func createTestPayload() map[string]interface{} {
	return map[string]interface{}{
		"external_id": "sku-001",
		"tenant_id":   "tenant-1",
		"name":        "Crew Neck T-Shirt",
		"brand":       "Acme",
		"category":    "tops",
		"fit_type":    "regular_fit",
		"fabric_composition": map[string]interface{}{
			"cotton":   95.0,
			"elastane": 5.0,
		},
		"size_chart": map[string]interface{}{
			"M": map[string]interface{}{"chest_width": 110.0, "length": 74.0},
			"L": map[string]interface{}{"chest_width": 116.0, "length": 76.0},
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_InsertsProduct(t *testing.T) {
	db, mock := setupMockDB(t)
	handler := NewHandler(createTestConfig(), db, setupMockRedis(t), nil, newTestLogger(t))

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("tenant-1", "sku-001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO products").
		WillReturnResult(sqlmock.NewResult(1, 1))

	output, err := handler.Execute(context.Background(), &Input{Product: createTestPayload()})
	require.NoError(t, err)

	assert.NotEmpty(t, output.ProductID)
	assert.Equal(t, "created", output.Status)
	assert.False(t, output.Indexed)
	assert.True(t, output.Validation.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_IndexesIntoElasticsearch(t *testing.T) {
	db, mock := setupMockDB(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"result": "created"}`))
	}))
	t.Cleanup(server.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)

	handler := NewHandler(createTestConfig(), db, setupMockRedis(t), es, newTestLogger(t))

	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO products").
		WillReturnResult(sqlmock.NewResult(1, 1))

	output, err := handler.Execute(context.Background(), &Input{Product: createTestPayload()})
	require.NoError(t, err)

	assert.True(t, output.Indexed)
}

func TestHandler_Execute_SkipsDuplicateCheckWithoutExternalID(t *testing.T) {
	db, mock := setupMockDB(t)
	handler := NewHandler(createTestConfig(), db, setupMockRedis(t), nil, newTestLogger(t))

	payload := createTestPayload()
	delete(payload, "external_id")

	mock.ExpectExec("INSERT INTO products").
		WillReturnResult(sqlmock.NewResult(1, 1))

	_, err := handler.Execute(context.Background(), &Input{Product: payload})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Execute_RejectsInvalidProduct(t *testing.T) {
	db, _ := setupMockDB(t)
	handler := NewHandler(createTestConfig(), db, setupMockRedis(t), nil, newTestLogger(t))

	tests := []struct {
		name   string
		mutate func(payload map[string]interface{})
	}{
		{"missing name", func(p map[string]interface{}) { delete(p, "name") }},
		{"missing size chart", func(p map[string]interface{}) { delete(p, "size_chart") }},
		{"bad fit type", func(p map[string]interface{}) { p["fit_type"] = "skinny" }},
		{"empty size chart", func(p map[string]interface{}) { p["size_chart"] = map[string]interface{}{} }},
		{"measurement out of range", func(p map[string]interface{}) {
			p["size_chart"] = map[string]interface{}{
				"M": map[string]interface{}{"chest_width": 500.0},
			}
		}},
		{"fabric sum off", func(p map[string]interface{}) {
			p["fabric_composition"] = map[string]interface{}{"cotton": 50.0}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := createTestPayload()
			tt.mutate(payload)

			_, err := handler.Execute(context.Background(), &Input{Product: payload})
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}
}

func TestHandler_Execute_RejectsDuplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	handler := NewHandler(createTestConfig(), db, setupMockRedis(t), nil, newTestLogger(t))

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("tenant-1", "sku-001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := handler.Execute(context.Background(), &Input{Product: createTestPayload()})
	assert.ErrorIs(t, err, ErrDuplicateProduct)
}

func TestHandler_Execute_InsertFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	handler := NewHandler(createTestConfig(), db, setupMockRedis(t), nil, newTestLogger(t))

	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO products").
		WillReturnError(sql.ErrConnDone)

	_, err := handler.Execute(context.Background(), &Input{Product: createTestPayload()})
	assert.ErrorIs(t, err, ErrInsertFailed)
}
