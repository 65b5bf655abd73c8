// internal/workers/catalog/query-products/handler_test.go
package queryproducts

import (
	"context"
	"database/sql"
	"testing"

	"fitengine-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
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

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return NewHandler(LoadConfig(), db, newTestLogger(t)), mock
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ProductByID(t *testing.T) {
	handler, mock := newTestHandler(t)

	rows := sqlmock.NewRows([]string{
		"id", "external_id", "tenant_id", "name", "brand", "category",
		"image_url", "product_url", "fit_type", "fabric_composition", "size_chart",
		"created_at", "updated_at",
	}).AddRow(
		"prod-1", "sku-001", "tenant-1", "Crew Neck T-Shirt", "Acme", "tops",
		"", "", "regular_fit", []byte(`{"cotton": 100}`), []byte(`{"M": {"chest_width": 110}}`),
		"2026-01-01T00:00:00Z", "2026-01-01T00:00:00Z",
	)
	mock.ExpectQuery("SELECT id, external_id, tenant_id").
		WithArgs("prod-1").
		WillReturnRows(rows)

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: "product_by_id",
		ProductID: "prod-1",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, output.RowCount)
	data := output.Data.(map[string]interface{})
	assert.Equal(t, "Crew Neck T-Shirt", data["name"])
	assert.Equal(t, "regular_fit", data["fitType"])
	assert.NotEmpty(t, data["sizeChart"])
}

func TestHandler_Execute_ProductsByTenant(t *testing.T) {
	handler, mock := newTestHandler(t)

	rows := sqlmock.NewRows([]string{"id", "external_id", "name", "brand", "category", "fit_type"}).
		AddRow("prod-1", "sku-001", "Crew Neck T-Shirt", "Acme", "tops", "regular_fit").
		AddRow("prod-2", "sku-002", "Slim Chinos", "Acme", "bottoms", "slim_fit")
	mock.ExpectQuery("SELECT id, external_id, name").
		WithArgs("tenant-1").
		WillReturnRows(rows)

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: "products_by_tenant",
		TenantID:  "tenant-1",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, output.RowCount)
}

func TestHandler_Execute_SizeChartByProduct(t *testing.T) {
	handler, mock := newTestHandler(t)

	rows := sqlmock.NewRows([]string{"fit_type", "fabric_composition", "size_chart"}).
		AddRow("slim_fit", []byte(`{"cotton": 92, "elastane": 8}`), []byte(`{"S": {"waist": 78}}`))
	mock.ExpectQuery("SELECT fit_type, fabric_composition, size_chart").
		WithArgs("sku-002").
		WillReturnRows(rows)

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: "size_chart_by_product",
		ProductID: "sku-002",
	})
	require.NoError(t, err)

	data := output.Data.(map[string]interface{})
	assert.Equal(t, "slim_fit", data["fitType"])
}

func TestHandler_Execute_TenantByAPIKey(t *testing.T) {
	handler, mock := newTestHandler(t)

	rows := sqlmock.NewRows([]string{"id", "name", "domain", "is_active"}).
		AddRow("tenant-1", "Acme Store", "shop.acme.example", true)
	mock.ExpectQuery("SELECT id, name, domain, is_active").
		WithArgs("key-123").
		WillReturnRows(rows)

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: "tenant_by_api_key",
		APIKey:    "key-123",
	})
	require.NoError(t, err)

	data := output.Data.(map[string]interface{})
	assert.Equal(t, "Acme Store", data["name"])
	assert.Equal(t, true, data["isActive"])
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_UnknownQueryType(t *testing.T) {
	handler, _ := newTestHandler(t)

	_, err := handler.Execute(context.Background(), &Input{
		QueryType: "products_by_color",
	})
	assert.ErrorIs(t, err, ErrInvalidQueryType)
}

func TestHandler_Execute_ProductNotFound(t *testing.T) {
	handler, mock := newTestHandler(t)

	mock.ExpectQuery("SELECT id, external_id, tenant_id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := handler.Execute(context.Background(), &Input{
		QueryType: "product_by_id",
		ProductID: "missing",
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestHandler_Execute_MissingParam(t *testing.T) {
	handler, _ := newTestHandler(t)

	_, err := handler.Execute(context.Background(), &Input{
		QueryType: "product_by_id",
	})
	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
}
