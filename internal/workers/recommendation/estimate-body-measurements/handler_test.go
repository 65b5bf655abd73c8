// internal/workers/recommendation/estimate-body-measurements/handler_test.go
package estimatebodymeasurements

import (
	"context"
	"testing"

	"fitengine-workers/internal/common/logger"
	"fitengine-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return LoadConfig()
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

func createTestProfile() models.UserProfile {
	return models.UserProfile{
		HeightCM:  180,
		WeightKG:  85,
		BodyShape: models.BodyShapeAverage,
		Age:       30,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Estimate(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Operation:   OperationEstimate,
		UserProfile: createTestProfile(),
	})
	require.NoError(t, err)
	require.NotNil(t, output.Measurements)
	assert.Nil(t, output.Analysis)

	assert.Equal(t, 106.0, output.Measurements["chest"])
	assert.Equal(t, 95.0, output.Measurements["waist"])
	assert.Equal(t, 109.7, output.Measurements["hip"])
	assert.Equal(t, 45.4, output.Measurements["shoulder"])
	assert.Equal(t, 27.5, output.Measurements["foot_length"])
}

func TestHandler_Execute_DefaultsToEstimate(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		UserProfile: createTestProfile(),
	})
	require.NoError(t, err)
	assert.NotNil(t, output.Measurements)
	assert.Nil(t, output.Analysis)
}

func TestHandler_Execute_Analyze(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Operation:   OperationAnalyze,
		UserProfile: createTestProfile(),
	})
	require.NoError(t, err)
	require.NotNil(t, output.Analysis)
	assert.Nil(t, output.Measurements)

	assert.Equal(t, 26.2, output.Analysis.BMI)
	assert.Equal(t, "overweight", output.Analysis.BMICategory)
	assert.Equal(t, 0.87, output.Analysis.Proportions["waist_to_hip_ratio"])
	assert.Equal(t, 1.12, output.Analysis.Proportions["chest_to_waist_ratio"])
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Execute_ProfileValidation(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	tests := []struct {
		name    string
		profile models.UserProfile
		wantErr bool
	}{
		{"valid", models.UserProfile{HeightCM: 180, WeightKG: 85}, false},
		{"height at lower bound", models.UserProfile{HeightCM: 100, WeightKG: 85}, false},
		{"height at upper bound", models.UserProfile{HeightCM: 250, WeightKG: 85}, false},
		{"height too low", models.UserProfile{HeightCM: 99.9, WeightKG: 85}, true},
		{"height too high", models.UserProfile{HeightCM: 250.1, WeightKG: 85}, true},
		{"weight too low", models.UserProfile{HeightCM: 180, WeightKG: 29}, true},
		{"weight too high", models.UserProfile{HeightCM: 180, WeightKG: 301}, true},
		{"negative age", models.UserProfile{HeightCM: 180, WeightKG: 85, Age: -1}, true},
		{"age too high", models.UserProfile{HeightCM: 180, WeightKG: 85, Age: 121}, true},
		{"zero profile", models.UserProfile{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Execute(context.Background(), &Input{UserProfile: tt.profile})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrProfileInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHandler_Execute_UnknownOperation(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{
		Operation:   "predict",
		UserProfile: createTestProfile(),
	})
	assert.ErrorIs(t, err, ErrProfileInvalid)
}

func TestHandler_Execute_UnknownShapeFallsBackToAverage(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	average, err := handler.Execute(context.Background(), &Input{
		UserProfile: createTestProfile(),
	})
	require.NoError(t, err)

	unknown := createTestProfile()
	unknown.BodyShape = "hourglass"
	got, err := handler.Execute(context.Background(), &Input{UserProfile: unknown})
	require.NoError(t, err)

	assert.Equal(t, average.Measurements, got.Measurements)
}
