// internal/workers/recommendation/estimate-body-measurements/handler.go
package estimatebodymeasurements

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fitengine-workers/internal/common/logger"
	"fitengine-workers/internal/models"
	"fitengine-workers/internal/sizing/estimator"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "estimate-body-measurements"

	OperationEstimate = "estimate"
	OperationAnalyze  = "analyze"
)

var (
	ErrProfileInvalid = errors.New("PROFILE_INVALID")
)

type Handler struct {
	config    *Config
	estimator *estimator.Estimator
	logger    logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		estimator: estimator.New(nil),
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
		h.failJob(client, job, "PROFILE_INVALID", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if err := validateProfile(&input.UserProfile); err != nil {
		return nil, err
	}

	operation := input.Operation
	if operation == "" {
		operation = OperationEstimate
	}

	switch operation {
	case OperationEstimate:
		measurements, err := h.estimator.Estimate(input.UserProfile)
		if err != nil {
			return nil, err
		}

		h.logger.Info("body measurements estimated", map[string]interface{}{
			"heightCm":  input.UserProfile.HeightCM,
			"weightKg":  input.UserProfile.WeightKG,
			"bodyShape": input.UserProfile.BodyShape,
		})

		return &Output{Measurements: measurements}, nil

	case OperationAnalyze:
		analysis, err := h.estimator.Analyze(input.UserProfile)
		if err != nil {
			return nil, err
		}

		h.logger.Info("body analysis computed", map[string]interface{}{
			"bmi":      analysis.BMI,
			"category": analysis.BMICategory,
		})

		return &Output{Analysis: analysis}, nil

	default:
		return nil, fmt.Errorf("%w: unknown operation %q", ErrProfileInvalid, operation)
	}
}

func validateProfile(profile *models.UserProfile) error {
	if profile.HeightCM < 100 || profile.HeightCM > 250 {
		return fmt.Errorf("%w: height %.1f out of range [100, 250]", ErrProfileInvalid, profile.HeightCM)
	}
	if profile.WeightKG < 30 || profile.WeightKG > 300 {
		return fmt.Errorf("%w: weight %.1f out of range [30, 300]", ErrProfileInvalid, profile.WeightKG)
	}
	if profile.Age < 0 || profile.Age > 120 {
		return fmt.Errorf("%w: age %d out of range [0, 120]", ErrProfileInvalid, profile.Age)
	}
	return nil
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
