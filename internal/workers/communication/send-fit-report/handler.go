// internal/workers/communication/send-fit-report/handler.go
package sendfitreport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	commonaws "fitengine-workers/internal/common/aws"
	commonerrors "fitengine-workers/internal/common/errors"
	"fitengine-workers/internal/common/logger"
	"fitengine-workers/internal/common/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-fit-report"
)

var (
	ErrReportSendFailed = errors.New("REPORT_SEND_FAILED")
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Handler struct {
	config      *Config
	logger      logger.Logger
	sesClient   SESService
	snsClient   SNSService
	templateMap map[string]map[string]string
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	sesClient, err := commonaws.NewSESClient(context.Background(), config.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("init SES client: %w", err)
	}
	snsClient, err := commonaws.NewSNSClient(context.Background(), config.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("init SNS client: %w", err)
	}

	return &Handler{
		config:      config,
		logger:      log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient:   sesClient,
		snsClient:   snsClient,
		templateMap: loadTemplates(),
	}, nil
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
		retries := int32(0)
		if errors.Is(err, ErrReportSendFailed) {
			retries = int32(commonerrors.GetRetryCount(commonerrors.ErrCodeReportSendFailed))
		}
		h.failJob(client, job, "REPORT_SEND_FAILED", err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	reportType := input.ReportType
	if reportType == "" {
		reportType = TypeSizeRecommendation
	}

	template, exists := h.templateMap[reportType]
	if !exists {
		return nil, fmt.Errorf("template not found for report type: %s", reportType)
	}
	if reportType == TypeSizeRecommendation && input.Recommendation == nil {
		return nil, fmt.Errorf("report type %s requires a recommendation", reportType)
	}
	if reportType == TypeFitAnalysis && input.Analysis == nil {
		return nil, fmt.Errorf("report type %s requires a body analysis", reportType)
	}

	lang := "en"
	if strings.EqualFold(input.Language, "tr") {
		lang = "tr"
	}

	data := buildTemplateData(input)
	subject := renderTemplate(template["subject_"+lang], data)
	body := renderTemplate(template["body_"+lang], data)
	smsBody := renderTemplate(template["sms_"+lang], data)

	sentAt := time.Now().UTC().Format(time.RFC3339)
	reportID := uuid.New().String()

	emailWanted := h.config.EmailEnabled && input.RecipientEmail != ""
	smsWanted := h.config.SMSEnabled && input.RecipientPhone != "" &&
		meetsPriority(input.Priority, h.config.PriorityThreshold)

	var channels []string
	attempted := 0

	if emailWanted {
		attempted++
		if err := h.sendEmail(ctx, input.RecipientEmail, subject, body); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error": err,
				"email": input.RecipientEmail,
			})
		} else {
			channels = append(channels, "email")
			metrics.FitReportsSent.WithLabelValues("email").Inc()
		}
	}

	if smsWanted {
		attempted++
		if err := h.sendSMS(ctx, input.RecipientPhone, smsBody); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error": err,
				"phone": input.RecipientPhone,
			})
		} else {
			channels = append(channels, "sms")
			metrics.FitReportsSent.WithLabelValues("sms").Inc()
		}
	}

	if attempted == 0 {
		h.logger.Warn("no delivery channel available", map[string]interface{}{
			"tenantId":   input.TenantID,
			"reportType": reportType,
		})
		return &Output{ReportID: reportID, Status: StatusDisabled, SentAt: sentAt}, nil
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: no channel accepted the report", ErrReportSendFailed)
	}

	return &Output{
		ReportID: reportID,
		Status:   StatusSent,
		Channels: channels,
		SentAt:   sentAt,
	}, nil
}

func buildTemplateData(input *Input) map[string]interface{} {
	data := map[string]interface{}{
		"productName": input.ProductName,
		"tenantId":    input.TenantID,
		"sessionId":   input.SessionID,
	}
	if rec := input.Recommendation; rec != nil {
		data["recommendedSize"] = rec.RecommendedSize
		data["confidenceScore"] = rec.ConfidenceScore
		data["fitDescription"] = rec.FitDescription
		data["fitDescriptionTr"] = rec.FitDescriptionTR
		data["alternativeSize"] = rec.AlternativeSize
		data["notes"] = rec.Notes
	}
	if an := input.Analysis; an != nil {
		data["bmi"] = an.BMI
		data["bmiCategory"] = an.BMICategory
		for _, name := range []string{"chest", "waist", "hip", "shoulder"} {
			if v, ok := an.Measurements[name]; ok {
				data[name] = v
			}
		}
	}
	return data
}

// SMS goes out only for priorities at or above the configured threshold.
func meetsPriority(priority, threshold string) bool {
	rank := map[string]int{"low": 1, "normal": 2, "high": 3}
	p, ok := rank[strings.ToLower(priority)]
	if !ok {
		p = 1
	}
	t, ok := rank[strings.ToLower(threshold)]
	if !ok {
		t = 3
	}
	return p >= t
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
				Html: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
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

// Simplified template rendering with placeholder removal for missing values
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if i, ok := v.(int); ok {
			value = fmt.Sprintf("%d", i)
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Remove any remaining placeholders (missing values)
	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return strings.TrimSpace(result)
}

func loadTemplates() map[string]map[string]string {
	return map[string]map[string]string{
		TypeSizeRecommendation: {
			"subject_en": "Your size recommendation for {{productName}}",
			"subject_tr": "{{productName}} için beden önerin",
			"body_en":    "Hi! Based on your profile we recommend size {{recommendedSize}} (fit score {{confidenceScore}}/100). {{fitDescription}} {{notes}}",
			"body_tr":    "Merhaba! Profiline göre {{recommendedSize}} bedenini öneriyoruz (uyum puanı {{confidenceScore}}/100). {{fitDescriptionTr}} {{notes}}",
			"sms_en":     "Size {{recommendedSize}} recommended for {{productName}} ({{confidenceScore}}/100).",
			"sms_tr":     "{{productName}} için önerilen beden: {{recommendedSize}} ({{confidenceScore}}/100).",
		},
		TypeFitAnalysis: {
			"subject_en": "Your body fit analysis",
			"subject_tr": "Vücut analiz raporun",
			"body_en":    "Hi! Your estimated BMI is {{bmi}} ({{bmiCategory}}). Estimated chest {{chest}} cm, waist {{waist}} cm, hip {{hip}} cm.",
			"body_tr":    "Merhaba! Tahmini BMI değerin {{bmi}} ({{bmiCategory}}). Tahmini göğüs {{chest}} cm, bel {{waist}} cm, kalça {{hip}} cm.",
			"sms_en":     "Fit analysis ready: BMI {{bmi}} ({{bmiCategory}}).",
			"sms_tr":     "Analiz hazır: BMI {{bmi}} ({{bmiCategory}}).",
		},
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
