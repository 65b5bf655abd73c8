// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeAuthInvalidKey  ErrorCode = "AUTH_INVALID_KEY"
	ErrCodeAuthInactiveKey ErrorCode = "AUTH_INACTIVE_KEY"
	ErrCodeAuthCheckFailed ErrorCode = "AUTH_CHECK_FAILED"

	ErrCodeProfileInvalid ErrorCode = "PROFILE_INVALID"

	ErrCodeProductNotFound      ErrorCode = "PRODUCT_NOT_FOUND"
	ErrCodeSizeChartEmpty       ErrorCode = "SIZE_CHART_EMPTY"
	ErrCodeRecommendationFailed ErrorCode = "RECOMMENDATION_FAILED"

	ErrCodeProductValidationFailed ErrorCode = "PRODUCT_VALIDATION_FAILED"
	ErrCodeProductInsertFailed     ErrorCode = "PRODUCT_INSERT_FAILED"
	ErrCodeDuplicateProduct        ErrorCode = "DUPLICATE_PRODUCT"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeInvalidQueryType         ErrorCode = "INVALID_QUERY_TYPE"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout                 ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound                 ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeScrapeFetchFailed ErrorCode = "SCRAPE_FETCH_FAILED"
	ErrCodeScrapeTimeout     ErrorCode = "SCRAPE_TIMEOUT"

	ErrCodeEventRecordFailed ErrorCode = "EVENT_RECORD_FAILED"

	ErrCodeReportSendFailed ErrorCode = "REPORT_SEND_FAILED"

	ErrCodeStylistTimeout    ErrorCode = "STYLIST_TIMEOUT"
	ErrCodeStylistChatFailed ErrorCode = "STYLIST_CHAT_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewAuthInvalidKeyError creates a non-retryable API key error.
func NewAuthInvalidKeyError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthInvalidKey,
		Message:   "Invalid or unknown API key",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthInactiveKeyError creates a non-retryable API key error.
func NewAuthInactiveKeyError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthInactiveKey,
		Message:   "API key belongs to an inactive tenant",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthCheckFailedError creates a retryable database error.
func NewAuthCheckFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthCheckFailed,
		Message:   "Database error during API key check",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileInvalidError creates a non-retryable user profile error.
func NewProfileInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileInvalid,
		Message:   "User profile is outside accepted ranges",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProductNotFoundError creates a non-retryable product lookup error.
func NewProductNotFoundError(productID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProductNotFound,
		Message:   "Product not found in catalog",
		Details:   fmt.Sprintf("productId: %s", productID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSizeChartEmptyError creates a non-retryable size chart error.
func NewSizeChartEmptyError(productID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSizeChartEmpty,
		Message:   "Product has no size measurements",
		Details:   fmt.Sprintf("productId: %s", productID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecommendationFailedError creates a retryable recommendation error.
func NewRecommendationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecommendationFailed,
		Message:   "Size recommendation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProductValidationFailedError creates a non-retryable product validation error.
func NewProductValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProductValidationFailed,
		Message:   "Product payload validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProductInsertFailedError creates a retryable database insert error.
func NewProductInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProductInsertFailed,
		Message:   "Product insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateProductError creates a non-retryable duplicate product error.
func NewDuplicateProductError(externalID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateProduct,
		Message:   "Product already exists",
		Details:   fmt.Sprintf("externalId: %s", externalID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidQueryTypeError creates a non-retryable invalid query type error.
func NewInvalidQueryTypeError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidQueryType,
		Message:   "Unsupported query type",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewElasticsearchConnectionFailedError creates a retryable Elasticsearch connection error.
func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeElasticsearchConnectionFailed,
		Message:   "Elasticsearch connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Elasticsearch query error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Elasticsearch query timeout",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(indexName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexNotFound,
		Message:   "Elasticsearch index not found",
		Details:   fmt.Sprintf("indexName: %s", indexName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScrapeFetchFailedError creates a retryable listing fetch error.
func NewScrapeFetchFailedError(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScrapeFetchFailed,
		Message:   "Listing page fetch failed",
		Details:   fmt.Sprintf("url: %s, error: %s", url, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewScrapeTimeoutError creates a retryable listing fetch timeout error.
func NewScrapeTimeoutError(url string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScrapeTimeout,
		Message:   "Listing page fetch timeout",
		Details:   fmt.Sprintf("url: %s", url),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEventRecordFailedError creates a retryable widget event insert error.
func NewEventRecordFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEventRecordFailed,
		Message:   "Widget event insert failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportSendFailedError creates a retryable fit report delivery error.
func NewReportSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportSendFailed,
		Message:   "Fit report delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStylistTimeoutError creates a retryable stylist LLM timeout error.
func NewStylistTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeStylistTimeout,
		Message:   "Stylist chat LLM timeout",
		Details:   "LLM call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStylistChatFailedError creates a retryable stylist chat error.
func NewStylistChatFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStylistChatFailed,
		Message:   "Stylist chat API error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes (same as internal).
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeAuthInvalidKey:                "AUTH_INVALID_KEY",
	ErrCodeAuthInactiveKey:               "AUTH_INACTIVE_KEY",
	ErrCodeAuthCheckFailed:               "AUTH_CHECK_FAILED",
	ErrCodeProfileInvalid:                "PROFILE_INVALID",
	ErrCodeProductNotFound:               "PRODUCT_NOT_FOUND",
	ErrCodeSizeChartEmpty:                "SIZE_CHART_EMPTY",
	ErrCodeRecommendationFailed:          "RECOMMENDATION_FAILED",
	ErrCodeProductValidationFailed:       "PRODUCT_VALIDATION_FAILED",
	ErrCodeProductInsertFailed:           "PRODUCT_INSERT_FAILED",
	ErrCodeDuplicateProduct:              "DUPLICATE_PRODUCT",
	ErrCodeDatabaseConnectionFailed:      "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:          "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:                  "QUERY_TIMEOUT",
	ErrCodeInvalidQueryType:              "INVALID_QUERY_TYPE",
	ErrCodeElasticsearchConnectionFailed: "ELASTICSEARCH_CONNECTION_FAILED",
	ErrCodeSearchQueryFailed:             "SEARCH_QUERY_FAILED",
	ErrCodeSearchTimeout:                 "SEARCH_TIMEOUT",
	ErrCodeIndexNotFound:                 "INDEX_NOT_FOUND",
	ErrCodeScrapeFetchFailed:             "SCRAPE_FETCH_FAILED",
	ErrCodeScrapeTimeout:                 "SCRAPE_TIMEOUT",
	ErrCodeEventRecordFailed:             "EVENT_RECORD_FAILED",
	ErrCodeReportSendFailed:              "REPORT_SEND_FAILED",
	ErrCodeStylistTimeout:                "STYLIST_TIMEOUT",
	ErrCodeStylistChatFailed:             "STYLIST_CHAT_FAILED",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeAuthCheckFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeProductInsertFailed,
		ErrCodeEventRecordFailed,
		ErrCodeReportSendFailed,
		ErrCodeRecommendationFailed,
		ErrCodeScrapeFetchFailed,
		ErrCodeStylistChatFailed:
		return 3 // Retryable technical errors

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout,
		ErrCodeScrapeTimeout:
		return 2 // Partial retry for timeouts

	case ErrCodeStylistTimeout:
		return 1 // As per BPMN boundary event

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "AUTH"):
		return "AUTH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "SCRAPE"):
		return "SCRAPER"
	case strings.Contains(codeStr, "STYLIST"):
		return "AI"
	case strings.Contains(codeStr, "REPORT"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "PROFILE"):
		return "VALIDATION"
	case strings.Contains(codeStr, "PRODUCT") || strings.Contains(codeStr, "SIZE") || strings.Contains(codeStr, "RECOMMENDATION"):
		return "CATALOG"
	default:
		return "OTHER"
	}
}
