package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/edubloom-ai/internal/monitoring"
)

// ErrorCategory defines the type of error for proper handling
type ErrorCategory string

const (
	CategoryValidation      ErrorCategory = "validation"
	CategoryUnsupportedFile ErrorCategory = "unsupported_file"
	CategoryPayloadTooLarge ErrorCategory = "payload_too_large"
	CategoryTimeout         ErrorCategory = "timeout"
	CategoryInternal        ErrorCategory = "internal"
)

// legacyCodes are the stable string codes sent to clients
var legacyCodes = map[ErrorCategory]string{
	CategoryValidation:      "VALIDATION_ERROR",
	CategoryUnsupportedFile: "UNSUPPORTED_FILE_TYPE",
	CategoryPayloadTooLarge: "PAYLOAD_TOO_LARGE",
	CategoryTimeout:         "TIMEOUT_ERROR",
	CategoryInternal:        "INTERNAL_ERROR",
}

// FieldViolation is one entry of a request-validation error body.
type FieldViolation struct {
	Loc   []string       `json:"loc"`
	Msg   string         `json:"msg"`
	Type  string         `json:"type"`
	Input any            `json:"input,omitempty"`
	Ctx   map[string]any `json:"ctx,omitempty"`
}

// Body is the JSON shape of every error response.
type Body struct {
	Detail    any    `json:"detail"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// AppError wraps an errbuilder error with HTTP context
type AppError struct {
	*errbuilder.ErrBuilder
	Category   ErrorCategory
	HTTPStatus int
	Timestamp  time.Time
	RequestID  string
	StackTrace string
	// Detail is what the client sees: a string or []FieldViolation.
	Detail any
}

// Error implements the error interface
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code(), e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

// Code returns the client-facing error code
func (e *AppError) Code() string {
	if code, ok := legacyCodes[e.Category]; ok {
		return code
	}
	return "UNKNOWN_ERROR"
}

// Body returns the response payload for this error.
func (e *AppError) Body() Body {
	return Body{Detail: e.Detail, Code: e.Code(), RequestID: e.RequestID}
}

// NewAppError creates an AppError from errbuilder with additional context
func NewAppError(builder *errbuilder.ErrBuilder, category ErrorCategory, httpStatus int, detail any) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: httpStatus,
		Timestamp:  time.Now(),
		Detail:     detail,
	}
}

// NewRequestValidationError reports malformed or out-of-range request fields.
func NewRequestValidationError(violations []FieldViolation) *AppError {
	errorMap := errbuilder.ErrorMap{}
	for _, v := range violations {
		errorMap.Set(strings.Join(v.Loc, "."), errors.New(v.Msg))
	}

	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("Request validation failed (%d errors)", len(violations))).
		WithDetails(errbuilder.NewErrDetails(errorMap))

	return NewAppError(builder, CategoryValidation, http.StatusUnprocessableEntity, violations)
}

// NewUnsupportedFileTypeError rejects a retrain upload that is not a CSV file.
func NewUnsupportedFileTypeError(filename, message string) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("filename", errors.New(filename))

	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message).
		WithDetails(errbuilder.NewErrDetails(errorMap))

	return NewAppError(builder, CategoryUnsupportedFile, http.StatusBadRequest, message)
}

// NewPayloadTooLargeError rejects bodies above the configured limit
func NewPayloadTooLargeError(limit int64) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("limit_bytes", errors.New(strconv.FormatInt(limit, 10)))

	msg := fmt.Sprintf("Request body exceeds the %d byte limit", limit)
	builder := errbuilder.New().
		WithCode(errbuilder.CodeResourceExhausted).
		WithMsg(msg).
		WithDetails(errbuilder.NewErrDetails(errorMap))

	return NewAppError(builder, CategoryPayloadTooLarge, http.StatusRequestEntityTooLarge, msg)
}

// NewTimeoutError creates a timeout error using errbuilder
func NewTimeoutError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeDeadlineExceeded).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryTimeout, http.StatusGatewayTimeout, message)
}

// NewInternalError creates an internal server error using errbuilder. The
// message is logged but never sent to the client.
func NewInternalError(message string, cause error) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("internal_details", errors.New(message))

	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("Internal server error").
		WithDetails(errbuilder.NewErrDetails(errorMap))

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	appErr := NewAppError(builder, CategoryInternal, http.StatusInternalServerError, "Internal server error")

	// Capture stack trace in development/debug mode
	if gin.Mode() == gin.DebugMode || gin.Mode() == gin.TestMode {
		appErr.StackTrace = captureStackTrace()
	}

	return appErr
}

// captureStackTrace captures a stack trace for debugging
func captureStackTrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// Respond logs appErr and writes it as the response, aborting the chain.
func Respond(c *gin.Context, appErr *AppError) {
	if appErr.RequestID == "" {
		appErr.RequestID = c.GetString(monitoring.RequestIDKey)
	}
	LogError(c, appErr)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.Body())
}

// ErrorHandler is a Gin middleware that renders the last error attached
// with c.Error, unless the handler already wrote a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		Respond(c, ToAppError(c.Errors.Last().Err))
	}
}

// RecoveryHandler provides panic recovery with structured error responses
func RecoveryHandler() gin.HandlerFunc {
	return gin.RecoveryWithWriter(nil, func(c *gin.Context, err interface{}) {
		appErr := NewInternalError(
			fmt.Sprintf("Panic recovered: %v", err),
			fmt.Errorf("%v", err),
		)
		appErr.StackTrace = captureStackTrace()

		Respond(c, appErr)
	})
}

// ToAppError converts any error to an AppError
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError("Request deadline exceeded", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewTimeoutError("Request cancelled", err)
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return NewPayloadTooLargeError(maxBytesErr.Limit)
	}

	return NewInternalError("An unexpected error occurred", err)
}

// LogError logs an error with appropriate level and context
func LogError(c *gin.Context, err *AppError) {
	logEntry := slog.With(
		"error_category", err.Category,
		"error_code", err.ErrBuilder.ErrCode(),
		"http_status", err.HTTPStatus,
		"ip", c.ClientIP(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", err.RequestID,
	)

	errorMsg := err.ErrBuilder.Msg
	errorDetails := err.ErrBuilder.Details

	switch err.Category {
	case CategoryValidation, CategoryUnsupportedFile, CategoryPayloadTooLarge:
		if len(errorDetails.Errors) > 0 {
			logEntry.Warn(errorMsg, "details", errorDetails.Errors)
		} else {
			logEntry.Warn(errorMsg)
		}
	case CategoryTimeout:
		if cause := err.ErrBuilder.Unwrap(); cause != nil {
			logEntry.Info(errorMsg, "cause", cause)
		} else {
			logEntry.Info(errorMsg)
		}
	default:
		if cause := err.ErrBuilder.Unwrap(); cause != nil {
			logEntry.Error(errorMsg, "cause", cause)
		} else {
			logEntry.Error(errorMsg)
		}
	}

	if err.StackTrace != "" && (gin.Mode() == gin.DebugMode || gin.Mode() == gin.TestMode) {
		logEntry.Debug("stack_trace", "trace", err.StackTrace)
	}
}
