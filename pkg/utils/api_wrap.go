package utils

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	RespondErrorDetails(c, code, message, nil)
}

func RespondErrorDetails(c *gin.Context, code int, message string, details interface{}) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Error:   message,
		Details: details,
		TraceID: c.GetString("trace_id"),
	})
}

// HandleServiceError translates the error taxonomy into a JSON error body.
func HandleServiceError(c *gin.Context, err error) {
	var gwErr *GatewayError

	switch {
	case errors.As(err, &gwErr) && errors.Is(err, ErrGatewayRejected):
		RespondErrorDetails(c, http.StatusBadRequest, "Payment gateway rejected the request", gwErr.Message)
	case errors.As(err, &gwErr):
		zap.L().Error("payment gateway unreachable", zap.Error(err), zap.String("trace_id", c.GetString("trace_id")))
		details := map[string]interface{}{"error": gwErr.Error()}
		if gwErr.StatusCode != 0 {
			details["status_code"] = gwErr.StatusCode
		}
		RespondErrorDetails(c, http.StatusInternalServerError, "Failed to communicate with payment gateway", details)
	case errors.Is(err, ErrValidation):
		RespondError(c, http.StatusBadRequest, kindMessage(err, ErrValidation))
	case errors.Is(err, ErrNotFound):
		RespondError(c, http.StatusNotFound, capitalize(err.Error()))
	case errors.Is(err, ErrForbidden):
		RespondError(c, http.StatusForbidden, "Permission denied")
	case errors.Is(err, ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, kindMessage(err, ErrUnauthorized))
	case errors.Is(err, ErrDatabaseError):
		zap.L().Error("database error", zap.Error(err), zap.String("trace_id", c.GetString("trace_id")))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		zap.L().Error("unexpected error", zap.Error(err), zap.String("trace_id", c.GetString("trace_id")))
		RespondError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// kindMessage strips the "<kind>: " prefix so clients see only the reason.
func kindMessage(err, kind error) string {
	return strings.TrimPrefix(err.Error(), kind.Error()+": ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
