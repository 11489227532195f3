package handler

import (
	"errors"
	"net/http"

	"github.com/erp/purchase-orders/internal/domain/purchasing"
	"github.com/erp/purchase-orders/internal/domain/shared"
	"github.com/erp/purchase-orders/internal/infrastructure/logger"
	"github.com/erp/purchase-orders/internal/interfaces/http/dto"
	"github.com/erp/purchase-orders/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Messages of a body that could not be decoded.
const (
	MsgInvalidJSON       = "Invalid JSON in request body"
	MsgInvalidJSONDetail = "request body is not valid JSON"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := middleware.GetRequestID(c); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string, details ...string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message, details...).WithRequestID(getRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string, details ...string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message, details...)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string, details ...string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message, details...)
}

// InvalidJSON sends a 400 for a body that could not be decoded. The decoder
// error names Go types, so it is logged rather than returned.
func (h *BaseHandler) InvalidJSON(c *gin.Context, err error) {
	logger.L(c.Request.Context()).Debug("Request body rejected",
		zap.String("request_id", getRequestID(c)),
		zap.Error(err))
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, MsgInvalidJSON, MsgInvalidJSONDetail)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleDomainError converts domain errors to HTTP responses.
// Infrastructure causes are logged and never reach the body.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	requestID := getRequestID(c)

	var validationErr *purchasing.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrCodeValidation,
			purchasing.MsgValidationFailed,
			validationErr.Fields.Messages()...,
		).WithFieldErrors(validationErr.Fields).WithRequestID(requestID))
		return
	}

	if errors.Is(err, shared.ErrStoreUnavailable) {
		_ = c.Error(err)
		logger.L(c.Request.Context()).Error("Request failed on the data store",
			zap.String("request_id", requestID),
			zap.Error(err))
		h.InternalError(c, purchasing.MsgStoreUnavailable)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message, domainErr.Details...)
		return
	}

	_ = c.Error(err)
	logger.L(c.Request.Context()).Error("Unhandled error",
		zap.String("request_id", requestID),
		zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}
