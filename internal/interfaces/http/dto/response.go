package dto

// Values of the status field in message and error bodies.
const (
	StatusSuccess = "Success"
	StatusError   = "Error"
)

// Pagination headers of the list endpoint. The body stays a bare array.
const (
	HeaderTotalCount = "X-Total-Count"
	HeaderPage       = "X-Page"
	HeaderPageSize   = "X-Page-Size"
)

// HeaderIdempotencyKey identifies a create request across retries.
const HeaderIdempotencyKey = "Idempotency-Key"

// ErrorResponse is the body of every failed request
// @Description Error response
type ErrorResponse struct {
	Status      string              `json:"status" example:"Error"`
	Message     string              `json:"message" example:"Validation failed"`
	Errors      []string            `json:"errors"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
	Code        string              `json:"code" example:"ERR_VALIDATION"`
	RequestID   string              `json:"requestId,omitempty" example:"5f0c6b1e-3c1a-4d7e-9a53-2f1c0f1b7c2d"`
}

// NewErrorResponse creates an error response. errors is never encoded as null.
func NewErrorResponse(code, message string, errors ...string) ErrorResponse {
	if errors == nil {
		errors = []string{}
	}
	return ErrorResponse{
		Status:  StatusError,
		Message: message,
		Errors:  errors,
		Code:    code,
	}
}

// WithRequestID returns a copy carrying the request id
func (r ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	r.RequestID = requestID
	return r
}

// WithFieldErrors returns a copy carrying per-field messages
func (r ErrorResponse) WithFieldErrors(fields map[string][]string) ErrorResponse {
	if len(fields) > 0 {
		r.FieldErrors = fields
	}
	return r
}

// MessageResponse confirms an operation without returning a record
// @Description Confirmation response
type MessageResponse struct {
	Status  string `json:"status" example:"Success"`
	Message string `json:"message" example:"Purchase order deleted successfully"`
}

// NewMessageResponse creates a success confirmation
func NewMessageResponse(message string) MessageResponse {
	return MessageResponse{Status: StatusSuccess, Message: message}
}
