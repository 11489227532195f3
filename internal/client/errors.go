package client

import (
	"fmt"
	"net/http"

	"github.com/erp/purchase-orders/internal/interfaces/http/dto"
)

// APIError is a non-2xx answer from the server, decoded from the standard error body
type APIError struct {
	StatusCode  int
	Code        string
	Message     string
	Errors      []string
	FieldErrors map[string][]string
	RequestID   string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("purchase order API: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("purchase order API: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsValidation reports field-level rule failures
func (e *APIError) IsValidation() bool {
	return e.Code == dto.ErrCodeValidation || len(e.FieldErrors) > 0
}

// IsDuplicate reports a PO Number already in use
func (e *APIError) IsDuplicate() bool {
	return e.Code == dto.ErrCodeAlreadyExists
}

// IsDuplicateRequest reports an Idempotency-Key the server already processed
func (e *APIError) IsDuplicateRequest() bool {
	return e.Code == dto.ErrCodeDuplicateRequest
}

// IsNotFound reports a missing purchase order
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// TransportError means the request never produced an HTTP response
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "purchase order API unreachable: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
