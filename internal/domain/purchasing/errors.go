package purchasing

import (
	"fmt"

	"github.com/erp/purchase-orders/internal/domain/shared"
)

// Record-level messages.
const (
	MsgValidationFailed = "Validation failed"
	MsgDuplicateDetail  = "Duplicate PO Number"
	MsgNotFound         = "Purchase Order not found"
	MsgIDMismatch       = "ID in URL does not match ID in body"
	MsgStoreUnavailable = "Purchase order store is unavailable"
)

// ErrValidation is the sentinel matched by every *ValidationError.
var ErrValidation = shared.NewDomainError(shared.CodeValidation, MsgValidationFailed)

// ValidationError reports the failed rules of a full record.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return MsgValidationFailed
}

func (e *ValidationError) Unwrap() error {
	return shared.NewDomainError(shared.CodeValidation, MsgValidationFailed, e.Fields.Messages()...)
}

// DuplicateKeyError reports a PO Number already used by another record.
type DuplicateKeyError struct {
	PoNumber string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("PO Number '%s' already exists. Please use a unique PO Number.", e.PoNumber)
}

func (e *DuplicateKeyError) Unwrap() error {
	return shared.NewDomainError(shared.CodeAlreadyExists, e.Error(), MsgDuplicateDetail)
}

// NotFoundError reports a missing purchase order id.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return MsgNotFound
}

func (e *NotFoundError) Unwrap() error {
	return shared.NewDomainError(shared.CodeNotFound, MsgNotFound,
		fmt.Sprintf("No purchase order found with ID: %d", e.ID))
}

// StoreUnavailableError wraps an infrastructure failure. Its message is
// safe to show; the cause stays in the chain for logging.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s", MsgStoreUnavailable, e.Op)
}

func (e *StoreUnavailableError) Unwrap() []error {
	return []error{
		shared.NewDomainError(shared.CodeStoreUnavailable, MsgStoreUnavailable),
		e.Err,
	}
}

// IDMismatchError reports an update whose body id differs from the path id.
type IDMismatchError struct {
	PathID int64
	BodyID int64
}

func (e *IDMismatchError) Error() string {
	return MsgIDMismatch
}

func (e *IDMismatchError) Unwrap() error {
	return shared.NewDomainError(shared.CodeIDMismatch, MsgIDMismatch)
}
