// Package purchasing holds the purchase order entity together with the
// validation rules shared by the API and the form controller.
package purchasing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the workflow stage of a purchase order
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusApproved  Status = "Approved"
	StatusShipped   Status = "Shipped"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Statuses lists every recognized status in workflow order.
func Statuses() []Status {
	return []Status{StatusDraft, StatusApproved, StatusShipped, StatusCompleted, StatusCancelled}
}

// IsValid checks if the status is one of the recognized values
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Field names as they appear on the wire and in FieldErrors.
const (
	FieldID           = "id"
	FieldPoNumber     = "poNumber"
	FieldDescription  = "description"
	FieldSupplierName = "supplierName"
	FieldOrderDate    = "orderDate"
	FieldTotalAmount  = "totalAmount"
	FieldStatus       = "status"
)

// Fields lists the validated fields in display order.
var Fields = []string{
	FieldPoNumber,
	FieldDescription,
	FieldSupplierName,
	FieldOrderDate,
	FieldTotalAmount,
	FieldStatus,
}

// DateLayout is the wire format of OrderDate.
const DateLayout = "2006-01-02"

// PurchaseOrder is the single persisted entity.
type PurchaseOrder struct {
	ID           int64
	PoNumber     string
	Description  string
	SupplierName string
	OrderDate    time.Time
	TotalAmount  decimal.Decimal
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Input carries candidate field values exactly as they were entered.
// Amount and date stay textual so unparseable input can be reported per field.
type Input struct {
	PoNumber     string
	Description  string
	SupplierName string
	OrderDate    string
	TotalAmount  string
	Status       string
}

// Sanitized returns a copy with every free-text field passed through Sanitize.
// The PO Number is also upper-cased, its canonical stored form.
func (in Input) Sanitized() Input {
	return Input{
		PoNumber:     strings.ToUpper(Sanitize(in.PoNumber)),
		Description:  Sanitize(in.Description),
		SupplierName: Sanitize(in.SupplierName),
		OrderDate:    strings.TrimSpace(in.OrderDate),
		TotalAmount:  strings.TrimSpace(in.TotalAmount),
		Status:       strings.TrimSpace(in.Status),
	}
}

// NewPurchaseOrder validates in with v and builds an unsaved order from its
// sanitized form. A *ValidationError is returned when any rule fails.
func NewPurchaseOrder(v *Validator, in Input) (*PurchaseOrder, error) {
	po := &PurchaseOrder{}
	if err := po.Apply(v, in); err != nil {
		return nil, err
	}
	return po, nil
}

// Apply validates in and overwrites the editable fields of po.
// The ID and audit timestamps are left untouched.
func (po *PurchaseOrder) Apply(v *Validator, in Input) error {
	if fields := v.Validate(in); !fields.Empty() {
		return &ValidationError{Fields: fields}
	}

	clean := in.Sanitized()
	orderDate, err := ParseOrderDate(clean.OrderDate)
	if err != nil {
		return &ValidationError{Fields: FieldErrors{FieldOrderDate: {MsgOrderDateFormat}}}
	}
	amount, err := decimal.NewFromString(clean.TotalAmount)
	if err != nil {
		return &ValidationError{Fields: FieldErrors{FieldTotalAmount: {MsgAmountNumeric}}}
	}

	po.PoNumber = clean.PoNumber
	po.Description = clean.Description
	po.SupplierName = clean.SupplierName
	po.OrderDate = orderDate
	po.TotalAmount = amount.Round(2)
	po.Status = Status(clean.Status)
	return nil
}

var orderDateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseOrderDate accepts a calendar date or an ISO-8601 timestamp and
// returns the calendar date at UTC midnight.
func ParseOrderDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range orderDateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
