package purchasing

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ViolationKind classifies why a field value was rejected.
type ViolationKind string

const (
	KindRequired    ViolationKind = "REQUIRED"
	KindFormat      ViolationKind = "FORMAT"
	KindLength      ViolationKind = "LENGTH"
	KindRange       ViolationKind = "RANGE"
	KindNumeric     ViolationKind = "NUMERIC"
	KindPrecision   ViolationKind = "PRECISION"
	KindEnum        ViolationKind = "ENUM"
	KindUnsafeInput ViolationKind = "UNSAFE_INPUT"
)

// Violation is a single failed rule on a single field.
type Violation struct {
	Field   string
	Kind    ViolationKind
	Message string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// User-facing rule messages.
const (
	MsgPoNumberRequired = "PO Number is required"
	MsgPoNumberLength   = "PO Number must be between 3 and 50 characters"
	MsgPoNumberFormat   = "PO Number must follow format: PO-YYYY-XXX (e.g., PO-2025-001)"
	MsgPoNumberUnsafe   = "PO Number contains invalid characters"

	MsgDescriptionRequired = "Description is required"
	MsgDescriptionLength   = "Description must be between 5 and 500 characters"
	MsgDescriptionUnsafe   = "Description contains potentially harmful characters"

	MsgSupplierRequired = "Supplier name is required"
	MsgSupplierLength   = "Supplier name must be between 2 and 100 characters"
	MsgSupplierCharset  = "Supplier name contains invalid characters"
	MsgSupplierUnsafe   = "Supplier name contains potentially harmful characters"

	MsgAmountRequired  = "Amount is required"
	MsgAmountNumeric   = "Amount must be a valid number"
	MsgAmountMin       = "Amount must be greater than 0"
	MsgAmountMax       = "Amount exceeds maximum allowed value"
	MsgAmountPrecision = "Amount can have maximum 2 decimal places"

	MsgOrderDateRequired = "Order date is required"
	MsgOrderDateFormat   = "Invalid date format"
	MsgOrderDatePast     = "Order date cannot be more than 10 years in the past"
	MsgOrderDateFuture   = "Order date cannot be more than 1 year in the future"

	MsgStatusRequired = "Status is required"
	MsgStatusInvalid  = "Invalid status value"
)

// Bounds of the validated fields.
const (
	PoNumberMinLen     = 3
	PoNumberMaxLen     = 50
	DescriptionMinLen  = 5
	DescriptionMaxLen  = 500
	SupplierMinLen     = 2
	SupplierMaxLen     = 100
	OrderDateYearsBack = 10
	OrderDateYearsFwd  = 1
)

var (
	MinTotalAmount = decimal.RequireFromString("0.01")
	MaxTotalAmount = decimal.RequireFromString("99999999.99")

	poNumberPattern     = regexp.MustCompile(`(?i)^[A-Z]{2,4}-\d{4}-\d{3,6}$`)
	supplierNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-'&.,()]+$`)
)

// FieldErrors maps a field name to the messages of every rule it violates.
// A record is valid iff the map is empty.
type FieldErrors map[string][]string

// Add appends msg under field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Empty reports whether no field has errors.
func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// Has reports whether field has at least one error.
func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

// Messages flattens the map in display field order, unknown fields last.
func (fe FieldErrors) Messages() []string {
	msgs := make([]string, 0, len(fe))
	seen := make(map[string]bool, len(fe))
	for _, f := range Fields {
		msgs = append(msgs, fe[f]...)
		seen[f] = true
	}
	for f, m := range fe {
		if !seen[f] {
			msgs = append(msgs, m...)
		}
	}
	return msgs
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithClock overrides the time source used by the order date range rule.
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.now = now
	}
}

// WithOrderDateRange enables the [now-10y, now+1y] order date policy.
// The browser-facing form applies it; the API does not.
func WithOrderDateRange() ValidatorOption {
	return func(v *Validator) {
		v.enforceDateRange = true
	}
}

// Validator runs the field rules over a full record.
type Validator struct {
	now              func() time.Time
	enforceDateRange bool
}

// NewValidator creates a validator. Without options it applies the server rule set.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// EnforcesOrderDateRange reports whether the date range policy is on.
func (v *Validator) EnforcesOrderDateRange() bool {
	return v.enforceDateRange
}

// Validate returns the per-field error mapping for in.
func (v *Validator) Validate(in Input) FieldErrors {
	fields := FieldErrors{}
	for _, viol := range v.Violations(in) {
		fields.Add(viol.Field, viol.Message)
	}
	return fields
}

// Violations returns every failed rule for in, in field display order.
func (v *Validator) Violations(in Input) []Violation {
	var out []Violation
	out = append(out, ValidatePoNumber(in.PoNumber)...)
	out = append(out, ValidateDescription(in.Description)...)
	out = append(out, ValidateSupplierName(in.SupplierName)...)
	out = append(out, v.ValidateOrderDate(in.OrderDate)...)
	out = append(out, ValidateTotalAmount(in.TotalAmount)...)
	out = append(out, ValidateStatus(in.Status)...)
	return out
}

// ValidateField runs the rules of a single field.
func (v *Validator) ValidateField(field, value string) []Violation {
	switch field {
	case FieldPoNumber:
		return ValidatePoNumber(value)
	case FieldDescription:
		return ValidateDescription(value)
	case FieldSupplierName:
		return ValidateSupplierName(value)
	case FieldOrderDate:
		return v.ValidateOrderDate(value)
	case FieldTotalAmount:
		return ValidateTotalAmount(value)
	case FieldStatus:
		return ValidateStatus(value)
	}
	return nil
}

// ValidatePoNumber checks presence, length, format and unsafe content.
func ValidatePoNumber(raw string) []Violation {
	s := strings.TrimSpace(Decode(raw))
	if s == "" {
		return []Violation{{FieldPoNumber, KindRequired, MsgPoNumberRequired}}
	}
	var out []Violation
	if n := utf8.RuneCountInString(s); n < PoNumberMinLen || n > PoNumberMaxLen {
		out = append(out, Violation{FieldPoNumber, KindFormat, MsgPoNumberLength})
	}
	if !poNumberPattern.MatchString(s) {
		out = append(out, Violation{FieldPoNumber, KindFormat, MsgPoNumberFormat})
	}
	if ContainsUnsafeInput(s) {
		out = append(out, Violation{FieldPoNumber, KindUnsafeInput, MsgPoNumberUnsafe})
	}
	return out
}

// ValidateDescription checks presence, length and unsafe content.
func ValidateDescription(raw string) []Violation {
	s := strings.TrimSpace(Decode(raw))
	if s == "" {
		return []Violation{{FieldDescription, KindRequired, MsgDescriptionRequired}}
	}
	var out []Violation
	if n := utf8.RuneCountInString(s); n < DescriptionMinLen || n > DescriptionMaxLen {
		out = append(out, Violation{FieldDescription, KindLength, MsgDescriptionLength})
	}
	if ContainsUnsafeInput(s) {
		out = append(out, Violation{FieldDescription, KindUnsafeInput, MsgDescriptionUnsafe})
	}
	return out
}

// ValidateSupplierName checks presence, length, character set and unsafe content.
func ValidateSupplierName(raw string) []Violation {
	s := strings.TrimSpace(Decode(raw))
	if s == "" {
		return []Violation{{FieldSupplierName, KindRequired, MsgSupplierRequired}}
	}
	var out []Violation
	if n := utf8.RuneCountInString(s); n < SupplierMinLen || n > SupplierMaxLen {
		out = append(out, Violation{FieldSupplierName, KindLength, MsgSupplierLength})
	}
	if !supplierNamePattern.MatchString(s) {
		out = append(out, Violation{FieldSupplierName, KindFormat, MsgSupplierCharset})
	}
	if ContainsUnsafeInput(s) {
		out = append(out, Violation{FieldSupplierName, KindUnsafeInput, MsgSupplierUnsafe})
	}
	return out
}

// ValidateTotalAmount checks that raw is a number in range with at most two decimals.
func ValidateTotalAmount(raw string) []Violation {
	s := strings.TrimSpace(raw)
	if s == "" {
		return []Violation{{FieldTotalAmount, KindRequired, MsgAmountRequired}}
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return []Violation{{FieldTotalAmount, KindNumeric, MsgAmountNumeric}}
	}
	var out []Violation
	if amount.LessThan(MinTotalAmount) {
		out = append(out, Violation{FieldTotalAmount, KindRange, MsgAmountMin})
	}
	if amount.GreaterThan(MaxTotalAmount) {
		out = append(out, Violation{FieldTotalAmount, KindRange, MsgAmountMax})
	}
	if !amount.Equal(amount.Truncate(2)) {
		out = append(out, Violation{FieldTotalAmount, KindPrecision, MsgAmountPrecision})
	}
	return out
}

// ValidateOrderDate checks presence and format, and the date range when enabled.
func (v *Validator) ValidateOrderDate(raw string) []Violation {
	s := strings.TrimSpace(raw)
	if s == "" {
		return []Violation{{FieldOrderDate, KindRequired, MsgOrderDateRequired}}
	}
	date, err := ParseOrderDate(s)
	if err != nil {
		return []Violation{{FieldOrderDate, KindFormat, MsgOrderDateFormat}}
	}
	if !v.enforceDateRange {
		return nil
	}
	now := v.now()
	var out []Violation
	if date.Before(now.AddDate(-OrderDateYearsBack, 0, 0)) {
		out = append(out, Violation{FieldOrderDate, KindRange, MsgOrderDatePast})
	}
	if date.After(now.AddDate(OrderDateYearsFwd, 0, 0)) {
		out = append(out, Violation{FieldOrderDate, KindRange, MsgOrderDateFuture})
	}
	return out
}

// ValidateStatus checks presence and membership in the status enumeration.
func ValidateStatus(raw string) []Violation {
	s := strings.TrimSpace(raw)
	if s == "" {
		return []Violation{{FieldStatus, KindRequired, MsgStatusRequired}}
	}
	if !Status(s).IsValid() {
		return []Violation{{FieldStatus, KindEnum, MsgStatusInvalid}}
	}
	return nil
}
