// Package form drives the purchase order edit form: local validation,
// a confirm step before every write, and reconciliation of server errors.
package form

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	poapp "github.com/erp/purchase-orders/internal/application/purchasing"
	"github.com/erp/purchase-orders/internal/client"
	"github.com/erp/purchase-orders/internal/domain/purchasing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Confirmation prompts shown before a pending action is sent.
const (
	PromptCreate = "Are you sure you want to create this purchase order?"
	PromptUpdate = "Are you sure you want to update this purchase order?"
	PromptDelete = "Are you sure you want to delete this purchase order?"
)

// Banner messages for failures that belong to no single field.
const (
	BannerLoadFailed  = "Failed to load purchase orders"
	BannerUnreachable = "Unable to reach the server. Please try again."
	BannerUnexpected  = "An unexpected error occurred"
)

var (
	// ErrInvalid is returned by RequestSubmit while the draft fails validation.
	ErrInvalid = errors.New("form: draft has validation errors")
	// ErrNothingPending is returned by Confirm without a prior request.
	ErrNothingPending = errors.New("form: no pending action to confirm")
	// ErrUnknownField is returned by SetField for a name that is not a form field.
	ErrUnknownField = errors.New("form: unknown field")
)

// API is the part of the purchase order client the controller calls.
type API interface {
	List(ctx context.Context, opts client.ListOptions) (*client.ListResult, error)
	CreateWithKey(ctx context.Context, key string, req poapp.CreatePurchaseOrderRequest) (*poapp.PurchaseOrderResponse, error)
	Update(ctx context.Context, id int64, req poapp.CreatePurchaseOrderRequest) (*poapp.PurchaseOrderResponse, error)
	Delete(ctx context.Context, id int64) error
}

// ActionKind tags a PendingAction
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return "none"
}

// PendingAction is the write waiting for confirmation. ID is set for
// ActionUpdate and ActionDelete only.
type PendingAction struct {
	Kind ActionKind
	ID   int64
}

// Draft holds the form fields exactly as typed. ID is 0 for a new order.
type Draft struct {
	ID           int64
	PoNumber     string
	Description  string
	SupplierName string
	OrderDate    string
	TotalAmount  string
	Status       string
}

func (d Draft) input() purchasing.Input {
	return purchasing.Input{
		PoNumber:     d.PoNumber,
		Description:  d.Description,
		SupplierName: d.SupplierName,
		OrderDate:    d.OrderDate,
		TotalAmount:  d.TotalAmount,
		Status:       d.Status,
	}
}

func (d Draft) request() poapp.CreatePurchaseOrderRequest {
	return poapp.CreatePurchaseOrderRequest{
		PoNumber:     d.PoNumber,
		Description:  d.Description,
		SupplierName: d.SupplierName,
		OrderDate:    d.OrderDate,
		TotalAmount:  poapp.AmountInput(d.TotalAmount),
		Status:       d.Status,
	}
}

// Option configures a Controller
type Option func(*Controller)

// WithClock sets the time source for the default order date and the date range rule
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithLogger sets the logger for failed API calls
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithIdempotencyKeys overrides the generator of create keys
func WithIdempotencyKeys(next func() string) Option {
	return func(c *Controller) {
		c.newKey = next
	}
}

// WithListOptions sets the query used by Load
func WithListOptions(opts client.ListOptions) Option {
	return func(c *Controller) {
		c.listOptions = opts
	}
}

// Controller is the state behind the purchase order form and list.
// It is not safe for concurrent use.
type Controller struct {
	api         API
	validator   *purchasing.Validator
	now         func() time.Time
	logger      *zap.Logger
	listOptions client.ListOptions
	newKey      func() string

	draft       Draft
	createKey   string
	fieldErrors purchasing.FieldErrors
	banner      string
	pending     PendingAction

	orders []poapp.PurchaseOrderResponse
	total  int64
}

// New creates a controller with an empty new-order draft
func New(api API, opts ...Option) *Controller {
	c := &Controller{
		api:    api,
		now:    time.Now,
		logger: zap.NewNop(),
		newKey: uuid.NewString,
		orders: []poapp.PurchaseOrderResponse{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.validator = purchasing.NewValidator(
		purchasing.WithOrderDateRange(),
		purchasing.WithClock(c.now),
	)
	c.Reset()
	return c
}

// Reset starts a new order: status Draft, order date today, no errors.
func (c *Controller) Reset() {
	c.draft = Draft{
		OrderDate: c.now().Format(purchasing.DateLayout),
		Status:    purchasing.StatusDraft.String(),
	}
	c.createKey = ""
	c.fieldErrors = purchasing.FieldErrors{}
	c.banner = ""
	c.pending = PendingAction{}
}

// Edit loads an existing order into the form. Stored text is shown decoded.
func (c *Controller) Edit(order poapp.PurchaseOrderResponse) {
	c.Reset()
	c.draft = Draft{
		ID:           order.ID,
		PoNumber:     purchasing.Decode(order.PoNumber),
		Description:  purchasing.Decode(order.Description),
		SupplierName: purchasing.Decode(order.SupplierName),
		OrderDate:    order.OrderDate,
		TotalAmount:  order.TotalAmount.String(),
		Status:       order.Status,
	}
}

// SetField edits one draft field and re-validates only that field
func (c *Controller) SetField(name, value string) error {
	switch name {
	case purchasing.FieldPoNumber:
		c.draft.PoNumber = value
	case purchasing.FieldDescription:
		c.draft.Description = value
	case purchasing.FieldSupplierName:
		c.draft.SupplierName = value
	case purchasing.FieldOrderDate:
		c.draft.OrderDate = value
	case purchasing.FieldTotalAmount:
		c.draft.TotalAmount = value
	case purchasing.FieldStatus:
		c.draft.Status = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	c.createKey = ""

	delete(c.fieldErrors, name)
	for _, v := range c.validator.ValidateField(name, value) {
		c.fieldErrors.Add(name, v.Message)
	}
	return nil
}

// IsValid reports whether the whole draft passes the client rule set
func (c *Controller) IsValid() bool {
	return c.validator.Validate(c.draft.input()).Empty()
}

// RequestSubmit marks a create or update as pending and returns the prompt
// to show. An invalid draft is not submitted; its errors are shown instead.
func (c *Controller) RequestSubmit() (string, error) {
	errs := c.validator.Validate(c.draft.input())
	if !errs.Empty() {
		c.fieldErrors = errs
		c.pending = PendingAction{}
		return "", ErrInvalid
	}

	if c.draft.ID == 0 {
		if c.createKey == "" {
			c.createKey = c.newKey()
		}
		c.pending = PendingAction{Kind: ActionCreate}
		return PromptCreate, nil
	}
	c.pending = PendingAction{Kind: ActionUpdate, ID: c.draft.ID}
	return PromptUpdate, nil
}

// RequestDelete marks the delete of id as pending and returns the prompt
func (c *Controller) RequestDelete(id int64) string {
	c.pending = PendingAction{Kind: ActionDelete, ID: id}
	return PromptDelete
}

// Cancel drops the pending action without calling the server
func (c *Controller) Cancel() {
	c.pending = PendingAction{}
}

// Confirm sends the pending action. On success the form is reset and the
// list reloaded; on failure server errors are shown on the form.
func (c *Controller) Confirm(ctx context.Context) error {
	action := c.pending
	c.pending = PendingAction{}
	c.banner = ""

	var err error
	switch action.Kind {
	case ActionCreate:
		_, err = c.api.CreateWithKey(ctx, c.createKey, c.draft.request())
		if isReplay(err) {
			// an earlier attempt of this draft reached the server
			c.logger.Info("Create already applied under this key")
			err = nil
		}
	case ActionUpdate:
		_, err = c.api.Update(ctx, action.ID, c.draft.request())
	case ActionDelete:
		err = c.api.Delete(ctx, action.ID)
	default:
		return ErrNothingPending
	}

	if err != nil {
		c.logger.Warn("Purchase order action failed",
			zap.Stringer("action", action.Kind),
			zap.Int64("id", action.ID),
			zap.Error(err))
		c.reconcile(err)
		return err
	}

	if action.Kind != ActionDelete || action.ID == c.draft.ID {
		c.Reset()
	}
	_ = c.Load(ctx)
	return nil
}

// Load fetches the list. A failure leaves an empty list and a banner.
func (c *Controller) Load(ctx context.Context) error {
	result, err := c.api.List(ctx, c.listOptions)
	if err != nil {
		c.logger.Warn("Loading purchase orders failed", zap.Error(err))
		c.orders = []poapp.PurchaseOrderResponse{}
		c.total = 0
		c.banner = BannerLoadFailed
		return err
	}
	c.orders = result.Items
	c.total = result.Total
	return nil
}

func isReplay(err error) bool {
	var apiErr *client.APIError
	return errors.As(err, &apiErr) && apiErr.IsDuplicateRequest()
}

// reconcile routes a server error to the field display or the banner
func (c *Controller) reconcile(err error) {
	var apiErr *client.APIError
	var transportErr *client.TransportError
	switch {
	case errors.As(err, &apiErr) && len(apiErr.FieldErrors) > 0:
		c.fieldErrors = purchasing.FieldErrors{}
		for field, msgs := range apiErr.FieldErrors {
			for _, m := range msgs {
				c.fieldErrors.Add(field, m)
			}
		}
	case errors.As(err, &apiErr) && apiErr.IsDuplicate():
		c.banner = apiErr.Message
		c.fieldErrors.Add(purchasing.FieldPoNumber, purchasing.MsgDuplicateDetail)
	case errors.As(err, &apiErr):
		c.banner = apiErr.Message
	case errors.As(err, &transportErr):
		c.banner = BannerUnreachable
	default:
		c.banner = BannerUnexpected
	}
}

// Draft returns the current field values
func (c *Controller) Draft() Draft {
	return c.draft
}

// FieldErrors returns a copy of the per-field messages
func (c *Controller) FieldErrors() map[string][]string {
	out := make(map[string][]string, len(c.fieldErrors))
	for field, msgs := range c.fieldErrors {
		out[field] = slices.Clone(msgs)
	}
	return out
}

// FieldNames returns the fields that currently have errors, sorted
func (c *Controller) FieldNames() []string {
	return slices.Sorted(maps.Keys(c.fieldErrors))
}

// Banner returns the record-level message, or "" when there is none
func (c *Controller) Banner() string {
	return c.banner
}

// Pending returns the action waiting for confirmation
func (c *Controller) Pending() PendingAction {
	return c.pending
}

// Orders returns the last loaded list
func (c *Controller) Orders() []poapp.PurchaseOrderResponse {
	return c.orders
}

// Total returns the total count reported with the last list
func (c *Controller) Total() int64 {
	return c.total
}
