package purchasing

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/erp/purchase-orders/internal/domain/purchasing"
	"github.com/erp/purchase-orders/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ==================== Request DTOs ====================

// AmountInput keeps totalAmount exactly as the client sent it so that
// non-numeric input is reported as a field error instead of a decode error.
// A JSON number, a JSON string and null are all accepted.
type AmountInput string

// UnmarshalJSON implements json.Unmarshaler
func (a *AmountInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountInput(s)
	default:
		*a = AmountInput(data)
	}
	return nil
}

// MarshalJSON writes a numeric amount as a JSON number and anything else
// as a string, so the server sees exactly what was typed.
func (a AmountInput) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(a))
	if s == "" {
		return []byte("null"), nil
	}
	if _, err := decimal.NewFromString(s); err == nil && json.Valid([]byte(s)) {
		return []byte(s), nil
	}
	return json.Marshal(string(a))
}

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	PoNumber     string      `json:"poNumber" example:"PO-2025-001"`
	Description  string      `json:"description" example:"Office chairs"`
	SupplierName string      `json:"supplierName" example:"Acme Co"`
	OrderDate    string      `json:"orderDate" example:"2025-06-01"`
	TotalAmount  AmountInput `json:"totalAmount" swaggertype:"number" example:"150.00"`
	Status       string      `json:"status" example:"Draft" enums:"Draft,Approved,Shipped,Completed,Cancelled"`
}

// Input converts the request into validation input
func (r CreatePurchaseOrderRequest) Input() purchasing.Input {
	return purchasing.Input{
		PoNumber:     r.PoNumber,
		Description:  r.Description,
		SupplierName: r.SupplierName,
		OrderDate:    r.OrderDate,
		TotalAmount:  string(r.TotalAmount),
		Status:       r.Status,
	}
}

// UpdatePurchaseOrderRequest represents a full replacement of a purchase order.
// ID must repeat the id of the path.
type UpdatePurchaseOrderRequest struct {
	ID *int64 `json:"id" example:"1"`
	CreatePurchaseOrderRequest
}

// ListPurchaseOrdersQuery represents the query string of the list endpoint
type ListPurchaseOrdersQuery struct {
	Search    string `form:"search" binding:"omitempty,max=100"`
	Status    string `form:"status" binding:"omitempty,oneof=Draft Approved Shipped Completed Cancelled"`
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	SortBy    string `form:"sortBy" binding:"omitempty,oneof=orderDate poNumber supplierName totalAmount status createdAt"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// Paginated reports whether the caller asked for a page rather than the whole collection
func (q ListPurchaseOrdersQuery) Paginated() bool {
	return q.Page > 0 || q.PageSize > 0
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// sortColumns maps API sort keys to the columns the repository whitelists
var sortColumns = map[string]string{
	"orderDate":    "order_date",
	"poNumber":     "po_number",
	"supplierName": "supplier_name",
	"totalAmount":  "total_amount",
	"status":       "status",
	"createdAt":    "created_at",
}

// Filter builds the repository filter. Dates that fail to parse are
// returned as a *purchasing.ValidationError keyed by the query parameter.
func (q ListPurchaseOrdersQuery) Filter() (shared.Filter, error) {
	filter := shared.DefaultFilter()
	// Stored text is entity-encoded, so the term is encoded the same way.
	filter.Search = purchasing.Sanitize(q.Search)

	if col, ok := sortColumns[q.SortBy]; ok {
		filter.OrderBy = col
	}
	if q.SortOrder != "" {
		filter.OrderDir = strings.ToLower(q.SortOrder)
	}

	if q.Paginated() {
		filter.Page = max(q.Page, 1)
		filter.PageSize = q.PageSize
		if filter.PageSize <= 0 {
			filter.PageSize = defaultPageSize
		}
		filter.PageSize = min(filter.PageSize, maxPageSize)
	} else {
		filter.Page = 0
		filter.PageSize = 0
	}

	if q.Status != "" {
		filter.Filters[purchasing.FilterStatus] = purchasing.Status(q.Status)
	}

	fieldErrs := purchasing.FieldErrors{}
	if q.From != "" {
		from, err := time.Parse(purchasing.DateLayout, q.From)
		if err != nil {
			fieldErrs.Add("from", purchasing.MsgOrderDateFormat)
		} else {
			filter.Filters[purchasing.FilterOrderDateFrom] = from
		}
	}
	if q.To != "" {
		to, err := time.Parse(purchasing.DateLayout, q.To)
		if err != nil {
			fieldErrs.Add("to", purchasing.MsgOrderDateFormat)
		} else {
			filter.Filters[purchasing.FilterOrderDateTo] = to
		}
	}
	if !fieldErrs.Empty() {
		return filter, &purchasing.ValidationError{Fields: fieldErrs}
	}
	return filter, nil
}

// ==================== Response DTOs ====================

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID           int64       `json:"id" example:"1"`
	PoNumber     string      `json:"poNumber" example:"PO-2025-001"`
	Description  string      `json:"description" example:"Office chairs"`
	SupplierName string      `json:"supplierName" example:"Acme Co"`
	OrderDate    string      `json:"orderDate" example:"2025-06-01"`
	TotalAmount  json.Number `json:"totalAmount" swaggertype:"number" example:"150.00"`
	Status       string      `json:"status" example:"Draft"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to PurchaseOrderResponse
func ToPurchaseOrderResponse(po *purchasing.PurchaseOrder) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		ID:           po.ID,
		PoNumber:     po.PoNumber,
		Description:  po.Description,
		SupplierName: po.SupplierName,
		OrderDate:    po.OrderDate.Format(purchasing.DateLayout),
		TotalAmount:  json.Number(po.TotalAmount.StringFixed(2)),
		Status:       po.Status.String(),
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
	}
}

// ToPurchaseOrderResponses converts a slice of domain orders
func ToPurchaseOrderResponses(orders []purchasing.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return responses
}

// ListResult is a page of purchase orders. PageSize is 0 when the whole
// collection was returned.
type ListResult = shared.Paginated[PurchaseOrderResponse]

// NextPoNumberResponse carries a suggested PO Number for a new order
type NextPoNumberResponse struct {
	PoNumber string `json:"poNumber" example:"PO-2025-004"`
}
