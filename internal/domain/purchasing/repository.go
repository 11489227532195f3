package purchasing

import (
	"context"

	"github.com/erp/purchase-orders/internal/domain/shared"
)

// Filter keys understood by PurchaseOrderRepository in shared.Filter.Filters.
const (
	FilterStatus        = "status"
	FilterOrderDateFrom = "order_date_from"
	FilterOrderDateTo   = "order_date_to"
)

// PurchaseOrderRepository is the record store port.
//
// FindByID returns shared.ErrNotFound when the id is absent. Create and
// Update return shared.ErrAlreadyExists when the store's unique index on
// the PO Number rejects the row.
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id int64) (*PurchaseOrder, error)
	// FindAll returns matching orders; a PageSize of 0 disables pagination.
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// ExistsByPoNumber reports whether another record uses poNumber.
	// A record whose id equals *excludeID is not counted.
	ExistsByPoNumber(ctx context.Context, poNumber string, excludeID *int64) (bool, error)
	FindPoNumbersByPrefix(ctx context.Context, prefix string) ([]string, error)
	Create(ctx context.Context, po *PurchaseOrder) error
	Update(ctx context.Context, po *PurchaseOrder) error
	Delete(ctx context.Context, id int64) error
}
