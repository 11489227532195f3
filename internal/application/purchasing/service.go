// Package purchasing orchestrates the purchase order use cases: validation,
// the PO Number uniqueness check and persistence.
package purchasing

import (
	"context"
	"errors"

	"github.com/erp/purchase-orders/internal/domain/purchasing"
	"github.com/erp/purchase-orders/internal/domain/shared"
	"github.com/erp/purchase-orders/internal/infrastructure/logger"
	"github.com/erp/purchase-orders/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const spanService = "purchase_order"

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo purchasing.PurchaseOrderRepository
	validator *purchasing.Validator
}

// NewPurchaseOrderService creates a new PurchaseOrderService.
// The order date range is a form-level policy and is not enforced here.
func NewPurchaseOrderService(orderRepo purchasing.PurchaseOrderRepository) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo: orderRepo,
		validator: purchasing.NewValidator(),
	}
}

// Create validates the request, checks the PO Number and stores a new order
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "create",
		telemetry.SpanAttrPoNumber, req.PoNumber)
	defer span.End()

	order, err := purchasing.NewPurchaseOrder(s.validator, req.Input())
	if err != nil {
		return nil, fail(span, err)
	}

	if err := s.ensureUnique(ctx, order.PoNumber, nil); err != nil {
		return nil, fail(span, err)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fail(span, s.mapWriteError(ctx, "create", order.PoNumber, err))
	}

	logger.L(ctx).Info("Purchase order created",
		zap.Int64("id", order.ID),
		zap.String("po_number", order.PoNumber),
	)
	telemetry.SetAttributes(span, telemetry.SpanAttrPurchaseOrderID, order.ID)
	telemetry.SetOK(span)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders, newest order date first unless the query says otherwise
func (s *PurchaseOrderService) List(ctx context.Context, query ListPurchaseOrdersQuery) (*ListResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "list")
	defer span.End()

	filter, err := query.Filter()
	if err != nil {
		return nil, fail(span, err)
	}

	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fail(span, s.storeError(ctx, "list", err))
	}

	total := int64(len(orders))
	if filter.PageSize > 0 {
		total, err = s.orderRepo.Count(ctx, filter)
		if err != nil {
			return nil, fail(span, s.storeError(ctx, "count", err))
		}
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrResultCount, len(orders))
	telemetry.SetOK(span)

	result := shared.NewPaginated(ToPurchaseOrderResponses(orders), total, filter.Page, filter.PageSize)
	return &result, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, id int64) (*PurchaseOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "get",
		telemetry.SpanAttrPurchaseOrderID, id)
	defer span.End()

	order, err := s.find(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}

	telemetry.SetOK(span)
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Update replaces the editable fields of an existing purchase order
func (s *PurchaseOrderService) Update(ctx context.Context, id int64, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "update",
		telemetry.SpanAttrPurchaseOrderID, id,
		telemetry.SpanAttrPoNumber, req.PoNumber)
	defer span.End()

	if req.ID == nil || *req.ID != id {
		var bodyID int64
		if req.ID != nil {
			bodyID = *req.ID
		}
		return nil, fail(span, &purchasing.IDMismatchError{PathID: id, BodyID: bodyID})
	}

	order, err := s.find(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}

	if err := order.Apply(s.validator, req.Input()); err != nil {
		return nil, fail(span, err)
	}

	if err := s.ensureUnique(ctx, order.PoNumber, &id); err != nil {
		return nil, fail(span, err)
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fail(span, s.mapWriteError(ctx, "update", order.PoNumber, err, id))
	}

	logger.L(ctx).Info("Purchase order updated",
		zap.Int64("id", order.ID),
		zap.String("po_number", order.PoNumber),
		zap.String("status", order.Status.String()),
	)
	telemetry.SetOK(span)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Delete permanently removes a purchase order
func (s *PurchaseOrderService) Delete(ctx context.Context, id int64) error {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "delete",
		telemetry.SpanAttrPurchaseOrderID, id)
	defer span.End()

	order, err := s.find(ctx, id)
	if err != nil {
		return fail(span, err)
	}

	if err := s.orderRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fail(span, &purchasing.NotFoundError{ID: id})
		}
		return fail(span, s.storeError(ctx, "delete", err))
	}

	logger.L(ctx).Info("Purchase order deleted",
		zap.Int64("id", id),
		zap.String("po_number", order.PoNumber),
	)
	telemetry.SetOK(span)
	return nil
}

// NextPoNumber suggests the next free generated PO Number of year
func (s *PurchaseOrderService) NextPoNumber(ctx context.Context, year int) (*NextPoNumberResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "next_number", "year", year)
	defer span.End()

	existing, err := s.orderRepo.FindPoNumbersByPrefix(ctx, purchasing.PoNumberPrefix(year))
	if err != nil {
		return nil, fail(span, s.storeError(ctx, "next_number", err))
	}

	telemetry.SetOK(span)
	return &NextPoNumberResponse{PoNumber: purchasing.NextPoNumber(year, existing)}, nil
}

func (s *PurchaseOrderService) find(ctx context.Context, id int64) (*purchasing.PurchaseOrder, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, &purchasing.NotFoundError{ID: id}
		}
		return nil, s.storeError(ctx, "find", err)
	}
	return order, nil
}

// ensureUnique is the friendly pre-check; the unique index still decides
// when two writers race past it.
func (s *PurchaseOrderService) ensureUnique(ctx context.Context, poNumber string, excludeID *int64) error {
	exists, err := s.orderRepo.ExistsByPoNumber(ctx, poNumber, excludeID)
	if err != nil {
		return s.storeError(ctx, "exists", err)
	}
	if exists {
		return &purchasing.DuplicateKeyError{PoNumber: poNumber}
	}
	return nil
}

func (s *PurchaseOrderService) mapWriteError(ctx context.Context, op, poNumber string, err error, id ...int64) error {
	switch {
	case errors.Is(err, shared.ErrAlreadyExists):
		logger.L(ctx).Warn("Unique index rejected PO Number after pre-check",
			zap.String("op", op),
			zap.String("po_number", poNumber),
		)
		return &purchasing.DuplicateKeyError{PoNumber: poNumber}
	case errors.Is(err, shared.ErrNotFound) && len(id) > 0:
		return &purchasing.NotFoundError{ID: id[0]}
	default:
		return s.storeError(ctx, op, err)
	}
}

func (s *PurchaseOrderService) storeError(ctx context.Context, op string, err error) error {
	logger.L(ctx).Error("Purchase order store failure", zap.String("op", op), zap.Error(err))
	return &purchasing.StoreUnavailableError{Op: op, Err: err}
}

func fail(span trace.Span, err error) error {
	telemetry.RecordError(span, err)
	telemetry.SetAttributes(span, telemetry.SpanAttrErrorCode, shared.CodeOf(err))
	return err
}
