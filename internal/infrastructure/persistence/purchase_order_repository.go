package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erp/purchase-orders/internal/domain/purchasing"
	"github.com/erp/purchase-orders/internal/domain/shared"
	"github.com/erp/purchase-orders/internal/infrastructure/persistence/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the SQLSTATE raised by a unique index.
const pgUniqueViolation = "23505"

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by its ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id int64) (*purchasing.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds purchase orders matching the filter
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	var orderModels []models.PurchaseOrderModel

	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]purchasing.PurchaseOrder, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// Count counts purchase orders matching the filter, ignoring pagination
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{})
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByPoNumber checks whether a PO Number is taken by another record.
// Numbers compare case-insensitively, like the unique index.
func (r *GormPurchaseOrderRepository) ExistsByPoNumber(ctx context.Context, poNumber string, excludeID *int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Where("UPPER(po_number) = ?", strings.ToUpper(poNumber))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindPoNumbersByPrefix returns every PO Number starting with prefix
func (r *GormPurchaseOrderRepository) FindPoNumbersByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var numbers []string
	if err := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Where("UPPER(po_number) LIKE ? ESCAPE '\\'", escapeLike(strings.ToUpper(prefix))+"%").
		Pluck("po_number", &numbers).Error; err != nil {
		return nil, err
	}
	return numbers, nil
}

// Create inserts a new purchase order and fills in its generated id and timestamps
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, po *purchasing.PurchaseOrder) error {
	model := models.PurchaseOrderModelFromDomain(po)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	po.ID = model.ID
	po.CreatedAt = model.CreatedAt
	po.UpdatedAt = model.UpdatedAt
	return nil
}

// Update overwrites the mutable fields of an existing purchase order
func (r *GormPurchaseOrderRepository) Update(ctx context.Context, po *purchasing.PurchaseOrder) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Where("id = ?", po.ID).
		Updates(map[string]any{
			"po_number":     po.PoNumber,
			"description":   po.Description,
			"supplier_name": po.SupplierName,
			"order_date":    po.OrderDate,
			"total_amount":  po.TotalAmount,
			"status":        string(po.Status),
			"updated_at":    now,
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return shared.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	po.UpdatedAt = now
	return nil
}

// Delete removes a purchase order by ID
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.PurchaseOrderModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options including ordering and pagination
func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply ordering with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, DefaultPurchaseOrderSortField)
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)
	if sortField != "id" {
		query = query.Order("id " + sortOrder)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination applies search and field filters
func (r *GormPurchaseOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		// LOWER/LIKE instead of ILIKE so the query also runs on SQLite
		pattern := "%" + strings.ToLower(escapeLike(search)) + "%"
		query = query.Where("(LOWER(po_number) LIKE ? ESCAPE '\\' OR LOWER(supplier_name) LIKE ? ESCAPE '\\')",
			pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case purchasing.FilterStatus:
			switch v := value.(type) {
			case purchasing.Status:
				query = query.Where("status = ?", string(v))
			case string:
				query = query.Where("status = ?", v)
			}
		case purchasing.FilterOrderDateFrom:
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date >= ?", t)
			}
		case purchasing.FilterOrderDateTo:
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date <= ?", t)
			}
		}
	}

	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// isUniqueViolation recognizes a rejected insert or update on a unique index,
// whether or not the dialector translated the driver error.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ purchasing.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
