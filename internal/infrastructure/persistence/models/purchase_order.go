package models

import (
	"time"

	"github.com/erp/purchase-orders/internal/domain/purchasing"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder entity.
type PurchaseOrderModel struct {
	BaseModel
	PoNumber     string          `gorm:"type:varchar(50);not null;uniqueIndex:uq_purchase_orders_po_number,expression:UPPER(po_number)"`
	Description  string          `gorm:"type:text;not null"`
	SupplierName string          `gorm:"type:varchar(500);not null;index:idx_purchase_orders_supplier_name"`
	OrderDate    time.Time       `gorm:"type:date;not null;index:idx_purchase_orders_order_date"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Status       string          `gorm:"type:varchar(20);not null;index:idx_purchase_orders_status"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder entity
func (m *PurchaseOrderModel) ToDomain() *purchasing.PurchaseOrder {
	d := m.OrderDate
	return &purchasing.PurchaseOrder{
		ID:           m.ID,
		PoNumber:     m.PoNumber,
		Description:  m.Description,
		SupplierName: m.SupplierName,
		OrderDate:    time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
		TotalAmount:  m.TotalAmount.Round(2),
		Status:       purchasing.Status(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain PurchaseOrder entity
func (m *PurchaseOrderModel) FromDomain(po *purchasing.PurchaseOrder) {
	m.ID = po.ID
	m.CreatedAt = po.CreatedAt
	m.UpdatedAt = po.UpdatedAt
	m.PoNumber = po.PoNumber
	m.Description = po.Description
	m.SupplierName = po.SupplierName
	m.OrderDate = po.OrderDate
	m.TotalAmount = po.TotalAmount
	m.Status = string(po.Status)
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder entity
func PurchaseOrderModelFromDomain(po *purchasing.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(po)
	return m
}
