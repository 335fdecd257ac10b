package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PurchaseOrderStatusPending  = "pending"
	PurchaseOrderStatusApproved = "approved"
)

type PurchaseOrder struct {
	gorm.Model
	PoNumber      string     `json:"po_number" gorm:"size:30;uniqueIndex;not null"`
	RequisitionID *uint      `json:"requisition_id" gorm:"index"`
	SupplierID    uint       `json:"supplier_id" gorm:"not null;index"`
	OrderDate     time.Time  `json:"order_date"`
	Status        string     `json:"status" gorm:"size:20;not null;default:'pending';index"`
	Notes         string     `json:"notes" gorm:"size:500"`
	WarehouseID   *uint      `json:"warehouse_id"`
	CreatedBy     string     `json:"created_by" gorm:"size:100"`
	ApprovedBy    string     `json:"approved_by" gorm:"size:100"`
	ApprovedAt    *time.Time `json:"approved_at"`

	Supplier *Supplier          `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Items    []PurchaseOrderItem `json:"items" gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
}

type PurchaseOrderItem struct {
	ID              uint            `json:"ID" gorm:"primaryKey"`
	PurchaseOrderID uint            `json:"purchase_order_id" gorm:"not null;index"`
	ItemID          uint            `json:"item_id" gorm:"not null"`
	Quantity        int             `json:"quantity" gorm:"not null"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt       time.Time       `json:"created_at"`

	Item *Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}

type PurchaseOrderInput struct {
	SupplierID uint                     `json:"supplier_id" validate:"required"`
	Notes      string                   `json:"notes" validate:"max=500"`
	Items      []PurchaseOrderItemInput `json:"items" validate:"required,min=1,dive"`
}

type PurchaseOrderItemInput struct {
	ItemID   uint            `json:"item_id" validate:"required"`
	Quantity int             `json:"quantity" validate:"required,gt=0"`
	Price    decimal.Decimal `json:"price"`
}

type ApprovePurchaseOrderInput struct {
	// zero is rejected by the service, not by the tag, so the error names the field
	WarehouseID uint `json:"warehouse_id"`
}
