package models

import (
	"fiber-erp/controllers/idgen"
	"fiber-erp/types"
	"time"

	"gorm.io/gorm"
)

const (
	GoodsReceiptStatusPending   = "pending"
	GoodsReceiptStatusDelivered = "delivered"
	GoodsReceiptStatusVerified  = "verified"
)

// GoodsReceipt is the single receiving record of a purchase order.
type GoodsReceipt struct {
	ID              types.SnowflakeID `json:"ID" gorm:"primaryKey;autoIncrement:false"`
	GrNumber        string            `json:"gr_number" gorm:"size:60;uniqueIndex;not null"`
	InvoiceNumber   string            `json:"invoice_number" gorm:"size:30"`
	PurchaseOrderID uint              `json:"purchase_order_id" gorm:"uniqueIndex;not null"`
	ReceivedBy      string            `json:"received_by" gorm:"size:100"`
	Status          string            `json:"status" gorm:"size:20;not null;default:'pending';index"`
	DeliveredAt     *time.Time        `json:"delivered_at"`
	VerifiedAt      *time.Time        `json:"verified_at"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	PurchaseOrder *PurchaseOrder `json:"purchase_order,omitempty" gorm:"foreignKey:PurchaseOrderID"`
}

func (g *GoodsReceipt) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == 0 {
		g.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

type VerifyReceiptInput struct {
	PurchaseOrderID uint   `json:"purchase_order_id" validate:"required"`
	ReceivedBy      string `json:"received_by" validate:"required,max=100"`
}

type DeliverReceiptInput struct {
	ReceivedBy string `json:"received_by" validate:"max=100"`
}
