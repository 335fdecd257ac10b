package models

import (
	"fiber-erp/controllers/idgen"
	"fiber-erp/types"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	LeadStatusOpen      = "open"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"

	QuotationStatusDraft = "draft"
)

type Lead struct {
	gorm.Model
	CustomerID     uint   `json:"customer_id" gorm:"not null;index"`
	ItemID         uint   `json:"item_id" gorm:"not null"`
	Quantity       int    `json:"quantity"`
	AvailableStock int    `json:"available_stock"`
	LeadStatus     string `json:"lead_status" gorm:"size:20;not null;default:'open';index"`
	Notes          string `json:"notes" gorm:"size:500"`
	CreatedBy      string `json:"created_by" gorm:"size:100"`

	Customer *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Item     *Item     `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}

type LeadInput struct {
	CustomerID     uint   `json:"customer_id" validate:"required"`
	ItemID         uint   `json:"item_id" validate:"required"`
	Quantity       int    `json:"quantity" validate:"gte=0"`
	AvailableStock *int   `json:"available_stock" validate:"omitempty,gte=0"`
	Notes          string `json:"notes" validate:"max=500"`
}

type Quotation struct {
	ID              types.SnowflakeID `json:"ID" gorm:"primaryKey;autoIncrement:false"`
	QuotationNumber string            `json:"quotation_number" gorm:"size:30;uniqueIndex;not null"`
	LeadID          uint              `json:"lead_id" gorm:"uniqueIndex;not null"`
	CustomerID      uint              `json:"customer_id" gorm:"not null;index"`
	ItemID          uint              `json:"item_id" gorm:"not null"`
	Quantity        int               `json:"quantity"`
	UnitPrice       decimal.Decimal   `json:"unit_price" gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount     decimal.Decimal   `json:"total_amount" gorm:"type:decimal(18,4);not null;default:0"`
	Status          string            `json:"status" gorm:"size:20;not null;default:'draft'"`
	CreatedBy       string            `json:"created_by" gorm:"size:100"`
	CreatedAt       time.Time         `json:"created_at"`
}

func (q *Quotation) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == 0 {
		q.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}
