package models

import (
	"fiber-erp/controllers/idgen"
	"fiber-erp/types"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeStockIn  = "stock-in"
	TransactionTypeStockOut = "stock-out"
)

// StockTransaction is an append-only ledger row. On-hand quantity is always
// derived from the ledger, never stored.
type StockTransaction struct {
	ID              types.SnowflakeID `json:"ID" gorm:"primaryKey;autoIncrement:false"`
	ItemID          uint              `json:"item_id" gorm:"not null;index:idx_stock_item_whs"`
	WarehouseID     uint              `json:"warehouse_id" gorm:"not null;index:idx_stock_item_whs"`
	TransactionType string            `json:"transaction_type" gorm:"size:20;not null"`
	Quantity        int               `json:"quantity" gorm:"not null"`
	UnitCost        decimal.Decimal   `json:"unit_cost" gorm:"type:decimal(18,4);not null;default:0"`
	TotalCost       decimal.Decimal   `json:"total_cost" gorm:"type:decimal(18,4);not null;default:0"`
	ReferenceNumber string            `json:"reference_number" gorm:"size:60;index"`
	Notes           string            `json:"notes" gorm:"size:255"`
	CreatedBy       string            `json:"created_by" gorm:"size:100"`
	CreatedAt       time.Time         `json:"created_at"`
}

func (s *StockTransaction) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == 0 {
		s.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

// StockOnHand is one row of the derived on-hand view.
type StockOnHand struct {
	ItemID            uint   `json:"item_id"`
	ItemCode          string `json:"item_code"`
	ItemName          string `json:"item_name"`
	WarehouseID       uint   `json:"warehouse_id"`
	WarehouseCode     string `json:"warehouse_code"`
	AvailableQuantity int    `json:"available_quantity"`
	Critical          bool   `json:"critical" gorm:"-"`
}

type TransferInput struct {
	ItemID          uint   `json:"item_id" validate:"required"`
	FromWarehouseID uint   `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   uint   `json:"to_warehouse_id" validate:"required"`
	Quantity        int    `json:"quantity"`
	Notes           string `json:"notes" validate:"max=255"`
}

type AdjustmentInput struct {
	ItemID          uint            `json:"item_id" validate:"required"`
	WarehouseID     uint            `json:"warehouse_id" validate:"required"`
	TransactionType string          `json:"transaction_type" validate:"required,oneof=stock-in stock-out"`
	Quantity        int             `json:"quantity" validate:"required,gt=0"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	ReferenceNumber string          `json:"reference_number" validate:"max=60"`
	Notes           string          `json:"notes" validate:"max=255"`
}
