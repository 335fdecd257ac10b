package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Item struct {
	gorm.Model
	ItemCode  string          `json:"item_code" gorm:"size:50;uniqueIndex;not null"`
	ItemName  string          `json:"item_name" gorm:"size:200;not null"`
	Uom       string          `json:"uom" gorm:"size:20;default:'PCS'"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(18,4);not null;default:0"`
	CreatedBy string          `json:"created_by" gorm:"size:100"`
}

type ItemInput struct {
	ItemCode  string          `json:"item_code" validate:"required,max=50"`
	ItemName  string          `json:"item_name" validate:"required,max=200"`
	Uom       string          `json:"uom" validate:"max=20"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}
