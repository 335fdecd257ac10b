package models

import "gorm.io/gorm"

type Warehouse struct {
	gorm.Model
	WarehouseCode string `json:"warehouse_code" gorm:"size:50;uniqueIndex;not null"`
	WarehouseName string `json:"warehouse_name" gorm:"size:150;not null"`
	Location      string `json:"location" gorm:"size:255"`
	CreatedBy     string `json:"created_by" gorm:"size:100"`
}

type WarehouseInput struct {
	WarehouseCode string `json:"warehouse_code" validate:"required,max=50"`
	WarehouseName string `json:"warehouse_name" validate:"required,max=150"`
	Location      string `json:"location" validate:"max=255"`
}
