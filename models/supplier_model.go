package models

import "gorm.io/gorm"

type Supplier struct {
	gorm.Model
	SupplierCode string `json:"supplier_code" gorm:"size:50;uniqueIndex;not null"`
	SupplierName string `json:"supplier_name" gorm:"size:150;not null"`
	Email        string `json:"email" gorm:"size:150"`
	Phone        string `json:"phone" gorm:"size:50"`
	CreatedBy    string `json:"created_by" gorm:"size:100"`
}

type SupplierInput struct {
	SupplierCode string `json:"supplier_code" validate:"required,max=50"`
	SupplierName string `json:"supplier_name" validate:"required,max=150"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"max=50"`
}
