package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RequisitionStatusPending  = "pending"
	RequisitionStatusApproved = "approved"
	RequisitionStatusRejected = "rejected"
)

type Requisition struct {
	gorm.Model
	SupplierID   uint       `json:"supplier_id" gorm:"not null;index"`
	Description  string     `json:"description" gorm:"size:500"`
	Status       string     `json:"status" gorm:"size:20;not null;default:'pending';index"`
	RequiredDate *time.Time `json:"required_date"`
	CreatedBy    string     `json:"created_by" gorm:"size:100"`
	DecidedBy    string     `json:"decided_by" gorm:"size:100"`
	DecidedAt    *time.Time `json:"decided_at"`

	Supplier *Supplier        `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Items    []RequisitionItem `json:"items" gorm:"foreignKey:RequisitionID;constraint:OnDelete:CASCADE"`
}

// RequisitionItem is immutable once its requisition exists.
type RequisitionItem struct {
	ID            uint      `json:"ID" gorm:"primaryKey"`
	RequisitionID uint      `json:"requisition_id" gorm:"not null;index"`
	ItemID        uint      `json:"item_id" gorm:"not null"`
	Quantity      int       `json:"quantity" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`

	Item *Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}

type RequisitionInput struct {
	SupplierID   uint                   `json:"supplier_id" validate:"required"`
	Description  string                 `json:"description" validate:"max=500"`
	RequiredDate *time.Time             `json:"required_date"`
	Items        []RequisitionItemInput `json:"items" validate:"required,min=1,dive"`
}

type RequisitionItemInput struct {
	ItemID   uint `json:"item_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"required,gt=0"`
}
