package models

import "gorm.io/gorm"

type Customer struct {
	gorm.Model
	CustomerCode string `json:"customer_code" gorm:"size:50;uniqueIndex;not null"`
	CustomerName string `json:"customer_name" gorm:"size:150;not null"`
	Email        string `json:"email" gorm:"size:150"`
	Phone        string `json:"phone" gorm:"size:50"`
	CreatedBy    string `json:"created_by" gorm:"size:100"`
}

type CustomerInput struct {
	CustomerCode string `json:"customer_code" validate:"required,max=50"`
	CustomerName string `json:"customer_name" validate:"required,max=150"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"max=50"`
}
