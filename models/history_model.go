package models

import (
	"fiber-erp/controllers/idgen"
	"fiber-erp/types"
	"time"

	"gorm.io/gorm"
)

const (
	HistoryTypeRequisition   = "requisition"
	HistoryTypePurchaseOrder = "purchase_order"
	HistoryTypeGoodsReceipt  = "goods_receipt"
	HistoryTypeStock         = "stock"
	HistoryTypeLead          = "lead"
)

// TransactionHistory is the audit trail of workflow steps, written in the
// same database transaction as the step it records.
type TransactionHistory struct {
	ID        types.SnowflakeID `json:"ID" gorm:"primaryKey;autoIncrement:false"`
	RefNo     string            `json:"ref_no" gorm:"size:60;index"`
	Status    string            `json:"status" gorm:"size:20"`
	Type      string            `json:"type" gorm:"size:30"`
	Detail    string            `json:"detail" gorm:"size:500"`
	CreatedBy string            `json:"created_by" gorm:"size:100"`
	CreatedAt time.Time         `json:"created_at"`
}

func (u *TransactionHistory) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == 0 {
		u.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}
