package repositories

import (
	"fiber-erp/models"
	"time"

	"gorm.io/gorm"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Insert writes one audit row. Call it with the workflow's transaction.
func (r *HistoryRepository) Insert(refNo, status, txType, detail, operator string) error {
	history := models.TransactionHistory{
		RefNo:     refNo,
		Status:    status,
		Type:      txType,
		Detail:    detail,
		CreatedBy: operator,
		CreatedAt: time.Now(),
	}
	return r.db.Create(&history).Error
}

func (r *HistoryRepository) ListByRef(refNo string) ([]models.TransactionHistory, error) {
	var rows []models.TransactionHistory
	q := r.db.Model(&models.TransactionHistory{})
	if refNo != "" {
		q = q.Where("ref_no = ?", refNo)
	}
	err := q.Order("created_at ASC, id ASC").Limit(500).Find(&rows).Error
	return rows, err
}
