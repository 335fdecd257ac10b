package repositories

import (
	"fiber-erp/models"
	"fiber-erp/types"

	"gorm.io/gorm"
)

type GoodsReceiptRepository struct {
	db *gorm.DB
}

func NewGoodsReceiptRepository(db *gorm.DB) *GoodsReceiptRepository {
	return &GoodsReceiptRepository{db: db}
}

func (r *GoodsReceiptRepository) Create(gr *models.GoodsReceipt) error {
	return r.db.Create(gr).Error
}

func (r *GoodsReceiptRepository) FindByPurchaseOrderID(poID uint) (*models.GoodsReceipt, error) {
	var gr models.GoodsReceipt
	err := r.db.Where("purchase_order_id = ?", poID).First(&gr).Error
	if err != nil {
		return nil, err
	}
	return &gr, nil
}

func (r *GoodsReceiptRepository) List(status string) ([]models.GoodsReceipt, error) {
	var rows []models.GoodsReceipt
	q := r.db.Preload("PurchaseOrder")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// Transition applies updates only while the receipt is still in status from.
func (r *GoodsReceiptRepository) Transition(id types.SnowflakeID, from string, updates map[string]interface{}) (bool, error) {
	res := r.db.Model(&models.GoodsReceipt{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
