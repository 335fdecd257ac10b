package repositories

import (
	"fiber-erp/models"
	"time"

	"gorm.io/gorm"
)

type RequisitionRepository struct {
	db *gorm.DB
}

func NewRequisitionRepository(db *gorm.DB) *RequisitionRepository {
	return &RequisitionRepository{db: db}
}

// Create inserts the requisition together with its lines.
func (r *RequisitionRepository) Create(req *models.Requisition) error {
	return r.db.Create(req).Error
}

func (r *RequisitionRepository) FindByID(id uint) (*models.Requisition, error) {
	var req models.Requisition
	err := r.db.Preload("Supplier").Preload("Items.Item").First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequisitionRepository) List(status string) ([]models.Requisition, error) {
	var rows []models.Requisition
	q := r.db.Preload("Supplier").Preload("Items")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("id DESC").Find(&rows).Error
	return rows, err
}

// Transition moves the requisition from one status to another only if it is
// still in the expected status. It returns false when another writer won.
func (r *RequisitionRepository) Transition(id uint, from, to, operator string, at time.Time) (bool, error) {
	res := r.db.Model(&models.Requisition{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"decided_by": operator,
			"decided_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeletePending soft-deletes a requisition that has not been decided yet.
func (r *RequisitionRepository) DeletePending(id uint) (bool, error) {
	res := r.db.Where("id = ? AND status = ?", id, models.RequisitionStatusPending).
		Delete(&models.Requisition{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
