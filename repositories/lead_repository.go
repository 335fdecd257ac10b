package repositories

import (
	"fiber-erp/models"

	"gorm.io/gorm"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(lead *models.Lead) error {
	return r.db.Create(lead).Error
}

func (r *LeadRepository) FindByID(id uint) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.Preload("Customer").Preload("Item").First(&lead, id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepository) List(status string) ([]models.Lead, error) {
	var rows []models.Lead
	q := r.db.Preload("Customer").Preload("Item")
	if status != "" {
		q = q.Where("lead_status = ?", status)
	}
	err := q.Order("id DESC").Find(&rows).Error
	return rows, err
}

// MarkConverted returns false when the lead was not open anymore.
func (r *LeadRepository) MarkConverted(id uint) (bool, error) {
	res := r.db.Model(&models.Lead{}).
		Where("id = ? AND lead_status = ?", id, models.LeadStatusOpen).
		Update("lead_status", models.LeadStatusConverted)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *LeadRepository) CreateQuotation(q *models.Quotation) error {
	return r.db.Create(q).Error
}

func (r *LeadRepository) ListQuotations(customerID uint) ([]models.Quotation, error) {
	var rows []models.Quotation
	q := r.db.Model(&models.Quotation{})
	if customerID != 0 {
		q = q.Where("customer_id = ?", customerID)
	}
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}
