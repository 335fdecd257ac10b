package repositories

import (
	"fiber-erp/models"
	"time"

	"gorm.io/gorm"
)

type PurchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

func (r *PurchaseOrderRepository) Create(po *models.PurchaseOrder) error {
	return r.db.Create(po).Error
}

func (r *PurchaseOrderRepository) NumberExists(poNumber string) (bool, error) {
	var count int64
	err := r.db.Model(&models.PurchaseOrder{}).
		Unscoped().
		Where("po_number = ?", poNumber).
		Count(&count).Error
	return count > 0, err
}

func (r *PurchaseOrderRepository) FindByID(id uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := r.db.Preload("Supplier").Preload("Items.Item").First(&po, id).Error
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *PurchaseOrderRepository) FindByRequisitionID(requisitionID uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := r.db.Preload("Items").Where("requisition_id = ?", requisitionID).First(&po).Error
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *PurchaseOrderRepository) List(status string) ([]models.PurchaseOrder, error) {
	var rows []models.PurchaseOrder
	q := r.db.Preload("Supplier").Preload("Items")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("id DESC").Find(&rows).Error
	return rows, err
}

// Approve flips a pending PO to approved and stamps the receiving warehouse.
// It returns false when the PO was no longer pending.
func (r *PurchaseOrderRepository) Approve(id, warehouseID uint, operator string, at time.Time) (bool, error) {
	res := r.db.Model(&models.PurchaseOrder{}).
		Where("id = ? AND status = ?", id, models.PurchaseOrderStatusPending).
		Updates(map[string]interface{}{
			"status":       models.PurchaseOrderStatusApproved,
			"warehouse_id": warehouseID,
			"approved_by":  operator,
			"approved_at":  at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ApprovedOrder is one approved PO with the counts the reconciliation compares.
type ApprovedOrder struct {
	ID             uint   `json:"id"`
	PoNumber       string `json:"po_number"`
	WarehouseID    *uint  `json:"warehouse_id"`
	LineCount      int64  `json:"line_count"`
	PostingCount   int64  `json:"posting_count"`
	WarehouseCount int64  `json:"warehouse_count"`
}

func (r *PurchaseOrderRepository) ApprovedWithPostings() ([]ApprovedOrder, error) {
	var rows []ApprovedOrder
	err := r.db.Raw(`
		SELECT po.id, po.po_number, po.warehouse_id,
			(SELECT COUNT(*) FROM purchase_order_items poi WHERE poi.purchase_order_id = po.id) AS line_count,
			(SELECT COUNT(*) FROM stock_transactions st
				WHERE st.reference_number = po.po_number AND st.transaction_type = ?) AS posting_count,
			(SELECT COUNT(*) FROM warehouses w
				WHERE w.id = po.warehouse_id AND w.deleted_at IS NULL) AS warehouse_count
		FROM purchase_orders po
		WHERE po.status = ? AND po.deleted_at IS NULL
		ORDER BY po.id`,
		models.TransactionTypeStockIn, models.PurchaseOrderStatusApproved,
	).Scan(&rows).Error
	return rows, err
}
