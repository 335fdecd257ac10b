package repositories

import (
	"fiber-erp/models"

	"gorm.io/gorm"
)

const signedQuantity = "CASE WHEN st.transaction_type = 'stock-in' THEN st.quantity ELSE -st.quantity END"

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

type StockFilter struct {
	ItemID          uint
	WarehouseID     uint
	ReferenceNumber string
	Limit           int
}

// Post appends ledger rows. Rows are never updated or deleted afterwards.
func (r *StockRepository) Post(rows ...*models.StockTransaction) error {
	for _, row := range rows {
		if err := r.db.Create(row).Error; err != nil {
			return err
		}
	}
	return nil
}

// Available is the on-hand quantity of one item in one warehouse.
func (r *StockRepository) Available(itemID, warehouseID uint) (int64, error) {
	var total int64
	err := r.db.Table("stock_transactions st").
		Select("COALESCE(SUM("+signedQuantity+"), 0)").
		Where("st.item_id = ? AND st.warehouse_id = ?", itemID, warehouseID).
		Scan(&total).Error
	return total, err
}

// AvailableAcrossWarehouses is the on-hand quantity of one item summed over
// every warehouse.
func (r *StockRepository) AvailableAcrossWarehouses(itemID uint) (int64, error) {
	var total int64
	err := r.db.Table("stock_transactions st").
		Select("COALESCE(SUM("+signedQuantity+"), 0)").
		Where("st.item_id = ?", itemID).
		Scan(&total).Error
	return total, err
}

func (r *StockRepository) OnHand(f StockFilter) ([]models.StockOnHand, error) {
	var rows []models.StockOnHand
	q := r.db.Table("stock_transactions st").
		Select(`st.item_id, i.item_code, i.item_name, st.warehouse_id, w.warehouse_code,
			SUM(` + signedQuantity + `) AS available_quantity`).
		Joins("JOIN items i ON i.id = st.item_id").
		Joins("JOIN warehouses w ON w.id = st.warehouse_id")
	if f.ItemID != 0 {
		q = q.Where("st.item_id = ?", f.ItemID)
	}
	if f.WarehouseID != 0 {
		q = q.Where("st.warehouse_id = ?", f.WarehouseID)
	}
	err := q.Group("st.item_id, i.item_code, i.item_name, st.warehouse_id, w.warehouse_code").
		Order("i.item_code, w.warehouse_code").
		Scan(&rows).Error
	return rows, err
}

func (r *StockRepository) Ledger(f StockFilter) ([]models.StockTransaction, error) {
	var rows []models.StockTransaction
	q := r.db.Model(&models.StockTransaction{})
	if f.ItemID != 0 {
		q = q.Where("item_id = ?", f.ItemID)
	}
	if f.WarehouseID != 0 {
		q = q.Where("warehouse_id = ?", f.WarehouseID)
	}
	if f.ReferenceNumber != "" {
		q = q.Where("reference_number = ?", f.ReferenceNumber)
	}
	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	err := q.Order("created_at ASC, id ASC").Limit(limit).Find(&rows).Error
	return rows, err
}

// CountByReference counts ledger rows under a reference, optionally only
// those of one transaction type.
func (r *StockRepository) CountByReference(ref, txType string) (int64, error) {
	var count int64
	q := r.db.Model(&models.StockTransaction{}).Where("reference_number = ?", ref)
	if txType != "" {
		q = q.Where("transaction_type = ?", txType)
	}
	err := q.Count(&count).Error
	return count, err
}
