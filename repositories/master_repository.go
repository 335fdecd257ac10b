package repositories

import (
	"errors"
	"fiber-erp/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MasterRepository reads and writes reference data: suppliers, items,
// warehouses and customers.
type MasterRepository struct {
	db *gorm.DB
}

func NewMasterRepository(db *gorm.DB) *MasterRepository {
	return &MasterRepository{db: db}
}

func (r *MasterRepository) FindSupplier(id uint) (*models.Supplier, error) {
	var s models.Supplier
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *MasterRepository) FindItem(id uint) (*models.Item, error) {
	var item models.Item
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItemsByIDs returns the items keyed by ID; missing IDs are simply absent.
func (r *MasterRepository) FindItemsByIDs(ids []uint) (map[uint]models.Item, error) {
	out := make(map[uint]models.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []models.Item
	if err := r.db.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

func (r *MasterRepository) FindWarehouse(id uint) (*models.Warehouse, error) {
	var w models.Warehouse
	if err := r.db.First(&w, id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// LockWarehouse loads a warehouse and holds its row lock until the surrounding
// transaction ends. Stock-outs take it before reading the balance so two
// concurrent withdrawals from one warehouse cannot both pass the check.
func (r *MasterRepository) LockWarehouse(id uint) (*models.Warehouse, error) {
	if r.db.Dialector.Name() == "sqlserver" {
		// T-SQL has no FOR UPDATE; touching the row takes the same lock
		if err := r.db.Exec("UPDATE warehouses SET updated_at = updated_at WHERE id = ? AND deleted_at IS NULL", id).Error; err != nil {
			return nil, err
		}
		return r.FindWarehouse(id)
	}
	var w models.Warehouse
	if err := lockWarehouseQuery(r.db, id, &w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func lockWarehouseQuery(db *gorm.DB, id uint, dest *models.Warehouse) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"}).First(dest, id)
}

func (r *MasterRepository) FindCustomer(id uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *MasterRepository) ListSuppliers() ([]models.Supplier, error) {
	var rows []models.Supplier
	err := r.db.Order("supplier_code").Find(&rows).Error
	return rows, err
}

func (r *MasterRepository) ListItems() ([]models.Item, error) {
	var rows []models.Item
	err := r.db.Order("item_code").Find(&rows).Error
	return rows, err
}

func (r *MasterRepository) ListWarehouses() ([]models.Warehouse, error) {
	var rows []models.Warehouse
	err := r.db.Order("warehouse_code").Find(&rows).Error
	return rows, err
}

func (r *MasterRepository) ListCustomers() ([]models.Customer, error) {
	var rows []models.Customer
	err := r.db.Order("customer_code").Find(&rows).Error
	return rows, err
}

// CodeTaken reports whether a code is already used in table.column,
// soft-deleted rows included since the unique index still holds them.
func (r *MasterRepository) CodeTaken(model interface{}, column, code string) (bool, error) {
	var count int64
	err := r.db.Model(model).Unscoped().Where(column+" = ?", code).Count(&count).Error
	return count > 0, err
}

// Create inserts any reference-data row.
func (r *MasterRepository) Create(row interface{}) error {
	return r.db.Create(row).Error
}

// UpsertItem updates the item with the same code or inserts a new one.
// Returns true when a new row was created.
func (r *MasterRepository) UpsertItem(item *models.Item) (bool, error) {
	var existing models.Item
	err := r.db.Where("item_code = ?", item.ItemCode).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, r.db.Create(item).Error
	}
	if err != nil {
		return false, err
	}
	item.ID = existing.ID
	return false, r.db.Model(&existing).Updates(map[string]interface{}{
		"item_name":  item.ItemName,
		"uom":        item.Uom,
		"unit_price": item.UnitPrice,
	}).Error
}
