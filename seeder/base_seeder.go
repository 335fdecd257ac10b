package seed

import (
	"errors"
	"fiber-erp/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run seeds reference data for local environments. Existing rows are left alone.
func Run(db *gorm.DB) error {
	if err := SeedWarehouse(db); err != nil {
		return err
	}
	if err := SeedSupplier(db); err != nil {
		return err
	}
	return SeedItems(db)
}

func SeedWarehouse(db *gorm.DB) error {
	warehouses := []models.Warehouse{
		{WarehouseCode: "WH-MAIN", WarehouseName: "Main Warehouse", Location: "Head office"},
		{WarehouseCode: "WH-EAST", WarehouseName: "East Warehouse", Location: "East distribution center"},
	}

	for _, w := range warehouses {
		if err := firstOrCreate(db, &models.Warehouse{}, "warehouse_code = ?", w.WarehouseCode, &w); err != nil {
			return err
		}
	}
	return nil
}

func SeedSupplier(db *gorm.DB) error {
	s := models.Supplier{SupplierCode: "SUP-001", SupplierName: "Default Supplier", CreatedBy: "seeder"}
	return firstOrCreate(db, &models.Supplier{}, "supplier_code = ?", s.SupplierCode, &s)
}

func SeedItems(db *gorm.DB) error {
	items := []models.Item{
		{ItemCode: "ITEM-1", ItemName: "Packing tape", Uom: "ROLL", UnitPrice: decimal.NewFromInt(3)},
		{ItemCode: "ITEM-7", ItemName: "Carton box", Uom: "PCS", UnitPrice: decimal.NewFromFloat(1.25)},
	}

	for _, i := range items {
		if err := firstOrCreate(db, &models.Item{}, "item_code = ?", i.ItemCode, &i); err != nil {
			return err
		}
	}
	return nil
}

func firstOrCreate(db *gorm.DB, existing interface{}, query string, key string, row interface{}) error {
	err := db.Where(query, key).First(existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(row).Error
}
