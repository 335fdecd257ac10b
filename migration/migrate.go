package migration

import (
	"fiber-erp/models"

	"gorm.io/gorm"
)

// Models lists every persisted model, in the order AutoMigrate should see them.
func Models() []interface{} {
	return []interface{}{
		&models.Supplier{},
		&models.Item{},
		&models.Warehouse{},
		&models.Customer{},
		&models.Requisition{},
		&models.RequisitionItem{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.GoodsReceipt{},
		&models.StockTransaction{},
		&models.Lead{},
		&models.Quotation{},
		&models.TransactionHistory{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
