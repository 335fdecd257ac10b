package repositories

import (
	"errors"
	"testing"

	"fiber-erp/models"
	"fiber-erp/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestLockWarehouse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	wh := testutil.SeedWarehouse(t, db, "WH-A")

	err := db.Transaction(func(tx *gorm.DB) error {
		got, err := NewMasterRepository(tx).LockWarehouse(wh.ID)
		require.NoError(t, err)
		require.Equal(t, "WH-A", got.WarehouseCode)

		_, err = NewMasterRepository(tx).LockWarehouse(wh.ID + 100)
		require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
		return nil
	})
	require.NoError(t, err)
}

func TestLockWarehouseQueryTakesRowLock(t *testing.T) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/erp?parseTime=True",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return lockWarehouseQuery(tx, 7, &models.Warehouse{})
	})
	require.Contains(t, sql, "FOR UPDATE")
	require.Contains(t, sql, "`warehouses`.`id` = 7")
}

func TestCountByReference(t *testing.T) {
	db := testutil.SetupTestDB(t)
	item := testutil.SeedItem(t, db, "ITEM-1", "1")
	wh := testutil.SeedWarehouse(t, db, "WH-A")
	testutil.SeedStock(t, db, item.ID, wh.ID, 4)
	stock := NewStockRepository(db)
	require.NoError(t, stock.Post(&models.StockTransaction{
		ItemID: item.ID, WarehouseID: wh.ID, TransactionType: models.TransactionTypeStockOut,
		Quantity: 1, ReferenceNumber: "OPENING",
	}))

	all, err := stock.CountByReference("OPENING", "")
	require.NoError(t, err)
	require.EqualValues(t, 2, all)

	in, err := stock.CountByReference("OPENING", models.TransactionTypeStockIn)
	require.NoError(t, err)
	require.EqualValues(t, 1, in)

	none, err := stock.CountByReference("TRANSFER-1", "")
	require.NoError(t, err)
	require.Zero(t, none)
}

func TestFindByRequisitionID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sup := testutil.SeedSupplier(t, db, "SUP-1")
	item := testutil.SeedItem(t, db, "ITEM-1", "1")
	reqID := uint(42)
	po := &models.PurchaseOrder{
		PoNumber: "20240115-abc123", RequisitionID: &reqID, SupplierID: sup.ID, Status: models.PurchaseOrderStatusPending,
		Items: []models.PurchaseOrderItem{{ItemID: item.ID, Quantity: 3}},
	}
	require.NoError(t, db.Create(po).Error)

	repo := NewPurchaseOrderRepository(db)
	got, err := repo.FindByRequisitionID(reqID)
	require.NoError(t, err)
	require.Equal(t, po.PoNumber, got.PoNumber)
	require.Len(t, got.Items, 1)

	_, err = repo.FindByRequisitionID(7)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
