package services

import (
	"context"
	"testing"
	"time"

	"fiber-erp/models"
	"fiber-erp/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newProcurement(db *gorm.DB) *ProcurementService {
	return NewProcurementService(db, nil, zap.NewNop())
}

func createRequisition(t *testing.T, svc *ProcurementService, supplierID uint, lines ...models.RequisitionItemInput) *models.Requisition {
	t.Helper()
	req, err := svc.CreateRequisition(context.Background(), models.RequisitionInput{
		SupplierID:  supplierID,
		Description: "restock",
		Items:       lines,
	}, "alice")
	require.NoError(t, err)
	return req
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func TestApproveRequisition_ExampleScenario(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sup := testutil.SeedSupplier(t, db, "SUP-1")
	item := testutil.SeedItem(t, db, "ITEM-7", "4.00")
	svc := newProcurement(db)
	fixed := time.Date(2024, 5, 17, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	req := createRequisition(t, svc, sup.ID, models.RequisitionItemInput{ItemID: item.ID, Quantity: 5})

	out, err := svc.ApproveRequisition(context.Background(), req.ID, "bob")
	require.NoError(t, err)

	po := out.PurchaseOrder
	require.Regexp(t, `^\d{8}-[a-z0-9]{6}$`, po.PoNumber)
	require.Equal(t, "20240517", po.PoNumber[:8])
	require.Equal(t, models.PurchaseOrderStatusPending, po.Status)
	require.Equal(t, req.ID, *po.RequisitionID)
	require.Equal(t, sup.ID, po.SupplierID)
	require.Len(t, po.Items, 1)
	require.Equal(t, item.ID, po.Items[0].ItemID)
	require.Equal(t, 5, po.Items[0].Quantity)
	require.True(t, po.Items[0].Price.IsZero())

	gr := out.GoodsReceipt
	require.Equal(t, "GR-20240517-"+po.PoNumber, gr.GrNumber)
	require.Equal(t, "INV-20240517", gr.InvoiceNumber)
	require.Equal(t, models.GoodsReceiptStatusDelivered, gr.Status)

	stored, err := svc.GetRequisition(context.Background(), req.ID)
	require.NoError(t, err)
	require.Equal(t, models.RequisitionStatusApproved, stored.Status)
	require.Equal(t, "bob", stored.DecidedBy)
}

func TestApproveRequisition_CopiesEveryLine(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sup := testutil.SeedSupplier(t, db, "SUP-1")
	svc := newProcurement(db)

	var lines []models.RequisitionItemInput
	for i, code := range []string{"A", "B", "C", "D"} {
		it := testutil.SeedItem(t, db, code, "1")
		lines = append(lines, models.RequisitionItemInput{ItemID: it.ID, Quantity: i + 1})
	}
	req := createRequisition(t, svc, sup.ID, lines...)

	out, err := svc.ApproveRequisition(context.Background(), req.ID, "bob")
	require.NoError(t, err)

	require.EqualValues(t, 1, countRows(t, db, &models.PurchaseOrder{}, ""))
	require.EqualValues(t, 4, countRows(t, db, &models.PurchaseOrderItem{}, "purchase_order_id = ?", out.PurchaseOrder.ID))
	require.EqualValues(t, 1, countRows(t, db, &models.GoodsReceipt{}, "purchase_order_id = ? AND status = ?",
		out.PurchaseOrder.ID, models.GoodsReceiptStatusDelivered))

	var poLines []models.PurchaseOrderItem
	require.NoError(t, db.Where("purchase_order_id = ?", out.PurchaseOrder.ID).Order("id").Find(&poLines).Error)
	for i, l := range poLines {
		require.Equal(t, lines[i].ItemID, l.ItemID)
		require.Equal(t, lines[i].Quantity, l.Quantity)
		require.True(t, l.Price.IsZero())
	}
}

func TestApproveRequisition_SecondApprovalConflicts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sup := testutil.SeedSupplier(t, db, "SUP-1")
	item := testutil.SeedItem(t, db, "ITEM-1", "1")
	svc := newProcurement(db)
	req := createRequisition(t, svc, sup.ID, models.RequisitionItemInput{ItemID: item.ID, Quantity: 2})

	_, err := svc.ApproveRequisition(context.Background(), req.ID, "bob")
	require.NoError(t, err)

	_, err = svc.ApproveRequisition(context.Background(), req.ID, "carol")
	require.ErrorIs(t, err, ErrConflict)
	require.EqualValues(t, 1, countRows(t, db, &models.PurchaseOrder{}, ""))
	require.EqualValues(t, 1, countRows(t, db, &models.GoodsReceipt{}, ""))
}

func TestApproveRequisition_RollsBackOnFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sup := testutil.SeedSupplier(t, db, "SUP-1")
	item := testutil.SeedItem(t, db, "ITEM-1", "1")
	svc := newProcurement(db)
	req := createRequisition(t, svc, sup.ID, models.RequisitionItemInput{ItemID: item.ID, Quantity: 2})

	// a receipt table that refuses inserts makes the last step fail
	require.NoError(t, db.Migrator().DropTable(&models.GoodsReceipt{}))

	_, err := svc.ApproveRequisition(context.Background(), req.ID, "bob")
	require.Error(t, err)

	stored, err := svc.GetRequisition(context.Background(), req.ID)
	require.NoError(t, err)
	require.Equal(t, models.RequisitionStatusPending, stored.Status)
	require.EqualValues(t, 0, countRows(t, db, &models.PurchaseOrder{}, ""))
	require.EqualValues(t, 0, countRows(t, db, &models.PurchaseOrderItem{}, ""))
}

func TestApproveRequisition_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	_, err := newProcurement(db).ApproveRequisition(context.Background(), 999, "bob")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRequisition_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sup := testutil.SeedSupplier(t, db, "SUP-1")
	item := testutil.SeedItem(t, db, "ITEM-1", "1")
	svc := newProcurement(db)
	ctx := context.Background()

	_, err := svc.CreateRequisition(ctx, models.RequisitionInput{SupplierID: sup.ID}, "alice")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "items", verr.Field)

	_, err = svc.CreateRequisition(ctx, models.RequisitionInput{
		SupplierID: sup.ID,
		Items:      []models.RequisitionItemInput{{ItemID: item.ID, Quantity: 0}},
	}, "alice")
	require.ErrorAs(t, err, &verr)

	_, err = svc.CreateRequisition(ctx, models.RequisitionInput{
		SupplierID: sup.ID,
		Items:      []models.RequisitionItemInput{{ItemID: 4242, Quantity: 1}},
	}, "alice")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateRequisition(ctx, models.RequisitionInput{
		SupplierID: 4242,
		Items:      []models.RequisitionItemInput{{ItemID: item.ID, Quantity: 1}},
	}, "alice")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRejectAndDeleteRequisition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sup := testutil.SeedSupplier(t, db, "SUP-1")
	item := testutil.SeedItem(t, db, "ITEM-1", "1")
	svc := newProcurement(db)
	ctx := context.Background()

	rejected := createRequisition(t, svc, sup.ID, models.RequisitionItemInput{ItemID: item.ID, Quantity: 1})
	out, err := svc.RejectRequisition(ctx, rejected.ID, "bob")
	require.NoError(t, err)
	require.Equal(t, models.RequisitionStatusRejected, out.Status)

	_, err = svc.ApproveRequisition(ctx, rejected.ID, "bob")
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, svc.DeleteRequisition(ctx, rejected.ID), ErrConflict)

	pending := createRequisition(t, svc, sup.ID, models.RequisitionItemInput{ItemID: item.ID, Quantity: 1})
	require.NoError(t, svc.DeleteRequisition(ctx, pending.ID))
	_, err = svc.GetRequisition(ctx, pending.ID)
	require.ErrorIs(t, err, ErrNotFound)

	list, err := svc.ListRequisitions(ctx, models.RequisitionStatusRejected)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestApprovePurchaseOrder_PostsOneStockInPerLine(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sup := testutil.SeedSupplier(t, db, "SUP-1")
	priced := testutil.SeedItem(t, db, "PRICED", "2.50")
	listOnly := testutil.SeedItem(t, db, "LIST", "3")
	free := testutil.SeedItem(t, db, "FREE", "0")
	wh := testutil.SeedWarehouse(t, db, "WH-1")
	svc := newProcurement(db)
	ctx := context.Background()

	po, err := svc.CreatePurchaseOrder(ctx, models.PurchaseOrderInput{
		SupplierID: sup.ID,
		Items: []models.PurchaseOrderItemInput{
			{ItemID: priced.ID, Quantity: 4, Price: decimal.RequireFromString("2.50")},
			{ItemID: listOnly.ID, Quantity: 3},
			{ItemID: free.ID, Quantity: 7},
		},
	}, "alice")
	require.NoError(t, err)

	out, err := svc.ApprovePurchaseOrder(ctx, po.ID, wh.ID, "bob")
	require.NoError(t, err)
	require.Equal(t, models.PurchaseOrderStatusApproved, out.PurchaseOrder.Status)
	require.Len(t, out.Postings, 3)

	var rows []models.StockTransaction
	require.NoError(t, db.Where("reference_number = ?", po.PoNumber).Order("item_id").Find(&rows).Error)
	require.Len(t, rows, 3)

	want := map[uint]string{priced.ID: "2.5", listOnly.ID: "3", free.ID: "0"}
	for _, r := range rows {
		require.Equal(t, models.TransactionTypeStockIn, r.TransactionType)
		require.Equal(t, wh.ID, r.WarehouseID)
		require.True(t, r.UnitCost.Equal(decimal.RequireFromString(want[r.ItemID])), "unit cost of item %d: %s", r.ItemID, r.UnitCost)
		require.True(t, r.TotalCost.Equal(r.UnitCost.Mul(decimal.NewFromInt(int64(r.Quantity)))))
	}
}

func TestApprovePurchaseOrder_TwiceDoesNotDoublePost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sup := testutil.SeedSupplier(t, db, "SUP-1")
	item := testutil.SeedItem(t, db, "ITEM-1", "1")
	wh := testutil.SeedWarehouse(t, db, "WH-1")
	svc := newProcurement(db)
	ctx := context.Background()

	req := createRequisition(t, svc, sup.ID,
		models.RequisitionItemInput{ItemID: item.ID, Quantity: 5},
		models.RequisitionItemInput{ItemID: item.ID, Quantity: 1})
	approval, err := svc.ApproveRequisition(ctx, req.ID, "bob")
	require.NoError(t, err)
	poID := approval.PurchaseOrder.ID

	_, err = svc.ApprovePurchaseOrder(ctx, poID, wh.ID, "bob")
	require.NoError(t, err)
	_, err = svc.ApprovePurchaseOrder(ctx, poID, wh.ID, "carol")
	require.ErrorIs(t, err, ErrConflict)

	require.EqualValues(t, 2, countRows(t, db, &models.StockTransaction{}, "reference_number = ?", approval.PurchaseOrder.PoNumber))
}

func TestApprovePurchaseOrder_RequiresWarehouse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sup := testutil.SeedSupplier(t, db, "SUP-1")
	item := testutil.SeedItem(t, db, "ITEM-1", "1")
	svc := newProcurement(db)
	ctx := context.Background()

	po, err := svc.CreatePurchaseOrder(ctx, models.PurchaseOrderInput{
		SupplierID: sup.ID,
		Items:      []models.PurchaseOrderItemInput{{ItemID: item.ID, Quantity: 1}},
	}, "alice")
	require.NoError(t, err)

	_, err = svc.ApprovePurchaseOrder(ctx, po.ID, 0, "bob")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "warehouse_id", verr.Field)

	_, err = svc.ApprovePurchaseOrder(ctx, po.ID, 777, "bob")
	require.ErrorIs(t, err, ErrNotFound)

	stored, err := svc.GetPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	require.Equal(t, models.PurchaseOrderStatusPending, stored.Status)
	require.EqualValues(t, 0, countRows(t, db, &models.StockTransaction{}, ""))
}

func TestCreatePurchaseOrder_OpensPendingReceipt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sup := testutil.SeedSupplier(t, db, "SUP-1")
	item := testutil.SeedItem(t, db, "ITEM-1", "1")
	svc := newProcurement(db)

	po, err := svc.CreatePurchaseOrder(context.Background(), models.PurchaseOrderInput{
		SupplierID: sup.ID,
		Items:      []models.PurchaseOrderItemInput{{ItemID: item.ID, Quantity: 1}},
	}, "alice")
	require.NoError(t, err)
	require.Nil(t, po.RequisitionID)
	require.EqualValues(t, 1, countRows(t, db, &models.GoodsReceipt{}, "purchase_order_id = ? AND status = ?",
		po.ID, models.GoodsReceiptStatusPending))
}
