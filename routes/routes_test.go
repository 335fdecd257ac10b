package routes

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"

	"fiber-erp/config"
	"fiber-erp/models"
	"fiber-erp/services"
	"fiber-erp/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const api = "/api/v1"

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	config.MAIN_ROUTES = api
	config.JWTSecret = testutil.JWTSecret
	config.AuthRequired = false

	db := testutil.SetupTestDB(t)
	log := zap.NewNop()
	app := fiber.New(fiber.Config{ErrorHandler: config.ErrorHandler})
	Setup(app, Deps{
		DB:          db,
		Procurement: services.NewProcurementService(db, nil, log),
		Receiving:   services.NewReceivingService(db, nil, log),
		Inventory:   services.NewInventoryService(db, nil, log),
		Sales:       services.NewSalesService(db, nil, log),
		Reconciler:  services.NewReconciliationService(db, log),
	})
	return app, db
}

var asAlice = map[string]string{"X-Operator": "alice"}

func created(t *testing.T, app *fiber.App, path string, body interface{}) testutil.Response {
	t.Helper()
	resp := testutil.DoRequest(t, app, http.MethodPost, api+path, body, asAlice)
	out := testutil.ParseResponse(t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode, out.Error)
	return out
}

type idRow struct {
	ID uint `json:"ID"`
}

func TestProcurementFlow(t *testing.T) {
	app, db := setupApp(t)

	var sup, item, wh idRow
	testutil.DecodeData(t, created(t, app, "/suppliers", map[string]interface{}{
		"supplier_code": "sup-001", "supplier_name": "Acme",
	}), &sup)
	testutil.DecodeData(t, created(t, app, "/items", map[string]interface{}{
		"item_code": "ITEM-7", "item_name": "Widget", "unit_price": "3",
	}), &item)
	testutil.DecodeData(t, created(t, app, "/warehouses", map[string]interface{}{
		"warehouse_code": "WH-MAIN", "warehouse_name": "Main",
	}), &wh)

	var req idRow
	testutil.DecodeData(t, created(t, app, "/requisitions", map[string]interface{}{
		"supplier_id": sup.ID,
		"items":       []map[string]interface{}{{"item_id": item.ID, "quantity": 5}},
	}), &req)

	resp := testutil.DoRequest(t, app, http.MethodPost, fmt.Sprintf("%s/requisitions/%d/approve", api, req.ID), nil, asAlice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var approval services.RequisitionApproval
	testutil.DecodeData(t, testutil.ParseResponse(t, resp), &approval)
	require.Regexp(t, `^\d{8}-[a-z0-9]{6}$`, approval.PurchaseOrder.PoNumber)
	require.Equal(t, "alice", approval.Requisition.DecidedBy)
	require.Equal(t, models.GoodsReceiptStatusDelivered, approval.GoodsReceipt.Status)

	resp = testutil.DoRequest(t, app, http.MethodPost, fmt.Sprintf("%s/requisitions/%d/approve", api, req.ID), nil, asAlice)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	poPath := fmt.Sprintf("%s/purchase-orders/%d/approve", api, approval.PurchaseOrder.ID)
	resp = testutil.DoRequest(t, app, http.MethodPost, poPath, nil, asAlice)
	out := testutil.ParseResponse(t, resp)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, out.Error, "warehouse_id")

	resp = testutil.DoRequest(t, app, http.MethodPost, poPath, map[string]interface{}{"warehouse_id": wh.ID}, asAlice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = testutil.DoRequest(t, app, http.MethodPost, poPath, map[string]interface{}{"warehouse_id": wh.ID}, asAlice)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = testutil.DoRequest(t, app, http.MethodGet, api+"/inventory/on-hand", nil, nil)
	var onHand []models.StockOnHand
	testutil.DecodeData(t, testutil.ParseResponse(t, resp), &onHand)
	require.Len(t, onHand, 1)
	require.Equal(t, 5, onHand[0].AvailableQuantity)

	resp = testutil.DoRequest(t, app, http.MethodPost, api+"/goods-receipts/verify", map[string]interface{}{
		"purchase_order_id": approval.PurchaseOrder.ID, "received_by": "dock-1",
	}, asAlice)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = testutil.DoRequest(t, app, http.MethodGet, api+"/histories?ref_no="+approval.PurchaseOrder.PoNumber, nil, nil)
	var history []models.TransactionHistory
	testutil.DecodeData(t, testutil.ParseResponse(t, resp), &history)
	require.Len(t, history, 2)
	require.Equal(t, "alice", history[1].CreatedBy)

	resp = testutil.DoRequest(t, app, http.MethodGet, api+"/reconciliation", nil, nil)
	var report services.Report
	testutil.DecodeData(t, testutil.ParseResponse(t, resp), &report)
	require.Equal(t, 1, report.Checked)
	require.Empty(t, report.Discrepancies)

	var n int64
	require.NoError(t, db.Model(&models.StockTransaction{}).Count(&n).Error)
	require.EqualValues(t, 1, n)
}

func TestErrorMapping(t *testing.T) {
	app, db := setupApp(t)
	item := testutil.SeedItem(t, db, "ITEM-1", "1")
	a := testutil.SeedWarehouse(t, db, "WH-A")
	b := testutil.SeedWarehouse(t, db, "WH-B")

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"missing fields", http.MethodPost, "/requisitions", map[string]interface{}{}, http.StatusBadRequest},
		{"bad id", http.MethodGet, "/purchase-orders/abc", nil, http.StatusBadRequest},
		{"unknown po", http.MethodGet, "/purchase-orders/404", nil, http.StatusNotFound},
		{"same warehouse", http.MethodPost, "/inventory/transfer", map[string]interface{}{
			"item_id": item.ID, "from_warehouse_id": a.ID, "to_warehouse_id": a.ID, "quantity": 1,
		}, http.StatusBadRequest},
		{"not enough stock", http.MethodPost, "/inventory/transfer", map[string]interface{}{
			"item_id": item.ID, "from_warehouse_id": a.ID, "to_warehouse_id": b.ID, "quantity": 1,
		}, http.StatusUnprocessableEntity},
		{"bad adjustment type", http.MethodPost, "/inventory/adjustments", map[string]interface{}{
			"item_id": item.ID, "warehouse_id": a.ID, "transaction_type": "stock-sideways", "quantity": 1,
		}, http.StatusBadRequest},
		{"duplicate code", http.MethodPost, "/items", map[string]interface{}{
			"item_code": "ITEM-1", "item_name": "again",
		}, http.StatusConflict},
		{"unknown route", http.MethodGet, "/nope", nil, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := testutil.DoRequest(t, app, tc.method, api+tc.path, tc.body, asAlice)
			out := testutil.ParseResponse(t, resp)
			require.Equal(t, tc.status, resp.StatusCode, out.Error)
			require.False(t, out.Success)
		})
	}
}

func TestLeadConversionOverHTTP(t *testing.T) {
	app, db := setupApp(t)
	cust := testutil.SeedCustomer(t, db, "CUST-1")
	item := testutil.SeedItem(t, db, "ITEM-1", "2")
	wh := testutil.SeedWarehouse(t, db, "WH-A")
	testutil.SeedStock(t, db, item.ID, wh.ID, 6)

	var lead idRow
	testutil.DecodeData(t, created(t, app, "/leads", map[string]interface{}{
		"customer_id": cust.ID, "item_id": item.ID, "quantity": 6,
	}), &lead)

	var q models.Quotation
	testutil.DecodeData(t, created(t, app, fmt.Sprintf("/leads/%d/convert", lead.ID), nil), &q)
	require.Equal(t, "12", q.TotalAmount.String())

	resp := testutil.DoRequest(t, app, http.MethodPost, fmt.Sprintf("%s/leads/%d/convert", api, lead.ID), nil, asAlice)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	app, _ := setupApp(t)
	config.AuthRequired = true
	t.Cleanup(func() { config.AuthRequired = false })

	// the flag is read when routes are registered
	app2 := fiber.New(fiber.Config{ErrorHandler: config.ErrorHandler})
	db := testutil.SetupTestDB(t)
	Setup(app2, Deps{DB: db, Procurement: services.NewProcurementService(db, nil, nil)})

	resp := testutil.DoRequest(t, app2, http.MethodGet, api+"/suppliers", nil, asAlice)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = testutil.DoRequest(t, app2, http.MethodGet, api+"/suppliers", nil, map[string]string{
		"Authorization": "Bearer " + testutil.Token("alice"),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = testutil.DoRequest(t, app2, http.MethodGet, api+"/healthz", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// the first app was built before the flag flipped
	resp = testutil.DoRequest(t, app, http.MethodGet, api+"/suppliers", nil, asAlice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUploadItems(t *testing.T) {
	app, db := setupApp(t)
	testutil.SeedItem(t, db, "OLD-1", "1")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"item_code", "item_name", "uom", "unit_price"},
		{"new-1", "New widget", "box", "4.5"},
		{"OLD-1", "Renamed", "", "2"},
		{"BAD-1", "Bad price", "PCS", "abc"},
		{"NONAME"},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	var xlsx bytes.Buffer
	_, err := f.WriteTo(&xlsx)
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "items.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, api+"/items/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		CreatedCount int `json:"created_count"`
		UpdatedCount int `json:"updated_count"`
		ErrorCount   int `json:"error_count"`
	}
	testutil.DecodeData(t, testutil.ParseResponse(t, resp), &result)
	require.Equal(t, 1, result.CreatedCount)
	require.Equal(t, 1, result.UpdatedCount)
	require.Equal(t, 2, result.ErrorCount)

	var renamed models.Item
	require.NoError(t, db.Where("item_code = ?", "OLD-1").First(&renamed).Error)
	require.Equal(t, "Renamed", renamed.ItemName)
	require.Equal(t, "PCS", renamed.Uom)
}
