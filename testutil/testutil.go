// Package testutil holds the shared test harness: an isolated in-memory
// database per test, reference-data seeders and HTTP helpers for Fiber apps.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"fiber-erp/controllers/idgen"
	"fiber-erp/migration"
	"fiber-erp/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "test-secret"

// SetupTestDB opens a fresh in-memory SQLite database named after the test
// and migrates every model. A single connection keeps the shared cache alive
// for the lifetime of the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if err := idgen.Init(1); err != nil {
		t.Fatalf("init snowflake: %v", err)
	}

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := migration.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, row interface{}) {
	t.Helper()
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("seed %T: %v", row, err)
	}
}

func SeedSupplier(t *testing.T, db *gorm.DB, code string) *models.Supplier {
	s := &models.Supplier{SupplierCode: code, SupplierName: "Supplier " + code}
	mustCreate(t, db, s)
	return s
}

// SeedItem creates an item with the given list price, e.g. "12.50".
func SeedItem(t *testing.T, db *gorm.DB, code, unitPrice string) *models.Item {
	item := &models.Item{
		ItemCode:  code,
		ItemName:  "Item " + code,
		Uom:       "PCS",
		UnitPrice: decimal.RequireFromString(unitPrice),
	}
	mustCreate(t, db, item)
	return item
}

func SeedWarehouse(t *testing.T, db *gorm.DB, code string) *models.Warehouse {
	w := &models.Warehouse{WarehouseCode: code, WarehouseName: "Warehouse " + code}
	mustCreate(t, db, w)
	return w
}

func SeedCustomer(t *testing.T, db *gorm.DB, code string) *models.Customer {
	c := &models.Customer{CustomerCode: code, CustomerName: "Customer " + code}
	mustCreate(t, db, c)
	return c
}

// SeedStock posts a stock-in row directly to the ledger.
func SeedStock(t *testing.T, db *gorm.DB, itemID, warehouseID uint, qty int) {
	mustCreate(t, db, &models.StockTransaction{
		ItemID:          itemID,
		WarehouseID:     warehouseID,
		TransactionType: models.TransactionTypeStockIn,
		Quantity:        qty,
		ReferenceNumber: "OPENING",
		CreatedBy:       "test",
		CreatedAt:       time.Now(),
	})
}

// Token signs an HS256 token carrying the username claim.
func Token(username string) string {
	claims := jwt.MapClaims{
		"username": username,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecret))
	return s
}

// DoRequest sends a JSON request through app.Test.
func DoRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// Response is the envelope every handler answers with.
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func ParseResponse(t *testing.T, resp *http.Response) Response {
	t.Helper()
	defer resp.Body.Close()

	var out Response
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	return out
}

// DecodeData unmarshals the data field of a response into v.
func DecodeData(t *testing.T, r Response, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(r.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", r.Data, err)
	}
}
