package controllers

import (
	"fmt"
	"strings"

	"fiber-erp/middleware"
	"fiber-erp/models"
	"fiber-erp/repositories"
	"fiber-erp/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// MasterController serves reference data: suppliers, items, warehouses
// and customers.
type MasterController struct {
	DB *gorm.DB
}

func NewMasterController(db *gorm.DB) *MasterController {
	return &MasterController{DB: db}
}

func (c *MasterController) repo(ctx *fiber.Ctx) *repositories.MasterRepository {
	return repositories.NewMasterRepository(c.DB.WithContext(ctx.UserContext()))
}

func (c *MasterController) GetSuppliers(ctx *fiber.Ctx) error {
	rows, err := c.repo(ctx).ListSuppliers()
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Suppliers found", rows)
}

func (c *MasterController) CreateSupplier(ctx *fiber.Ctx) error {
	var in models.SupplierInput
	if valid, err := bind(ctx, &in); !valid {
		return err
	}
	row := models.Supplier{
		SupplierCode: strings.ToUpper(strings.TrimSpace(in.SupplierCode)),
		SupplierName: in.SupplierName,
		Email:        in.Email,
		Phone:        in.Phone,
		CreatedBy:    middleware.OperatorFrom(ctx),
	}
	if err := c.create(ctx, &row, "supplier_code", row.SupplierCode); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusCreated, "Supplier created successfully", row)
}

func (c *MasterController) GetItems(ctx *fiber.Ctx) error {
	rows, err := c.repo(ctx).ListItems()
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Items found", rows)
}

func (c *MasterController) CreateItem(ctx *fiber.Ctx) error {
	var in models.ItemInput
	if valid, err := bind(ctx, &in); !valid {
		return err
	}
	if in.UnitPrice.IsNegative() {
		return fail(ctx, fiber.StatusBadRequest, "Validation failed", fmt.Errorf("unit_price must not be negative"))
	}
	row := models.Item{
		ItemCode:  strings.ToUpper(strings.TrimSpace(in.ItemCode)),
		ItemName:  in.ItemName,
		Uom:       defaultUom(in.Uom),
		UnitPrice: in.UnitPrice,
		CreatedBy: middleware.OperatorFrom(ctx),
	}
	if err := c.create(ctx, &row, "item_code", row.ItemCode); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusCreated, "Item created successfully", row)
}

type ItemUploadResult struct {
	TotalRows     int      `json:"total_rows"`
	CreatedCount  int      `json:"created_count"`
	UpdatedCount  int      `json:"updated_count"`
	ErrorCount    int      `json:"error_count"`
	ErrorMessages []string `json:"error_messages"`
}

// UploadItems imports items from the first sheet of an xlsx file with the
// columns item_code, item_name, uom, unit_price. Existing codes are updated.
func (c *MasterController) UploadItems(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return fail(ctx, fiber.StatusBadRequest, "File is required", err)
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") {
		return fail(ctx, fiber.StatusBadRequest, "Only Excel files (.xlsx) are allowed", nil)
	}

	content, err := file.Open()
	if err != nil {
		return fail(ctx, fiber.StatusInternalServerError, "Failed to open file", err)
	}
	defer content.Close()

	f, err := excelize.OpenReader(content)
	if err != nil {
		return fail(ctx, fiber.StatusBadRequest, "Failed to read Excel file", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fail(ctx, fiber.StatusBadRequest, "No sheets found in Excel file", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return fail(ctx, fiber.StatusBadRequest, "Failed to read rows", err)
	}
	if len(rows) < 2 {
		return fail(ctx, fiber.StatusBadRequest, "Excel file must contain header and at least one data row", nil)
	}

	result := ItemUploadResult{TotalRows: len(rows) - 1, ErrorMessages: []string{}}
	operator := middleware.OperatorFrom(ctx)

	err = c.DB.WithContext(ctx.UserContext()).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewMasterRepository(tx)
		for i, row := range rows[1:] {
			rowNum := i + 2
			if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
				continue
			}
			if len(row) < 2 || strings.TrimSpace(row[1]) == "" {
				result.ErrorCount++
				result.ErrorMessages = append(result.ErrorMessages, fmt.Sprintf("Row %d: item_name is required", rowNum))
				continue
			}
			item := models.Item{
				ItemCode:  strings.ToUpper(strings.TrimSpace(row[0])),
				ItemName:  strings.TrimSpace(row[1]),
				Uom:       defaultUom(cell(row, 2)),
				UnitPrice: decimal.Zero,
				CreatedBy: operator,
			}
			if raw := cell(row, 3); raw != "" {
				price, err := decimal.NewFromString(raw)
				if err != nil || price.IsNegative() {
					result.ErrorCount++
					result.ErrorMessages = append(result.ErrorMessages, fmt.Sprintf("Row %d: invalid unit_price %q", rowNum, raw))
					continue
				}
				item.UnitPrice = price
			}
			created, err := repo.UpsertItem(&item)
			if err != nil {
				return fmt.Errorf("row %d: %w", rowNum, err)
			}
			if created {
				result.CreatedCount++
			} else {
				result.UpdatedCount++
			}
		}
		return nil
	})
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Items imported", result)
}

func (c *MasterController) GetWarehouses(ctx *fiber.Ctx) error {
	rows, err := c.repo(ctx).ListWarehouses()
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Warehouses found", rows)
}

func (c *MasterController) CreateWarehouse(ctx *fiber.Ctx) error {
	var in models.WarehouseInput
	if valid, err := bind(ctx, &in); !valid {
		return err
	}
	row := models.Warehouse{
		WarehouseCode: strings.ToUpper(strings.TrimSpace(in.WarehouseCode)),
		WarehouseName: in.WarehouseName,
		Location:      in.Location,
		CreatedBy:     middleware.OperatorFrom(ctx),
	}
	if err := c.create(ctx, &row, "warehouse_code", row.WarehouseCode); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusCreated, "Warehouse created successfully", row)
}

func (c *MasterController) GetCustomers(ctx *fiber.Ctx) error {
	rows, err := c.repo(ctx).ListCustomers()
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Customers found", rows)
}

func (c *MasterController) CreateCustomer(ctx *fiber.Ctx) error {
	var in models.CustomerInput
	if valid, err := bind(ctx, &in); !valid {
		return err
	}
	row := models.Customer{
		CustomerCode: strings.ToUpper(strings.TrimSpace(in.CustomerCode)),
		CustomerName: in.CustomerName,
		Email:        in.Email,
		Phone:        in.Phone,
		CreatedBy:    middleware.OperatorFrom(ctx),
	}
	if err := c.create(ctx, &row, "customer_code", row.CustomerCode); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusCreated, "Customer created successfully", row)
}

// create inserts row unless its code is already taken.
func (c *MasterController) create(ctx *fiber.Ctx, row interface{}, column, code string) error {
	repo := c.repo(ctx)
	taken, err := repo.CodeTaken(row, column, code)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%s %s already exists: %w", column, code, services.ErrConflict)
	}
	return repo.Create(row)
}

func defaultUom(uom string) string {
	uom = strings.ToUpper(strings.TrimSpace(uom))
	if uom == "" {
		return "PCS"
	}
	return uom
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}
