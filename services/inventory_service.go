package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"fiber-erp/models"
	"fiber-erp/notification"
	"fiber-erp/repositories"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type InventoryService struct {
	base
}

func NewInventoryService(db *gorm.DB, notifier notification.Notifier, log *zap.Logger) *InventoryService {
	return &InventoryService{base: newBase(db, notifier, log)}
}

type StockTransfer struct {
	ReferenceNumber string                  `json:"reference_number"`
	Out             models.StockTransaction `json:"stock_out"`
	In              models.StockTransaction `json:"stock_in"`
}

// Transfer moves quantity of one item between two warehouses as a matched
// stock-out/stock-in pair sharing one TRANSFER reference.
func (s *InventoryService) Transfer(ctx context.Context, in models.TransferInput, operator string) (*StockTransfer, error) {
	operator = operatorOrSystem(operator)
	if in.Quantity <= 0 {
		return nil, invalid("quantity", "must be greater than 0")
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, invalid("to_warehouse_id", "must differ from the source warehouse")
	}
	now := s.now()

	out := &StockTransfer{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		master := repositories.NewMasterRepository(tx)
		item, err := master.FindItem(in.ItemID)
		if err != nil {
			return notFound(err, "item", in.ItemID)
		}
		to, err := master.FindWarehouse(in.ToWarehouseID)
		if err != nil {
			return notFound(err, "warehouse", in.ToWarehouseID)
		}
		from, err := master.LockWarehouse(in.FromWarehouseID)
		if err != nil {
			return notFound(err, "warehouse", in.FromWarehouseID)
		}

		stock := repositories.NewStockRepository(tx)
		ref, err := uniqueReference(stock, now, TransferReference)
		if err != nil {
			return err
		}
		out.ReferenceNumber = ref

		available, err := stock.Available(item.ID, from.ID)
		if err != nil {
			return err
		}
		if available < int64(in.Quantity) {
			return fmt.Errorf("%s in %s: %d available, %d requested: %w",
				item.ItemCode, from.WarehouseCode, available, in.Quantity, ErrInsufficientStock)
		}

		total := item.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
		notes := in.Notes
		if notes == "" {
			notes = fmt.Sprintf("transfer %s -> %s", from.WarehouseCode, to.WarehouseCode)
		}
		out.Out = models.StockTransaction{
			ItemID: item.ID, WarehouseID: from.ID, TransactionType: models.TransactionTypeStockOut,
			Quantity: in.Quantity, UnitCost: item.UnitPrice, TotalCost: total,
			ReferenceNumber: ref, Notes: notes, CreatedBy: operator, CreatedAt: now,
		}
		out.In = models.StockTransaction{
			ItemID: item.ID, WarehouseID: to.ID, TransactionType: models.TransactionTypeStockIn,
			Quantity: in.Quantity, UnitCost: item.UnitPrice, TotalCost: total,
			ReferenceNumber: ref, Notes: notes, CreatedBy: operator, CreatedAt: now,
		}
		if err := stock.Post(&out.Out, &out.In); err != nil {
			return fmt.Errorf("post transfer %s: %w", ref, err)
		}
		return repositories.NewHistoryRepository(tx).Insert(ref, "posted", models.HistoryTypeStock,
			fmt.Sprintf("%d x %s from %s to %s", in.Quantity, item.ItemCode, from.WarehouseCode, to.WarehouseCode), operator)
	})
	if err != nil {
		return nil, err
	}

	ref := out.ReferenceNumber
	s.log.Info("stock transferred",
		zap.String("reference", ref),
		zap.Uint("item_id", in.ItemID),
		zap.Uint("from_warehouse_id", in.FromWarehouseID),
		zap.Uint("to_warehouse_id", in.ToWarehouseID),
		zap.Int("quantity", in.Quantity))
	s.notify(ctx, notification.EventStockTransferred, ref,
		fmt.Sprintf("%d units of item %d moved from warehouse %d to %d", in.Quantity, in.ItemID, in.FromWarehouseID, in.ToWarehouseID), operator)
	return out, nil
}

// PostAdjustment records a manual stock-in or stock-out, such as an opening
// balance or a write-off. Stock-outs cannot take the warehouse below zero.
func (s *InventoryService) PostAdjustment(ctx context.Context, in models.AdjustmentInput, operator string) (*models.StockTransaction, error) {
	operator = operatorOrSystem(operator)
	if in.Quantity <= 0 {
		return nil, invalid("quantity", "must be greater than 0")
	}
	if in.TransactionType != models.TransactionTypeStockIn && in.TransactionType != models.TransactionTypeStockOut {
		return nil, invalid("transaction_type", "must be stock-in or stock-out")
	}
	if in.UnitCost.IsNegative() {
		return nil, invalid("unit_cost", "must not be negative")
	}
	in.ReferenceNumber = strings.TrimSpace(in.ReferenceNumber)
	if IsReservedReference(in.ReferenceNumber) {
		return nil, invalid("reference_number", "%q is reserved for purchase orders and generated references", in.ReferenceNumber)
	}
	now := s.now()
	row := &models.StockTransaction{
		ItemID:          in.ItemID,
		WarehouseID:     in.WarehouseID,
		TransactionType: in.TransactionType,
		Quantity:        in.Quantity,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		CreatedBy:       operator,
		CreatedAt:       now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		master := repositories.NewMasterRepository(tx)
		item, err := master.FindItem(in.ItemID)
		if err != nil {
			return notFound(err, "item", in.ItemID)
		}
		var wh *models.Warehouse
		if in.TransactionType == models.TransactionTypeStockOut {
			wh, err = master.LockWarehouse(in.WarehouseID)
		} else {
			wh, err = master.FindWarehouse(in.WarehouseID)
		}
		if err != nil {
			return notFound(err, "warehouse", in.WarehouseID)
		}

		stock := repositories.NewStockRepository(tx)
		if row.ReferenceNumber == "" {
			if row.ReferenceNumber, err = uniqueReference(stock, now, AdjustmentReference); err != nil {
				return err
			}
		} else {
			taken, err := repositories.NewPurchaseOrderRepository(tx).NumberExists(row.ReferenceNumber)
			if err != nil {
				return err
			}
			if taken {
				return invalid("reference_number", "%q is a purchase order number", row.ReferenceNumber)
			}
		}

		if in.TransactionType == models.TransactionTypeStockOut {
			available, err := stock.Available(item.ID, wh.ID)
			if err != nil {
				return err
			}
			if available < int64(in.Quantity) {
				return fmt.Errorf("%s in %s: %d available, %d requested: %w",
					item.ItemCode, wh.WarehouseCode, available, in.Quantity, ErrInsufficientStock)
			}
		}

		row.UnitCost = in.UnitCost
		if row.UnitCost.IsZero() {
			row.UnitCost = item.UnitPrice
		}
		row.TotalCost = row.UnitCost.Mul(decimal.NewFromInt(int64(in.Quantity)))
		if err := stock.Post(row); err != nil {
			return err
		}
		return repositories.NewHistoryRepository(tx).Insert(row.ReferenceNumber, in.TransactionType, models.HistoryTypeStock,
			fmt.Sprintf("adjustment %d x %s in %s", in.Quantity, item.ItemCode, wh.WarehouseCode), operator)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stock adjusted",
		zap.String("reference", row.ReferenceNumber),
		zap.String("type", row.TransactionType),
		zap.Int("quantity", row.Quantity))
	return row, nil
}

// uniqueReference steps the timestamp forward a millisecond at a time until
// the ledger has no rows under the generated reference.
func uniqueReference(stock *repositories.StockRepository, now time.Time, format func(time.Time) string) (string, error) {
	for i := 0; i < maxNumberAttempts; i++ {
		ref := format(now.Add(time.Duration(i) * time.Millisecond))
		n, err := stock.CountByReference(ref, "")
		if err != nil {
			return "", err
		}
		if n == 0 {
			return ref, nil
		}
	}
	return "", fmt.Errorf("no free ledger reference after %d attempts: %w", maxNumberAttempts, ErrConflict)
}

// OnHand derives availability from the ledger. Rows at or below zero are
// flagged critical.
func (s *InventoryService) OnHand(ctx context.Context, f repositories.StockFilter) ([]models.StockOnHand, error) {
	rows, err := repositories.NewStockRepository(s.db.WithContext(ctx)).OnHand(f)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Critical = rows[i].AvailableQuantity <= 0
	}
	return rows, nil
}

func (s *InventoryService) Ledger(ctx context.Context, f repositories.StockFilter) ([]models.StockTransaction, error) {
	return repositories.NewStockRepository(s.db.WithContext(ctx)).Ledger(f)
}

// ExportOnHand writes the on-hand view as an xlsx workbook.
func (s *InventoryService) ExportOnHand(ctx context.Context, f repositories.StockFilter, w io.Writer) error {
	rows, err := s.OnHand(ctx, f)
	if err != nil {
		return err
	}

	file := excelize.NewFile()
	defer file.Close()

	const sheet = "OnHand"
	idx, err := file.NewSheet(sheet)
	if err != nil {
		return err
	}
	file.SetActiveSheet(idx)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	headers := []interface{}{"Item Code", "Item Name", "Warehouse", "Available", "Critical"}
	if err := file.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{r.ItemCode, r.ItemName, r.WarehouseCode, r.AvailableQuantity, r.Critical}
		if err := file.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	_, err = file.WriteTo(w)
	return err
}
