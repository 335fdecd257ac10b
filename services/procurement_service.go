package services

import (
	"context"
	"fmt"
	"time"

	"fiber-erp/models"
	"fiber-erp/notification"
	"fiber-erp/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProcurementService struct {
	base
}

func NewProcurementService(db *gorm.DB, notifier notification.Notifier, log *zap.Logger) *ProcurementService {
	return &ProcurementService{base: newBase(db, notifier, log)}
}

type RequisitionApproval struct {
	Requisition   *models.Requisition   `json:"requisition"`
	PurchaseOrder *models.PurchaseOrder `json:"purchase_order"`
	GoodsReceipt  *models.GoodsReceipt  `json:"goods_receipt"`
}

type PurchaseOrderApproval struct {
	PurchaseOrder *models.PurchaseOrder     `json:"purchase_order"`
	Postings      []models.StockTransaction `json:"postings"`
}

// checkReferences verifies that the supplier and every line item exist.
func checkReferences(tx *gorm.DB, supplierID uint, itemIDs []uint) error {
	master := repositories.NewMasterRepository(tx)
	if _, err := master.FindSupplier(supplierID); err != nil {
		return notFound(err, "supplier", supplierID)
	}
	items, err := master.FindItemsByIDs(itemIDs)
	if err != nil {
		return err
	}
	for _, id := range itemIDs {
		if _, ok := items[id]; !ok {
			return fmt.Errorf("item %d: %w", id, ErrNotFound)
		}
	}
	return nil
}

// uniquePONumber draws numbers until one is unused.
func uniquePONumber(repo *repositories.PurchaseOrderRepository, now time.Time) (string, error) {
	for i := 0; i < maxNumberAttempts; i++ {
		n := NewPONumber(now)
		exists, err := repo.NumberExists(n)
		if err != nil {
			return "", err
		}
		if !exists {
			return n, nil
		}
	}
	return "", fmt.Errorf("no free purchase order number after %d attempts: %w", maxNumberAttempts, ErrConflict)
}

func (s *ProcurementService) CreateRequisition(ctx context.Context, in models.RequisitionInput, operator string) (*models.Requisition, error) {
	operator = operatorOrSystem(operator)
	if in.SupplierID == 0 {
		return nil, invalid("supplier_id", "is required")
	}
	if len(in.Items) == 0 {
		return nil, invalid("items", "at least one line is required")
	}
	itemIDs := make([]uint, 0, len(in.Items))
	req := &models.Requisition{
		SupplierID:   in.SupplierID,
		Description:  in.Description,
		Status:       models.RequisitionStatusPending,
		RequiredDate: in.RequiredDate,
		CreatedBy:    operator,
	}
	for i, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, invalid(fmt.Sprintf("items[%d].quantity", i), "must be greater than 0")
		}
		itemIDs = append(itemIDs, line.ItemID)
		req.Items = append(req.Items, models.RequisitionItem{ItemID: line.ItemID, Quantity: line.Quantity})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, in.SupplierID, itemIDs); err != nil {
			return err
		}
		if err := repositories.NewRequisitionRepository(tx).Create(req); err != nil {
			return fmt.Errorf("create requisition: %w", err)
		}
		return repositories.NewHistoryRepository(tx).Insert(requisitionRef(req.ID), req.Status,
			models.HistoryTypeRequisition, fmt.Sprintf("requisition created with %d lines", len(req.Items)), operator)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("requisition created", zap.Uint("requisition_id", req.ID), zap.Int("lines", len(req.Items)))
	return req, nil
}

func (s *ProcurementService) ListRequisitions(ctx context.Context, status string) ([]models.Requisition, error) {
	return repositories.NewRequisitionRepository(s.db.WithContext(ctx)).List(status)
}

func (s *ProcurementService) GetRequisition(ctx context.Context, id uint) (*models.Requisition, error) {
	req, err := repositories.NewRequisitionRepository(s.db.WithContext(ctx)).FindByID(id)
	if err != nil {
		return nil, notFound(err, "requisition", id)
	}
	return req, nil
}

// ApproveRequisition turns a pending requisition into a purchase order with
// the same lines and opens its goods receipt, all in one transaction.
func (s *ProcurementService) ApproveRequisition(ctx context.Context, id uint, operator string) (*RequisitionApproval, error) {
	operator = operatorOrSystem(operator)
	now := s.now()
	out := &RequisitionApproval{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reqRepo := repositories.NewRequisitionRepository(tx)
		req, err := reqRepo.FindByID(id)
		if err != nil {
			return notFound(err, "requisition", id)
		}
		ok, err := reqRepo.Transition(id, models.RequisitionStatusPending, models.RequisitionStatusApproved, operator, now)
		if err != nil {
			return fmt.Errorf("approve requisition %d: %w", id, err)
		}
		if !ok {
			return fmt.Errorf("requisition %d is %s: %w", id, req.Status, ErrConflict)
		}
		req.Status = models.RequisitionStatusApproved
		req.DecidedBy = operator
		req.DecidedAt = &now
		out.Requisition = req

		poRepo := repositories.NewPurchaseOrderRepository(tx)
		number, err := uniquePONumber(poRepo, now)
		if err != nil {
			return err
		}
		po := &models.PurchaseOrder{
			PoNumber:      number,
			RequisitionID: &req.ID,
			SupplierID:    req.SupplierID,
			OrderDate:     now,
			Status:        models.PurchaseOrderStatusPending,
			Notes:         req.Description,
			CreatedBy:     operator,
		}
		for _, line := range req.Items {
			po.Items = append(po.Items, models.PurchaseOrderItem{
				ItemID:   line.ItemID,
				Quantity: line.Quantity,
				Price:    decimal.Zero,
			})
		}
		if err := poRepo.Create(po); err != nil {
			return fmt.Errorf("create purchase order: %w", err)
		}
		out.PurchaseOrder = po

		out.GoodsReceipt, err = openReceipt(tx, po, models.GoodsReceiptStatusDelivered, operator, now)
		if err != nil {
			return err
		}

		history := repositories.NewHistoryRepository(tx)
		if err := history.Insert(requisitionRef(req.ID), req.Status, models.HistoryTypeRequisition,
			"approved into purchase order "+po.PoNumber, operator); err != nil {
			return err
		}
		return history.Insert(po.PoNumber, po.Status, models.HistoryTypePurchaseOrder,
			fmt.Sprintf("created from requisition %d with %d lines", req.ID, len(po.Items)), operator)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("requisition approved",
		zap.Uint("requisition_id", id),
		zap.String("po_number", out.PurchaseOrder.PoNumber),
		zap.String("gr_number", out.GoodsReceipt.GrNumber),
		zap.String("operator", operator))
	s.notify(ctx, notification.EventRequisitionApproved, out.PurchaseOrder.PoNumber,
		fmt.Sprintf("Requisition %d approved as purchase order %s", id, out.PurchaseOrder.PoNumber), operator)
	return out, nil
}

func (s *ProcurementService) RejectRequisition(ctx context.Context, id uint, operator string) (*models.Requisition, error) {
	operator = operatorOrSystem(operator)
	now := s.now()

	var req *models.Requisition
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewRequisitionRepository(tx)
		var err error
		req, err = repo.FindByID(id)
		if err != nil {
			return notFound(err, "requisition", id)
		}
		ok, err := repo.Transition(id, models.RequisitionStatusPending, models.RequisitionStatusRejected, operator, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("requisition %d is %s: %w", id, req.Status, ErrConflict)
		}
		req.Status = models.RequisitionStatusRejected
		req.DecidedBy = operator
		req.DecidedAt = &now
		return repositories.NewHistoryRepository(tx).Insert(requisitionRef(id), req.Status, models.HistoryTypeRequisition, "requisition rejected", operator)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("requisition rejected", zap.Uint("requisition_id", id), zap.String("operator", operator))
	s.notify(ctx, notification.EventRequisitionRejected, requisitionRef(id), "Requisition rejected", operator)
	return req, nil
}

// DeleteRequisition removes a requisition that is still pending.
func (s *ProcurementService) DeleteRequisition(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewRequisitionRepository(tx)
		req, err := repo.FindByID(id)
		if err != nil {
			return notFound(err, "requisition", id)
		}
		ok, err := repo.DeletePending(id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("requisition %d is %s: %w", id, req.Status, ErrConflict)
		}
		return nil
	})
}

// CreatePurchaseOrder raises a PO directly, without a requisition. Its
// receipt starts out pending.
func (s *ProcurementService) CreatePurchaseOrder(ctx context.Context, in models.PurchaseOrderInput, operator string) (*models.PurchaseOrder, error) {
	operator = operatorOrSystem(operator)
	if in.SupplierID == 0 {
		return nil, invalid("supplier_id", "is required")
	}
	if len(in.Items) == 0 {
		return nil, invalid("items", "at least one line is required")
	}
	now := s.now()
	po := &models.PurchaseOrder{
		SupplierID: in.SupplierID,
		OrderDate:  now,
		Status:     models.PurchaseOrderStatusPending,
		Notes:      in.Notes,
		CreatedBy:  operator,
	}
	itemIDs := make([]uint, 0, len(in.Items))
	for i, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, invalid(fmt.Sprintf("items[%d].quantity", i), "must be greater than 0")
		}
		if line.Price.IsNegative() {
			return nil, invalid(fmt.Sprintf("items[%d].price", i), "must not be negative")
		}
		itemIDs = append(itemIDs, line.ItemID)
		po.Items = append(po.Items, models.PurchaseOrderItem{ItemID: line.ItemID, Quantity: line.Quantity, Price: line.Price})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, in.SupplierID, itemIDs); err != nil {
			return err
		}
		repo := repositories.NewPurchaseOrderRepository(tx)
		number, err := uniquePONumber(repo, now)
		if err != nil {
			return err
		}
		po.PoNumber = number
		if err := repo.Create(po); err != nil {
			return fmt.Errorf("create purchase order: %w", err)
		}
		if _, err := openReceipt(tx, po, models.GoodsReceiptStatusPending, operator, now); err != nil {
			return err
		}
		return repositories.NewHistoryRepository(tx).Insert(po.PoNumber, po.Status, models.HistoryTypePurchaseOrder,
			fmt.Sprintf("purchase order created with %d lines", len(po.Items)), operator)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase order created", zap.String("po_number", po.PoNumber), zap.Int("lines", len(po.Items)))
	return po, nil
}

func (s *ProcurementService) ListPurchaseOrders(ctx context.Context, status string) ([]models.PurchaseOrder, error) {
	return repositories.NewPurchaseOrderRepository(s.db.WithContext(ctx)).List(status)
}

func (s *ProcurementService) GetPurchaseOrder(ctx context.Context, id uint) (*models.PurchaseOrder, error) {
	po, err := repositories.NewPurchaseOrderRepository(s.db.WithContext(ctx)).FindByID(id)
	if err != nil {
		return nil, notFound(err, "purchase order", id)
	}
	return po, nil
}

// ApprovePurchaseOrder approves a pending PO into a warehouse and posts one
// stock-in row per line, referenced by the PO number. A PO can be approved
// once; later attempts get ErrConflict and leave the ledger alone.
func (s *ProcurementService) ApprovePurchaseOrder(ctx context.Context, id, warehouseID uint, operator string) (*PurchaseOrderApproval, error) {
	operator = operatorOrSystem(operator)
	if warehouseID == 0 {
		return nil, invalid("warehouse_id", "a receiving warehouse must be selected")
	}
	now := s.now()
	out := &PurchaseOrderApproval{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		poRepo := repositories.NewPurchaseOrderRepository(tx)
		po, err := poRepo.FindByID(id)
		if err != nil {
			return notFound(err, "purchase order", id)
		}
		if _, err := repositories.NewMasterRepository(tx).FindWarehouse(warehouseID); err != nil {
			return notFound(err, "warehouse", warehouseID)
		}

		ok, err := poRepo.Approve(id, warehouseID, operator, now)
		if err != nil {
			return fmt.Errorf("approve purchase order %s: %w", po.PoNumber, err)
		}
		if !ok {
			return fmt.Errorf("purchase order %s is %s: %w", po.PoNumber, po.Status, ErrConflict)
		}
		po.Status = models.PurchaseOrderStatusApproved
		po.WarehouseID = &warehouseID
		po.ApprovedBy = operator
		po.ApprovedAt = &now
		out.PurchaseOrder = po

		postings := make([]*models.StockTransaction, 0, len(po.Items))
		for _, line := range po.Items {
			unitCost := lineUnitCost(line)
			postings = append(postings, &models.StockTransaction{
				ItemID:          line.ItemID,
				WarehouseID:     warehouseID,
				TransactionType: models.TransactionTypeStockIn,
				Quantity:        line.Quantity,
				UnitCost:        unitCost,
				TotalCost:       unitCost.Mul(decimal.NewFromInt(int64(line.Quantity))),
				ReferenceNumber: po.PoNumber,
				Notes:           "purchase order approval",
				CreatedBy:       operator,
				CreatedAt:       now,
			})
		}
		if err := repositories.NewStockRepository(tx).Post(postings...); err != nil {
			return fmt.Errorf("post stock for %s: %w", po.PoNumber, err)
		}
		for _, p := range postings {
			out.Postings = append(out.Postings, *p)
		}

		return repositories.NewHistoryRepository(tx).Insert(po.PoNumber, po.Status, models.HistoryTypePurchaseOrder,
			fmt.Sprintf("approved into warehouse %d, %d stock-in rows", warehouseID, len(postings)), operator)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase order approved",
		zap.String("po_number", out.PurchaseOrder.PoNumber),
		zap.Uint("warehouse_id", warehouseID),
		zap.Int("postings", len(out.Postings)),
		zap.String("operator", operator))
	s.notify(ctx, notification.EventPurchaseOrderApproved, out.PurchaseOrder.PoNumber,
		fmt.Sprintf("Purchase order %s approved, %d lines received into stock", out.PurchaseOrder.PoNumber, len(out.Postings)), operator)
	return out, nil
}

// lineUnitCost falls back from the line price to the item's list price.
func lineUnitCost(line models.PurchaseOrderItem) decimal.Decimal {
	if !line.Price.IsZero() {
		return line.Price
	}
	if line.Item != nil {
		return line.Item.UnitPrice
	}
	return decimal.Zero
}

func requisitionRef(id uint) string {
	return fmt.Sprintf("REQ-%d", id)
}

