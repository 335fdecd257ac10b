package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fiber-erp/models"
	"fiber-erp/notification"
	"fiber-erp/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReceivingService struct {
	base
}

func NewReceivingService(db *gorm.DB, notifier notification.Notifier, log *zap.Logger) *ReceivingService {
	return &ReceivingService{base: newBase(db, notifier, log)}
}

// ReceiptVerification is the verified receipt plus the PO lines it covers.
type ReceiptVerification struct {
	Receipt       *models.GoodsReceipt       `json:"receipt"`
	PurchaseOrder *models.PurchaseOrder      `json:"purchase_order"`
	Lines         []models.PurchaseOrderItem `json:"lines"`
}

// openReceipt is the only place a goods receipt is created. A purchase
// order has at most one receipt.
func openReceipt(tx *gorm.DB, po *models.PurchaseOrder, status, receivedBy string, now time.Time) (*models.GoodsReceipt, error) {
	repo := repositories.NewGoodsReceiptRepository(tx)

	existing, err := repo.FindByPurchaseOrderID(po.ID)
	if err == nil {
		return nil, fmt.Errorf("purchase order %s already has receipt %s: %w", po.PoNumber, existing.GrNumber, ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load receipt of %s: %w", po.PoNumber, err)
	}

	gr := &models.GoodsReceipt{
		GrNumber:        GRNumber(now, po.PoNumber),
		InvoiceNumber:   InvoiceNumber(now),
		PurchaseOrderID: po.ID,
		ReceivedBy:      receivedBy,
		Status:          status,
	}
	switch status {
	case models.GoodsReceiptStatusDelivered:
		gr.DeliveredAt = &now
	case models.GoodsReceiptStatusVerified:
		gr.DeliveredAt = &now
		gr.VerifiedAt = &now
	}
	if err := repo.Create(gr); err != nil {
		return nil, fmt.Errorf("create receipt for %s: %w", po.PoNumber, err)
	}

	detail := fmt.Sprintf("goods receipt opened for purchase order %s", po.PoNumber)
	if err := repositories.NewHistoryRepository(tx).Insert(gr.GrNumber, status, models.HistoryTypeGoodsReceipt, detail, receivedBy); err != nil {
		return nil, err
	}
	return gr, nil
}

// MarkDelivered records that the goods of a PO arrived at the dock.
func (s *ReceivingService) MarkDelivered(ctx context.Context, poID uint, receivedBy, operator string) (*models.GoodsReceipt, error) {
	operator = operatorOrSystem(operator)
	if receivedBy == "" {
		receivedBy = operator
	}
	now := s.now()

	var gr *models.GoodsReceipt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewGoodsReceiptRepository(tx)
		var err error
		gr, err = repo.FindByPurchaseOrderID(poID)
		if err != nil {
			return notFound(err, "goods receipt of purchase order", poID)
		}
		if gr.Status != models.GoodsReceiptStatusPending {
			return fmt.Errorf("receipt %s is %s: %w", gr.GrNumber, gr.Status, ErrConflict)
		}
		ok, err := repo.Transition(gr.ID, models.GoodsReceiptStatusPending, map[string]interface{}{
			"status":       models.GoodsReceiptStatusDelivered,
			"received_by":  receivedBy,
			"delivered_at": now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("receipt %s changed concurrently: %w", gr.GrNumber, ErrConflict)
		}
		gr.Status = models.GoodsReceiptStatusDelivered
		gr.ReceivedBy = receivedBy
		gr.DeliveredAt = &now

		return repositories.NewHistoryRepository(tx).Insert(gr.GrNumber, gr.Status, models.HistoryTypeGoodsReceipt, "goods delivered", operator)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("goods receipt delivered", zap.String("gr_number", gr.GrNumber), zap.Uint("purchase_order_id", poID))
	return gr, nil
}

// VerifyReceipt is the manual matching step. It confirms the receipt of a PO
// and returns the PO lines for display; stock is posted by PO approval only.
func (s *ReceivingService) VerifyReceipt(ctx context.Context, poID uint, receivedBy, operator string) (*ReceiptVerification, error) {
	operator = operatorOrSystem(operator)
	if poID == 0 {
		return nil, invalid("purchase_order_id", "is required")
	}
	if receivedBy == "" {
		return nil, invalid("received_by", "is required")
	}
	now := s.now()

	out := &ReceiptVerification{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		po, err := repositories.NewPurchaseOrderRepository(tx).FindByID(poID)
		if err != nil {
			return notFound(err, "purchase order", poID)
		}
		out.PurchaseOrder = po
		out.Lines = po.Items

		repo := repositories.NewGoodsReceiptRepository(tx)
		gr, err := repo.FindByPurchaseOrderID(po.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			out.Receipt, err = openReceipt(tx, po, models.GoodsReceiptStatusVerified, receivedBy, now)
			return err
		}
		if err != nil {
			return err
		}
		if gr.Status == models.GoodsReceiptStatusVerified {
			return fmt.Errorf("receipt %s already verified: %w", gr.GrNumber, ErrConflict)
		}

		updates := map[string]interface{}{
			"status":      models.GoodsReceiptStatusVerified,
			"received_by": receivedBy,
			"verified_at": now,
		}
		if gr.DeliveredAt == nil {
			updates["delivered_at"] = now
			gr.DeliveredAt = &now
		}
		ok, err := repo.Transition(gr.ID, gr.Status, updates)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("receipt %s changed concurrently: %w", gr.GrNumber, ErrConflict)
		}
		gr.Status = models.GoodsReceiptStatusVerified
		gr.ReceivedBy = receivedBy
		gr.VerifiedAt = &now
		out.Receipt = gr

		detail := fmt.Sprintf("verified by %s against %d lines", receivedBy, len(po.Items))
		return repositories.NewHistoryRepository(tx).Insert(gr.GrNumber, gr.Status, models.HistoryTypeGoodsReceipt, detail, operator)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("goods receipt verified",
		zap.String("gr_number", out.Receipt.GrNumber),
		zap.String("po_number", out.PurchaseOrder.PoNumber),
		zap.String("received_by", receivedBy))
	s.notify(ctx, notification.EventReceiptVerified, out.Receipt.GrNumber,
		fmt.Sprintf("Receipt of purchase order %s verified by %s", out.PurchaseOrder.PoNumber, receivedBy), operator)
	return out, nil
}

func (s *ReceivingService) ListReceipts(ctx context.Context, status string) ([]models.GoodsReceipt, error) {
	return repositories.NewGoodsReceiptRepository(s.db.WithContext(ctx)).List(status)
}

func (s *ReceivingService) GetReceiptByPO(ctx context.Context, poID uint) (*models.GoodsReceipt, error) {
	gr, err := repositories.NewGoodsReceiptRepository(s.db.WithContext(ctx)).FindByPurchaseOrderID(poID)
	if err != nil {
		return nil, notFound(err, "goods receipt of purchase order", poID)
	}
	return gr, nil
}
