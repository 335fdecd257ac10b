package services

import (
	"context"
	"fmt"

	"fiber-erp/models"
	"fiber-erp/notification"
	"fiber-erp/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SalesService struct {
	base
}

func NewSalesService(db *gorm.DB, notifier notification.Notifier, log *zap.Logger) *SalesService {
	return &SalesService{base: newBase(db, notifier, log)}
}

// CreateLead records sales interest. When available_stock is absent it is
// snapshotted from the current on-hand of the item across all warehouses; an
// explicit value, zero included, is kept as sent.
func (s *SalesService) CreateLead(ctx context.Context, in models.LeadInput, operator string) (*models.Lead, error) {
	operator = operatorOrSystem(operator)
	if in.Quantity < 0 {
		return nil, invalid("quantity", "must not be negative")
	}
	if in.AvailableStock != nil && *in.AvailableStock < 0 {
		return nil, invalid("available_stock", "must not be negative")
	}
	lead := &models.Lead{
		CustomerID: in.CustomerID,
		ItemID:     in.ItemID,
		Quantity:   in.Quantity,
		LeadStatus: models.LeadStatusOpen,
		Notes:      in.Notes,
		CreatedBy:  operator,
	}
	if in.AvailableStock != nil {
		lead.AvailableStock = *in.AvailableStock
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		master := repositories.NewMasterRepository(tx)
		if _, err := master.FindCustomer(in.CustomerID); err != nil {
			return notFound(err, "customer", in.CustomerID)
		}
		if _, err := master.FindItem(in.ItemID); err != nil {
			return notFound(err, "item", in.ItemID)
		}
		if in.AvailableStock == nil {
			current, err := repositories.NewStockRepository(tx).AvailableAcrossWarehouses(in.ItemID)
			if err != nil {
				return err
			}
			lead.AvailableStock = int(current)
		}
		if err := repositories.NewLeadRepository(tx).Create(lead); err != nil {
			return err
		}
		return repositories.NewHistoryRepository(tx).Insert(leadRef(lead.ID), lead.LeadStatus, models.HistoryTypeLead,
			fmt.Sprintf("lead for item %d, %d in stock", lead.ItemID, lead.AvailableStock), operator)
	})
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *SalesService) ListLeads(ctx context.Context, status string) ([]models.Lead, error) {
	return repositories.NewLeadRepository(s.db.WithContext(ctx)).List(status)
}

// ConvertLead prices a quotation off the lead's stock snapshot. It refuses
// when the snapshot or the live on-hand is empty, or when live stock has
// dropped below the snapshot.
func (s *SalesService) ConvertLead(ctx context.Context, leadID uint, operator string) (*models.Quotation, error) {
	operator = operatorOrSystem(operator)
	now := s.now()

	var q *models.Quotation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leads := repositories.NewLeadRepository(tx)
		lead, err := leads.FindByID(leadID)
		if err != nil {
			return notFound(err, "lead", leadID)
		}
		if lead.LeadStatus != models.LeadStatusOpen {
			return fmt.Errorf("lead %d is %s: %w", leadID, lead.LeadStatus, ErrConflict)
		}

		item, err := repositories.NewMasterRepository(tx).FindItem(lead.ItemID)
		if err != nil {
			return notFound(err, "item", lead.ItemID)
		}
		snapshot := int64(lead.AvailableStock)
		current, err := repositories.NewStockRepository(tx).AvailableAcrossWarehouses(lead.ItemID)
		if err != nil {
			return err
		}
		switch {
		case snapshot <= 0:
			return fmt.Errorf("lead %d has no available stock: %w", leadID, ErrInsufficientStock)
		case current <= 0:
			return fmt.Errorf("%s is out of stock: %w", item.ItemCode, ErrInsufficientStock)
		case current < snapshot:
			return fmt.Errorf("%s: %d on hand, lead expects %d: %w", item.ItemCode, current, snapshot, ErrInsufficientStock)
		}

		ok, err := leads.MarkConverted(leadID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("lead %d changed concurrently: %w", leadID, ErrConflict)
		}

		q = &models.Quotation{
			QuotationNumber: QuotationNumber(now),
			LeadID:          lead.ID,
			CustomerID:      lead.CustomerID,
			ItemID:          lead.ItemID,
			Quantity:        int(snapshot),
			UnitPrice:       item.UnitPrice,
			TotalAmount:     item.UnitPrice.Mul(decimal.NewFromInt(snapshot)),
			Status:          models.QuotationStatusDraft,
			CreatedBy:       operator,
			CreatedAt:       now,
		}
		if err := leads.CreateQuotation(q); err != nil {
			return fmt.Errorf("create quotation: %w", err)
		}
		return repositories.NewHistoryRepository(tx).Insert(leadRef(leadID), models.LeadStatusConverted, models.HistoryTypeLead,
			"converted into quotation "+q.QuotationNumber, operator)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("lead converted",
		zap.Uint("lead_id", leadID),
		zap.String("quotation_number", q.QuotationNumber),
		zap.String("total_amount", q.TotalAmount.String()))
	s.notify(ctx, notification.EventLeadConverted, q.QuotationNumber,
		fmt.Sprintf("Lead %d converted, total %s", leadID, q.TotalAmount.StringFixed(2)), operator)
	return q, nil
}

func (s *SalesService) ListQuotations(ctx context.Context, customerID uint) ([]models.Quotation, error) {
	return repositories.NewLeadRepository(s.db.WithContext(ctx)).ListQuotations(customerID)
}

func leadRef(id uint) string {
	return fmt.Sprintf("LEAD-%d", id)
}
