package services

import (
	"context"
	"fmt"
	"strings"

	"fiber-erp/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Discrepancy is an approved PO whose ledger postings do not match it.
type Discrepancy struct {
	PoNumber string `json:"po_number"`
	Problem  string `json:"problem"`
	Lines    int64  `json:"lines"`
	Postings int64  `json:"postings"`
}

type Report struct {
	Checked       int           `json:"checked"`
	Discrepancies []Discrepancy `json:"discrepancies"`
}

func (r Report) OK() bool { return len(r.Discrepancies) == 0 }

// ReconciliationService checks that every approved PO posted exactly one
// stock-in per line into a warehouse that exists.
type ReconciliationService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewReconciliationService(db *gorm.DB, log *zap.Logger) *ReconciliationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReconciliationService{db: db, log: log}
}

func (s *ReconciliationService) Run(ctx context.Context) (Report, error) {
	orders, err := repositories.NewPurchaseOrderRepository(s.db.WithContext(ctx)).ApprovedWithPostings()
	if err != nil {
		return Report{}, fmt.Errorf("load approved purchase orders: %w", err)
	}

	report := Report{Checked: len(orders), Discrepancies: []Discrepancy{}}
	for _, o := range orders {
		switch {
		case o.WarehouseID == nil || o.WarehouseCount == 0:
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				PoNumber: o.PoNumber, Problem: "receiving warehouse missing", Lines: o.LineCount, Postings: o.PostingCount,
			})
		case o.LineCount != o.PostingCount:
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				PoNumber: o.PoNumber, Problem: "stock-in count differs from line count", Lines: o.LineCount, Postings: o.PostingCount,
			})
		}
	}

	for _, d := range report.Discrepancies {
		s.log.Warn("ledger discrepancy",
			zap.String("po_number", d.PoNumber),
			zap.String("problem", d.Problem),
			zap.Int64("lines", d.Lines),
			zap.Int64("postings", d.Postings))
	}
	s.log.Info("reconciliation finished", zap.Int("checked", report.Checked), zap.Int("discrepancies", len(report.Discrepancies)))
	return report, nil
}

// Summary is a one-paragraph text rendering of the report.
func (r Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "checked %d approved purchase orders, %d discrepancies", r.Checked, len(r.Discrepancies))
	for _, d := range r.Discrepancies {
		fmt.Fprintf(&b, "; %s: %s (lines %d, postings %d)", d.PoNumber, d.Problem, d.Lines, d.Postings)
	}
	return b.String()
}
