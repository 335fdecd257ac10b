package controllers

import (
	"fiber-erp/repositories"
	"fiber-erp/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuditController exposes the transaction history and the ledger
// reconciliation.
type AuditController struct {
	DB         *gorm.DB
	Reconciler *services.ReconciliationService
}

func NewAuditController(db *gorm.DB, reconciler *services.ReconciliationService) *AuditController {
	return &AuditController{DB: db, Reconciler: reconciler}
}

func (c *AuditController) GetHistories(ctx *fiber.Ctx) error {
	rows, err := repositories.NewHistoryRepository(c.DB.WithContext(ctx.UserContext())).ListByRef(ctx.Query("ref_no"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Histories found", rows)
}

func (c *AuditController) Reconcile(ctx *fiber.Ctx) error {
	report, err := c.Reconciler.Run(ctx.UserContext())
	if err != nil {
		return respondError(ctx, err)
	}
	msg := "Ledger is consistent"
	if !report.OK() {
		msg = "Ledger discrepancies found"
	}
	return ok(ctx, fiber.StatusOK, msg, report)
}

func (c *AuditController) Health(ctx *fiber.Ctx) error {
	sqlDB, err := c.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx.UserContext())
	}
	if err != nil {
		return fail(ctx, fiber.StatusServiceUnavailable, "Database unavailable", err)
	}
	return ok(ctx, fiber.StatusOK, "OK", nil)
}
