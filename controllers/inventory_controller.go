package controllers

import (
	"bytes"
	"fmt"
	"time"

	"fiber-erp/middleware"
	"fiber-erp/models"
	"fiber-erp/repositories"
	"fiber-erp/services"

	"github.com/gofiber/fiber/v2"
)

type InventoryController struct {
	Service *services.InventoryService
}

func NewInventoryController(svc *services.InventoryService) *InventoryController {
	return &InventoryController{Service: svc}
}

func stockFilter(ctx *fiber.Ctx) repositories.StockFilter {
	return repositories.StockFilter{
		ItemID:          uintQuery(ctx, "item_id"),
		WarehouseID:     uintQuery(ctx, "warehouse_id"),
		ReferenceNumber: ctx.Query("reference_number"),
		Limit:           ctx.QueryInt("limit", 0),
	}
}

func (c *InventoryController) GetOnHand(ctx *fiber.Ctx) error {
	rows, err := c.Service.OnHand(ctx.UserContext(), stockFilter(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Stock on hand found", rows)
}

func (c *InventoryController) ExportOnHand(ctx *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := c.Service.ExportOnHand(ctx.UserContext(), stockFilter(ctx), &buf); err != nil {
		return respondError(ctx, err)
	}
	filename := fmt.Sprintf("on_hand_%s.xlsx", time.Now().Format("20060102_150405"))
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Send(buf.Bytes())
}

func (c *InventoryController) GetLedger(ctx *fiber.Ctx) error {
	rows, err := c.Service.Ledger(ctx.UserContext(), stockFilter(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Stock transactions found", rows)
}

func (c *InventoryController) Transfer(ctx *fiber.Ctx) error {
	var in models.TransferInput
	if valid, err := bind(ctx, &in); !valid {
		return err
	}
	out, err := c.Service.Transfer(ctx.UserContext(), in, middleware.OperatorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusCreated, "Stock transferred", out)
}

func (c *InventoryController) PostAdjustment(ctx *fiber.Ctx) error {
	var in models.AdjustmentInput
	if valid, err := bind(ctx, &in); !valid {
		return err
	}
	row, err := c.Service.PostAdjustment(ctx.UserContext(), in, middleware.OperatorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusCreated, "Stock adjusted", row)
}
