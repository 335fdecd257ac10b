package controllers

import (
	"fiber-erp/middleware"
	"fiber-erp/models"
	"fiber-erp/services"

	"github.com/gofiber/fiber/v2"
)

type GoodsReceiptController struct {
	Service *services.ReceivingService
}

func NewGoodsReceiptController(svc *services.ReceivingService) *GoodsReceiptController {
	return &GoodsReceiptController{Service: svc}
}

func (c *GoodsReceiptController) GetReceipts(ctx *fiber.Ctx) error {
	rows, err := c.Service.ListReceipts(ctx.UserContext(), ctx.Query("status"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Goods receipts found", rows)
}

func (c *GoodsReceiptController) GetReceiptByPO(ctx *fiber.Ctx) error {
	poID, err := idParam(ctx, "po_id")
	if poID == 0 {
		return err
	}
	gr, err := c.Service.GetReceiptByPO(ctx.UserContext(), poID)
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Goods receipt found", gr)
}

func (c *GoodsReceiptController) MarkDelivered(ctx *fiber.Ctx) error {
	poID, err := idParam(ctx, "po_id")
	if poID == 0 {
		return err
	}
	var in models.DeliverReceiptInput
	if len(ctx.Body()) > 0 {
		if valid, err := bind(ctx, &in); !valid {
			return err
		}
	}
	gr, err := c.Service.MarkDelivered(ctx.UserContext(), poID, in.ReceivedBy, middleware.OperatorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Goods receipt delivered", gr)
}

func (c *GoodsReceiptController) VerifyReceipt(ctx *fiber.Ctx) error {
	var in models.VerifyReceiptInput
	if valid, err := bind(ctx, &in); !valid {
		return err
	}
	out, err := c.Service.VerifyReceipt(ctx.UserContext(), in.PurchaseOrderID, in.ReceivedBy, middleware.OperatorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Goods receipt verified", out)
}
