package controllers

import (
	"fiber-erp/middleware"
	"fiber-erp/models"
	"fiber-erp/services"

	"github.com/gofiber/fiber/v2"
)

type PurchaseOrderController struct {
	Service *services.ProcurementService
}

func NewPurchaseOrderController(svc *services.ProcurementService) *PurchaseOrderController {
	return &PurchaseOrderController{Service: svc}
}

func (c *PurchaseOrderController) GetPurchaseOrders(ctx *fiber.Ctx) error {
	rows, err := c.Service.ListPurchaseOrders(ctx.UserContext(), ctx.Query("status"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Purchase orders found", rows)
}

func (c *PurchaseOrderController) GetPurchaseOrderByID(ctx *fiber.Ctx) error {
	id, err := idParam(ctx, "id")
	if id == 0 {
		return err
	}
	po, err := c.Service.GetPurchaseOrder(ctx.UserContext(), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Purchase order found", po)
}

func (c *PurchaseOrderController) CreatePurchaseOrder(ctx *fiber.Ctx) error {
	var in models.PurchaseOrderInput
	if valid, err := bind(ctx, &in); !valid {
		return err
	}
	po, err := c.Service.CreatePurchaseOrder(ctx.UserContext(), in, middleware.OperatorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusCreated, "Purchase order created successfully", po)
}

func (c *PurchaseOrderController) ApprovePurchaseOrder(ctx *fiber.Ctx) error {
	id, err := idParam(ctx, "id")
	if id == 0 {
		return err
	}
	var in models.ApprovePurchaseOrderInput
	if len(ctx.Body()) > 0 {
		if valid, err := bind(ctx, &in); !valid {
			return err
		}
	}
	out, err := c.Service.ApprovePurchaseOrder(ctx.UserContext(), id, in.WarehouseID, middleware.OperatorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Purchase order approved", out)
}
