package controllers

import (
	"fiber-erp/middleware"
	"fiber-erp/models"
	"fiber-erp/services"

	"github.com/gofiber/fiber/v2"
)

type RequisitionController struct {
	Service *services.ProcurementService
}

func NewRequisitionController(svc *services.ProcurementService) *RequisitionController {
	return &RequisitionController{Service: svc}
}

func (c *RequisitionController) GetRequisitions(ctx *fiber.Ctx) error {
	rows, err := c.Service.ListRequisitions(ctx.UserContext(), ctx.Query("status"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Requisitions found", rows)
}

func (c *RequisitionController) GetRequisitionByID(ctx *fiber.Ctx) error {
	id, err := idParam(ctx, "id")
	if id == 0 {
		return err
	}
	req, err := c.Service.GetRequisition(ctx.UserContext(), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Requisition found", req)
}

func (c *RequisitionController) CreateRequisition(ctx *fiber.Ctx) error {
	var in models.RequisitionInput
	if valid, err := bind(ctx, &in); !valid {
		return err
	}
	req, err := c.Service.CreateRequisition(ctx.UserContext(), in, middleware.OperatorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusCreated, "Requisition created successfully", req)
}

func (c *RequisitionController) ApproveRequisition(ctx *fiber.Ctx) error {
	id, err := idParam(ctx, "id")
	if id == 0 {
		return err
	}
	out, err := c.Service.ApproveRequisition(ctx.UserContext(), id, middleware.OperatorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Requisition approved, purchase order "+out.PurchaseOrder.PoNumber+" created", out)
}

func (c *RequisitionController) RejectRequisition(ctx *fiber.Ctx) error {
	id, err := idParam(ctx, "id")
	if id == 0 {
		return err
	}
	req, err := c.Service.RejectRequisition(ctx.UserContext(), id, middleware.OperatorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Requisition rejected", req)
}

func (c *RequisitionController) DeleteRequisition(ctx *fiber.Ctx) error {
	id, err := idParam(ctx, "id")
	if id == 0 {
		return err
	}
	if err := c.Service.DeleteRequisition(ctx.UserContext(), id); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Requisition deleted", nil)
}
