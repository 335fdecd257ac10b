package controllers

import (
	"fiber-erp/middleware"
	"fiber-erp/models"
	"fiber-erp/services"

	"github.com/gofiber/fiber/v2"
)

type SalesController struct {
	Service *services.SalesService
}

func NewSalesController(svc *services.SalesService) *SalesController {
	return &SalesController{Service: svc}
}

func (c *SalesController) GetLeads(ctx *fiber.Ctx) error {
	rows, err := c.Service.ListLeads(ctx.UserContext(), ctx.Query("status"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Leads found", rows)
}

func (c *SalesController) CreateLead(ctx *fiber.Ctx) error {
	var in models.LeadInput
	if valid, err := bind(ctx, &in); !valid {
		return err
	}
	lead, err := c.Service.CreateLead(ctx.UserContext(), in, middleware.OperatorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusCreated, "Lead created successfully", lead)
}

func (c *SalesController) ConvertLead(ctx *fiber.Ctx) error {
	id, err := idParam(ctx, "id")
	if id == 0 {
		return err
	}
	q, err := c.Service.ConvertLead(ctx.UserContext(), id, middleware.OperatorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusCreated, "Quotation "+q.QuotationNumber+" created", q)
}

func (c *SalesController) GetQuotations(ctx *fiber.Ctx) error {
	rows, err := c.Service.ListQuotations(ctx.UserContext(), uintQuery(ctx, "customer_id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx, fiber.StatusOK, "Quotations found", rows)
}
