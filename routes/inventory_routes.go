package routes

import (
	"fiber-erp/config"
	"fiber-erp/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupInventoryRoutes(app *fiber.App, controller *controllers.InventoryController) {
	api := group(app, "/inventory")
	api.Get("/on-hand", controller.GetOnHand)
	api.Get("/on-hand/export", controller.ExportOnHand)
	api.Get("/ledger", controller.GetLedger)
	api.Post("/transfer", controller.Transfer)
	api.Post("/adjustments", controller.PostAdjustment)
}

func SetupSalesRoutes(app *fiber.App, controller *controllers.SalesController) {
	leads := group(app, "/leads")
	leads.Get("/", controller.GetLeads)
	leads.Post("/", controller.CreateLead)
	leads.Post("/:id/convert", controller.ConvertLead)

	quotations := group(app, "/quotations")
	quotations.Get("/", controller.GetQuotations)
}

func SetupAuditRoutes(app *fiber.App, controller *controllers.AuditController) {
	// liveness stays reachable without a token
	app.Get(config.MAIN_ROUTES+"/healthz", controller.Health)

	histories := group(app, "/histories")
	histories.Get("/", controller.GetHistories)

	reconciliation := group(app, "/reconciliation")
	reconciliation.Get("/", controller.Reconcile)
}
