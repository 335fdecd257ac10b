package routes

import (
	"fiber-erp/config"
	"fiber-erp/controllers"
	"fiber-erp/middleware"
	"fiber-erp/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer is built from.
type Deps struct {
	DB          *gorm.DB
	Procurement *services.ProcurementService
	Receiving   *services.ReceivingService
	Inventory   *services.InventoryService
	Sales       *services.SalesService
	Reconciler  *services.ReconciliationService
}

// Setup registers every route group under MAIN_ROUTES.
func Setup(app *fiber.App, deps Deps) {
	SetupMasterRoutes(app, controllers.NewMasterController(deps.DB))
	SetupRequisitionRoutes(app, controllers.NewRequisitionController(deps.Procurement))
	SetupPurchaseOrderRoutes(app, controllers.NewPurchaseOrderController(deps.Procurement))
	SetupGoodsReceiptRoutes(app, controllers.NewGoodsReceiptController(deps.Receiving))
	SetupInventoryRoutes(app, controllers.NewInventoryController(deps.Inventory))
	SetupSalesRoutes(app, controllers.NewSalesController(deps.Sales))
	SetupAuditRoutes(app, controllers.NewAuditController(deps.DB, deps.Reconciler))
}

func group(app *fiber.App, prefix string) fiber.Router {
	return app.Group(config.MAIN_ROUTES+prefix, middleware.Operator(config.JWTSecret, config.AuthRequired))
}
