package routes

import (
	"fiber-erp/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupRequisitionRoutes(app *fiber.App, controller *controllers.RequisitionController) {
	api := group(app, "/requisitions")
	api.Get("/", controller.GetRequisitions)
	api.Post("/", controller.CreateRequisition)
	api.Get("/:id", controller.GetRequisitionByID)
	api.Delete("/:id", controller.DeleteRequisition)
	api.Post("/:id/approve", controller.ApproveRequisition)
	api.Post("/:id/reject", controller.RejectRequisition)
}

func SetupPurchaseOrderRoutes(app *fiber.App, controller *controllers.PurchaseOrderController) {
	api := group(app, "/purchase-orders")
	api.Get("/", controller.GetPurchaseOrders)
	api.Post("/", controller.CreatePurchaseOrder)
	api.Get("/:id", controller.GetPurchaseOrderByID)
	api.Post("/:id/approve", controller.ApprovePurchaseOrder)
}

func SetupGoodsReceiptRoutes(app *fiber.App, controller *controllers.GoodsReceiptController) {
	api := group(app, "/goods-receipts")
	api.Get("/", controller.GetReceipts)
	api.Post("/verify", controller.VerifyReceipt)
	api.Get("/po/:po_id", controller.GetReceiptByPO)
	api.Post("/po/:po_id/deliver", controller.MarkDelivered)
}
