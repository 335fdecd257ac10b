package routes

import (
	"fiber-erp/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupMasterRoutes(app *fiber.App, controller *controllers.MasterController) {
	suppliers := group(app, "/suppliers")
	suppliers.Get("/", controller.GetSuppliers)
	suppliers.Post("/", controller.CreateSupplier)

	items := group(app, "/items")
	items.Post("/upload", controller.UploadItems)
	items.Get("/", controller.GetItems)
	items.Post("/", controller.CreateItem)

	warehouses := group(app, "/warehouses")
	warehouses.Get("/", controller.GetWarehouses)
	warehouses.Post("/", controller.CreateWarehouse)

	customers := group(app, "/customers")
	customers.Get("/", controller.GetCustomers)
	customers.Post("/", controller.CreateCustomer)
}
