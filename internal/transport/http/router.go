package http

import (
	"github.com/Zaharysh37/order-service/internal/transport/http/handler"
	"github.com/Zaharysh37/order-service/internal/transport/http/middleware"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Order *handler.OrderHandler
	Item  *handler.ItemHandler
}

func RegisterRoutes(app *fiber.App, h *Handlers, jwtSecret string) {
	api := app.Group("/api", middleware.NewAuthMiddleware(jwtSecret))

	orders := api.Group("/orders")
	orders.Post("", h.Order.Create)
	orders.Get("", h.Order.List)
	orders.Get("/:id", h.Order.GetByID)
	orders.Put("/:id", h.Order.UpdateStatus)
	orders.Delete("/:id", h.Order.Delete)

	items := api.Group("/items")
	items.Post("", h.Item.Create)
	items.Get("", h.Item.List)
	items.Get("/:id", h.Item.GetByID)
	items.Put("/:id", h.Item.Update)
	items.Delete("/:id", h.Item.Delete)
}
