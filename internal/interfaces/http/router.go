package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/items-api/internal/application/dto"
	"github.com/jhoicas/items-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName string
	ItemUC  *usecase.ItemUseCase
}

// Router registra las rutas de la API y, al final, el 404 para todo lo demás.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Service: deps.AppName})
	})

	items := app.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)

	app.Use(NotFound)
}
