package http

import (
	"errors"
	"time"

	"github.com/gofiber/contrib/fiberzerolog"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/jhoicas/items-api/internal/application/dto"
	"github.com/rs/zerolog"
)

// MsgRouteNotFound cuerpo fijo para cualquier ruta no registrada.
const MsgRouteNotFound = "Route not found"

// NewApp construye la aplicación Fiber con los middlewares comunes:
// recover (un panic en un handler termina en 500, nunca tumba el proceso),
// request id y log de acceso sobre zerolog.
func NewApp(appName string, log *zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		Immutable:    true, // ids y claves de partición pueden quedar retenidos por el backend
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberzerolog.New(fiberzerolog.Config{Logger: log}))
	return app
}

// ErrorHandler traduce cualquier error no manejado a la taxonomía plana de la API:
// 404 de Fiber -> "Route not found"; todo lo demás -> 500 con el mensaje del error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code == fiber.StatusNotFound {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: MsgRouteNotFound})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
}

// NotFound responde 404 a todo lo que no coincidió con una ruta. Debe registrarse al final.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: MsgRouteNotFound})
}
