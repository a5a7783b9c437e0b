package http

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/items-api/internal/application/dto"
	"github.com/jhoicas/items-api/internal/application/usecase"
	"github.com/jhoicas/items-api/internal/domain/entity"
)

// MsgItemNotFound cuerpo del 404 de lectura y actualización.
const MsgItemNotFound = "Item not found"

// ItemHandler maneja las peticiones HTTP para Item. Cada error del backend se responde con 500
// y su mensaje; el único 404 es el de documento inexistente.
type ItemHandler struct {
	uc *usecase.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Crear item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "Documento (id y clave de partición incluidos)"
// @Success      201   {object}  object
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	in, err := entity.DecodeItem(c.Body())
	if err != nil {
		return internalError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener item por ID
// @Tags         items
// @Produce      json
// @Param        id          path   string  true  "ID del item"
// @Param        categoryId  query  string  true  "Clave de partición"
// @Success      200  {object}  object
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return internalError(c, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id, c.Query(h.uc.PartitionKeyField()))
	if err != nil {
		return internalError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: MsgItemNotFound})
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// List godoc
// @Summary      Listar todos los items
// @Tags         items
// @Produce      json
// @Success      200  {array}   object
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return internalError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// Update godoc
// @Summary      Actualizar item (merge superficial)
// @Description  Lee el documento, mezcla el cuerpo encima y lo reemplaza. El cuerpo debe traer la clave de partición.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del item"
// @Param        body  body  object  true  "Campos a sobrescribir"
// @Success      200   {object}  object
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	patch, err := entity.DecodeItem(c.Body())
	if err != nil {
		return internalError(c, err)
	}
	id, err := itemID(c)
	if err != nil {
		return internalError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), id, patch)
	if err != nil {
		return internalError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: MsgItemNotFound})
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// Delete godoc
// @Summary      Eliminar item
// @Tags         items
// @Produce      json
// @Param        id          path   string  true  "ID del item"
// @Param        categoryId  query  string  true  "Clave de partición"
// @Success      200  {object}  dto.MessageResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return internalError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), id, c.Query(h.uc.PartitionKeyField())); err != nil {
		return internalError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.MessageResponse{
		Message: fmt.Sprintf("Item with id %s deleted successfully", id),
	})
}

// itemID decodifica el id después del enrutamiento, así /items/a%2Fb llega como "a/b".
func itemID(c *fiber.Ctx) (string, error) {
	return url.PathUnescape(c.Params("id"))
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
}
