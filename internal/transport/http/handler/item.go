package handler

import (
	"strconv"

	"github.com/Zaharysh37/order-service/internal/domain"
	"github.com/Zaharysh37/order-service/internal/service"
	"github.com/Zaharysh37/order-service/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var minItemPrice = decimal.New(1, -2) // 0.01

type ItemHandler struct {
	service  service.ItemService
	logger   *zap.Logger
	validate *validator.Validate
}

func NewItemHandler(service service.ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		service:  service,
		logger:   logger,
		validate: validator.New(),
	}
}

type createItemRequest struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var input createItemRequest
	if err := c.BodyParser(&input); err != nil {
		h.logger.Warn("failed to parse create item body", zap.Error(err))
		return writeErrorBadBody(c)
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationDetails(c, utils.FormatValidationError(err))
	}

	if input.Price.LessThan(minItemPrice) {
		return writeBadRequest(c, "price must be at least 0.01")
	}

	item := &domain.Item{Name: input.Name, Price: input.Price}

	id, err := h.service.Create(c.UserContext(), item)
	if err != nil {
		h.logger.Warn("create item failed", zap.Error(err))
		return writeServiceError(c, err)
	}

	item.ID = id
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "item id must be an integer")
	}

	item, err := h.service.FindByID(c.UserContext(), id)
	if err != nil {
		h.logger.Warn("get item failed", zap.Int64("item_id", id), zap.Error(err))
		return writeServiceError(c, err)
	}

	return c.JSON(item)
}

func (h *ItemHandler) List(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	items, total, err := h.service.List(c.UserContext(), page.Size, page.Number*page.Size)
	if err != nil {
		h.logger.Warn("list items failed", zap.Error(err))
		return writeServiceError(c, err)
	}

	return c.JSON(pageResponse{
		Content: items,
		Total:   total,
		Page:    page.Number,
		Size:    page.Size,
	})
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "item id must be an integer")
	}

	var input domain.UpdateItemInput
	if err := c.BodyParser(&input); err != nil {
		h.logger.Warn("failed to parse update item body", zap.Error(err))
		return writeErrorBadBody(c)
	}

	if input.Price != nil && input.Price.LessThan(minItemPrice) {
		return writeBadRequest(c, "price must be at least 0.01")
	}

	if err := h.service.Update(c.UserContext(), id, &input); err != nil {
		h.logger.Warn("update item failed", zap.Int64("item_id", id), zap.Error(err))
		return writeServiceError(c, err)
	}

	item, err := h.service.FindByID(c.UserContext(), id)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(item)
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "item id must be an integer")
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		h.logger.Warn("delete item failed", zap.Int64("item_id", id), zap.Error(err))
		return writeServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
