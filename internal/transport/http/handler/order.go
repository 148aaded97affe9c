package handler

import (
	"strconv"
	"strings"

	"github.com/Zaharysh37/order-service/internal/auth"
	"github.com/Zaharysh37/order-service/internal/domain"
	"github.com/Zaharysh37/order-service/internal/repository"
	"github.com/Zaharysh37/order-service/internal/service"
	"github.com/Zaharysh37/order-service/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// maxPageNumber keeps page*size comfortably inside int64 so the computed
// offset can never go negative on overflow.
const (
	defaultPageSize int64 = 20
	maxPageSize     int64 = 100
	maxPageNumber   int64 = 1 << 31
)

type OrderHandler struct {
	service  service.OrderService
	logger   *zap.Logger
	validate *validator.Validate
}

func NewOrderHandler(service service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		logger:   logger,
		validate: validator.New(),
	}
}

type createOrderRequest struct {
	UserEmail string                    `json:"user_email" validate:"required,email"`
	Items     []service.CreateOrderLine `json:"items" validate:"required,min=1,dive"`
}

type pageResponse struct {
	Content interface{} `json:"content"`
	Total   int64       `json:"total"`
	Page    int64       `json:"page"`
	Size    int64       `json:"size"`
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var input createOrderRequest
	if err := c.BodyParser(&input); err != nil {
		h.logger.Warn("failed to parse create order body", zap.Error(err))
		return writeErrorBadBody(c)
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationDetails(c, utils.FormatValidationError(err))
	}

	result, err := h.service.CreateOrder(c.UserContext(), input.UserEmail, input.Items)
	if err != nil {
		h.logger.Warn("create order failed", zap.Error(err))
		return writeServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "order id must be an integer")
	}

	identity, ok := auth.IdentityFromContext(c.UserContext())
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing identity"})
	}

	result, err := h.service.GetOrderByID(c.UserContext(), id, identity)
	if err != nil {
		h.logger.Warn("get order failed", zap.Int64("order_id", id), zap.Error(err))
		return writeServiceError(c, err)
	}

	return c.JSON(result)
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	filter, err := parseFilter(c)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	orders, total, err := h.service.ListOrders(c.UserContext(), filter, page)
	if err != nil {
		h.logger.Warn("list orders failed", zap.Error(err))
		return writeServiceError(c, err)
	}

	return c.JSON(pageResponse{
		Content: orders,
		Total:   total,
		Page:    page.Number,
		Size:    page.Size,
	})
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "order id must be an integer")
	}

	status, err := domain.ParseOrderStatus(c.Query("status"))
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	result, err := h.service.UpdateOrderStatus(c.UserContext(), id, status)
	if err != nil {
		h.logger.Warn("update order status failed", zap.Int64("order_id", id), zap.Error(err))
		return writeServiceError(c, err)
	}

	return c.JSON(result)
}

func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "order id must be an integer")
	}

	identity, ok := auth.IdentityFromContext(c.UserContext())
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing identity"})
	}

	if err := h.service.DeleteOrder(c.UserContext(), id, identity); err != nil {
		h.logger.Warn("delete order failed", zap.Int64("order_id", id), zap.Error(err))
		return writeServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parsePage(c *fiber.Ctx) (repository.Page, error) {
	page := repository.Page{Number: 0, Size: defaultPageSize}

	if raw := c.Query("page"); raw != "" {
		number, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || number < 0 || number > maxPageNumber {
			return page, errInvalidPage
		}
		page.Number = number
	}

	if raw := c.Query("size"); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || size < 1 || size > maxPageSize {
			return page, errInvalidPage
		}
		page.Size = size
	}

	return page, nil
}

func parseFilter(c *fiber.Ctx) (repository.ListFilter, error) {
	var filter repository.ListFilter

	if raw := c.Query("ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return filter, errInvalidIDs
			}
			filter.IDs = append(filter.IDs, id)
		}
	}

	if raw := c.Query("statuses"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, err := domain.ParseOrderStatus(strings.TrimSpace(part))
			if err != nil {
				return filter, err
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	return filter, nil
}
