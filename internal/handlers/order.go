package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/estatedeli/internal/config"
	"github.com/example/estatedeli/internal/middleware"
	"github.com/example/estatedeli/internal/models"
	"github.com/example/estatedeli/internal/pricing"
	"github.com/example/estatedeli/internal/services"
	"github.com/example/estatedeli/internal/utils"
)

// OrderHandler manages order placement and fulfilment endpoints.
type OrderHandler struct {
	db      *gorm.DB
	email   *services.EmailService
	pricing pricing.Policy
	prefix  string
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(db *gorm.DB, cfg *config.Config, email *services.EmailService) *OrderHandler {
	return &OrderHandler{
		db:    db,
		email: email,
		pricing: pricing.Policy{
			TaxRate:           cfg.TaxRate,
			DeliveryCharge:    cfg.DeliveryCharge,
			FreeDeliveryAbove: cfg.FreeDeliveryAbove,
		},
		prefix: cfg.OrderNumberPrefix,
	}
}

type orderLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	Items           []orderLineRequest      `json:"items"`
	CustomerDetails *models.CustomerDetails `json:"customerDetails"`
	PaymentMethod   string                  `json:"paymentMethod"`
	Notes           string                  `json:"notes"`
}

// orderStore is the persistence surface the placement sequence needs. The
// gorm implementation runs inside a transaction; tests swap in a fake.
type orderStore interface {
	GetShopItem(id uuid.UUID) (*models.ShopItem, error)
	CreateOrder(order *models.Order) error
	DecrementStock(id uuid.UUID, qty int) (bool, error)
}

type gormOrderStore struct {
	tx *gorm.DB
}

func (s *gormOrderStore) GetShopItem(id uuid.UUID) (*models.ShopItem, error) {
	var item models.ShopItem
	if err := s.tx.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *gormOrderStore) CreateOrder(order *models.Order) error {
	return s.tx.Create(order).Error
}

func (s *gormOrderStore) DecrementStock(id uuid.UUID, qty int) (bool, error) {
	result := s.tx.Model(&models.ShopItem{}).
		Where("id = ? AND in_stock = ? AND stock_quantity >= ?", id, true, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// placeOrder runs the placement sequence against a store: validate the cart,
// snapshot prices, quote totals, persist the order, decrement stock. Each
// decrement is guarded by the remaining quantity, so two orders racing over
// the same item cannot both win; the caller wraps the sequence in a
// transaction so a losing decrement leaves no partial state behind.
func (h *OrderHandler) placeOrder(store orderStore, user *models.User, req createOrderRequest) (models.Order, error) {
	if len(req.Items) == 0 {
		return models.Order{}, fiber.NewError(fiber.StatusBadRequest, "order must contain at least one item")
	}

	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return models.Order{}, fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
		}
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCOD
	}
	if !models.ValidPaymentMethod(paymentMethod) {
		return models.Order{}, fiber.NewError(fiber.StatusBadRequest, "invalid payment method")
	}

	customerDetails := models.CustomerDetails{
		Name:    user.FullName(),
		Email:   user.Email,
		Phone:   user.Phone,
		Address: user.Address,
	}
	if req.CustomerDetails != nil {
		customerDetails = *req.CustomerDetails
	}

	var subtotal float64
	items := make([]models.OrderItem, 0, len(req.Items))

	for _, line := range req.Items {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return models.Order{}, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Product %s not found", line.ProductID))
		}

		item, err := store.GetShopItem(productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Order{}, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Product %s not found", line.ProductID))
			}
			return models.Order{}, err
		}

		if !item.InStock || item.StockQuantity < line.Quantity {
			return models.Order{}, fiber.NewError(fiber.StatusBadRequest, "Insufficient stock for "+item.Name)
		}

		lineTotal := item.Price * float64(line.Quantity)
		subtotal += lineTotal

		items = append(items, models.OrderItem{
			ProductID:  item.ID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   line.Quantity,
			TotalPrice: lineTotal,
		})
	}

	quote := h.pricing.Quote(subtotal)

	order := models.Order{
		UserID:          user.ID,
		OrderNumber:     h.generateOrderNumber(),
		Items:           items,
		Subtotal:        quote.Subtotal,
		Tax:             quote.Tax,
		DeliveryCharge:  quote.DeliveryCharge,
		TotalAmount:     quote.TotalAmount,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   models.PaymentUnpaid,
		CustomerDetails: customerDetails,
		Notes:           req.Notes,
		Status:          models.OrderPending,
	}

	if err := store.CreateOrder(&order); err != nil {
		return models.Order{}, err
	}

	for _, item := range order.Items {
		ok, err := store.DecrementStock(item.ProductID, item.Quantity)
		if err != nil {
			return models.Order{}, err
		}
		if !ok {
			return models.Order{}, fiber.NewError(fiber.StatusBadRequest, "Insufficient stock for "+item.Name)
		}
	}

	return order, nil
}

// CreateOrder validates the cart against current stock, prices it, persists
// the order and decrements stock in a single transaction.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var order models.Order
	err := h.db.Transaction(func(tx *gorm.DB) error {
		placed, err := h.placeOrder(&gormOrderStore{tx: tx}, user, req)
		if err != nil {
			return err
		}
		order = placed
		return nil
	})
	if err != nil {
		return err
	}

	// Best-effort: the order stands whether or not the mail goes out.
	if err := h.email.SendOrderConfirmation(order.CustomerDetails.Email, &order); err != nil {
		log.Printf("[Order] confirmation email failed for %s: %v", order.OrderNumber, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order created successfully",
		"order":   order,
	})
}

// ListOrders returns the authenticated user's orders, newest first.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var orders []models.Order
	if err := h.db.Preload("Items").
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(orders)
}

// GetOrder returns a single order to its owner or an admin.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}
		return err
	}

	if !order.ViewableBy(user) {
		return fiber.NewError(fiber.StatusForbidden, "Access denied")
	}

	return c.JSON(order)
}

// ListAllOrders returns every order, newest first, paginated. Admin only.
func (h *OrderHandler) ListAllOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").Preload("User").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"orders": orders,
		"pagination": fiber.Map{
			"currentPage":  pg.Page,
			"itemsPerPage": pg.Limit,
			"totalItems":   total,
		},
	})
}

type updateStatusRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

// UpdateStatus moves an order along the fulfilment state machine and
// notifies the customer of meaningful changes. Admin only.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !models.ValidStatus(req.Status) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid status")
	}

	if req.PaymentStatus != "" && !models.ValidPaymentStatus(req.PaymentStatus) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payment status")
	}

	var order models.Order
	if err := h.db.Preload("Items").Preload("User").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}
		return err
	}

	if !order.CanTransition(req.Status) {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, req.Status))
	}

	order.Status = req.Status
	if req.PaymentStatus != "" {
		order.PaymentStatus = req.PaymentStatus
	}

	if err := h.db.Save(&order).Error; err != nil {
		return err
	}

	switch order.Status {
	case models.OrderConfirmed, models.OrderShipped, models.OrderDelivered:
		if err := h.email.SendOrderStatusUpdate(order.CustomerDetails.Email, &order); err != nil {
			log.Printf("[Order] status email failed for %s: %v", order.OrderNumber, err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Order status updated successfully",
		"order":   order,
	})
}

// generateOrderNumber builds a unique human-readable order number. The
// random suffix keeps concurrent placements within the same millisecond
// from colliding.
func (h *OrderHandler) generateOrderNumber() string {
	return fmt.Sprintf("%s-%d-%s", h.prefix, time.Now().UnixMilli(), uuid.NewString()[:6])
}
