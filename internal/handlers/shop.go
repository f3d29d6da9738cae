package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/estatedeli/internal/models"
)

// ShopHandler manages the shop item catalog.
type ShopHandler struct {
	db *gorm.DB
}

// NewShopHandler constructs a ShopHandler.
func NewShopHandler(db *gorm.DB) *ShopHandler {
	return &ShopHandler{db: db}
}

// ListItems returns all items currently in stock.
func (h *ShopHandler) ListItems(c *fiber.Ctx) error {
	var items []models.ShopItem
	if err := h.db.Where("in_stock = ?", true).Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(items)
}

// GetItem returns a single shop item.
func (h *ShopHandler) GetItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.ShopItem
	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Item not found")
		}
		return err
	}

	return c.JSON(item)
}

type shopItemRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Image         string   `json:"image"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	InStock       *bool    `json:"inStock"`
	StockQuantity *int     `json:"stockQuantity"`
	SKU           *string  `json:"sku"`
}

// toItem builds a ShopItem with the catalog defaults applied. An empty sku
// is stored as NULL so it never collides on the unique index.
func (req shopItemRequest) toItem() models.ShopItem {
	item := models.ShopItem{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Image:         req.Image,
		Category:      req.Category,
		Tags:          req.Tags,
		InStock:       true,
		StockQuantity: 100,
	}

	if req.InStock != nil {
		item.InStock = *req.InStock
	}
	if req.StockQuantity != nil {
		item.StockQuantity = *req.StockQuantity
	}
	if req.SKU != nil && *req.SKU != "" {
		item.SKU = req.SKU
	}

	return item
}

// CreateItem adds a new catalog item. Admin only.
func (h *ShopHandler) CreateItem(c *fiber.Ctx) error {
	var req shopItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	item := req.toItem()

	if msg := item.Validate(); msg != "" {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}

	if err := h.db.Create(&item).Error; err != nil {
		return duplicateKeyAsConflict(err, "sku already exists")
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

type shopItemUpdateRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Price         *float64  `json:"price"`
	Image         *string   `json:"image"`
	Category      *string   `json:"category"`
	Tags          *[]string `json:"tags"`
	InStock       *bool     `json:"inStock"`
	StockQuantity *int      `json:"stockQuantity"`
	SKU           *string   `json:"sku"`
}

// apply copies only the provided fields onto the item. Sending sku as ""
// clears it back to NULL.
func (req shopItemUpdateRequest) apply(item *models.ShopItem) {
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Image != nil {
		item.Image = *req.Image
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Tags != nil {
		item.Tags = *req.Tags
	}
	if req.InStock != nil {
		item.InStock = *req.InStock
	}
	if req.StockQuantity != nil {
		item.StockQuantity = *req.StockQuantity
	}
	if req.SKU != nil {
		if *req.SKU == "" {
			item.SKU = nil
		} else {
			item.SKU = req.SKU
		}
	}
}

// UpdateItem applies a validated partial update. Admin only.
func (h *ShopHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.ShopItem
	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Item not found")
		}
		return err
	}

	var req shopItemUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	req.apply(&item)

	if msg := item.Validate(); msg != "" {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}

	if err := h.db.Save(&item).Error; err != nil {
		return duplicateKeyAsConflict(err, "sku already exists")
	}

	return c.JSON(item)
}

// DeleteItem removes a catalog item permanently. Admin only.
func (h *ShopHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Delete(&models.ShopItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Item not found")
	}

	return c.JSON(fiber.Map{"message": "Item deleted successfully"})
}

// duplicateKeyAsConflict maps a unique-index violation to a Conflict
// response; anything else passes through untouched. Requires the gorm
// postgres driver's error translation, enabled in database.Connect.
func duplicateKeyAsConflict(err error, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fiber.NewError(fiber.StatusConflict, message)
	}
	return err
}
