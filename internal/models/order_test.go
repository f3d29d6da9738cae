package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to string }{
		{OrderPending, OrderConfirmed},
		{OrderConfirmed, OrderProcessing},
		{OrderProcessing, OrderShipped},
		{OrderShipped, OrderDelivered},
		{OrderPending, OrderCancelled},
		{OrderConfirmed, OrderCancelled},
		{OrderProcessing, OrderCancelled},
		{OrderShipped, OrderCancelled},
	}

	for _, tc := range allowed {
		o := Order{Status: tc.from}
		assert.True(t, o.CanTransition(tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to string }{
		{OrderDelivered, OrderPending},
		{OrderDelivered, OrderCancelled},
		{OrderCancelled, OrderPending},
		{OrderCancelled, OrderConfirmed},
		{OrderPending, OrderShipped},
		{OrderPending, OrderDelivered},
		{OrderConfirmed, OrderDelivered},
		{OrderShipped, OrderConfirmed},
		{OrderPending, OrderPending},
	}

	for _, tc := range denied {
		o := Order{Status: tc.from}
		assert.False(t, o.CanTransition(tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestOrderViewableBy(t *testing.T) {
	owner := User{BaseModel: BaseModel{ID: uuid.New()}, Role: RoleCustomer}
	stranger := User{BaseModel: BaseModel{ID: uuid.New()}, Role: RoleCustomer}
	admin := User{BaseModel: BaseModel{ID: uuid.New()}, Role: RoleAdmin}

	order := Order{UserID: owner.ID}

	assert.True(t, order.ViewableBy(&owner))
	assert.True(t, order.ViewableBy(&admin))
	assert.False(t, order.ViewableBy(&stranger))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled} {
		assert.True(t, ValidStatus(s))
	}

	assert.False(t, ValidStatus("returned"))
	assert.False(t, ValidStatus(""))
}

func TestValidPaymentStatus(t *testing.T) {
	assert.True(t, ValidPaymentStatus(PaymentUnpaid))
	assert.True(t, ValidPaymentStatus(PaymentPaid))
	assert.True(t, ValidPaymentStatus(PaymentRefunded))
	assert.False(t, ValidPaymentStatus("pending"))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(PaymentMethodCOD))
	assert.True(t, ValidPaymentMethod(PaymentMethodUPI))
	assert.True(t, ValidPaymentMethod(PaymentMethodCard))
	assert.False(t, ValidPaymentMethod("netbanking"))
	assert.False(t, ValidPaymentMethod(""))
}

func TestShopItemValidate(t *testing.T) {
	item := ShopItem{
		Name:          "Estate Blend 250g",
		Description:   "Single-origin medium roast",
		Category:      "coffee",
		Price:         499,
		StockQuantity: 10,
	}
	assert.Empty(t, item.Validate())

	missingName := item
	missingName.Name = " "
	assert.Equal(t, "name is required", missingName.Validate())

	missingDescription := item
	missingDescription.Description = ""
	assert.Equal(t, "description is required", missingDescription.Validate())

	missingCategory := item
	missingCategory.Category = ""
	assert.Equal(t, "category is required", missingCategory.Validate())

	negativePrice := item
	negativePrice.Price = -1
	assert.Equal(t, "price must be non-negative", negativePrice.Validate())

	negativeStock := item
	negativeStock.StockQuantity = -5
	assert.Equal(t, "stockQuantity must be non-negative", negativeStock.Validate())
}
