package models

import (
	"github.com/google/uuid"
)

// Order statuses.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Payment statuses.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Payment methods.
const (
	PaymentMethodCOD  = "cod"
	PaymentMethodUPI  = "upi"
	PaymentMethodCard = "card"
)

// CustomerDetails is the contact snapshot captured when the order is placed.
type CustomerDetails struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `gorm:"embedded;embeddedPrefix:address_" json:"address"`
}

// Order is a placed purchase. Line items and customer details are snapshots:
// later catalog or profile edits never change a placed order.
type Order struct {
	BaseModel
	UserID          uuid.UUID       `gorm:"type:uuid;index" json:"userId"`
	User            *User           `json:"user,omitempty"`
	OrderNumber     string          `gorm:"uniqueIndex" json:"orderNumber"`
	Items           []OrderItem     `json:"items,omitempty"`
	Subtotal        float64         `json:"subtotal"`
	Tax             float64         `json:"tax"`
	DeliveryCharge  float64         `json:"deliveryCharge"`
	TotalAmount     float64         `json:"totalAmount"`
	PaymentMethod   string          `gorm:"default:cod" json:"paymentMethod"`
	PaymentStatus   string          `gorm:"default:unpaid" json:"paymentStatus"`
	CustomerDetails CustomerDetails `gorm:"embedded;embeddedPrefix:customer_" json:"customerDetails"`
	Notes           string          `json:"notes"`
	Status          string          `gorm:"default:pending" json:"status"`
}

// OrderItem is one product line with price captured at order time.
type OrderItem struct {
	BaseModel
	OrderID    uuid.UUID `gorm:"type:uuid;index" json:"orderId"`
	ProductID  uuid.UUID `gorm:"type:uuid" json:"productId"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Quantity   int       `json:"quantity"`
	TotalPrice float64   `json:"totalPrice"`
}

// orderTransitions is the allowed forward edge set for order status.
// Cancellation is reachable from every non-terminal state.
var orderTransitions = map[string][]string{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	return s == PaymentUnpaid || s == PaymentPaid || s == PaymentRefunded
}

// ValidPaymentMethod reports whether m is a supported payment method.
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCOD || m == PaymentMethodUPI || m == PaymentMethodCard
}

// ViewableBy reports whether u may read this order: its owner or any admin.
func (o *Order) ViewableBy(u *User) bool {
	return o.UserID == u.ID || u.IsAdmin()
}

// CanTransition reports whether an order may move from its current status
// to the target status.
func (o *Order) CanTransition(to string) bool {
	for _, next := range orderTransitions[o.Status] {
		if next == to {
			return true
		}
	}
	return false
}
