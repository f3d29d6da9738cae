package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/estatedeli/internal/models"
)

func TestSendSkipsWhenUnconfigured(t *testing.T) {
	svc := NewEmailService("", "", "", "", "Estate Deli <noreply@estatedeli.com>")

	assert.NoError(t, svc.Send("customer@example.com", "Hello", "<p>hi</p>"))
	assert.NoError(t, svc.SendOTP("customer@example.com", "Asha", "123456"))
}

func TestOTPTemplate(t *testing.T) {
	body, err := render(otpTemplate, otpMailData{FirstName: "Asha", Code: "482913"})
	require.NoError(t, err)

	assert.Contains(t, body, "Hi Asha!")
	assert.Contains(t, body, "482913")
	assert.Contains(t, body, "10 minutes")
}

func TestOrderTemplate(t *testing.T) {
	order := &models.Order{
		OrderNumber:   "ED-1700000000000-a1b2c3",
		TotalAmount:   654,
		PaymentMethod: models.PaymentMethodCOD,
		Status:        models.OrderConfirmed,
	}

	body, err := render(orderTemplate, orderMailData{
		OrderNumber:   order.OrderNumber,
		TotalAmount:   "654.00",
		PaymentMethod: "COD",
		Status:        order.Status,
		Message:       "Your order has been confirmed",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "ED-1700000000000-a1b2c3")
	assert.Contains(t, body, "654.00")
	assert.Contains(t, body, "COD")
	assert.Contains(t, body, "confirmed")
}

func TestTemplatesEscapeUserContent(t *testing.T) {
	body, err := render(otpTemplate, otpMailData{FirstName: "<script>alert(1)</script>", Code: "123456"})
	require.NoError(t, err)

	assert.NotContains(t, body, "<script>")
}
