package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name           string
		subtotal       float64
		wantTax        float64
		wantDelivery   float64
		wantTotal      float64
	}{
		{"above free delivery threshold", 600, 54, 0, 654},
		{"below free delivery threshold", 300, 27, 50, 377},
		{"exactly at threshold still charged", 500, 45, 50, 595},
		{"just above threshold is free", 500.01, 45.0009, 0, 545.0109},
		{"zero subtotal", 0, 0, 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Default.Quote(tt.subtotal)
			assert.InDelta(t, tt.wantTax, q.Tax, 1e-9)
			assert.InDelta(t, tt.wantDelivery, q.DeliveryCharge, 1e-9)
			assert.InDelta(t, tt.wantTotal, q.TotalAmount, 1e-9)
		})
	}
}

func TestQuoteTotalIsSumOfParts(t *testing.T) {
	for _, subtotal := range []float64{0, 49.99, 100, 500, 501, 1234.56} {
		q := Default.Quote(subtotal)
		assert.InDelta(t, q.Subtotal+q.Tax+q.DeliveryCharge, q.TotalAmount, 1e-9)
	}
}

func TestQuoteCustomPolicy(t *testing.T) {
	p := Policy{TaxRate: 0.2, DeliveryCharge: 10, FreeDeliveryAbove: 100}

	q := p.Quote(50)
	assert.InDelta(t, 10.0, q.Tax, 1e-9)
	assert.InDelta(t, 10.0, q.DeliveryCharge, 1e-9)
	assert.InDelta(t, 70.0, q.TotalAmount, 1e-9)

	q = p.Quote(200)
	assert.InDelta(t, 0.0, q.DeliveryCharge, 1e-9)
}
