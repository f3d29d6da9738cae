package pricing

// Policy holds the order pricing parameters. The defaults mirror the shop's
// standing policy: 9% GST, flat 50-unit delivery charge waived above a
// 500-unit subtotal.
type Policy struct {
	TaxRate           float64
	DeliveryCharge    float64
	FreeDeliveryAbove float64
}

// Default is the standing shop policy.
var Default = Policy{
	TaxRate:           0.09,
	DeliveryCharge:    50,
	FreeDeliveryAbove: 500,
}

// Quote is the computed charge breakdown for an order subtotal.
type Quote struct {
	Subtotal       float64
	Tax            float64
	DeliveryCharge float64
	TotalAmount    float64
}

// Quote computes tax, delivery charge and total for a subtotal. Totals are
// computed exactly once at order time and never revised.
func (p Policy) Quote(subtotal float64) Quote {
	q := Quote{
		Subtotal: subtotal,
		Tax:      subtotal * p.TaxRate,
	}
	if subtotal <= p.FreeDeliveryAbove {
		q.DeliveryCharge = p.DeliveryCharge
	}
	q.TotalAmount = q.Subtotal + q.Tax + q.DeliveryCharge
	return q
}
