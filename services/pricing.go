package services

import (
	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
)

const (
	GSTRate        = 0.18
	DeliveryCharge = 40.0
)

type Totals struct {
	Subtotal       float64
	GSTAmount      float64
	DeliveryCharge float64
	Total          float64
}

// ComputeTotals prices a list of line items. GST is rounded to paise before
// it is added, so Total is exactly Subtotal + GSTAmount + DeliveryCharge.
func ComputeTotals(items []models.LineItem) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Amount()
	}
	subtotal = utils.RoundMoney(subtotal)
	gst := utils.RoundMoney(subtotal * GSTRate)

	return Totals{
		Subtotal:       subtotal,
		GSTAmount:      gst,
		DeliveryCharge: DeliveryCharge,
		Total:          utils.RoundMoney(subtotal + gst + DeliveryCharge),
	}
}

func (t Totals) ApplyTo(order *models.Order) {
	order.Subtotal = t.Subtotal
	order.GSTAmount = t.GSTAmount
	order.DeliveryCharge = t.DeliveryCharge
	order.Total = t.Total
}
