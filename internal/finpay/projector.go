package finpay

import (
	"fmt"

	"finpay-bridge/internal/order"
	"finpay-bridge/internal/utils"
)

// BuildPaymentRequest projects a shop order into the gateway's request
// schema. Credentials are left empty; the client fills them in from the
// resolved environment right before sending.
func BuildPaymentRequest(o *order.Order, urls CallbackURLs) PaymentRequest {
	items := make([]Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, Item{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.Subtotal,
		})
	}

	return PaymentRequest{
		Customer: Customer{
			Email:       o.Email,
			FirstName:   o.FirstName,
			LastName:    o.LastName,
			MobilePhone: utils.NormalizePhoneID(o.Phone),
		},
		Order: OrderPayload{
			ID:          o.ID,
			Amount:      o.Total,
			Items:       items,
			Description: fmt.Sprintf("Order ID: %d", o.ID),
		},
		URL: urls,
	}
}
