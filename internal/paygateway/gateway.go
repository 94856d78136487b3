package paygateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// Order is a gateway-side order the payer completes against. Amount is in
// rupees; conversion to the gateway's minor unit happens inside the adapter.
type Order struct {
	ID       string
	Amount   decimal.Decimal
	Currency string
	Receipt  string
}

type PaymentDetails struct {
	ID        string
	OrderID   string
	Amount    decimal.Decimal
	Currency  string
	Status    string
	Method    string
	CreatedAt int64
}

type RefundDetails struct {
	ID        string
	PaymentID string
	Amount    decimal.Decimal
	Status    string
}

// Gateway is the boundary to the external payment processor. Records on our
// side reference it only through order and payment identifiers it issued.
type Gateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string, notes map[string]string) (Order, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
	VerifyWebhookSignature(body []byte, signature string) bool
	FetchPayment(ctx context.Context, paymentID string) (PaymentDetails, error)
	Refund(ctx context.Context, paymentID string, amount decimal.Decimal, notes map[string]string) (RefundDetails, error)
}
