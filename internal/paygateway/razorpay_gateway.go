package paygateway

import (
	"context"

	paygatewayerrors "go-sms/internal/paygateway/errors"
	"go-sms/internal/shared/apperror"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var minorUnit = decimal.NewFromInt(100)

type Config struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
}

type razorpayGateway struct {
	client        *razorpay.Client
	keySecret     string
	webhookSecret string
	logger        *zap.Logger
}

func NewRazorpayGateway(cfg Config, logger ...*zap.Logger) Gateway {
	l := zap.L().Named("paygateway.razorpay")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("paygateway.razorpay")
	}
	return &razorpayGateway{
		client:        razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		keySecret:     cfg.KeySecret,
		webhookSecret: cfg.WebhookSecret,
		logger:        l,
	}
}

func (g *razorpayGateway) CreateOrder(
	ctx context.Context,
	amount decimal.Decimal,
	currency, receipt string,
	notes map[string]string,
) (Order, error) {
	if !amount.IsPositive() {
		return Order{}, paygatewayerrors.ErrInvalidAmount
	}

	data := map[string]interface{}{
		"amount":   amount.Mul(minorUnit).Round(0).IntPart(),
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		g.logger.Error("order creation failed",
			zap.String("receipt", receipt),
			zap.Error(err),
		)
		return Order{}, apperror.Wrap(
			err,
			apperror.CodeServiceUnavailable,
			"payment gateway request failed",
			paygatewayerrors.ErrGatewayFailure.HTTPStatus,
		)
	}

	return Order{
		ID:       stringField(body, "id"),
		Amount:   paiseToRupees(body["amount"]),
		Currency: stringField(body, "currency"),
		Receipt:  stringField(body, "receipt"),
	}, nil
}

func (g *razorpayGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	return utils.VerifyPaymentSignature(params, signature, g.keySecret)
}

func (g *razorpayGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return utils.VerifyWebhookSignature(string(body), signature, g.webhookSecret)
}

func (g *razorpayGateway) FetchPayment(ctx context.Context, paymentID string) (PaymentDetails, error) {
	body, err := g.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		g.logger.Error("payment fetch failed",
			zap.String("gateway_payment_id", paymentID),
			zap.Error(err),
		)
		return PaymentDetails{}, apperror.Wrap(
			err,
			apperror.CodeServiceUnavailable,
			"payment gateway request failed",
			paygatewayerrors.ErrGatewayFailure.HTTPStatus,
		)
	}

	return PaymentDetails{
		ID:        stringField(body, "id"),
		OrderID:   stringField(body, "order_id"),
		Amount:    paiseToRupees(body["amount"]),
		Currency:  stringField(body, "currency"),
		Status:    stringField(body, "status"),
		Method:    stringField(body, "method"),
		CreatedAt: int64Field(body, "created_at"),
	}, nil
}

func (g *razorpayGateway) Refund(
	ctx context.Context,
	paymentID string,
	amount decimal.Decimal,
	notes map[string]string,
) (RefundDetails, error) {
	if !amount.IsPositive() {
		return RefundDetails{}, paygatewayerrors.ErrInvalidAmount
	}

	data := map[string]interface{}{}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	paise := int(amount.Mul(minorUnit).Round(0).IntPart())
	body, err := g.client.Payment.Refund(paymentID, paise, data, nil)
	if err != nil {
		g.logger.Error("refund failed",
			zap.String("gateway_payment_id", paymentID),
			zap.Error(err),
		)
		return RefundDetails{}, apperror.Wrap(
			err,
			apperror.CodeServiceUnavailable,
			"payment gateway request failed",
			paygatewayerrors.ErrGatewayFailure.HTTPStatus,
		)
	}

	return RefundDetails{
		ID:        stringField(body, "id"),
		PaymentID: stringField(body, "payment_id"),
		Amount:    paiseToRupees(body["amount"]),
		Status:    stringField(body, "status"),
	}, nil
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func int64Field(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	}
	return 0
}

func paiseToRupees(v interface{}) decimal.Decimal {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n).Div(minorUnit)
	case int64:
		return decimal.NewFromInt(n).Div(minorUnit)
	}
	return decimal.Zero
}
