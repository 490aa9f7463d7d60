package paymentsvc

import (
	"github.com/pkg/errors"
	"github.com/razorpay/razorpay-go"
	razorpayutils "github.com/razorpay/razorpay-go/utils"

	"github.com/tricitytutors/backend/core"
	"github.com/tricitytutors/backend/core/wallet"
)

type razorpayGateway struct {
	client *razorpay.Client
	keyID  string
	secret string
}

var _ wallet.Gateway = (*razorpayGateway)(nil)

// NewRazorpayGateway returns nil when no key pair is configured; the
// wallet service treats a nil gateway as mock mode.
func NewRazorpayGateway(conf core.Config) wallet.Gateway {
	if conf.Razorpay.KeyID == "" || conf.Razorpay.KeySecret == "" {
		return nil
	}
	return &razorpayGateway{
		client: razorpay.NewClient(conf.Razorpay.KeyID, conf.Razorpay.KeySecret),
		keyID:  conf.Razorpay.KeyID,
		secret: conf.Razorpay.KeySecret,
	}
}

func (gw *razorpayGateway) CreateOrder(amount int, currency string, notes map[string]interface{}) (string, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"notes":    notes,
	}
	order, err := gw.client.Order.Create(data, nil)
	if err != nil {
		return "", errors.Wrap(err, "creating order")
	}
	id, ok := order["id"].(string)
	if !ok {
		return "", errors.New("order id missing from gateway response")
	}
	return id, nil
}

func (gw *razorpayGateway) VerifySignature(orderID, paymentID, signature string) error {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	if !razorpayutils.VerifyPaymentSignature(params, signature, gw.secret) {
		return wallet.ErrInvalidSignature
	}
	return nil
}

func (gw *razorpayGateway) KeyID() string { return gw.keyID }
