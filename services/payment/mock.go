package paymentsvc

import (
	"fmt"
	"sync"

	"github.com/tricitytutors/backend/core/wallet"
)

// mockGateway fakes a payment gateway for tests: orders get sequential
// ids and signatures of the form "sig:<orderID>:<paymentID>" verify.
type mockGateway struct {
	mu     sync.Mutex
	orders int

	CreatedOrders []MockOrder
}

type MockOrder struct {
	ID       string
	Amount   int
	Currency string
	Notes    map[string]interface{}
}

var _ wallet.Gateway = (*mockGateway)(nil)

func NewMockGateway() *mockGateway {
	return &mockGateway{}
}

func (gw *mockGateway) CreateOrder(amount int, currency string, notes map[string]interface{}) (string, error) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.orders++
	id := fmt.Sprintf("order_%06d", gw.orders)
	gw.CreatedOrders = append(gw.CreatedOrders, MockOrder{
		ID:       id,
		Amount:   amount,
		Currency: currency,
		Notes:    notes,
	})
	return id, nil
}

func (gw *mockGateway) VerifySignature(orderID, paymentID, signature string) error {
	if signature != Signature(orderID, paymentID) {
		return wallet.ErrInvalidSignature
	}
	return nil
}

func (gw *mockGateway) KeyID() string { return "rzp_test_mock" }

// Signature returns the signature the mock gateway accepts for a payment.
func Signature(orderID, paymentID string) string {
	return fmt.Sprintf("sig:%s:%s", orderID, paymentID)
}
