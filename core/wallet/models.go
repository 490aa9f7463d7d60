package wallet

import "time"

// Transaction statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Transaction types.
const (
	TypePurchase        = "purchase"
	TypePurchasePending = "purchase_pending"
	TypeSpend           = "spend"
)

// Spend purposes. A completed spend with one of the targeted purposes
// constitutes a permanent access grant for its (user, target) pair.
const (
	PurposeMessageTutor    = "message_tutor"
	PurposeContactTutor    = "contact_tutor"
	PurposeViewRequirement = "view_requirement"
)

var SpendPurposes = []string{PurposeMessageTutor, PurposeContactTutor, PurposeViewRequirement}

// MessageTutorPrice is the flat price for first contact with a tutor.
const MessageTutorPrice = 100

// Packages maps purchasable coin amounts to their price in currency units.
var Packages = map[int]int{
	50:    100,
	100:   200,
	250:   500,
	500:   950,
	1000:  1800,
	2500:  4000,
	5000:  7500,
	7500:  10000,
	10000: 12000,
}

// Transaction is an immutable ledger record. A user's coin balance is a
// cached projection of the sum of their completed transaction deltas.
// Only the pending→completed/failed flip ever mutates a stored record.
type Transaction struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Type        string     `json:"type"`
	Coins       int        `json:"coins"` // signed delta: positive credit, negative debit
	Amount      int        `json:"amount,omitempty"`
	Purpose     string     `json:"purpose,omitempty"`
	TargetID    string     `json:"target_id,omitempty"`
	Status      string     `json:"status"`
	OrderID     string     `json:"razorpay_order_id,omitempty"`
	PaymentID   string     `json:"razorpay_payment_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`             // UTC
	CompletedAt *time.Time `json:"completed_at,omitempty"` // UTC; nil until completed
}

// PurchaseResult describes either a gateway order awaiting client-side
// payment, or an immediate mock-mode credit.
type PurchaseResult struct {
	Mock          bool   `json:"mock"`
	TransactionID string `json:"transaction_id"`
	CoinsAdded    int    `json:"coins_added,omitempty"` // mock mode only
	Balance       int    `json:"balance,omitempty"`     // mock mode only

	// gateway mode only
	OrderID  string `json:"order_id,omitempty"`
	Amount   int    `json:"amount,omitempty"` // smallest currency unit (paise)
	Currency string `json:"currency,omitempty"`
	KeyID    string `json:"key_id,omitempty"`
}

// NewPurchase is the purchase request body.
type NewPurchase struct {
	Package int `json:"package" validate:"required"`
}

// PaymentVerification is the gateway confirmation request body.
type PaymentVerification struct {
	OrderID       string `json:"razorpay_order_id" validate:"required"`
	PaymentID     string `json:"razorpay_payment_id" validate:"required"`
	Signature     string `json:"razorpay_signature" validate:"required"`
	TransactionID string `json:"transaction_id" validate:"required"`
}

// NewSpend is the generic debit request body.
type NewSpend struct {
	Coins    int    `json:"coins" validate:"required,gt=0"`
	Purpose  string `json:"purpose" validate:"required,purpose"`
	TargetID string `json:"target_id"`
}
