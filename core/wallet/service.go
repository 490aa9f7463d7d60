package wallet

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrInsufficientFunds    = errors.New("insufficient coins")
	ErrInvalidPackage       = errors.New("invalid package")
	ErrInvalidSignature     = errors.New("invalid payment signature")
	ErrAlreadyCompleted     = errors.New("transaction already completed")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")
)

type (
	// Gateway abstracts the third-party payment provider.
	Gateway interface {
		// CreateOrder opens a pending order for the given amount in the
		// smallest currency unit and returns the provider's order id.
		CreateOrder(amount int, currency string, notes map[string]interface{}) (string, error)
		// VerifySignature checks the provider's payment signature against
		// the stored order; ErrInvalidSignature on mismatch.
		VerifySignature(orderID, paymentID, signature string) error
		KeyID() string
	}

	Repository interface {
		CreateTransaction(txn Transaction) (Transaction, error)
		GetTransactionByID(id string) (Transaction, error)
		// MarkCompleted flips a pending transaction to completed, recording
		// the gateway payment id and completion time.
		MarkCompleted(id, paymentID string, completedAt time.Time) error
		MarkFailed(id string) error
		// HasGrant reports a completed transaction matching (user, target, purpose).
		HasGrant(userID, targetID, purpose string) (bool, error)
		QueryUserTransactions(userID string, limit int) ([]Transaction, error)
		GetBalance(userID string) (int, error)
		CreditBalance(userID string, coins int) error
		// DebitBalance decrements the balance only if it covers the amount,
		// as a single conditional update; ErrInsufficientFunds otherwise.
		DebitBalance(userID string, coins int) error
	}

	Service interface {
		CheckAccess(userID, targetID, purpose string) (bool, error)
		// ChargeIfNeeded debits price coins and records the grant unless an
		// equivalent grant already exists, in which case it is a no-op.
		ChargeIfNeeded(userID, targetID, purpose string, price int) error
		Purchase(userID string, pkg int) (*PurchaseResult, error)
		// ConfirmPurchase verifies the gateway signature and credits the
		// pending transaction's coins exactly once. Returns coins credited.
		ConfirmPurchase(userID string, pv PaymentVerification) (int, error)
		// Spend debits coins and appends a completed spend transaction.
		// Returns the new balance.
		Spend(userID string, coins int, purpose, targetID string) (int, error)
		// Wallet returns the current balance and recent transactions.
		Wallet(userID string) (int, []Transaction, error)
	}

	service struct {
		repo    Repository
		gateway Gateway // nil in mock mode
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, gateway Gateway) Service {
	return &service{repo: repo, gateway: gateway}
}

func (svc *service) CheckAccess(userID, targetID, purpose string) (bool, error) {
	return svc.repo.HasGrant(userID, targetID, purpose)
}

func (svc *service) ChargeIfNeeded(userID, targetID, purpose string, price int) error {
	granted, err := svc.repo.HasGrant(userID, targetID, purpose)
	if err != nil {
		return errors.Wrap(err, "checking grant")
	}
	if granted {
		return nil
	}
	_, err = svc.Spend(userID, price, purpose, targetID)
	return err
}

func (svc *service) Purchase(userID string, pkg int) (*PurchaseResult, error) {
	price, ok := Packages[pkg]
	if !ok {
		return nil, ErrInvalidPackage
	}

	if svc.gateway == nil {
		// mock mode: credit synchronously
		now := NowFunc().UTC()
		txn, err := svc.repo.CreateTransaction(Transaction{
			ID:          uuid.New().String(),
			UserID:      userID,
			Type:        TypePurchase,
			Coins:       pkg,
			Amount:      price,
			Status:      StatusCompleted,
			CreatedAt:   now,
			CompletedAt: &now,
		})
		if err != nil {
			return nil, errors.Wrap(err, "recording purchase")
		}
		if err = svc.repo.CreditBalance(userID, pkg); err != nil {
			return nil, errors.Wrap(err, "crediting balance")
		}
		balance, err := svc.repo.GetBalance(userID)
		if err != nil {
			return nil, errors.Wrap(err, "reading balance")
		}
		return &PurchaseResult{
			Mock:          true,
			TransactionID: txn.ID,
			CoinsAdded:    pkg,
			Balance:       balance,
		}, nil
	}

	amountPaise := price * 100
	orderID, err := svc.gateway.CreateOrder(amountPaise, "INR", map[string]interface{}{
		"user_id": userID,
		"coins":   pkg,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating gateway order")
	}

	txn, err := svc.repo.CreateTransaction(Transaction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      TypePurchasePending,
		Coins:     pkg,
		Amount:    price,
		Status:    StatusPending,
		OrderID:   orderID,
		CreatedAt: NowFunc().UTC(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "recording pending purchase")
	}

	return &PurchaseResult{
		TransactionID: txn.ID,
		OrderID:       orderID,
		Amount:        amountPaise,
		Currency:      "INR",
		KeyID:         svc.gateway.KeyID(),
	}, nil
}

func (svc *service) ConfirmPurchase(userID string, pv PaymentVerification) (int, error) {
	if svc.gateway == nil {
		return 0, ErrGatewayNotConfigured
	}

	txn, err := svc.repo.GetTransactionByID(pv.TransactionID)
	if err != nil {
		return 0, err
	}
	if txn.UserID != userID {
		return 0, ErrTransactionNotFound
	}
	if txn.Status != StatusPending {
		return 0, ErrAlreadyCompleted
	}

	// verify against the stored order, never the caller-supplied one; a
	// signature valid for some other order must not complete this one
	if pv.OrderID != txn.OrderID {
		if mErr := svc.repo.MarkFailed(txn.ID); mErr != nil {
			return 0, errors.Wrap(mErr, "marking transaction failed")
		}
		return 0, ErrInvalidSignature
	}
	if err = svc.gateway.VerifySignature(txn.OrderID, pv.PaymentID, pv.Signature); err != nil {
		// mark failed first so a later replay of the same confirmation
		// cannot accidentally complete it
		if mErr := svc.repo.MarkFailed(txn.ID); mErr != nil {
			return 0, errors.Wrap(mErr, "marking transaction failed")
		}
		return 0, err
	}

	if err = svc.repo.MarkCompleted(txn.ID, pv.PaymentID, NowFunc().UTC()); err != nil {
		return 0, errors.Wrap(err, "completing transaction")
	}
	if err = svc.repo.CreditBalance(userID, txn.Coins); err != nil {
		return 0, errors.Wrap(err, "crediting balance")
	}
	return txn.Coins, nil
}

func (svc *service) Spend(userID string, coins int, purpose, targetID string) (int, error) {
	// the conditional debit is the insufficient-funds guard; no prior read
	if err := svc.repo.DebitBalance(userID, coins); err != nil {
		return 0, err
	}
	now := NowFunc().UTC()
	_, err := svc.repo.CreateTransaction(Transaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		Type:        TypeSpend,
		Coins:       -coins,
		Purpose:     purpose,
		TargetID:    targetID,
		Status:      StatusCompleted,
		CreatedAt:   now,
		CompletedAt: &now,
	})
	if err != nil {
		return 0, errors.Wrap(err, "recording spend")
	}
	balance, err := svc.repo.GetBalance(userID)
	if err != nil {
		return 0, errors.Wrap(err, "reading balance")
	}
	return balance, nil
}

func (svc *service) Wallet(userID string) (int, []Transaction, error) {
	balance, err := svc.repo.GetBalance(userID)
	if err != nil {
		return 0, nil, errors.Wrap(err, "reading balance")
	}
	txns, err := svc.repo.QueryUserTransactions(userID, 50)
	if err != nil {
		return 0, nil, errors.Wrap(err, "querying transactions")
	}
	return balance, txns, nil
}
