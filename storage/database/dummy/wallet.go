package dummydb

import (
	"time"

	"github.com/tricitytutors/backend/core/user"
	"github.com/tricitytutors/backend/core/wallet"
)

// the coin balance lives on the user record, matching the SQL schema
type walletRepository struct {
	db    *transactionTable
	users *userTable
}

var _ wallet.Repository = (*walletRepository)(nil) // interface compliance check

func NewWalletRepository(db *DB) wallet.Repository {
	return &walletRepository{db: db.transaction, users: db.user}
}

func (repo *walletRepository) CreateTransaction(txn wallet.Transaction) (wallet.Transaction, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table = append(repo.db.table, &txn)
	return txn, nil
}

func (repo *walletRepository) GetTransactionByID(id string) (wallet.Transaction, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, txn := range repo.db.table {
		if txn.ID == id {
			return *txn, nil
		}
	}
	return wallet.Transaction{}, wallet.ErrTransactionNotFound
}

func (repo *walletRepository) MarkCompleted(id, paymentID string, completedAt time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, txn := range repo.db.table {
		if txn.ID == id && txn.Status == wallet.StatusPending {
			txn.Status = wallet.StatusCompleted
			txn.Type = wallet.TypePurchase
			txn.PaymentID = paymentID
			txn.CompletedAt = &completedAt
			return nil
		}
	}
	return wallet.ErrTransactionNotFound
}

func (repo *walletRepository) MarkFailed(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, txn := range repo.db.table {
		if txn.ID == id && txn.Status == wallet.StatusPending {
			txn.Status = wallet.StatusFailed
			return nil
		}
	}
	return wallet.ErrTransactionNotFound
}

func (repo *walletRepository) HasGrant(userID, targetID, purpose string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, txn := range repo.db.table {
		if txn.UserID == userID && txn.TargetID == targetID &&
			txn.Purpose == purpose && txn.Status == wallet.StatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (repo *walletRepository) QueryUserTransactions(userID string, limit int) ([]wallet.Transaction, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	txns := make([]wallet.Transaction, 0)
	// newest first
	for i := len(repo.db.table) - 1; i >= 0 && len(txns) < limit; i-- {
		if txn := repo.db.table[i]; txn.UserID == userID {
			txns = append(txns, *txn)
		}
	}
	return txns, nil
}

func (repo *walletRepository) GetBalance(userID string) (int, error) {
	repo.users.RLock()
	defer repo.users.RUnlock()

	usr, ok := repo.users.table[userID]
	if !ok {
		return 0, user.ErrNotFound
	}
	return usr.Coins, nil
}

func (repo *walletRepository) CreditBalance(userID string, coins int) error {
	repo.users.Lock()
	defer repo.users.Unlock()

	usr, ok := repo.users.table[userID]
	if !ok {
		return user.ErrNotFound
	}
	usr.Coins += coins
	return nil
}

func (repo *walletRepository) DebitBalance(userID string, coins int) error {
	repo.users.Lock()
	defer repo.users.Unlock()

	usr, ok := repo.users.table[userID]
	if !ok {
		return user.ErrNotFound
	}
	if usr.Coins < coins {
		return wallet.ErrInsufficientFunds
	}
	usr.Coins -= coins
	return nil
}
