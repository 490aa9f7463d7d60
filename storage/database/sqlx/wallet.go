package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core/user"
	"github.com/tricitytutors/backend/core/wallet"
)

type walletRepository struct {
	db *sqlx.DB
}

var _ wallet.Repository = (*walletRepository)(nil) // interface compliance check

func NewWalletRepository(db *sqlx.DB) *walletRepository {
	return &walletRepository{db: db}
}

type transactionRow struct {
	ID          string       `db:"id"`
	UserID      string       `db:"user_id"`
	Type        string       `db:"type"`
	Coins       int          `db:"coins"`
	Amount      int          `db:"amount"`
	Purpose     string       `db:"purpose"`
	TargetID    string       `db:"target_id"`
	Status      string       `db:"status"`
	OrderID     string       `db:"order_id"`
	PaymentID   string       `db:"payment_id"`
	CreatedAt   time.Time    `db:"created_at"`
	CompletedAt sql.NullTime `db:"completed_at"`
}

func toTransactionRow(txn wallet.Transaction) transactionRow {
	var completedAt sql.NullTime
	if txn.CompletedAt != nil {
		completedAt = sql.NullTime{Time: txn.CompletedAt.UTC(), Valid: true}
	}
	return transactionRow{
		ID:          txn.ID,
		UserID:      txn.UserID,
		Type:        txn.Type,
		Coins:       txn.Coins,
		Amount:      txn.Amount,
		Purpose:     txn.Purpose,
		TargetID:    txn.TargetID,
		Status:      txn.Status,
		OrderID:     txn.OrderID,
		PaymentID:   txn.PaymentID,
		CreatedAt:   txn.CreatedAt.UTC(),
		CompletedAt: completedAt,
	}
}

func (row transactionRow) toTransaction() wallet.Transaction {
	txn := wallet.Transaction{
		ID:        row.ID,
		UserID:    row.UserID,
		Type:      row.Type,
		Coins:     row.Coins,
		Amount:    row.Amount,
		Purpose:   row.Purpose,
		TargetID:  row.TargetID,
		Status:    row.Status,
		OrderID:   row.OrderID,
		PaymentID: row.PaymentID,
		CreatedAt: row.CreatedAt,
	}
	if row.CompletedAt.Valid {
		completedAt := row.CompletedAt.Time
		txn.CompletedAt = &completedAt
	}
	return txn
}

func (repo walletRepository) CreateTransaction(txn wallet.Transaction) (wallet.Transaction, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO transactions (id, user_id, type, coins, amount, purpose, target_id,
		                          status, order_id, payment_id, created_at, completed_at)
		VALUES (:id, :user_id, :type, :coins, :amount, :purpose, :target_id,
		        :status, :order_id, :payment_id, :created_at, :completed_at)`,
		toTransactionRow(txn),
	)
	if err != nil {
		return wallet.Transaction{}, errors.Wrap(err, "creating transaction")
	}
	return txn, nil
}

func (repo walletRepository) GetTransactionByID(id string) (wallet.Transaction, error) {
	var row transactionRow
	if err := repo.db.Get(&row, "SELECT * FROM transactions WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return wallet.Transaction{}, wallet.ErrTransactionNotFound
		}
		return wallet.Transaction{}, errors.Wrap(err, "getting transaction")
	}
	return row.toTransaction(), nil
}

func (repo walletRepository) MarkCompleted(id, paymentID string, completedAt time.Time) error {
	res, err := repo.db.Exec(`
		UPDATE transactions
		SET status = $1, type = $2, payment_id = $3, completed_at = $4
		WHERE id = $5 AND status = $6`,
		wallet.StatusCompleted, wallet.TypePurchase, paymentID, completedAt.UTC(), id, wallet.StatusPending,
	)
	if err != nil {
		return errors.Wrap(err, "completing transaction")
	}
	return checkFound(res, wallet.ErrTransactionNotFound)
}

func (repo walletRepository) MarkFailed(id string) error {
	res, err := repo.db.Exec(
		"UPDATE transactions SET status = $1 WHERE id = $2 AND status = $3",
		wallet.StatusFailed, id, wallet.StatusPending,
	)
	if err != nil {
		return errors.Wrap(err, "failing transaction")
	}
	return checkFound(res, wallet.ErrTransactionNotFound)
}

func (repo walletRepository) HasGrant(userID, targetID, purpose string) (bool, error) {
	var exists bool
	err := repo.db.Get(&exists, `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE user_id = $1 AND target_id = $2 AND purpose = $3 AND status = $4
		)`,
		userID, targetID, purpose, wallet.StatusCompleted,
	)
	if err != nil {
		return false, errors.Wrap(err, "checking grant")
	}
	return exists, nil
}

func (repo walletRepository) QueryUserTransactions(userID string, limit int) ([]wallet.Transaction, error) {
	var rows []transactionRow
	err := repo.db.Select(&rows,
		"SELECT * FROM transactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2",
		userID, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying transactions")
	}
	txns := make([]wallet.Transaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, row.toTransaction())
	}
	return txns, nil
}

func (repo walletRepository) GetBalance(userID string) (int, error) {
	var balance int
	if err := repo.db.Get(&balance, "SELECT coins FROM users WHERE id = $1", userID); err != nil {
		if err == sql.ErrNoRows {
			return 0, user.ErrNotFound
		}
		return 0, errors.Wrap(err, "reading balance")
	}
	return balance, nil
}

func (repo walletRepository) CreditBalance(userID string, coins int) error {
	_, err := repo.db.Exec("UPDATE users SET coins = coins + $1 WHERE id = $2", coins, userID)
	return errors.Wrap(err, "crediting balance")
}

func (repo walletRepository) DebitBalance(userID string, coins int) error {
	// single conditional update; concurrent debits cannot overdraw
	res, err := repo.db.Exec(
		"UPDATE users SET coins = coins - $1 WHERE id = $2 AND coins >= $1",
		coins, userID,
	)
	if err != nil {
		return errors.Wrap(err, "debiting balance")
	}
	return checkFound(res, wallet.ErrInsufficientFunds)
}
