package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core/message"
)

type messageRepository struct {
	db *sqlx.DB
}

var _ message.Repository = (*messageRepository)(nil) // interface compliance check

func NewMessageRepository(db *sqlx.DB) *messageRepository {
	return &messageRepository{db: db}
}

type messageRow struct {
	ID          string    `db:"id"`
	SenderID    string    `db:"sender_id"`
	SenderName  string    `db:"sender_name"`
	RecipientID string    `db:"recipient_id"`
	Body        string    `db:"body"`
	Read        bool      `db:"read"`
	CreatedAt   time.Time `db:"created_at"`
}

func (row messageRow) toMessage() message.Message {
	return message.Message{
		ID:          row.ID,
		SenderID:    row.SenderID,
		SenderName:  row.SenderName,
		RecipientID: row.RecipientID,
		Body:        row.Body,
		Read:        row.Read,
		CreatedAt:   row.CreatedAt,
	}
}

func (repo messageRepository) CreateMessage(msg message.Message) (message.Message, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO messages (id, sender_id, sender_name, recipient_id, body, read, created_at)
		VALUES (:id, :sender_id, :sender_name, :recipient_id, :body, :read, :created_at)`,
		messageRow{
			ID:          msg.ID,
			SenderID:    msg.SenderID,
			SenderName:  msg.SenderName,
			RecipientID: msg.RecipientID,
			Body:        msg.Body,
			Read:        msg.Read,
			CreatedAt:   msg.CreatedAt.UTC(),
		},
	)
	if err != nil {
		return message.Message{}, errors.Wrap(err, "creating message")
	}
	return msg, nil
}

func (repo messageRepository) GetMessageByID(id string) (message.Message, error) {
	var row messageRow
	if err := repo.db.Get(&row, "SELECT * FROM messages WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return message.Message{}, message.ErrNotFound
		}
		return message.Message{}, errors.Wrap(err, "getting message")
	}
	return row.toMessage(), nil
}

func (repo messageRepository) QueryByUser(userID string) ([]message.Message, error) {
	var rows []messageRow
	err := repo.db.Select(&rows,
		"SELECT * FROM messages WHERE sender_id = $1 OR recipient_id = $1 ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying messages")
	}
	return rowsToMessages(rows), nil
}

func (repo messageRepository) QueryThread(userID, partnerID string) ([]message.Message, error) {
	var rows []messageRow
	err := repo.db.Select(&rows, `
		SELECT * FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at ASC`,
		userID, partnerID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying thread")
	}
	return rowsToMessages(rows), nil
}

func (repo messageRepository) MarkThreadRead(userID, partnerID string) error {
	_, err := repo.db.Exec(
		"UPDATE messages SET read = true WHERE recipient_id = $1 AND sender_id = $2 AND NOT read",
		userID, partnerID,
	)
	return errors.Wrap(err, "marking thread read")
}

func (repo messageRepository) MarkRead(id string) error {
	res, err := repo.db.Exec("UPDATE messages SET read = true WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "marking message read")
	}
	return checkFound(res, message.ErrNotFound)
}

func (repo messageRepository) CountUnread(userID string) (int, error) {
	var count int
	err := repo.db.Get(&count, "SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND NOT read", userID)
	if err != nil {
		return 0, errors.Wrap(err, "counting unread")
	}
	return count, nil
}

func (repo messageRepository) CountReceived(userID string) (int, error) {
	var count int
	err := repo.db.Get(&count, "SELECT COUNT(*) FROM messages WHERE recipient_id = $1", userID)
	if err != nil {
		return 0, errors.Wrap(err, "counting received")
	}
	return count, nil
}

func rowsToMessages(rows []messageRow) []message.Message {
	msgs := make([]message.Message, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, row.toMessage())
	}
	return msgs
}
