package dummydb

import (
	"github.com/tricitytutors/backend/core/message"
)

type messageRepository struct {
	db *messageTable
}

var _ message.Repository = (*messageRepository)(nil) // interface compliance check

func NewMessageRepository(db *DB) message.Repository {
	return &messageRepository{db: db.message}
}

func (repo *messageRepository) CreateMessage(msg message.Message) (message.Message, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table = append(repo.db.table, &msg)
	return msg, nil
}

func (repo *messageRepository) GetMessageByID(id string) (message.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, msg := range repo.db.table {
		if msg.ID == id {
			return *msg, nil
		}
	}
	return message.Message{}, message.ErrNotFound
}

func (repo *messageRepository) QueryByUser(userID string) ([]message.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	msgs := make([]message.Message, 0)
	// newest first
	for i := len(repo.db.table) - 1; i >= 0; i-- {
		if msg := repo.db.table[i]; msg.SenderID == userID || msg.RecipientID == userID {
			msgs = append(msgs, *msg)
		}
	}
	return msgs, nil
}

func (repo *messageRepository) QueryThread(userID, partnerID string) ([]message.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	msgs := make([]message.Message, 0)
	for _, msg := range repo.db.table {
		if (msg.SenderID == userID && msg.RecipientID == partnerID) ||
			(msg.SenderID == partnerID && msg.RecipientID == userID) {
			msgs = append(msgs, *msg)
		}
	}
	return msgs, nil
}

func (repo *messageRepository) MarkThreadRead(userID, partnerID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, msg := range repo.db.table {
		if msg.SenderID == partnerID && msg.RecipientID == userID {
			msg.Read = true
		}
	}
	return nil
}

func (repo *messageRepository) MarkRead(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, msg := range repo.db.table {
		if msg.ID == id {
			msg.Read = true
			return nil
		}
	}
	return message.ErrNotFound
}

func (repo *messageRepository) CountUnread(userID string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int
	for _, msg := range repo.db.table {
		if msg.RecipientID == userID && !msg.Read {
			count++
		}
	}
	return count, nil
}

func (repo *messageRepository) CountReceived(userID string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int
	for _, msg := range repo.db.table {
		if msg.RecipientID == userID {
			count++
		}
	}
	return count, nil
}
