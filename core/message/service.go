package message

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core/user"
	"github.com/tricitytutors/backend/core/wallet"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound    = errors.New("message not found")
	ErrSelfMessage = errors.New("cannot message yourself")
)

type (
	Repository interface {
		CreateMessage(msg Message) (Message, error)
		GetMessageByID(id string) (Message, error)
		// QueryByUser returns all messages sent or received by userID, newest first.
		QueryByUser(userID string) ([]Message, error)
		// QueryThread returns the two-party exchange, oldest first.
		QueryThread(userID, partnerID string) ([]Message, error)
		// MarkThreadRead marks all messages from partnerID to userID as read.
		MarkThreadRead(userID, partnerID string) error
		MarkRead(id string) error
		CountUnread(userID string) (int, error)
		CountReceived(userID string) (int, error)
	}

	Service interface {
		// Send delivers a message, charging the sender's wallet first when a
		// paying role contacts a tutor. An earlier completed charge for the
		// same tutor is honored and not repeated.
		Send(sender user.User, nm NewMessage) (Message, error)
		Conversations(usr user.User) ([]Conversation, error)
		// GetThread fetches the exchange with partnerID and marks the
		// caller's unread messages in it as read.
		GetThread(usr user.User, partnerID string) (Thread, error)
		CountUnread(usr user.User) (int, error)
		// MarkRead marks a single received message as read.
		MarkRead(usr user.User, id string) error
		CountReceived(userID string) (int, error)
	}

	service struct {
		repo      Repository
		userSvc   user.Service
		walletSvc wallet.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, userSvc user.Service, walletSvc wallet.Service) Service {
	return &service{
		repo:      repo,
		userSvc:   userSvc,
		walletSvc: walletSvc,
	}
}

func (svc *service) Send(sender user.User, nm NewMessage) (Message, error) {
	if nm.RecipientID == sender.ID {
		return Message{}, ErrSelfMessage
	}
	recipient, err := svc.userSvc.GetByID(nm.RecipientID)
	if err != nil {
		return Message{}, err
	}
	if sender.IsPayingRole() && recipient.IsTutor() {
		if err = svc.walletSvc.ChargeIfNeeded(
			sender.ID, recipient.ID, wallet.PurposeMessageTutor, wallet.MessageTutorPrice,
		); err != nil {
			return Message{}, err
		}
	}
	return svc.repo.CreateMessage(Message{
		ID:          uuid.New().String(),
		SenderID:    sender.ID,
		SenderName:  sender.Name,
		RecipientID: recipient.ID,
		Body:        nm.Body,
		CreatedAt:   NowFunc().UTC(),
	})
}

func (svc *service) Conversations(usr user.User) ([]Conversation, error) {
	msgs, err := svc.repo.QueryByUser(usr.ID)
	if err != nil {
		return nil, err
	}

	// msgs come newest first so the first sighting of a partner carries
	// the latest message.
	convs := make([]Conversation, 0)
	seen := make(map[string]int) // partnerID -> index in convs
	for _, msg := range msgs {
		partnerID := msg.SenderID
		if partnerID == usr.ID {
			partnerID = msg.RecipientID
		}
		idx, ok := seen[partnerID]
		if !ok {
			convs = append(convs, Conversation{
				PartnerID:   partnerID,
				LastMessage: msg.Body,
				LastAt:      msg.CreatedAt,
			})
			idx = len(convs) - 1
			seen[partnerID] = idx
		}
		if msg.RecipientID == usr.ID && !msg.Read {
			convs[idx].Unread++
		}
	}
	for i := range convs {
		partner, err := svc.userSvc.GetByID(convs[i].PartnerID)
		if err != nil {
			if errors.Cause(err) == user.ErrNotFound {
				continue // deleted account; keep the conversation
			}
			return nil, err
		}
		convs[i].PartnerName = partner.Name
	}
	return convs, nil
}

func (svc *service) GetThread(usr user.User, partnerID string) (Thread, error) {
	partner, err := svc.userSvc.GetByID(partnerID)
	if err != nil {
		return Thread{}, err
	}
	msgs, err := svc.repo.QueryThread(usr.ID, partnerID)
	if err != nil {
		return Thread{}, err
	}
	if err = svc.repo.MarkThreadRead(usr.ID, partnerID); err != nil {
		return Thread{}, err
	}
	return Thread{
		PartnerID:   partner.ID,
		PartnerName: partner.Name,
		Messages:    msgs,
	}, nil
}

func (svc *service) CountUnread(usr user.User) (int, error) {
	return svc.repo.CountUnread(usr.ID)
}

func (svc *service) MarkRead(usr user.User, id string) error {
	msg, err := svc.repo.GetMessageByID(id)
	if err != nil {
		return err
	}
	if msg.RecipientID != usr.ID {
		return ErrNotFound
	}
	return svc.repo.MarkRead(id)
}

func (svc *service) CountReceived(userID string) (int, error) {
	return svc.repo.CountReceived(userID)
}
