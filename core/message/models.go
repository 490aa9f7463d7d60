package message

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tricitytutors/backend/core"
)

type (
	Message struct {
		ID          string    `json:"id"`
		SenderID    string    `json:"sender_id"`
		SenderName  string    `json:"sender_name"`
		RecipientID string    `json:"recipient_id"`
		Body        string    `json:"message"`
		Read        bool      `json:"read"`
		CreatedAt   time.Time `json:"created_at"` // UTC
	}

	NewMessage struct {
		RecipientID string `json:"recipient_id" validate:"required"`
		Body        string `json:"message" validate:"required"`
	}

	// Conversation summarizes a user's exchange with one partner.
	Conversation struct {
		PartnerID   string    `json:"partner_id"`
		PartnerName string    `json:"partner_name"`
		LastMessage string    `json:"last_message"`
		LastAt      time.Time `json:"last_at"`
		Unread      int       `json:"unread"`
	}

	// Thread is a full two-party conversation, oldest first.
	Thread struct {
		PartnerID   string    `json:"partner_id"`
		PartnerName string    `json:"partner_name"`
		Messages    []Message `json:"messages"`
	}
)

func (nm *NewMessage) Validate(validate *validator.Validate) error {
	nm.Body = core.CleanString(nm.Body)
	return validate.Struct(nm)
}
