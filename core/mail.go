package core

import (
	"net/mail"

	"github.com/pkg/errors"
)

// ErrMailNotEnabled is returned by EmailService implementations that only
// pretend to deliver (console mode); the caller may degrade gracefully.
var ErrMailNotEnabled = errors.New("email delivery not enabled")

type (
	EmailMessage struct {
		To          []mail.Address
		Subject     string
		TextContent string
		HTMLContent string
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently, best-effort.
		SendMessages(messages ...*EmailMessage)
		// SendMessage sends a single message synchronously.
		SendMessage(message *EmailMessage) error
	}
)

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }
