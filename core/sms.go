package core

import "github.com/pkg/errors"

// ErrSMSNotEnabled is returned by SMSService implementations that only
// pretend to deliver (console mode); the caller may degrade gracefully.
var ErrSMSNotEnabled = errors.New("sms delivery not enabled")

type (
	SMSMessage struct {
		To   string // E.164 phone number
		Body string
	}

	// SMSService is any service that can send text messages.
	SMSService interface {
		// SendMessage sends a single message synchronously.
		SendMessage(message *SMSMessage) error
	}
)
