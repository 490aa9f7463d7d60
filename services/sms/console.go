package smssvc

import (
	"log"
	"sync"

	"github.com/tricitytutors/backend/core"
)

var (
	SentMessages = make([]core.SMSMessage, 0)
	mu           sync.Mutex
)

// consoleService writes text messages to stdout instead of delivering
// them. SendMessage reports core.ErrSMSNotEnabled so callers can tell
// that no real delivery happened.
type consoleService struct {
	disableOutput bool
}

var _ core.SMSService = (*consoleService)(nil)

func NewConsoleService() core.SMSService {
	return &consoleService{}
}

// NewConsoleServiceMock records messages silently for tests.
func NewConsoleServiceMock() core.SMSService {
	return &consoleService{disableOutput: true}
}

func (svc consoleService) SendMessage(message *core.SMSMessage) error {
	if message.To == "" || message.Body == "" {
		return nil
	}
	if !svc.disableOutput {
		log.Printf("SMS to %s: %s\n", message.To, message.Body)
	}
	mu.Lock()
	SentMessages = append(SentMessages, *message)
	mu.Unlock()
	return core.ErrSMSNotEnabled
}

// ClearSentMessages resets the recorded outbox between tests.
func ClearSentMessages() {
	mu.Lock()
	SentMessages = make([]core.SMSMessage, 0)
	mu.Unlock()
}
