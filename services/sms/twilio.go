package smssvc

import (
	"github.com/pkg/errors"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/tricitytutors/backend/core"
)

type twilioService struct {
	client *twilio.RestClient
	from   string
}

var _ core.SMSService = (*twilioService)(nil)

func NewTwilioService(conf core.Config) core.SMSService {
	return &twilioService{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: conf.SMS.TwilioAccountSID,
			Password: conf.SMS.TwilioAuthToken,
		}),
		from: conf.SMS.TwilioFromNumber,
	}
}

func (svc twilioService) SendMessage(message *core.SMSMessage) error {
	if message.To == "" || message.Body == "" {
		return nil
	}
	params := new(twilioapi.CreateMessageParams)
	params.SetTo(message.To)
	params.SetFrom(svc.from)
	params.SetBody(message.Body)
	if _, err := svc.client.Api.CreateMessage(params); err != nil {
		return errors.Wrap(err, "sending sms")
	}
	return nil
}
