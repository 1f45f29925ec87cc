package services

import (
	"context"
	"fmt"
	"strings"

	"laundrypro-backend/utils"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// Messenger delivers a text message to a phone number.
type Messenger interface {
	Send(ctx context.Context, to, body string) error
}

// MessageCreator is the part of the Twilio REST API the messenger uses.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	PhoneNumber    string
	WhatsAppNumber string
}

// TwilioMessenger sends over WhatsApp when the number is in E.164 form and a
// WhatsApp sender is configured, and over SMS otherwise.
type TwilioMessenger struct {
	api MessageCreator
	cfg TwilioConfig
	log *zap.Logger
}

func NewTwilioMessenger(cfg TwilioConfig, log *zap.Logger) *TwilioMessenger {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return NewTwilioMessengerWithAPI(client.Api, cfg, log)
}

func NewTwilioMessengerWithAPI(api MessageCreator, cfg TwilioConfig, log *zap.Logger) *TwilioMessenger {
	if log == nil {
		log = zap.NewNop()
	}
	return &TwilioMessenger{api: api, cfg: cfg, log: log}
}

func (m *TwilioMessenger) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to = utils.NormalizePhone(to)

	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)
	channel := "sms"
	if strings.HasPrefix(to, "+") && m.cfg.WhatsAppNumber != "" {
		channel = "whatsapp"
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + m.cfg.WhatsAppNumber)
	} else {
		params.SetTo(to)
		params.SetFrom(m.cfg.PhoneNumber)
	}

	resp, err := m.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("sending %s message to %s: %w", channel, to, err)
	}
	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	m.log.Info("message sent", zap.String("to", to), zap.String("channel", channel), zap.String("sid", sid))
	return nil
}
