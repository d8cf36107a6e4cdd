package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/rpupo63/contractor-site-backend/config"
	"github.com/rpupo63/contractor-site-backend/errs"
)

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// SMSSender sends text messages through Twilio.
type SMSSender struct {
	from string
	api  messageCreator
}

func NewSMSSender(cfg config.Notify) (*SMSSender, error) {
	if cfg.TwilioSID == "" {
		return nil, errs.NewEnvironmentVariableError("TWILIO_ACCOUNT_SID")
	}
	if cfg.TwilioToken == "" {
		return nil, errs.NewEnvironmentVariableError("TWILIO_AUTH_TOKEN")
	}
	if cfg.TwilioFrom == "" {
		return nil, errs.NewEnvironmentVariableError("TWILIO_FROM_NUMBER")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioSID,
		Password: cfg.TwilioToken,
	})
	return &SMSSender{from: cfg.TwilioFrom, api: client.Api}, nil
}

// SendSMS texts body to a single number and returns the message SID.
func (s *SMSSender) SendSMS(ctx context.Context, to, body string) (string, error) {
	if to == "" {
		return "", fmt.Errorf("recipient phone number is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	msg, err := s.api.CreateMessage(params)
	if err != nil {
		return "", errs.NewUpstreamError("twilio", err)
	}

	sid := ""
	if msg != nil && msg.Sid != nil {
		sid = *msg.Sid
	}
	log.Info().Str("sid", sid).Str("to", to).Msg("Sent SMS via Twilio")
	return sid, nil
}
