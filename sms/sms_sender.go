package sms

import (
	"context"
	"fmt"
	"strings"

	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SendResponse is the provider's answer to a send request
type SendResponse struct {
	Code      string
	Message   string
	BizID     string
	RequestID string
}

// Sender delivers a template through an SMS provider
type Sender interface {
	Send(ctx context.Context, tpl *Template) (*SendResponse, error)
}

// twilioMessageAPI is the part of the Twilio REST client used for sending
type twilioMessageAPI interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioSender sends templates as Twilio content templates: TemplateCode is the
// Content SID and TemplateParam becomes the content variables.
type TwilioSender struct {
	api  twilioMessageAPI
	from string
}

// NewTwilioSender creates a sender using Twilio's API
func NewTwilioSender(accountSID, authToken, twilioNumber string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{api: client.Api, from: twilioNumber}
}

// Send creates one Twilio message per recipient and stops at the first failure
func (s *TwilioSender) Send(ctx context.Context, tpl *Template) (*SendResponse, error) {
	vars, err := tpl.ParamJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode template params: %w", err)
	}

	sids := make([]string, 0, len(tpl.PhoneNumbers))
	for _, phone := range tpl.PhoneNumbers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		params := &openapi.CreateMessageParams{}
		params.SetTo(phone)
		params.SetFrom(s.from)
		params.SetContentSid(tpl.TemplateCode)
		params.SetContentVariables(vars)

		resp, err := s.api.CreateMessage(params)
		if err != nil {
			return nil, fmt.Errorf("twilio create message for %s: %w", maskPhone(phone), err)
		}

		sids = append(sids, derefString(resp.Sid))
		status := derefString(resp.Status)
		if status == "failed" || status == "undelivered" {
			// BizID keeps the SIDs of recipients already sent, the failed one last
			return &SendResponse{
				Code:    status,
				Message: derefString(resp.ErrorMessage),
				BizID:   strings.Join(sids, ","),
			}, nil
		}
	}

	return &SendResponse{Code: successCode, BizID: strings.Join(sids, ",")}, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
