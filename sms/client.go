package sms

import (
	"context"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const verificationCodeParam = "code"

// Client validates templates, hands them to a Sender and checks the answer
type Client struct {
	sender    Sender
	logger    logrus.FieldLogger
	signName  string
	templates map[string]*Template
}

type Option func(*Client)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSignName sets the signature used when a template carries none
func WithSignName(signName string) Option {
	return func(c *Client) {
		c.signName = signName
	}
}

// WithTemplates registers templates that can be sent by name.
// Names are case-insensitive.
func WithTemplates(templates map[string]*Template) Option {
	return func(c *Client) {
		for name, tpl := range templates {
			c.templates[templateKey(name)] = tpl
		}
	}
}

func templateKey(name string) string {
	return strings.ToLower(name)
}

func NewClient(sender Sender, opts ...Option) *Client {
	logger := logrus.New()
	c := &Client{
		sender:    sender,
		logger:    logger,
		templates: make(map[string]*Template),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Template returns the registered template called name
func (c *Client) Template(name string) (*Template, bool) {
	tpl, ok := c.templates[templateKey(name)]
	return tpl, ok
}

// Send validates tpl and delivers it. Provider failures come back as *SmsError.
func (c *Client) Send(ctx context.Context, tpl *Template) error {
	tpl, err := c.Prepare(tpl)
	if err != nil {
		return err
	}

	log := c.logger.WithFields(logrus.Fields{
		"template_code": tpl.TemplateCode,
		"recipients":    maskPhones(tpl.PhoneNumbers),
	})
	log.Debug("sending sms")

	resp, err := c.sender.Send(ctx, tpl)
	if err != nil {
		log.WithError(err).Error("sms provider call failed")
		return wrapSendError(err)
	}
	if err := CheckSmsResponse(resp); err != nil {
		log.WithError(err).Warn("sms rejected by provider")
		return err
	}

	log.WithFields(logrus.Fields{
		"biz_id":     resp.BizID,
		"request_id": resp.RequestID,
	}).Info("sms sent")
	return nil
}

// Prepare applies the default signature and validates tpl without sending it.
// tpl itself is never modified.
func (c *Client) Prepare(tpl *Template) (*Template, error) {
	if tpl == nil {
		return nil, invalidArgument("Template must not be nil")
	}
	if tpl.SignName == "" && c.signName != "" {
		tpl = tpl.ToBuilder().SignName(c.signName).Build()
	}
	if err := ValidateTemplate(tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// SendByName sends the registered template called name to phoneNumbers
func (c *Client) SendByName(ctx context.Context, name string, phoneNumbers ...string) error {
	tpl, err := c.lookup(name)
	if err != nil {
		return err
	}
	return c.Send(ctx, tpl.ToBuilder().PhoneNumbers(phoneNumbers...).Build())
}

// SendVerificationCode sends a random six digit code through the registered
// template called name and returns the code that was sent.
func (c *Client) SendVerificationCode(ctx context.Context, name, phoneNumber string) (string, error) {
	if err := CheckPhoneNumber(phoneNumber); err != nil {
		return "", err
	}
	tpl, err := c.lookup(name)
	if err != nil {
		return "", err
	}

	n, err := NextInt(100000, 1000000)
	if err != nil {
		return "", err
	}
	code := strconv.Itoa(n)

	req := tpl.ToBuilder().
		AddTemplateParam(verificationCodeParam, code).
		PhoneNumbers(phoneNumber).
		Build()
	if err := c.Send(ctx, req); err != nil {
		return "", err
	}
	return code, nil
}

func (c *Client) lookup(name string) (*Template, error) {
	if err := CheckNotEmpty(name, "Template name must not be empty"); err != nil {
		return nil, err
	}
	tpl, ok := c.templates[templateKey(name)]
	if !ok {
		return nil, invalidArgument("Unknown template '" + name + "'")
	}
	return tpl, nil
}
