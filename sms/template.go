package sms

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// Template is a single send request for a provider registered SMS template
type Template struct {
	SignName      string            `json:"signName" validate:"required"`
	TemplateCode  string            `json:"templateCode" validate:"required"`
	TemplateParam map[string]string `json:"templateParam,omitempty"`
	PhoneNumbers  []string          `json:"phoneNumbers" validate:"required,min=1,dive,cn_mobile"`
}

// TemplateBuilder assembles a Template. The zero value is not usable, use NewTemplateBuilder.
type TemplateBuilder struct {
	signName      string
	templateCode  string
	templateParam map[string]string
	phoneNumbers  []string
}

// NewTemplateBuilder returns a builder with an empty parameter map
func NewTemplateBuilder() *TemplateBuilder {
	return &TemplateBuilder{templateParam: make(map[string]string)}
}

func (b *TemplateBuilder) SignName(signName string) *TemplateBuilder {
	b.signName = signName
	return b
}

func (b *TemplateBuilder) TemplateCode(templateCode string) *TemplateBuilder {
	b.templateCode = templateCode
	return b
}

// TemplateParam replaces all parameters collected so far
func (b *TemplateBuilder) TemplateParam(params map[string]string) *TemplateBuilder {
	b.templateParam = make(map[string]string, len(params))
	maps.Copy(b.templateParam, params)
	return b
}

// AddTemplateParam sets one template parameter, overwriting an existing key
func (b *TemplateBuilder) AddTemplateParam(key, value string) *TemplateBuilder {
	b.templateParam[key] = value
	return b
}

func (b *TemplateBuilder) PhoneNumbers(phoneNumbers ...string) *TemplateBuilder {
	b.phoneNumbers = slices.Clone(phoneNumbers)
	return b
}

// Build snapshots the builder state. Nothing is validated here.
func (b *TemplateBuilder) Build() *Template {
	params := make(map[string]string, len(b.templateParam))
	maps.Copy(params, b.templateParam)
	return &Template{
		SignName:      b.signName,
		TemplateCode:  b.templateCode,
		TemplateParam: params,
		PhoneNumbers:  slices.Clone(b.phoneNumbers),
	}
}

// ToBuilder returns a builder pre-populated with copies of t's fields
func (t *Template) ToBuilder() *TemplateBuilder {
	return NewTemplateBuilder().
		SignName(t.SignName).
		TemplateCode(t.TemplateCode).
		TemplateParam(t.TemplateParam).
		PhoneNumbers(t.PhoneNumbers...)
}

func (t *Template) SetSignName(signName string) {
	t.SignName = signName
}

func (t *Template) SetTemplateCode(templateCode string) {
	t.TemplateCode = templateCode
}

func (t *Template) SetTemplateParam(params map[string]string) {
	t.TemplateParam = params
}

func (t *Template) SetPhoneNumbers(phoneNumbers []string) {
	t.PhoneNumbers = phoneNumbers
}

// ParamJSON encodes the template parameters as the JSON object the provider expects
func (t *Template) ParamJSON() (string, error) {
	if len(t.TemplateParam) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(t.TemplateParam)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// JoinedPhoneNumbers returns the recipients as a comma separated list
func (t *Template) JoinedPhoneNumbers() string {
	return strings.Join(t.PhoneNumbers, ",")
}
