package sms

import (
	"context"
	"fmt"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	dysmsapi "github.com/alibabacloud-go/dysmsapi-20170525/v3/client"
	"github.com/alibabacloud-go/tea/tea"
	"github.com/google/uuid"
)

const DefaultEndpoint = "dysmsapi.aliyuncs.com"

// dysmsAPI is the part of the Dysmsapi SDK client used for sending
type dysmsAPI interface {
	SendSms(request *dysmsapi.SendSmsRequest) (*dysmsapi.SendSmsResponse, error)
}

// AliyunSender sends templates through Aliyun Dysmsapi
type AliyunSender struct {
	api dysmsAPI
}

type AliyunConfig struct {
	AccessKeyID     string
	AccessKeySecret string
	Endpoint        string
	RegionID        string
}

// NewAliyunSender builds the Dysmsapi SDK client from cfg
func NewAliyunSender(cfg AliyunConfig) (*AliyunSender, error) {
	if err := CheckNotEmpty(cfg.AccessKeyID, "AccessKeyId must not be empty"); err != nil {
		return nil, err
	}
	if err := CheckNotEmpty(cfg.AccessKeySecret, "AccessKeySecret must not be empty"); err != nil {
		return nil, err
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	conf := &openapi.Config{
		AccessKeyId:     tea.String(cfg.AccessKeyID),
		AccessKeySecret: tea.String(cfg.AccessKeySecret),
		Endpoint:        tea.String(endpoint),
	}
	if cfg.RegionID != "" {
		conf.RegionId = tea.String(cfg.RegionID)
	}

	client, err := dysmsapi.NewClient(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create dysmsapi client: %w", err)
	}
	return &AliyunSender{api: client}, nil
}

// Send issues one SendSms call for all recipients of tpl
func (s *AliyunSender) Send(ctx context.Context, tpl *Template) (*SendResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params, err := tpl.ParamJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode template params: %w", err)
	}

	req := &dysmsapi.SendSmsRequest{
		SignName:      tea.String(tpl.SignName),
		TemplateCode:  tea.String(tpl.TemplateCode),
		TemplateParam: tea.String(params),
		PhoneNumbers:  tea.String(tpl.JoinedPhoneNumbers()),
		OutId:         tea.String(uuid.NewString()),
	}

	resp, err := s.api.SendSms(req)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Body == nil {
		return nil, &SmsError{Message: "Response is null"}
	}

	return &SendResponse{
		Code:      tea.StringValue(resp.Body.Code),
		Message:   tea.StringValue(resp.Body.Message),
		BizID:     tea.StringValue(resp.Body.BizId),
		RequestID: tea.StringValue(resp.Body.RequestId),
	}, nil
}
