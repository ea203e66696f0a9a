package sms

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var templateValidator = newTemplateValidator()

func newTemplateValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("cn_mobile", validateChineseMobile)
	return v
}

func validateChineseMobile(fl validator.FieldLevel) bool {
	return isPhoneNumber(fl.Field().String())
}

// ValidateTemplate checks that tpl can be handed to a provider.
// Every failure is reported as an *ArgumentError.
func ValidateTemplate(tpl *Template) error {
	if tpl == nil {
		return invalidArgument("Template must not be nil")
	}

	err := templateValidator.Struct(tpl)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalidArgument(err.Error())
	}

	fe := verrs[0]
	switch {
	case fe.Tag() == "cn_mobile":
		return invalidArgument("Invalid phone number")
	case fe.Field() == "SignName":
		return invalidArgument("SignName must not be empty")
	case fe.Field() == "TemplateCode":
		return invalidArgument("TemplateCode must not be empty")
	case fe.Field() == "PhoneNumbers":
		return invalidArgument("PhoneNumbers must not be empty")
	}
	return invalidArgument(fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
}
