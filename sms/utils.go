package sms

import (
	"math/rand"
	"regexp"
	"strings"
)

const successCode = "OK"

// Mainland China mobile numbers. The character classes are kept as the
// provider integration has always used them, '|' and ',' included.
var phoneNumberRegex = regexp.MustCompile(`^(?:((13[0-9])|(14[5|7])|(15([0-3]|[5-9]))|(18[0,5-9]))\d{8})$`)

// NextInt returns a random integer in [startInclusive, endExclusive).
// Equal bounds return startInclusive.
func NextInt(startInclusive, endExclusive int) (int, error) {
	if err := CheckArgument(endExclusive >= startInclusive, "Start value must be smaller or equal to end value."); err != nil {
		return 0, err
	}
	if err := CheckArgument(startInclusive >= 0, "Both range values must be non-negative."); err != nil {
		return 0, err
	}

	if startInclusive == endExclusive {
		return startInclusive, nil
	}

	// top-level math/rand functions are safe for concurrent use
	return startInclusive + rand.Intn(endExclusive-startInclusive), nil
}

// CheckSmsResponse fails unless the provider answered with the OK status code
func CheckSmsResponse(response *SendResponse) error {
	if response == nil {
		return &SmsError{Message: "Response is null"}
	}
	if !strings.EqualFold(successCode, response.Code) {
		return &SmsError{
			Code:    response.Code,
			Message: "Response code is '" + response.Code + "'",
		}
	}
	return nil
}

// CheckPhoneNumber validates a Chinese mobile number. An empty string counts as absent.
func CheckPhoneNumber(phoneNumber string) error {
	if !isPhoneNumber(phoneNumber) {
		return invalidArgument("Invalid phone number")
	}
	return nil
}

func isPhoneNumber(phoneNumber string) bool {
	return phoneNumber != "" && phoneNumberRegex.MatchString(phoneNumber)
}

func CheckNotEmpty(str, message string) error {
	if str == "" {
		return invalidArgument(message)
	}
	return nil
}

func CheckArgument(expression bool, message string) error {
	if !expression {
		return invalidArgument(message)
	}
	return nil
}

// maskPhone obfuscates the phone number for logging
func maskPhone(phone string) string {
	if len(phone) > 4 {
		return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
	}
	return "****"
}

func maskPhones(phones []string) string {
	masked := make([]string, len(phones))
	for i, p := range phones {
		masked[i] = maskPhone(p)
	}
	return strings.Join(masked, ",")
}
