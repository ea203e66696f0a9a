package sms

import (
	"errors"
)

var (
	// ErrInvalidArgument matches every *ArgumentError via errors.Is
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSendFailed matches every *SmsError via errors.Is
	ErrSendFailed = errors.New("sms send failed")
)

// ArgumentError reports caller supplied data that failed a local check.
// It is returned before any call to the provider is made.
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string {
	return e.Message
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// SmsError reports a failed send: a non-OK status, a missing response or an
// error returned by the provider SDK (kept in Err).
type SmsError struct {
	Code    string
	Message string
	Err     error
}

func (e *SmsError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return ErrSendFailed.Error()
}

func (e *SmsError) Unwrap() error {
	return e.Err
}

func (e *SmsError) Is(target error) bool {
	return target == ErrSendFailed
}

func invalidArgument(message string) error {
	return &ArgumentError{Message: message}
}

// wrapSendError turns a provider error into an *SmsError, leaving errors that
// are already classified untouched.
func wrapSendError(err error) error {
	if err == nil {
		return nil
	}
	var smsErr *SmsError
	var argErr *ArgumentError
	if errors.As(err, &smsErr) || errors.As(err, &argErr) {
		return err
	}
	return &SmsError{Message: "failed to send sms", Err: err}
}
