package sms

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextInt(t *testing.T) {
	t.Run("EqualBounds", func(t *testing.T) {
		for _, n := range []int{0, 1, 42, 100000} {
			v, err := NextInt(n, n)
			require.NoError(t, err)
			assert.Equal(t, n, v)
		}
	})

	t.Run("StaysInRangeAndCoversIt", func(t *testing.T) {
		seen := make(map[int]bool)
		for i := 0; i < 2000; i++ {
			v, err := NextInt(3, 8)
			require.NoError(t, err)
			require.GreaterOrEqual(t, v, 3)
			require.Less(t, v, 8)
			seen[v] = true
		}
		assert.Len(t, seen, 5)
	})

	tests := []struct {
		name       string
		start, end int
		message    string
	}{
		{"EndBeforeStart", 5, 4, "Start value must be smaller or equal to end value."},
		{"NegativeStart", -1, 4, "Both range values must be non-negative."},
		{"BothNegative", -3, -1, "Both range values must be non-negative."},
		{"NegativeEnd", 0, -1, "Start value must be smaller or equal to end value."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NextInt(tc.start, tc.end)
			require.ErrorIs(t, err, ErrInvalidArgument)
			assert.EqualError(t, err, tc.message)
		})
	}
}

func TestNextIntConcurrent(t *testing.T) {
	for i := 0; i < 8; i++ {
		t.Run(fmt.Sprintf("Worker%d", i), func(t *testing.T) {
			t.Parallel()
			for j := 0; j < 1000; j++ {
				v, err := NextInt(100000, 1000000)
				require.NoError(t, err)
				require.GreaterOrEqual(t, v, 100000)
				require.Less(t, v, 1000000)
			}
		})
	}
}

func TestCheckPhoneNumber(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		isValid bool
	}{
		{"China Mobile", "13800138000", true},
		{"Prefix145", "14512345678", true},
		{"Prefix147", "14712345678", true},
		{"Prefix153", "15312345678", true},
		{"Prefix180", "18012345678", true},
		{"Prefix189", "18912345678", true},
		{"Prefix154", "15412345678", false},
		{"Prefix146", "14612345678", false},
		{"Prefix181", "18112345678", false},
		{"Prefix17", "17012345678", false},
		{"Leading12", "12345678901", false},
		{"TooShort", "1380013800", false},
		{"TooLong", "138001380001", false},
		{"CountryCode", "+8613800138000", false},
		{"Letters", "1380013800a", false},
		{"Empty", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckPhoneNumber(tc.phone)
			if tc.isValid {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidArgument)
			assert.EqualError(t, err, "Invalid phone number")
		})
	}
}

func TestCheckSmsResponse(t *testing.T) {
	assert.NoError(t, CheckSmsResponse(&SendResponse{Code: "OK"}))
	assert.NoError(t, CheckSmsResponse(&SendResponse{Code: "ok"}))
	assert.NoError(t, CheckSmsResponse(&SendResponse{Code: "Ok"}))

	err := CheckSmsResponse(&SendResponse{Code: "FAIL"})
	require.ErrorIs(t, err, ErrSendFailed)
	assert.Contains(t, err.Error(), "FAIL")
	var smsErr *SmsError
	require.True(t, errors.As(err, &smsErr))
	assert.Equal(t, "FAIL", smsErr.Code)

	err = CheckSmsResponse(nil)
	require.ErrorIs(t, err, ErrSendFailed)
	assert.EqualError(t, err, "Response is null")

	err = CheckSmsResponse(&SendResponse{})
	require.ErrorIs(t, err, ErrSendFailed)
	assert.EqualError(t, err, "Response code is ''")
}

func TestCheckNotEmpty(t *testing.T) {
	err := CheckNotEmpty("", "msg")
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.EqualError(t, err, "msg")

	assert.NoError(t, CheckNotEmpty("x", "msg"))
}

func TestCheckArgument(t *testing.T) {
	err := CheckArgument(false, "must hold")
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.EqualError(t, err, "must hold")
	assert.False(t, errors.Is(err, ErrSendFailed))

	assert.NoError(t, CheckArgument(true, "must hold"))
}

func TestWrapSendError(t *testing.T) {
	cause := errors.New("connection reset")
	err := wrapSendError(cause)
	require.ErrorIs(t, err, ErrSendFailed)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to send sms: connection reset", err.Error())

	argErr := invalidArgument("bad")
	assert.Same(t, argErr, wrapSendError(argErr))
	assert.NoError(t, wrapSendError(nil))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "*******8000", maskPhone("13800138000"))
	assert.Equal(t, "****", maskPhone("123"))
	assert.Equal(t, "*******8000,*******5678", maskPhones([]string{"13800138000", "18912345678"}))
}
