package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeQubitOutOfRange, "qubit %d out of range [0, %d)", 5, 3)

	if err.Code != ErrCodeQubitOutOfRange {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeQubitOutOfRange)
	}

	if err.Message != "qubit 5 out of range [0, 3)" {
		t.Errorf("Message = %v, want %v", err.Message, "qubit 5 out of range [0, 3)")
	}

	expected := "QUBIT_OUT_OF_RANGE: qubit 5 out of range [0, 3)"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Wrap(ErrCodeInvalidFormat, cause, "decode cirq")

	if err.Code != ErrCodeInvalidFormat {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidFormat)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestWrapPrintsCodeOnce(t *testing.T) {
	inner := New(ErrCodeQubitOutOfRange, "H: qubit -1 out of range")
	err := Wrap(ErrCodeQubitOutOfRange, inner, "squin: line 4")

	want := "QUBIT_OUT_OF_RANGE: squin: line 4: H: qubit -1 out of range"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := UserMessage(err); got != "squin: line 4: H: qubit -1 out of range" {
		t.Errorf("UserMessage() = %q", got)
	}

	plain := Wrap(ErrCodeInvalidFormat, errors.New("unexpected EOF"), "decode cirq")
	if got := plain.Error(); got != "INVALID_FORMAT: decode cirq: unexpected EOF" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeUnsupportedGate, "test"),
			code:     ErrCodeUnsupportedGate,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeUnsupportedGate, "test"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "outer code wins",
			err:      Wrap(ErrCodeInvalidFormat, New(ErrCodeUnsupportedGate, "inner"), "outer"),
			code:     ErrCodeInvalidFormat,
			expected: true,
		},
		{
			name:     "behind fmt wrap",
			err:      fmt.Errorf("load: %w", New(ErrCodeCircuitSealed, "sealed")),
			code:     ErrCodeCircuitSealed,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHas(t *testing.T) {
	inner := New(ErrCodeUnsupportedGate, "PhasedXPowGate")
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"direct", inner, ErrCodeUnsupportedGate, true},
		{"nested", Wrap(ErrCodeInvalidFormat, inner, "decode"), ErrCodeUnsupportedGate, true},
		{"nested behind fmt", fmt.Errorf("stage: %w", Wrap(ErrCodeInvalidFormat, inner, "decode")), ErrCodeUnsupportedGate, true},
		{"absent", Wrap(ErrCodeInvalidFormat, errors.New("eof"), "decode"), ErrCodeUnsupportedGate, false},
		{"nil", nil, ErrCodeUnsupportedGate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Has(tt.err, tt.code); got != tt.expected {
				t.Errorf("Has() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidScene, "test"),
			expected: ErrCodeInvalidScene,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "with cause",
			err:      Wrap(ErrCodeInvalidFormat, New(ErrCodeUnsupportedGate, "gate FSimGate"), "decode ghz.json"),
			expected: "decode ghz.json: gate FSimGate",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
