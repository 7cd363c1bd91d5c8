package engine

import (
	"errors"
	"fmt"
)

// ErrorCode classifies engine failures. The set mirrors the classic
// scanner error taxonomy; codes that do not decode map to ErrUnknown with
// the raw value preserved on the Error.
type ErrorCode int

const (
	ErrNone ErrorCode = iota
	ErrNoMem
	ErrInternal
	ErrUnsupported
	ErrInvalid
	ErrSystem
	ErrLocking
	ErrBusy
	ErrDisplay
	ErrProto
	ErrClosed
	ErrWinAPI
	ErrUnknown
)

var errorCodeNames = map[ErrorCode]string{
	ErrNone:        "no error",
	ErrNoMem:       "out of memory",
	ErrInternal:    "internal library error",
	ErrUnsupported: "unsupported request",
	ErrInvalid:     "invalid request",
	ErrSystem:      "system error",
	ErrLocking:     "locking error",
	ErrBusy:        "all resources busy",
	ErrDisplay:     "display error",
	ErrProto:       "display protocol error",
	ErrClosed:      "output window is closed",
	ErrWinAPI:      "platform API error",
	ErrUnknown:     "unknown error",
}

func (c ErrorCode) String() string {
	if s, ok := errorCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("error code %d", int(c))
}

// Error is the failure type for all engine operations. Op names the
// failing operation ("processor.init"), Code classifies it and Err carries
// the underlying cause, if any.
type Error struct {
	Op   string
	Code ErrorCode
	Raw  int // original numeric code when Code is ErrUnknown
	Err  error
}

func (e *Error) Error() string {
	msg := e.Code.String()
	if e.Code == ErrUnknown && e.Raw != 0 {
		msg = fmt.Sprintf("%s (%d)", msg, e.Raw)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// newError builds an engine error without an underlying cause.
func newError(op string, code ErrorCode) *Error {
	return &Error{Op: op, Code: code}
}

// wrapError builds an engine error around an underlying cause.
func wrapError(op string, code ErrorCode, err error) *Error {
	return &Error{Op: op, Code: code, Err: err}
}

// wrapErrorf builds an engine error with a formatted detail message.
func wrapErrorf(op string, code ErrorCode, format string, args ...any) *Error {
	return &Error{Op: op, Code: code, Err: fmt.Errorf(format, args...)}
}

// DecodeError maps a raw numeric status to an engine error. Codes outside
// the known range produce ErrUnknown with the raw value retained.
func DecodeError(op string, raw int) *Error {
	code := ErrorCode(raw)
	if code <= ErrNone || code >= ErrUnknown {
		return &Error{Op: op, Code: ErrUnknown, Raw: raw}
	}
	return &Error{Op: op, Code: code}
}

// IsCode reports whether err is an engine error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
