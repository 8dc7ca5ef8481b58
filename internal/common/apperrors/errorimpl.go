package apperrors

import (
	"errors"
	"strings"
)

type appError struct {
	msg        string
	base       error
	attached   []error
	statuscode int
	hint       string
}

func (e *appError) Error() string {
	return e.msg
}

// ErrorAll joins the message with the messages of attached errors that are
// not part of the error's own ancestry.
func (e *appError) ErrorAll() string {
	var b strings.Builder
	b.WriteString(e.msg)
	for _, err := range e.attached {
		if err == nil || errors.Is(e.base, err) {
			continue
		}
		b.WriteString(": ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *appError) Unwrap() error {
	return e.base
}

func (e *appError) New(msg string) Error {
	return &appError{
		msg:        msg,
		base:       e,
		statuscode: e.statuscode,
	}
}

func (e *appError) Msg(msg string) Error {
	return &appError{
		msg:        msg,
		base:       e,
		attached:   e.attached,
		statuscode: e.statuscode,
		hint:       e.hint,
	}
}

func (e *appError) MsgErr(msg string, errs ...error) Error {
	return &appError{
		msg:        msg,
		base:       e,
		attached:   append(append([]error{}, e.attached...), errs...),
		statuscode: e.statuscode,
		hint:       e.hint,
	}
}

func (e *appError) Err(errs ...error) Error {
	return e.MsgErr(e.msg, errs...)
}

func (e *appError) SetStatusCode(code int) Error {
	cp := *e
	cp.statuscode = code
	return &cp
}

func (e *appError) StatusCode() int {
	return e.statuscode
}

func (e *appError) WithHint(h string) Error {
	cp := *e
	cp.hint = h
	return &cp
}

func (e *appError) Hint() string {
	if e.hint != "" {
		return e.hint
	}
	var parent *appError
	if errors.As(e.base, &parent) {
		return parent.Hint()
	}
	return ""
}

// Is matches the base chain and every attached error.
func (e *appError) Is(target error) bool {
	if target == nil {
		return false
	}
	if errors.Is(e.base, target) {
		return true
	}
	for _, err := range e.attached {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// New creates a root error.
func New(msg string) Error {
	return &appError{msg: msg}
}

// HintOf returns the hint of the first apperrors.Error in err's chain.
func HintOf(err error) string {
	var ae Error
	if errors.As(err, &ae) {
		return ae.Hint()
	}
	return ""
}
