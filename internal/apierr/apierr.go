// Package apierr carries an HTTP status and a stable machine code alongside
// the underlying error, so services can classify failures without importing
// any HTTP framework.
package apierr

import (
	"errors"
	"fmt"
)

const (
	CodeValidation = "validation"
	CodeNotFound   = "not_found"
	CodeUpload     = "upload"
	CodeRender     = "render"
	CodeStore      = "store"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Status: 400, Code: CodeValidation, Err: fmt.Errorf(format, args...)}
}

func NotFound(what string) *Error {
	return &Error{Status: 404, Code: CodeNotFound, Err: fmt.Errorf("%s not found", what)}
}

func Upload(err error) *Error {
	return &Error{Status: 502, Code: CodeUpload, Err: err}
}

func Render(err error) *Error {
	return &Error{Status: 500, Code: CodeRender, Err: err}
}

func Store(err error) *Error {
	return &Error{Status: 500, Code: CodeStore, Err: err}
}

// From extracts an *Error if err carries one.
func From(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func IsCode(err error, code string) bool {
	if ae, ok := From(err); ok {
		return ae.Code == code
	}
	return false
}
