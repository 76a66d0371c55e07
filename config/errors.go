package config

import (
	"errors"
	"fmt"
	"os"

	"cccm/config/validation"
)

// Kind classifies failures crossing the store/switcher boundary
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindParse
	KindValidation
	KindIO
	KindEnvWrite
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindParse:
		return "ParseError"
	case KindValidation:
		return "ValidationError"
	case KindIO:
		return "IOError"
	case KindEnvWrite:
		return "EnvWriteError"
	default:
		return "Unknown"
	}
}

// Error is a tagged failure with a message suitable for display
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds an *Error of the given kind
func Errorf(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// NotFound reports a missing profile
func NotFound(name string) *Error {
	return &Error{Kind: KindNotFound, Op: "find profile", Err: fmt.Errorf("profile '%s' does not exist", name)}
}

// KindOf returns the kind of err, looking through wrapping
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		return KindValidation
	}
	if errors.Is(err, os.ErrNotExist) {
		return KindNotFound
	}
	return KindUnknown
}
