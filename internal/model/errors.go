package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure that crosses a component boundary carries exactly
// one of these, so callers can branch with errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrUnknownProvider = errors.New("unknown provider")
	ErrNotFound        = errors.New("not found")
	ErrTranscription   = errors.New("transcription error")
	ErrProviderCall    = errors.New("provider call error")
	ErrTimeout         = errors.New("timeout")
	ErrEmptyResult     = errors.New("empty result")
	ErrStorage         = errors.New("storage error")
	ErrTemplate        = errors.New("template error")
)

// Error is a classified failure. It unwraps to both its kind and its cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Errorf builds a classified error with a formatted message.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind. A nil err yields nil.
func Wrap(kind error, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

var kinds = []error{
	ErrValidation,
	ErrUnknownProvider,
	ErrNotFound,
	ErrTranscription,
	ErrProviderCall,
	ErrTimeout,
	ErrEmptyResult,
	ErrStorage,
	ErrTemplate,
}

// KindOf returns the outermost kind attached to err, or nil when err is unclassified.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
