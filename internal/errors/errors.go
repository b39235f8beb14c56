// Package errors mixes the stdlib error tree helpers with the stack-carrying
// constructors of pkg/errors so callers need a single import.
package errors

import (
	stderrors "errors"

	pkgerrors "github.com/pkg/errors"
)

func New(text string) error {
	return stderrors.New(text)
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Join keeps nil handling of the stdlib: it returns nil when every err is nil.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// Wrap records a stack trace; a nil err stays nil.
func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

func Wrapf(err error, format string, args ...any) error {
	return pkgerrors.Wrapf(err, format, args...)
}

func WithStack(err error) error {
	return pkgerrors.WithStack(err)
}

func Errorf(format string, args ...any) error {
	return pkgerrors.Errorf(format, args...)
}
