package common

import (
	"errors"
	"fmt"

	"github.com/otedola/cadastral/logger"
)

func NewErrorf(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	return errors.New(msg)
}

// Combine joins the non-nil errors, or returns nil when there are none.
func Combine(errs ...error) error {
	return errors.Join(errs...)
}

// Recover must be deferred directly. It logs and swallows a panic, returning
// the recovered value.
func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, "panic:", panicErr)
		}
	}
	return panicErr
}
