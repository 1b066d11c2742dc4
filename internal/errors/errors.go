// Package errors builds the error chains reported by the code generator and
// the command line tool. Every Wrapf adds one line of context; Error prints
// the outermost context first and the root cause last.
package errors

import (
	"fmt"
	"slices"
	"strings"
)

// Chain is a root cause plus the context it was reported through.
type Chain struct {
	cause   error
	context []string
}

func (c *Chain) Error() string {
	lines := make([]string, 0, len(c.context)+1)
	for i := len(c.context) - 1; i >= 0; i-- {
		lines = append(lines, c.context[i])
	}
	lines = append(lines, c.cause.Error())

	return strings.Join(lines, "\n")
}

func (c *Chain) Unwrap() error {
	return c.cause
}

// Cause makes github.com/pkg/errors.Cause see through the chain.
func (c *Chain) Cause() error {
	return c.cause
}

func Errorf(format string, args ...any) error {
	return &Chain{cause: fmt.Errorf(format, args...)}
}

// Wrapf adds a line of context to err, nil stays nil. Wrapping never modifies
// err itself.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)
	c, ok := err.(*Chain)
	if !ok {
		return &Chain{cause: err, context: []string{msg}}
	}

	return &Chain{cause: c.cause, context: append(slices.Clip(c.context), msg)}
}
