package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sharehope/pkg/types"
)

// Transactor runs fn inside one database transaction. Repositories called
// with the ctx handed to fn join it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return types.Invalid(field, fmt.Sprintf("%s is required", field))
	}
	return nil
}

func validID(entity string, id int64) error {
	if id <= 0 {
		return types.Invalid("id", fmt.Sprintf("invalid %s id", entity))
	}
	return nil
}

func maxLength(field, value string, max int) error {
	if len([]rune(value)) > max {
		return types.Invalid(field, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return nil
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
