// Package access is the data access layer used by the HTTP handlers and the
// seed command. Every operation returns a result.Result; backend errors are
// logged and turned into failures, never returned bare or panicked.
package access

import (
	"errors"
	"fmt"

	"happy-jasmine/internal/result"

	"go.uber.org/zap"
)

// ErrInvalidInput is the cause of failures rejected before reaching the backend
var ErrInvalidInput = errors.New("invalid input")

func invalid[T any](format string, args ...any) result.Result[T] {
	return result.Fail[T](fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...)))
}

// failure logs err at warn level and wraps it in a failed result
func failure[T any](logger *zap.Logger, op string, err error, fields ...zap.Field) result.Result[T] {
	logger.Warn(op+" failed", append(fields, zap.Error(err))...)
	return result.Fail[T](err)
}
