// Package result provides the tagged success/failure value returned by every
// data access operation. Callers check Success (or the boolean from Data)
// before touching the payload; failures carry a message and the error that
// caused them.
package result

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Empty is the payload of operations that return no data.
type Empty struct{}

// Result is either a success holding Data (and optionally a total Count) or a
// failure holding an error message.
type Result[T any] struct {
	ok       bool
	data     T
	count    int
	hasCount bool
	err      error
}

// Ok wraps a successful payload.
func Ok[T any](data T) Result[T] {
	return Result[T]{ok: true, data: data}
}

// OkWithCount wraps a page of data together with the total number of matching rows.
func OkWithCount[T any](data T, count int) Result[T] {
	return Result[T]{ok: true, data: data, count: count, hasCount: true}
}

// Fail wraps an error. A nil error still produces a failure.
func Fail[T any](err error) Result[T] {
	if err == nil {
		err = errors.New("unknown error")
	}
	return Result[T]{err: err}
}

// Failf builds a failure from a formatted message.
func Failf[T any](format string, args ...any) Result[T] {
	return Fail[T](fmt.Errorf(format, args...))
}

// Success reports whether the result holds data.
func (r Result[T]) Success() bool {
	return r.ok
}

// Data returns the payload and whether the result is a success. The payload
// is the zero value on failure.
func (r Result[T]) Data() (T, bool) {
	return r.data, r.ok
}

// Count returns the total row count of a paginated read, or 0 when no count was set.
func (r Result[T]) Count() int {
	return r.count
}

// HasCount reports whether a count was attached.
func (r Result[T]) HasCount() bool {
	return r.hasCount
}

// Message returns the failure message, or "" on success.
func (r Result[T]) Message() string {
	if r.ok {
		return ""
	}
	return r.err.Error()
}

// Cause returns the failure error, or nil on success.
func (r Result[T]) Cause() error {
	if r.ok {
		return nil
	}
	return r.err
}

type wire[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

// MarshalJSON encodes the result as {"success", "data", "error", "count"}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	w := wire[T]{Success: r.ok}
	if r.ok {
		data := r.data
		w.Data = &data
		if r.hasCount {
			count := r.count
			w.Count = &count
		}
	} else {
		w.Error = r.Message()
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the wire shape produced by MarshalJSON.
func (r *Result[T]) UnmarshalJSON(b []byte) error {
	var w wire[T]
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	if !w.Success {
		*r = Fail[T](errors.New(w.Error))
		return nil
	}

	var data T
	if w.Data != nil {
		data = *w.Data
	}
	if w.Count != nil {
		*r = OkWithCount(data, *w.Count)
		return nil
	}
	*r = Ok(data)
	return nil
}
