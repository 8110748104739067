// Package result is the value type join expressions are built from: a
// success value or an error, with combinators named after the chain actions
// that produce them.
package result

import "errors"

// ErrFiltered is the error of a result whose value was rejected by Filter.
var ErrFiltered = errors.New("result: value rejected by filter")

// Result holds either a value or an error. A Result with a nil Err is a
// success.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a success value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Err wraps a failure.
func Err[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Of adapts the usual (value, error) return pair.
func Of[T any](v T, err error) Result[T] {
	if err != nil {
		return Result[T]{Err: err}
	}
	return Result[T]{Value: v}
}

func (r Result[T]) IsOk() bool {
	return r.Err == nil
}

// Get unpacks the result into the usual (value, error) pair.
func (r Result[T]) Get() (T, error) {
	return r.Value, r.Err
}

// ValueOr returns the value, or def on failure.
func (r Result[T]) ValueOr(def T) T {
	if r.Err != nil {
		return def
	}
	return r.Value
}

// Map transforms the success value.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if r.Err != nil {
		return Result[U]{Err: r.Err}
	}
	return Ok(f(r.Value))
}

// TryMap transforms the success value with a fallible function.
func TryMap[T, U any](r Result[T], f func(T) (U, error)) Result[U] {
	if r.Err != nil {
		return Result[U]{Err: r.Err}
	}
	return Of(f(r.Value))
}

// AndThen sequences another fallible step after a success.
func AndThen[T, U any](r Result[T], f func(T) Result[U]) Result[U] {
	if r.Err != nil {
		return Result[U]{Err: r.Err}
	}
	return f(r.Value)
}

// Then passes the whole result to f regardless of its state.
func Then[T, U any](r Result[T], f func(Result[T]) Result[U]) Result[U] {
	return f(r)
}

// Filter turns a success into ErrFiltered when pred rejects its value.
func Filter[T any](r Result[T], pred func(T) bool) Result[T] {
	if r.Err != nil || pred(r.Value) {
		return r
	}
	return Result[T]{Err: ErrFiltered}
}

// Inspect calls f with the success value and returns r unchanged.
func Inspect[T any](r Result[T], f func(T)) Result[T] {
	if r.Err == nil {
		f(r.Value)
	}
	return r
}

// Or replaces a failure with alt.
func Or[T any](r Result[T], alt Result[T]) Result[T] {
	if r.Err != nil {
		return alt
	}
	return r
}

// OrElse replaces a failure with the result of f.
func OrElse[T any](r Result[T], f func(error) Result[T]) Result[T] {
	if r.Err != nil {
		return f(r.Err)
	}
	return r
}

// MapErr transforms the error of a failure.
func MapErr[T any](r Result[T], f func(error) error) Result[T] {
	if r.Err != nil {
		return Result[T]{Err: f(r.Err)}
	}
	return r
}
