// Package join runs sibling chains produced by the join! and join_seq!
// macros. Each chain is compiled into a lazy Pipe; All runs the pipes on
// separate goroutines and Seq runs them one at a time in a fixed order. In
// both, a Sync barrier keeps a chain's deferred actions from starting until
// every sibling has reached the same point.
//
//	a, b := join.All2(
//		join.Map(join.Sync(join.AndThen(join.Seed(load(x)), check), 1), render),
//		join.Seed(load(y)),
//	)
package join

import "github.com/opal-lang/join/result"

// Pipe is a chain that has not run yet. The lane gives it access to the
// barriers of the join it runs in; a nil lane runs it standalone.
type Pipe[T any] func(*Lane) result.Result[T]

// Run evaluates a pipe outside any join. Sync barriers are no-ops.
func Run[T any](p Pipe[T]) result.Result[T] {
	return p(nil)
}

// Seed starts a pipe from an already evaluated result.
func Seed[T any](r result.Result[T]) Pipe[T] {
	return func(*Lane) result.Result[T] {
		return r
	}
}

// Sync runs p, then blocks until every sibling lane has finished the stage
// before stage (or has finished entirely).
func Sync[T any](p Pipe[T], stage int) Pipe[T] {
	return func(l *Lane) result.Result[T] {
		r := p(l)
		l.enter(stage)
		return r
	}
}

func Map[T, U any](p Pipe[T], f func(T) U) Pipe[U] {
	return func(l *Lane) result.Result[U] {
		return result.Map(p(l), f)
	}
}

func TryMap[T, U any](p Pipe[T], f func(T) (U, error)) Pipe[U] {
	return func(l *Lane) result.Result[U] {
		return result.TryMap(p(l), f)
	}
}

func AndThen[T, U any](p Pipe[T], f func(T) result.Result[U]) Pipe[U] {
	return func(l *Lane) result.Result[U] {
		return result.AndThen(p(l), f)
	}
}

func Then[T, U any](p Pipe[T], f func(result.Result[T]) result.Result[U]) Pipe[U] {
	return func(l *Lane) result.Result[U] {
		return result.Then(p(l), f)
	}
}

func Filter[T any](p Pipe[T], pred func(T) bool) Pipe[T] {
	return func(l *Lane) result.Result[T] {
		return result.Filter(p(l), pred)
	}
}

func Inspect[T any](p Pipe[T], f func(T)) Pipe[T] {
	return func(l *Lane) result.Result[T] {
		return result.Inspect(p(l), f)
	}
}

// Or substitutes alt on failure. alt is evaluated when the pipe is built.
func Or[T any](p Pipe[T], alt result.Result[T]) Pipe[T] {
	return func(l *Lane) result.Result[T] {
		return result.Or(p(l), alt)
	}
}

func OrElse[T any](p Pipe[T], f func(error) result.Result[T]) Pipe[T] {
	return func(l *Lane) result.Result[T] {
		return result.OrElse(p(l), f)
	}
}

func MapErr[T any](p Pipe[T], f func(error) error) Pipe[T] {
	return func(l *Lane) result.Result[T] {
		return result.MapErr(p(l), f)
	}
}
