package join

import "github.com/opal-lang/join/result"

// AllN runs each pipe on its own goroutine and returns their results in
// argument order. SeqN runs the same pipes one at a time: stage 0 of every
// lane in order, then stage 1, and so on. A lane that panics yields a
// PanicError result and never blocks its siblings.

// All2 joins two chains in parallel.
func All2[A, B any](p1 Pipe[A], p2 Pipe[B]) (result.Result[A], result.Result[B]) {
	var r1 result.Result[A]
	var r2 result.Result[B]
	newScope(2, false).run(
		func(l *Lane) { r1 = runLane(l, p1) },
		func(l *Lane) { r2 = runLane(l, p2) },
	)
	return r1, r2
}

func All3[A, B, C any](p1 Pipe[A], p2 Pipe[B], p3 Pipe[C]) (result.Result[A], result.Result[B], result.Result[C]) {
	var r1 result.Result[A]
	var r2 result.Result[B]
	var r3 result.Result[C]
	newScope(3, false).run(
		func(l *Lane) { r1 = runLane(l, p1) },
		func(l *Lane) { r2 = runLane(l, p2) },
		func(l *Lane) { r3 = runLane(l, p3) },
	)
	return r1, r2, r3
}

func All4[A, B, C, D any](p1 Pipe[A], p2 Pipe[B], p3 Pipe[C], p4 Pipe[D]) (result.Result[A], result.Result[B], result.Result[C], result.Result[D]) {
	var r1 result.Result[A]
	var r2 result.Result[B]
	var r3 result.Result[C]
	var r4 result.Result[D]
	newScope(4, false).run(
		func(l *Lane) { r1 = runLane(l, p1) },
		func(l *Lane) { r2 = runLane(l, p2) },
		func(l *Lane) { r3 = runLane(l, p3) },
		func(l *Lane) { r4 = runLane(l, p4) },
	)
	return r1, r2, r3, r4
}

func All5[A, B, C, D, E any](p1 Pipe[A], p2 Pipe[B], p3 Pipe[C], p4 Pipe[D], p5 Pipe[E]) (result.Result[A], result.Result[B], result.Result[C], result.Result[D], result.Result[E]) {
	var r1 result.Result[A]
	var r2 result.Result[B]
	var r3 result.Result[C]
	var r4 result.Result[D]
	var r5 result.Result[E]
	newScope(5, false).run(
		func(l *Lane) { r1 = runLane(l, p1) },
		func(l *Lane) { r2 = runLane(l, p2) },
		func(l *Lane) { r3 = runLane(l, p3) },
		func(l *Lane) { r4 = runLane(l, p4) },
		func(l *Lane) { r5 = runLane(l, p5) },
	)
	return r1, r2, r3, r4, r5
}

// Seq2 joins two chains sequentially.
func Seq2[A, B any](p1 Pipe[A], p2 Pipe[B]) (result.Result[A], result.Result[B]) {
	var r1 result.Result[A]
	var r2 result.Result[B]
	newScope(2, true).run(
		func(l *Lane) { r1 = runLane(l, p1) },
		func(l *Lane) { r2 = runLane(l, p2) },
	)
	return r1, r2
}

func Seq3[A, B, C any](p1 Pipe[A], p2 Pipe[B], p3 Pipe[C]) (result.Result[A], result.Result[B], result.Result[C]) {
	var r1 result.Result[A]
	var r2 result.Result[B]
	var r3 result.Result[C]
	newScope(3, true).run(
		func(l *Lane) { r1 = runLane(l, p1) },
		func(l *Lane) { r2 = runLane(l, p2) },
		func(l *Lane) { r3 = runLane(l, p3) },
	)
	return r1, r2, r3
}

func Seq4[A, B, C, D any](p1 Pipe[A], p2 Pipe[B], p3 Pipe[C], p4 Pipe[D]) (result.Result[A], result.Result[B], result.Result[C], result.Result[D]) {
	var r1 result.Result[A]
	var r2 result.Result[B]
	var r3 result.Result[C]
	var r4 result.Result[D]
	newScope(4, true).run(
		func(l *Lane) { r1 = runLane(l, p1) },
		func(l *Lane) { r2 = runLane(l, p2) },
		func(l *Lane) { r3 = runLane(l, p3) },
		func(l *Lane) { r4 = runLane(l, p4) },
	)
	return r1, r2, r3, r4
}

func Seq5[A, B, C, D, E any](p1 Pipe[A], p2 Pipe[B], p3 Pipe[C], p4 Pipe[D], p5 Pipe[E]) (result.Result[A], result.Result[B], result.Result[C], result.Result[D], result.Result[E]) {
	var r1 result.Result[A]
	var r2 result.Result[B]
	var r3 result.Result[C]
	var r4 result.Result[D]
	var r5 result.Result[E]
	newScope(5, true).run(
		func(l *Lane) { r1 = runLane(l, p1) },
		func(l *Lane) { r2 = runLane(l, p2) },
		func(l *Lane) { r3 = runLane(l, p3) },
		func(l *Lane) { r4 = runLane(l, p4) },
		func(l *Lane) { r5 = runLane(l, p5) },
	)
	return r1, r2, r3, r4, r5
}
