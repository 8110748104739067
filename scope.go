package join

import (
	"fmt"
	"math"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/opal-lang/join/core/invariant"
	"github.com/opal-lang/join/result"
)

// finished marks a lane that returned or panicked. It compares greater than
// any stage, so no barrier ever waits on it.
const finished = math.MaxInt

// PanicError is the error of a lane that panicked.
type PanicError struct {
	Lane  int // 1-based position of the chain in the join
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("join: lane %d panicked: %v", e.Lane, e.Value)
}

// Unwrap exposes a panic value that is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Lane is one chain's handle on the join it runs in.
type Lane struct {
	scope *scope
	index int
}

// Index is the lane's 0-based position in the join.
func (l *Lane) Index() int {
	if l == nil {
		return -1
	}
	return l.index
}

// scope is the stage table shared by the lanes of one join. Each lane
// records the stage it is about to run; a lane may run stage k only once no
// other lane is still before k. In sequential mode ties are broken by lane
// index and only one lane runs at a time.
type scope struct {
	mu         sync.Mutex
	cond       *sync.Cond
	stages     []int
	sequential bool
}

func newScope(lanes int, sequential bool) *scope {
	invariant.InRange(lanes, 1, 5, "lanes")
	s := &scope{stages: make([]int, lanes), sequential: sequential}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// ready reports whether lane i may run its current stage. Callers hold mu.
func (s *scope) ready(i int) bool {
	k := s.stages[i]
	for j, st := range s.stages {
		if st < k || (s.sequential && st == k && j < i) {
			return false
		}
	}
	return true
}

// begin blocks until the lane may run stage 0.
func (l *Lane) begin() {
	if l == nil {
		return
	}
	s := l.scope
	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.ready(l.index) {
		s.cond.Wait()
	}
}

// enter moves the lane to stage and blocks until it may run it.
func (l *Lane) enter(stage int) {
	if l == nil {
		return
	}
	s := l.scope
	s.mu.Lock()
	defer s.mu.Unlock()

	invariant.Precondition(stage > s.stages[l.index], "lane %d entered stage %d from stage %d", l.index+1, stage, s.stages[l.index])
	s.stages[l.index] = stage
	s.cond.Broadcast()
	for !s.ready(l.index) {
		s.cond.Wait()
	}
}

// done releases every barrier the lane could be holding back.
func (l *Lane) done() {
	s := l.scope
	s.mu.Lock()
	s.stages[l.index] = finished
	s.mu.Unlock()
	s.cond.Broadcast()
}

// run executes one func per lane and waits for all of them.
func (s *scope) run(lanes ...func(*Lane)) {
	var g errgroup.Group
	for i, fn := range lanes {
		l := &Lane{scope: s, index: i}
		g.Go(func() error {
			defer l.done()
			fn(l)
			return nil
		})
	}
	_ = g.Wait()
}

// runLane evaluates p on l, turning a panic into a PanicError result.
func runLane[T any](l *Lane, p Pipe[T]) (r result.Result[T]) {
	defer func() {
		if v := recover(); v != nil {
			r = result.Err[T](&PanicError{Lane: l.index + 1, Value: v, Stack: debug.Stack()})
		}
	}()
	l.begin()
	return p(l)
}
