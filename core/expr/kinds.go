package expr

import "fmt"

// ProcessKind identifies a transform-style action applied to the current value.
type ProcessKind int

const (
	ProcessMap     ProcessKind = iota // |>   map the success value
	ProcessTryMap                     // |>?  map with a func returning (U, error)
	ProcessAndThen                    // =>   sequentially compose on success
	ProcessThen                       // ->   run unconditionally on the whole result
	ProcessFilter                     // ?>   keep the value only if the predicate holds
	ProcessInspect                    // ??   observe the value without changing it
)

var processKinds = [...]struct{ name, marker string }{
	ProcessMap:     {"Map", "|>"},
	ProcessTryMap:  {"TryMap", "|>?"},
	ProcessAndThen: {"AndThen", "=>"},
	ProcessThen:    {"Then", "->"},
	ProcessFilter:  {"Filter", "?>"},
	ProcessInspect: {"Inspect", "??"},
}

// ProcessKinds lists every process kind in declaration order.
func ProcessKinds() []ProcessKind {
	kinds := make([]ProcessKind, len(processKinds))
	for i := range processKinds {
		kinds[i] = ProcessKind(i)
	}
	return kinds
}

// String returns the combinator name, which is also the generated function name.
func (k ProcessKind) String() string {
	if k >= 0 && int(k) < len(processKinds) {
		return processKinds[k].name
	}
	return fmt.Sprintf("ProcessKind(%d)", int(k))
}

// Marker returns the surface-syntax spelling of the action.
func (k ProcessKind) Marker() string {
	if k >= 0 && int(k) < len(processKinds) {
		return processKinds[k].marker
	}
	return ""
}

// DefaultKind identifies a fallback-style action applied when the current
// value represents failure.
type DefaultKind int

const (
	DefaultOr     DefaultKind = iota // <|  substitute an alternative result
	DefaultOrElse                    // <=  substitute a result computed from the error
	DefaultMapErr                    // !>  transform the error
)

var defaultKinds = [...]struct{ name, marker string }{
	DefaultOr:     {"Or", "<|"},
	DefaultOrElse: {"OrElse", "<="},
	DefaultMapErr: {"MapErr", "!>"},
}

// DefaultKinds lists every default kind in declaration order.
func DefaultKinds() []DefaultKind {
	kinds := make([]DefaultKind, len(defaultKinds))
	for i := range defaultKinds {
		kinds[i] = DefaultKind(i)
	}
	return kinds
}

func (k DefaultKind) String() string {
	if k >= 0 && int(k) < len(defaultKinds) {
		return defaultKinds[k].name
	}
	return fmt.Sprintf("DefaultKind(%d)", int(k))
}

// Marker returns the surface-syntax spelling of the action.
func (k DefaultKind) Marker() string {
	if k >= 0 && int(k) < len(defaultKinds) {
		return defaultKinds[k].marker
	}
	return ""
}
