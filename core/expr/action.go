package expr

import (
	"fmt"

	"github.com/opal-lang/join/core/invariant"
)

// ActionKind identifies the variant of an ActionExpr.
type ActionKind int

const (
	ActionInitial ActionKind = iota // Chain seed
	ActionProcess                   // Transform, instant or deferred
	ActionDefault                   // Fallback, instant or deferred
)

func (k ActionKind) String() string {
	switch k {
	case ActionInitial:
		return "Initial"
	case ActionProcess:
		return "Process"
	case ActionDefault:
		return "Default"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// ActionExpr is the unit of a chain: a closed union over Initial, Process and
// Default. Exactly one payload pointer is set, chosen by Kind. Build values
// with NewInitialAction, NewProcessAction and NewDefaultAction.
type ActionExpr struct {
	Kind ActionKind

	Initial *InitialExpr   // For ActionInitial
	Process *ProcessAction // For ActionProcess
	Default *DefaultAction // For ActionDefault
}

func NewInitialAction(e InitialExpr) ActionExpr {
	return ActionExpr{Kind: ActionInitial, Initial: &e}
}

func NewProcessAction(e ProcessAction) ActionExpr {
	return ActionExpr{Kind: ActionProcess, Process: &e}
}

func NewDefaultAction(e DefaultAction) ActionExpr {
	return ActionExpr{Kind: ActionDefault, Default: &e}
}

// wellFormed reports whether exactly the payload named by Kind is set. The
// zero ActionExpr is not well formed.
func (a ActionExpr) wellFormed() bool {
	set := 0
	for _, ok := range []bool{a.Initial != nil, a.Process != nil, a.Default != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return false
	}
	switch a.Kind {
	case ActionInitial:
		return a.Initial != nil
	case ActionProcess:
		return a.Process != nil
	case ActionDefault:
		return a.Default != nil
	default:
		return false
	}
}

// ExtractExpr unwraps the scheduling tag (if any) and then the action kind.
func (a ActionExpr) ExtractExpr() Leaf {
	switch a.Kind {
	case ActionInitial:
		return a.Initial.ExtractExpr()
	case ActionProcess:
		return a.Process.ExtractExpr()
	case ActionDefault:
		return a.Default.ExtractExpr()
	default:
		invariant.Unreachable("unknown action kind %d", a.Kind)
		return Leaf{}
	}
}

// ExtractInnerExpr unwraps one level less than ExtractExpr: Process and
// Default payloads keep their instant/deferred tag. The result is an
// InitialExpr, ProcessAction or DefaultAction.
func (a ActionExpr) ExtractInnerExpr() any {
	switch a.Kind {
	case ActionInitial:
		return *a.Initial
	case ActionProcess:
		return *a.Process
	case ActionDefault:
		return *a.Default
	default:
		invariant.Unreachable("unknown action kind %d", a.Kind)
		return nil
	}
}

// IsDeferred reports whether the action waits for sibling chains. Initial is
// never deferred.
func (a ActionExpr) IsDeferred() bool {
	switch a.Kind {
	case ActionInitial:
		return false
	case ActionProcess:
		return a.Process.IsDeferred()
	case ActionDefault:
		return a.Default.IsDeferred()
	default:
		invariant.Unreachable("unknown action kind %d", a.Kind)
		return false
	}
}

func (a ActionExpr) InnerExprs() []Leaf {
	return []Leaf{a.ExtractExpr()}
}

// ReplaceInnerExprs rebuilds the action around the last leaf of exprs,
// preserving kind and scheduling tag.
func (a ActionExpr) ReplaceInnerExprs(exprs []Leaf) (ActionExpr, bool) {
	switch a.Kind {
	case ActionInitial:
		e, ok := a.Initial.ReplaceInnerExprs(exprs)
		if !ok {
			return ActionExpr{}, false
		}
		return NewInitialAction(e), true
	case ActionProcess:
		e, ok := a.Process.ReplaceInnerExprs(exprs)
		if !ok {
			return ActionExpr{}, false
		}
		return NewProcessAction(e), true
	case ActionDefault:
		e, ok := a.Default.ReplaceInnerExprs(exprs)
		if !ok {
			return ActionExpr{}, false
		}
		return NewDefaultAction(e), true
	default:
		invariant.Unreachable("unknown action kind %d", a.Kind)
		return ActionExpr{}, false
	}
}

// Name returns the combinator name ("Map", "OrElse", ...) or "Initial".
func (a ActionExpr) Name() string {
	switch a.Kind {
	case ActionInitial:
		return "Initial"
	case ActionProcess:
		return a.Process.Expr.Kind.String()
	case ActionDefault:
		return a.Default.Expr.Kind.String()
	default:
		invariant.Unreachable("unknown action kind %d", a.Kind)
		return ""
	}
}

// Marker returns the surface-syntax marker, or "" for Initial.
func (a ActionExpr) Marker() string {
	switch a.Kind {
	case ActionInitial:
		return ""
	case ActionProcess:
		return a.Process.Expr.Kind.Marker()
	case ActionDefault:
		return a.Default.Expr.Kind.Marker()
	default:
		invariant.Unreachable("unknown action kind %d", a.Kind)
		return ""
	}
}

func (a ActionExpr) String() string {
	switch a.Kind {
	case ActionInitial:
		return fmt.Sprintf("Initial(%s)", a.Initial)
	case ActionProcess:
		return fmt.Sprintf("Process(%s)", a.Process)
	case ActionDefault:
		return fmt.Sprintf("Default(%s)", a.Default)
	default:
		return fmt.Sprintf("ActionKind(%d)", int(a.Kind))
	}
}
