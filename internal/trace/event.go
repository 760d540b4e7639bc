package trace

import (
	"sync/atomic"
	"time"
)

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent higher-level/coarser events.
type Scope uint8

const (
	// ScopeRuntime represents runtime lifecycle operations (highest level).
	ScopeRuntime Scope = iota + 1
	// ScopePatch represents binding transitions: bind, patch, delete.
	ScopePatch
	// ScopeCall represents individual dispatches through slots.
	ScopeCall
	// ScopeGuard represents guard failure reports: contract violations and
	// unbound dispatch targets. Emitted at every enabled level.
	ScopeGuard
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeRuntime:
		return "runtime"
	case ScopePatch:
		return "patch"
	case ScopeCall:
		return "call"
	case ScopeGuard:
		return "guard"
	default:
		return "unknown"
	}
}

// ParseScope converts a string to a Scope.
func ParseScope(s string) (Scope, bool) {
	switch s {
	case "runtime":
		return ScopeRuntime, true
	case "patch":
		return ScopePatch, true
	case "call":
		return ScopeCall, true
	case "guard":
		return ScopeGuard, true
	default:
		return 0, false
	}
}

// Event represents a single trace event.
type Event struct {
	Time      time.Time // wall-clock timestamp
	Seq       uint64    // global sequence number (monotonic)
	Kind      Kind      // event kind
	Scope     Scope     // granularity level
	Namespace string    // owning namespace, if any
	Name      string    // binding or operation name
	Detail    string    // optional detail message
}

var seqCounter atomic.Uint64

// NextSeq returns the next global event sequence number.
func NextSeq() uint64 {
	return seqCounter.Add(1)
}
