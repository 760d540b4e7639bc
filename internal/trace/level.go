package trace

import "fmt"

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff Level = iota // no tracing
	// LevelError emits only guard failure events: contract violations,
	// range violations and unbound targets.
	LevelError
	// LevelPatch emits binding transitions (bind/patch/delete).
	LevelPatch
	// LevelCall emits per-dispatch events as well.
	LevelCall
	// LevelDebug emits everything.
	LevelDebug
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelPatch:
		return "patch"
	case LevelCall:
		return "call"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "off", "OFF":
		return LevelOff, nil
	case "error", "ERROR":
		return LevelError, nil
	case "patch", "PATCH":
		return LevelPatch, nil
	case "call", "CALL":
		return LevelCall, nil
	case "debug", "DEBUG":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|patch|call|debug)", s)
	}
}

// ShouldEmit returns true if the given scope should emit at this level.
// Guard events are failure reports, so every enabled level records them.
func (l Level) ShouldEmit(scope Scope) bool {
	if l == LevelOff {
		return false
	}
	if scope == ScopeGuard {
		return true
	}
	switch l {
	case LevelError:
		return false
	case LevelPatch:
		return scope <= ScopePatch
	case LevelCall:
		return scope <= ScopeCall
	case LevelDebug:
		return true
	}
	return false
}
