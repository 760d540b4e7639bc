package dispatch

import (
	"fmt"
	"math/big"
)

// ErrCode identifies the kind of dispatch failure.
type ErrCode int

// Stable error codes - do not change values.
const (
	ErrReturnTypeMismatch ErrCode = 2001 // RT2001: guarded result violates declared return type
	ErrReturnOutOfRange   ErrCode = 2002 // RT2002: guarded result overflows declared primitive
	ErrUnboundTarget      ErrCode = 2003 // RT2003: call site resolved a deleted binding
	ErrNotCallable        ErrCode = 2004 // RT2004: assigned value cannot be invoked
)

// String returns the code as "RT2001" format.
func (c ErrCode) String() string {
	return fmt.Sprintf("RT%d", c)
}

// DispatchError represents a failure raised by the binding/dispatch core.
// Failures are synchronous and final for the call that observed them; the
// core never retries or swallows them.
type DispatchError struct {
	Code    ErrCode
	Message string
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	return e.Message
}

// returnTypeMismatch reports a guarded result that is not of the declared
// return type.
func returnTypeMismatch(declared, expected, actual string) *DispatchError {
	return &DispatchError{
		Code:    ErrReturnTypeMismatch,
		Message: fmt.Sprintf("unexpected return type from %s, expected %s, got %s", declared, expected, actual),
	}
}

// returnOutOfRange reports a guarded numeric result that does not fit the
// declared fixed-width primitive.
func returnOutOfRange(declared, expected string, value *big.Int) *DispatchError {
	return &DispatchError{
		Code:    ErrReturnOutOfRange,
		Message: fmt.Sprintf("unexpected return type from %s, expected %s, got out-of-range int (%s)", declared, expected, value.String()),
	}
}

// unboundTarget reports a call through a binding whose name was removed from
// its owning namespace. The message is deliberately distinct from a plain
// missing-attribute failure so deleted bindings stay diagnosable.
func unboundTarget(namespace, name string) *DispatchError {
	return &DispatchError{
		Code:    ErrUnboundTarget,
		Message: fmt.Sprintf("bad name provided for class loader, '%s' doesn't exist in ('%s', '%s')", name, namespace, name),
	}
}

// notCallable reports an assignment of a non-invocable value to a slot name.
func notCallable(namespace, name string) *DispatchError {
	return &DispatchError{
		Code:    ErrNotCallable,
		Message: fmt.Sprintf("cannot bind non-callable value to '%s.%s'", namespace, name),
	}
}
