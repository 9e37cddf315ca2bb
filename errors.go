// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

import (
	"errors"
	"fmt"
	"log"
)

// Error returns the error status of the manager. It returns an empty string if
// there is no pending error.
func (m *Manager) Error() string {
	if m.error == nil {
		return ""
	}
	return m.error.Error()
}

// Errored returns true if there was an error during a computation.
func (m *Manager) Errored() bool {
	return m.error != nil
}

// seterror records err as the manager's sticky error and returns a nil Node so
// that callers can write "return m.seterror(...)". If an error is already
// pending, the new message is chained in front of it (teacher behavior): the
// first error raised during a sequence of apply calls is never silently
// dropped.
func (m *Manager) seterror(format string, a ...interface{}) Node {
	if m.error != nil {
		format = format + "; " + m.Error()
		m.error = fmt.Errorf(format, a...)
		return nil
	}
	m.error = fmt.Errorf(format, a...)
	if _DEBUG {
		log.Println(m.error)
	}
	return nil
}

// setkind wraps one of the sentinel error kinds (errOverflow, errInvalidArg,
// errForeign, errMemory) with operation-specific context and records it,
// keeping errors.Is(m.error, errOverflow) working for callers that need to
// distinguish the three error kinds from one another.
func (m *Manager) setkind(kind error, format string, a ...interface{}) Node {
	msg := fmt.Sprintf(format, a...)
	return m.seterror("%w: %s", kind, msg)
}

// IsOverflow reports whether the manager's current error is an arithmetic
// overflow (spec error kind: "Arithmetic overflow").
func (m *Manager) IsOverflow() bool {
	return errors.Is(m.error, errOverflow)
}

// IsInvalidArgument reports whether the manager's current error is an invalid
// argument error (spec error kind: "Invalid argument").
func (m *Manager) IsInvalidArgument() bool {
	return errors.Is(m.error, errInvalidArg)
}

// IsResourceExhausted reports whether the manager's current error is a
// resource-exhaustion error (spec error kind: "Resource exhaustion").
func (m *Manager) IsResourceExhausted() bool {
	return errors.Is(m.error, errMemory)
}
