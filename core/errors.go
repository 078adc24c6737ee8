package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoHost indicates no host client is bound. Every public operation fails
// closed with this error instead of mutating state.
var ErrNoHost = errors.New("no host client bound")

// DuplicateAliasError reports an alias collision within one pocket.
type DuplicateAliasError struct {
	Alias  string
	RootID string
}

func (e *DuplicateAliasError) Error() string {
	return fmt.Sprintf("agent alias %q already registered in this pocket", e.Alias)
}

// LookupError reports an unknown alias or session. Its message is the
// user-facing failure text; Known lists the aliases visible to the caller.
type LookupError struct {
	Alias string
	Known []string
}

func (e *LookupError) Error() string {
	msg := fmt.Sprintf("Agent '%s' not found in current pocket.", e.Alias)
	if len(e.Known) > 0 {
		msg += " Known agents: " + strings.Join(e.Known, ", ")
	}
	return msg
}

// IsolationError reports an attempted cross-pocket access. It is rejected
// before any queue mutation.
type IsolationError struct {
	Alias      string
	CallerRoot string
	TargetRoot string
}

func (e *IsolationError) Error() string {
	return fmt.Sprintf("Agent '%s' belongs to a different pocket.", e.Alias)
}

// StaleTargetError reports a message or spawn aimed at a session that was
// already cleaned up.
type StaleTargetError struct {
	Alias     string
	SessionID string
}

func (e *StaleTargetError) Error() string {
	name := e.Alias
	if name == "" {
		name = e.SessionID
	}
	return fmt.Sprintf("Agent '%s' was already cleaned up.", name)
}

// DeliveryError wraps a failed host prompt call. The session it targeted has
// been forced back to idle by the time this error is observed.
type DeliveryError struct {
	SessionID string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("prompt delivery to session %s failed: %v", e.SessionID, e.Err)
}

// Unwrap exposes the underlying host error.
func (e *DeliveryError) Unwrap() error { return e.Err }
