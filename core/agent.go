package core

import "time"

// SessionStatus enumerates the two states a coordinated session can be in.
// There are no other states: transitions are active→idle (turn ended with no
// pending wake) and idle→active (first step of a wake).
type SessionStatus string

const (
	// StatusActive means the host is currently driving a turn for the session.
	StatusActive SessionStatus = "active"
	// StatusIdle means the session is parked awaiting a wake.
	StatusIdle SessionStatus = "idle"
)

// StatusEntry is one line of an agent's ordered status history, most recent
// last. Broadcasts append here instead of queuing a message.
type StatusEntry struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

// AgentRecord describes a registered pocket member. Alias is unique within
// the pocket (root session); agents from different pockets are mutually
// invisible.
type AgentRecord struct {
	Alias         string        `json:"alias"`
	SessionID     string        `json:"session_id"`
	RootID        string        `json:"root_id"`
	ParentID      string        `json:"parent_id"`
	Workspace     string        `json:"workspace,omitempty"` // optional isolated workspace path
	StatusHistory []StatusEntry `json:"status_history,omitempty"`
}
