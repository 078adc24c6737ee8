package core

import "time"

// Message is the primary unit of point-to-point communication between agents
// in the same pocket. After creation it is owned by the recipient's inbox;
// only the Handled flag mutates afterwards.
//
// Index is the per-recipient sequence number, strictly increasing from 1.
// It survives eviction of earlier messages: indices are allocated, never
// reused.
type Message struct {
	ID        string    `json:"id"`
	Index     int       `json:"msg_index"`
	From      string    `json:"from"`       // sender session id
	FromAlias string    `json:"from_alias"` // sender alias at send time
	To        string    `json:"to"`         // recipient session id
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
	Handled   bool      `json:"handled"`
}

// NewMessage creates a message with a fresh global id and UTC timestamp.
// The per-recipient Index is assigned by the inbox on append.
func NewMessage(from, fromAlias, to, body string) Message {
	return Message{
		ID:        NewID(),
		From:      from,
		FromAlias: fromAlias,
		To:        to,
		Body:      body,
		Timestamp: time.Now().UTC(),
	}
}

// ReplyReceipt confirms that a message transitioned to handled. It quotes the
// replied-to message so the sender sees exactly what was acknowledged.
type ReplyReceipt struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Body string `json:"body"`
}
