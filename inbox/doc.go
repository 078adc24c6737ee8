// Package inbox implements the per-recipient message store. Each recipient
// owns a bounded queue of messages with strictly increasing sequence numbers,
// plus tracking for the two delivery facts that matter to the wake protocol:
// handled (explicitly replied to) and presented (already shown to the agent
// via passive context injection). Only messages that are neither justify
// waking an idle session.
package inbox
