// Package command implements the user command surface: parsing of
// `@alias <message>` input and the textual tool-result contract returned by
// send, reply and broadcast calls.
package command

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentswarm/core"
)

// Parse splits user input into a target alias and the message body. The bare
// form (no @alias prefix) returns an empty target; the router sends those to
// the pocket coordinator.
func Parse(input string) (target, body string) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "@") {
		return "", input
	}
	rest := strings.TrimPrefix(input, "@")
	alias, body, found := strings.Cut(rest, " ")
	if !found {
		return alias, ""
	}
	return alias, strings.TrimSpace(body)
}

// FormatAgentList renders the caller's pocket-mates with nested
// status-history lines, most recent last.
func FormatAgentList(agents []core.AgentRecord) string {
	if len(agents) == 0 {
		return "No other agents in your pocket."
	}
	var sb strings.Builder
	sb.WriteString("Agents in your pocket:")
	for _, a := range agents {
		sb.WriteString("\n- " + a.Alias)
		if a.Workspace != "" {
			sb.WriteString(" (workspace: " + a.Workspace + ")")
		}
		for _, st := range a.StatusHistory {
			fmt.Fprintf(&sb, "\n    [%s] %s", st.At.Format("15:04:05"), st.Status)
		}
	}
	return sb.String()
}

// FormatSendResult renders the tool-result contract for a point-to-point
// send: identity line, agent list, then the "sent to" confirmation.
func FormatSendResult(you string, agents []core.AgentRecord, to, body string) string {
	return fmt.Sprintf("You are: %s\n%s\nSent to %s: %q", you, FormatAgentList(agents), to, body)
}

// FormatReplyResult renders the tool-result contract for a reply, quoting
// each message that actually transitioned to handled.
func FormatReplyResult(you string, agents []core.AgentRecord, receipts []core.ReplyReceipt) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are: %s\n%s", you, FormatAgentList(agents))
	if len(receipts) == 0 {
		sb.WriteString("\nNothing to reply to: the given messages were already handled.")
		return sb.String()
	}
	for _, r := range receipts {
		fmt.Fprintf(&sb, "\nReplied to %s: %q", r.From, r.Body)
	}
	return sb.String()
}

// FormatBroadcastResult renders the tool-result contract for a broadcast,
// which updates the sender's status history instead of queuing a message.
func FormatBroadcastResult(you string, agents []core.AgentRecord, status string) string {
	return fmt.Sprintf("You are: %s\n%s\nStatus updated: %q", you, FormatAgentList(agents), status)
}

// FormatSubagentOutput renders a finished child's output for injection into
// its caller's context.
func FormatSubagentOutput(senderAlias, body string) string {
	return fmt.Sprintf("Subagent %s finished:\n%s", senderAlias, body)
}

// FormatInboxMessage renders one unread message for passive context
// injection.
func FormatInboxMessage(m core.Message) string {
	return fmt.Sprintf("Message %d from %s: %s", m.Index, m.FromAlias, m.Body)
}
