// Package core provides the foundational domain types and interfaces used by
// AgentSwarm. It defines the shared abstractions for:
//
//   - Agents (registered pocket members with alias and status history)
//   - Messages (point-to-point inbox entries with per-recipient sequencing)
//   - Prompt parts and requests (the unit of host-level injection)
//   - The Host boundary (prompt delivery plus turn lifecycle hooks)
//
// The package intentionally keeps implementation concerns (registries, the
// resume engine, spawn coordination) out of scope, exposing small types so
// the component packages stay decoupled from each other.
package core
