// Package topology maintains the alias↔session mapping for every pocket: an
// isolated run rooted at one main session plus every agent it transitively
// spawns. Pockets never exchange messages; the registry is where that
// isolation is enforced.
package topology

import (
	"sync"
	"time"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/logging"
)

// Registry is the in-memory topology store. It is safe for concurrent access.
//
// Contract:
//   - Alias unique within a root session (Register fails with DuplicateAliasError)
//   - A session in the cleaned-up set can never again be resolved as a target
//   - ParallelAgents never crosses pocket boundaries
type Registry struct {
	mu      sync.RWMutex
	byAlias map[string]map[string]string // rootID -> alias -> sessionID
	agents  map[string]*core.AgentRecord // sessionID -> record
	order   map[string][]string          // rootID -> sessionIDs in spawn order
	roots   map[string]string            // sessionID -> rootID (includes roots themselves)
	cleaned map[string]struct{}
	logger  logging.Logger
}

// Options configures a Registry.
type Options struct {
	Logger logging.Logger
}

// NewRegistry constructs an empty topology registry.
func NewRegistry(optFns ...func(o *Options)) *Registry {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{
		byAlias: make(map[string]map[string]string),
		agents:  make(map[string]*core.AgentRecord),
		order:   make(map[string][]string),
		roots:   make(map[string]string),
		cleaned: make(map[string]struct{}),
		logger:  opts.Logger,
	}
}

// RegisterRoot records a pocket root session. Roots have no alias and never
// appear in agent listings; they exist so RootOf resolves for the main
// session and its direct spawns.
func (r *Registry) RegisterRoot(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roots[sessionID] = sessionID
}

// Register adds an agent under the given root. It fails with
// DuplicateAliasError if the alias is already taken within the same pocket.
func (r *Registry) Register(alias, sessionID, rootID, parentID, workspace string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	aliases, ok := r.byAlias[rootID]
	if !ok {
		aliases = make(map[string]string)
		r.byAlias[rootID] = aliases
	}
	if _, taken := aliases[alias]; taken {
		return &core.DuplicateAliasError{Alias: alias, RootID: rootID}
	}

	aliases[alias] = sessionID
	r.agents[sessionID] = &core.AgentRecord{
		Alias:     alias,
		SessionID: sessionID,
		RootID:    rootID,
		ParentID:  parentID,
		Workspace: workspace,
	}
	r.order[rootID] = append(r.order[rootID], sessionID)
	r.roots[sessionID] = rootID

	r.logger.Debug("agent registered", "alias", alias, "session_id", sessionID, "root_id", rootID)

	return nil
}

// Resolve maps an alias to a session id within the given pocket.
func (r *Registry) Resolve(rootID, alias string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byAlias[rootID][alias]
	return id, ok
}

// ResolveAnywhere reports whether the alias exists in any pocket and returns
// the root of the first pocket that carries it. Used only to distinguish
// cross-pocket targets from unknown ones in failure texts.
func (r *Registry) ResolveAnywhere(alias string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for rootID, aliases := range r.byAlias {
		if _, ok := aliases[alias]; ok {
			return rootID, true
		}
	}
	return "", false
}

// RootOf returns the pocket root for a session.
func (r *Registry) RootOf(sessionID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	root, ok := r.roots[sessionID]
	return root, ok
}

// AliasOf returns the alias of a registered agent session, or "" for roots
// and unknown sessions.
func (r *Registry) AliasOf(sessionID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rec, ok := r.agents[sessionID]; ok {
		return rec.Alias
	}
	return ""
}

// Record returns a copy of the agent record for a session.
func (r *Registry) Record(sessionID string) (core.AgentRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.agents[sessionID]
	if !ok {
		return core.AgentRecord{}, false
	}
	return copyRecord(rec), true
}

// IsCleanedUp reports whether the session is in the cleaned-up set.
func (r *Registry) IsCleanedUp(sessionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.cleaned[sessionID]
	return ok
}

// MarkCleanedUp adds the session to the cleaned-up set. The session can never
// again be a valid message or spawn target; the record is kept for listings.
func (r *Registry) MarkCleanedUp(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleaned[sessionID] = struct{}{}
}

// AppendStatus appends an entry to the agent's ordered status history.
func (r *Registry) AppendStatus(sessionID, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.agents[sessionID]
	if !ok {
		return
	}
	rec.StatusHistory = append(rec.StatusHistory, core.StatusEntry{Status: status, At: time.Now().UTC()})
}

// ParallelAgents lists the agents visible to the caller: all entries sharing
// the caller's root, in spawn order, excluding the caller itself.
func (r *Registry) ParallelAgents(sessionID string) []core.AgentRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rootID, ok := r.roots[sessionID]
	if !ok {
		return nil
	}

	var out []core.AgentRecord
	for _, id := range r.order[rootID] {
		if id == sessionID {
			continue
		}
		out = append(out, copyRecord(r.agents[id]))
	}
	return out
}

// Aliases returns every alias registered under the given pocket, spawn order.
func (r *Registry) Aliases(rootID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.order[rootID]))
	for _, id := range r.order[rootID] {
		out = append(out, r.agents[id].Alias)
	}
	return out
}

// Coordinator returns the session id of the pocket's coordinator agent, the
// first agent spawned under the root.
func (r *Registry) Coordinator(rootID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.order[rootID]
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}

func copyRecord(rec *core.AgentRecord) core.AgentRecord {
	out := *rec
	out.StatusHistory = make([]core.StatusEntry, len(rec.StatusHistory))
	copy(out.StatusHistory, rec.StatusHistory)
	return out
}
