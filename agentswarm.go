// Package agentswarm coordinates concurrently running agent sessions
// cooperating on one task. A root session spawns sibling agents into an
// isolated pocket; agents exchange point-to-point and broadcast messages and
// report results back to their caller. The package owns the hard parts of
// that choreography:
//
//   - deciding when an idle agent must be woken (resume engine)
//   - at-most-once message delivery (per-recipient inbox with handled and
//     presented tracking)
//   - active/idle race resolution during output delivery (pending-output
//     store with checkpoint and delivered guards)
//   - deterministic parent-blocks-on-child waits without a native host join
//     (spawn-wait coordinator)
//
// Most applications interact with this package by:
//  1. Creating a Swarm via New() with a bound host (see host/anthropic,
//     host/openai)
//  2. Registering a root session and spawning agents under it
//  3. Sending, replying and broadcasting through the façade operations
//
// The Swarm is the single coordinator object owning all registries; it is
// constructed per process and passed by reference, no ambient globals.
package agentswarm

import (
	"sync"

	"github.com/hupe1980/agentswarm/config"
	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/inbox"
	"github.com/hupe1980/agentswarm/logging"
	"github.com/hupe1980/agentswarm/pending"
	"github.com/hupe1980/agentswarm/resume"
	"github.com/hupe1980/agentswarm/session"
	"github.com/hupe1980/agentswarm/spawn"
	"github.com/hupe1980/agentswarm/topology"
)

// Options configures a Swarm instance.
type Options struct {
	// Host drives agent turns. Without one every public operation fails
	// closed with core.ErrNoHost.
	Host core.Host

	// MaxInbox bounds each recipient's message queue.
	MaxInbox int

	// WakeTemplate renders the wake prompt; it receives {{.Sender}}.
	WakeTemplate string

	// Logger defaults to NoOp to avoid logging dependencies.
	Logger logging.Logger
}

// FromConfig applies a loaded configuration file to the options.
func FromConfig(cfg *config.Config) func(o *Options) {
	return func(o *Options) {
		o.MaxInbox = cfg.MaxInbox
		o.WakeTemplate = cfg.WakeTemplate
		o.Logger = logging.NewSwarmLogger(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	}
}

// Swarm is the delivery façade and coordinator. It owns the topology
// registry, inbox store, session state tracker, pending-output store, resume
// engine and spawn-wait coordinator, and implements the host lifecycle hooks
// (core.Hooks). Public methods are safe for concurrent use.
type Swarm struct {
	host     core.Host
	topology *topology.Registry
	inbox    *inbox.Store
	tracker  *session.Tracker
	pending  *pending.Store
	engine   *resume.Engine
	spawns   *spawn.Coordinator
	logger   logging.Logger

	bg sync.WaitGroup
}

// New creates a Swarm with optional overrides. If the host supports lifecycle
// signals (core.HookBinder) the swarm binds itself as the hook receiver.
func New(optFns ...func(o *Options)) *Swarm {
	opts := Options{
		MaxInbox:     inbox.DefaultMaxInbox,
		WakeTemplate: resume.DefaultWakeTemplate,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Swarm{
		host:   opts.Host,
		logger: opts.Logger,
	}

	s.topology = topology.NewRegistry(func(o *topology.Options) { o.Logger = opts.Logger })
	s.inbox = inbox.NewStore(func(o *inbox.Options) { o.Max = opts.MaxInbox; o.Logger = opts.Logger })
	s.tracker = session.NewTracker()
	s.pending = pending.NewStore(func(o *pending.Options) { o.Logger = opts.Logger })
	s.spawns = spawn.NewCoordinator(func(o *spawn.Options) { o.Logger = opts.Logger })
	s.engine = resume.NewEngine(opts.Host, s.inbox, s.tracker, func(o *resume.Options) {
		o.WakeTemplate = opts.WakeTemplate
		o.Logger = opts.Logger
	})

	if binder, ok := opts.Host.(core.HookBinder); ok {
		binder.BindHooks(s)
	}

	return s
}

// RegisterRoot records a new pocket root session, initially active.
func (s *Swarm) RegisterRoot(sessionID string) {
	s.topology.RegisterRoot(sessionID)
	s.tracker.Track(sessionID)
}

// MarkCleanedUp adds a session to the cleaned-up set. It can never again be
// a valid message or spawn target.
func (s *Swarm) MarkCleanedUp(sessionID string) {
	s.topology.MarkCleanedUp(sessionID)
}

// Agents returns the agents visible to the caller: every pocket-mate sharing
// the caller's root, excluding the caller itself.
func (s *Swarm) Agents(sessionID string) []core.AgentRecord {
	return s.topology.ParallelAgents(sessionID)
}

// Status reports a session's current active/idle state.
func (s *Swarm) Status(sessionID string) (core.SessionStatus, bool) {
	return s.tracker.Status(sessionID)
}

// aliasFor renders a session's display name; pocket roots have no alias.
func (s *Swarm) aliasFor(sessionID string) string {
	if alias := s.topology.AliasOf(sessionID); alias != "" {
		return alias
	}
	return "root"
}

// supervise runs fn on a background goroutine, capturing and logging failures
// instead of dropping them.
func (s *Swarm) supervise(name string, fn func() error) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("background task panicked", "task", name, "panic", r)
			}
		}()
		if err := fn(); err != nil {
			s.logger.Error("background task failed", "task", name, "error", err)
		}
	}()
}

// Drain blocks until currently running background tasks (wake chains, spawn
// runners) finish. Mainly useful in tests and on shutdown.
func (s *Swarm) Drain() { s.bg.Wait() }
