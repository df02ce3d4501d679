package progress

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/roach88/moodflicks/internal/kv"
	"github.com/roach88/moodflicks/internal/logging"
	"github.com/roach88/moodflicks/internal/mood"
)

// Persisted ledger keys. Each is an independent JSON value.
const (
	KeyPoints       = "points"
	KeyWatched      = "watched"
	KeyRated        = "rated"
	KeyAchievements = "achievements"
)

// Ledger is a point-in-time snapshot of the viewer's progression.
type Ledger struct {
	Points       int           `json:"points"`
	Level        int           `json:"level"`
	Watched      []int64       `json:"watched"`
	Rated        []int64       `json:"rated"`
	Achievements []Achievement `json:"achievements"`
}

// Outcome describes what an operation did.
type Outcome struct {
	// Applied is false when a guard turned the call into a no-op.
	Applied bool `json:"applied"`

	// Awarded is the total of points granted, bonuses included.
	Awarded int `json:"awarded"`

	// Unlocked lists achievements unlocked by the call.
	Unlocked []Achievement `json:"unlocked,omitempty"`

	// Points is the balance after the call.
	Points int `json:"points"`
}

// VisitState is the progress of a mood visit within one engine.
type VisitState int

const (
	VisitUnseen VisitState = iota
	VisitProcessing
	VisitRecorded
)

func (s VisitState) String() string {
	switch s {
	case VisitUnseen:
		return "unseen"
	case VisitProcessing:
		return "processing"
	case VisitRecorded:
		return "recorded"
	default:
		return "unknown"
	}
}

// Engine applies the progression rules to a ledger held in a kv.Store.
type Engine struct {
	store *kv.Store

	// mu serializes ledger transactions.
	mu sync.Mutex

	// visitMu guards visits. Never held together with mu.
	visitMu sync.Mutex
	visits  map[mood.Mood]VisitState

	notices  *noticeQueue
	notifier Notifier
	clock    Sequencer
	ids      IDGenerator
	logger   zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets where delivered notices go. Defaults to Discard.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithClock sets the sequencer used to stamp notices.
func WithClock(c Sequencer) Option {
	return func(e *Engine) { e.clock = c }
}

// WithIDGenerator sets the notice ID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine over s. A nil store gives a memory-only ledger.
func New(s *kv.Store, opts ...Option) *Engine {
	if s == nil {
		s = kv.New(nil)
	}
	e := &Engine{
		store:    s,
		visits:   make(map[mood.Mood]VisitState),
		notices:  newNoticeQueue(),
		notifier: Discard,
		clock:    NewClock(),
		ids:      UUIDv7Generator{},
		logger:   logging.Component("progress"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the backing store.
func (e *Engine) Store() *kv.Store {
	return e.store
}

// CurrentLevel derives the level from the current balance.
func (e *Engine) CurrentLevel() int {
	return LevelFor(e.Points())
}

// Points returns the current balance.
func (e *Engine) Points() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.points()
}

// Ledger returns a snapshot of the whole ledger.
func (e *Engine) Ledger() Ledger {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.points()
	return Ledger{
		Points:       p,
		Level:        LevelFor(p),
		Watched:      e.watched(),
		Rated:        e.rated(),
		Achievements: e.achievements(),
	}
}

// HasWatched reports whether id is in the watched set.
func (e *Engine) HasWatched(id int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Contains(e.watched(), id)
}

// HasRated reports whether id is in the rated set.
func (e *Engine) HasRated(id int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Contains(e.rated(), id)
}

// HasAchievement reports whether a has been unlocked.
func (e *Engine) HasAchievement(a Achievement) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Contains(e.achievements(), a)
}

// MoodState returns the visit state of m in this engine.
func (e *Engine) MoodState(m mood.Mood) VisitState {
	e.visitMu.Lock()
	defer e.visitMu.Unlock()
	return e.visits[m]
}

// Announce stamps and queues a caller-built notice, such as a level-up.
func (e *Engine) Announce(n Notice) {
	e.enqueue(n)
}

// Pending returns the number of queued, undelivered notices.
func (e *Engine) Pending() int {
	return e.notices.Len()
}

// Drain delivers every queued notice to the notifier, in order, and returns
// how many were delivered.
func (e *Engine) Drain() int {
	count := 0
	for {
		n, ok := e.notices.TryDequeue()
		if !ok {
			return count
		}
		e.deliver(n)
		count++
	}
}

// Run delivers notices as they are queued until ctx is cancelled or Close
// is called. On cancellation it drains what is already queued before
// returning ctx.Err().
//
// Run is the only deliverer while it is running; do not call Drain
// concurrently.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Debug().Msg("notice dispatcher starting")

	for {
		if n, ok := e.notices.TryDequeue(); ok {
			e.deliver(n)
			continue
		}

		select {
		case <-ctx.Done():
			drained := e.Drain()
			e.logger.Debug().Int("drained", drained).Msg("notice dispatcher stopping: context cancelled")
			return ctx.Err()

		case <-e.notices.Wait():
			if e.notices.Closed() && e.notices.Len() == 0 {
				e.logger.Debug().Msg("notice dispatcher stopping: queue closed")
				return nil
			}
		}
	}
}

// Close stops the notice queue. Operations keep mutating the ledger, but
// their notices are dropped.
func (e *Engine) Close() {
	e.notices.Close()
}

// deliver hands n to the notifier. A panicking notifier is logged and the
// notice is dropped.
func (e *Engine) deliver(n Notice) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().
				Str("notice_id", n.ID).
				Int64("seq", n.Seq).
				Str("title", n.Title).
				Interface("panic", r).
				Msg("notifier panicked")
		}
	}()
	e.notifier.Notify(n)
}

// enqueue stamps and queues notices in order.
func (e *Engine) enqueue(notices ...Notice) {
	for _, n := range notices {
		n.Seq = e.clock.Next()
		n.ID = e.ids.Generate()
		if n.Severity == "" {
			n.Severity = SeverityInfo
		}
		if !e.notices.Enqueue(n) {
			e.logger.Debug().Str("title", n.Title).Msg("notice dropped: queue closed")
		}
	}
}

// Ledger accessors. Must be called with mu held.

func (e *Engine) points() int {
	return kv.Get(e.store, KeyPoints, 0)
}

func (e *Engine) watched() []int64 {
	return kv.Get(e.store, KeyWatched, []int64{})
}

func (e *Engine) rated() []int64 {
	return kv.Get(e.store, KeyRated, []int64{})
}

func (e *Engine) achievements() []Achievement {
	return kv.Get(e.store, KeyAchievements, []Achievement{})
}
