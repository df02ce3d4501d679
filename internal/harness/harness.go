package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/roach88/moodflicks/internal/kv"
	"github.com/roach88/moodflicks/internal/logging"
	"github.com/roach88/moodflicks/internal/mood"
	"github.com/roach88/moodflicks/internal/progress"
	"github.com/roach88/moodflicks/internal/store"
	"github.com/roach88/moodflicks/internal/testutil"
)

// Harness executes a scenario against a real engine.
//
// Each run gets a fresh memory medium behind a FaultyMedium, a
// deterministic clock and sequential notice IDs, so two runs of the same
// scenario produce identical traces.
type Harness struct {
	base    *store.Memory
	medium  *testutil.FaultyMedium
	clock   *progress.Clock
	ids     *testutil.SequentialIDs
	logger  zerolog.Logger
	engine  *progress.Engine
	notices *progress.Collector
	watch   *progress.LevelWatch
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger passed to the store and engine. Runs are
// silent by default.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// Run executes a scenario and evaluates its assertions.
//
// Step failures and failed assertions are reported in the result; the
// returned error is only for scenarios that cannot be run at all.
func Run(s *Scenario, opts ...Option) (*Result, error) {
	base := store.NewMemory()
	h := &Harness{
		base:    base,
		medium:  testutil.NewFaultyMedium(base),
		clock:   progress.NewClock(),
		ids:     testutil.NewSequentialIDs("notice"),
		logger:  logging.NewTestLogger(io.Discard),
		notices: &progress.Collector{},
	}
	for _, opt := range opts {
		opt(h)
	}

	ctx := context.Background()
	if err := h.seed(ctx, s.Seed); err != nil {
		return nil, err
	}
	h.mount()

	result := NewResult()
	for i, step := range s.Steps {
		ev, err := h.apply(step)
		ev.Step = i + 1
		ev.Notices = h.flush()
		result.Trace = append(result.Trace, ev)

		checkExpect(result, ev.Step, step, ev, err)
	}

	result.Final = h.engine.Ledger()
	persisted, err := h.persistedPoints(ctx)
	if err != nil {
		return nil, err
	}
	result.Persisted = persisted

	for _, msg := range EvaluateAssertions(result, s.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// seed writes the scenario's initial values straight to the medium.
func (h *Harness) seed(ctx context.Context, seed map[string]any) error {
	keys := make([]string, 0, len(seed))
	for k := range seed {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		raw, err := json.Marshal(seed[k])
		if err != nil {
			return fmt.Errorf("seed %s: %w", k, err)
		}
		if err := h.base.Save(ctx, k, raw); err != nil {
			return fmt.Errorf("seed %s: %w", k, err)
		}
	}
	return nil
}

// mount builds a fresh store and engine over the shared medium, as a page
// load does, and takes a new level baseline.
func (h *Harness) mount() {
	st := kv.New(h.medium, kv.WithLogger(h.logger))
	h.engine = progress.New(st,
		progress.WithNotifier(h.notices),
		progress.WithClock(h.clock),
		progress.WithIDGenerator(h.ids),
		progress.WithLogger(h.logger),
	)
	h.watch = &progress.LevelWatch{}
	h.watch.Observe(h.engine.Points())
}

// apply runs one step and returns its trace event without notices.
func (h *Harness) apply(step Step) (TraceEvent, error) {
	ev := TraceEvent{Op: step.Op, Args: formatArgs(step)}

	var (
		out progress.Outcome
		err error
	)
	switch step.Op {
	case OpMarkWatched:
		out = h.engine.MarkWatched(step.Movie)
	case OpRateMovie:
		out = h.engine.RateMovie(step.Movie, step.Liked)
	case OpShare:
		out = h.engine.RecordShare()
	case OpRandomPick:
		out = h.engine.RecordRandomPick()
	case OpMoodVisit:
		out, err = h.engine.RecordMoodVisit(mood.Mood(step.Mood))
	case OpQuiz:
		out, err = h.engine.RecordQuizResult(step.Correct, step.Total)

	case OpRemount:
		h.mount()
		return h.control(ev), nil
	case OpFailPersistence:
		h.medium.FailLoads(true)
		h.medium.FailSaves(true)
		return h.control(ev), nil
	case OpRestorePersistence:
		h.medium.FailLoads(false)
		h.medium.FailSaves(false)
		return h.control(ev), nil

	default:
		return ev, fmt.Errorf("unknown op %q", step.Op)
	}

	if err != nil {
		var re *progress.RuleError
		if errors.As(err, &re) {
			ev.Err = string(re.Code)
		} else {
			ev.Err = err.Error()
		}
		ev.Points = h.engine.Points()
		return ev, err
	}

	ev.Applied = out.Applied
	ev.Awarded = out.Awarded
	ev.Unlocked = out.Unlocked
	ev.Points = out.Points

	if level, up := h.watch.Observe(out.Points); up {
		h.engine.Announce(progress.LevelUpNotice(level))
	}
	return ev, nil
}

func (h *Harness) control(ev TraceEvent) TraceEvent {
	ev.Control = true
	ev.Points = h.engine.Points()
	return ev
}

// flush delivers queued notices and returns the ones this step produced.
func (h *Harness) flush() []progress.Notice {
	h.engine.Drain()
	got := h.notices.Notices()
	h.notices.Reset()
	return got
}

func (h *Harness) persistedPoints(ctx context.Context) (int, error) {
	raw, err := h.base.Load(ctx, progress.KeyPoints)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read persisted points: %w", err)
	}
	var p int
	if err := json.Unmarshal(raw, &p); err != nil {
		return 0, fmt.Errorf("decode persisted points: %w", err)
	}
	return p, nil
}

func formatArgs(s Step) string {
	switch s.Op {
	case OpMarkWatched:
		return fmt.Sprintf("movie=%d", s.Movie)
	case OpRateMovie:
		return fmt.Sprintf("movie=%d liked=%t", s.Movie, s.Liked)
	case OpMoodVisit:
		return "mood=" + s.Mood
	case OpQuiz:
		return fmt.Sprintf("correct=%d total=%d", s.Correct, s.Total)
	default:
		return ""
	}
}

// checkExpect compares a step outcome with its expect clause. An error with
// no expected error code is always a failure.
func checkExpect(r *Result, n int, step Step, ev TraceEvent, err error) {
	exp := step.Expect
	if exp == nil {
		if err != nil {
			r.AddError(fmt.Sprintf("step %d (%s): unexpected error: %v", n, step.Op, err))
		}
		return
	}

	if exp.Error != "" {
		if err == nil {
			r.AddError(fmt.Sprintf("step %d (%s): expected error %s, got none", n, step.Op, exp.Error))
		} else if !progress.IsRuleError(err, progress.RuleErrorCode(exp.Error)) {
			r.AddError(fmt.Sprintf("step %d (%s): expected error %s, got %v", n, step.Op, exp.Error, err))
		}
		return
	}
	if err != nil {
		r.AddError(fmt.Sprintf("step %d (%s): unexpected error: %v", n, step.Op, err))
		return
	}

	if exp.Applied != nil && *exp.Applied != ev.Applied {
		r.AddError(fmt.Sprintf("step %d (%s): applied = %t, want %t", n, step.Op, ev.Applied, *exp.Applied))
	}
	if exp.Awarded != nil && *exp.Awarded != ev.Awarded {
		r.AddError(fmt.Sprintf("step %d (%s): awarded = %d, want %d", n, step.Op, ev.Awarded, *exp.Awarded))
	}
	if exp.Unlocked != nil {
		got := make([]string, len(ev.Unlocked))
		for i, a := range ev.Unlocked {
			got[i] = string(a)
		}
		if !slices.Equal(got, exp.Unlocked) {
			r.AddError(fmt.Sprintf("step %d (%s): unlocked = %v, want %v", n, step.Op, got, exp.Unlocked))
		}
	}
}
