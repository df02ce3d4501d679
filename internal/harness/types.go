package harness

import (
	"github.com/roach88/moodflicks/internal/progress"
)

// TraceEvent records one executed step and the notices it produced.
type TraceEvent struct {
	Step     int                    `json:"step"`
	Op       string                 `json:"op"`
	Args     string                 `json:"args,omitempty"`
	Control  bool                   `json:"control,omitempty"`
	Applied  bool                   `json:"applied"`
	Awarded  int                    `json:"awarded"`
	Unlocked []progress.Achievement `json:"unlocked,omitempty"`
	Points   int                    `json:"points"`
	Err      string                 `json:"error,omitempty"`
	Notices  []progress.Notice      `json:"notices,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace lists executed steps in order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds failure messages. Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the ledger as the last mount sees it.
	Final progress.Ledger `json:"final"`

	// Persisted is the point balance on the medium, bypassing any injected
	// failure.
	Persisted int `json:"persisted"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Notices returns every notice delivered during the run, in order.
func (r *Result) Notices() []progress.Notice {
	var out []progress.Notice
	for _, ev := range r.Trace {
		out = append(out, ev.Notices...)
	}
	return out
}
