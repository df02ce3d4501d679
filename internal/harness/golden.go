package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RenderTrace renders a run as stable text: one line per step, one
// indented line per notice, and a final ledger summary.
func RenderTrace(name string, r *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", name)

	for _, ev := range r.Trace {
		fmt.Fprintf(&b, "step %d %s", ev.Step, ev.Op)
		if ev.Args != "" {
			fmt.Fprintf(&b, " %s", ev.Args)
		}
		switch {
		case ev.Control:
			fmt.Fprintf(&b, ": points=%d", ev.Points)
		case ev.Err != "":
			fmt.Fprintf(&b, ": error %s", ev.Err)
		case ev.Applied:
			fmt.Fprintf(&b, ": applied +%d points=%d", ev.Awarded, ev.Points)
		default:
			fmt.Fprintf(&b, ": rejected points=%d", ev.Points)
		}
		if len(ev.Unlocked) > 0 {
			names := make([]string, len(ev.Unlocked))
			for i, a := range ev.Unlocked {
				names[i] = string(a)
			}
			fmt.Fprintf(&b, " unlocked=%s", strings.Join(names, ","))
		}
		b.WriteByte('\n')

		for _, n := range ev.Notices {
			fmt.Fprintf(&b, "  notice %d %s %s | %s\n", n.Seq, n.Severity, n.Title, n.Body)
		}
	}

	achievements := make([]string, len(r.Final.Achievements))
	for i, a := range r.Final.Achievements {
		achievements[i] = string(a)
	}
	fmt.Fprintf(&b, "final: points=%d level=%d watched=%d rated=%d persisted=%d achievements=[%s]\n",
		r.Final.Points, r.Final.Level, len(r.Final.Watched), len(r.Final.Rated), r.Persisted,
		strings.Join(achievements, ","))

	return []byte(b.String())
}

// RunWithGolden runs a scenario and compares its rendered trace with
// testdata/golden/<name>.golden. Regenerate with -update.
func RunWithGolden(t *testing.T, s *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(s, opts...)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, s.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, r *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, RenderTrace(name, r))
}
