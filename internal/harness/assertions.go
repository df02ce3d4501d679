package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/moodflicks/internal/progress"
)

// AssertionError is returned when an assertion fails. It carries the
// delivered notice titles for context.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Titles   []string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Titles) > 0 {
		fmt.Fprintf(&buf, "\nNotices:\n")
		for i, title := range e.Titles {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, title)
		}
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages.
func EvaluateAssertions(r *Result, assertions []Assertion) []string {
	var failures []string
	for _, a := range assertions {
		if err := evaluate(r, a); err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func evaluate(r *Result, a Assertion) error {
	switch a.Type {
	case AssertPoints:
		return compareInt(r, a.Type, *a.Value, r.Final.Points)
	case AssertLevel:
		return compareInt(r, a.Type, *a.Value, r.Final.Level)
	case AssertPersistedPoints:
		return compareInt(r, a.Type, *a.Value, r.Persisted)
	case AssertWatchedCount:
		return compareInt(r, a.Type, *a.Count, len(r.Final.Watched))
	case AssertRatedCount:
		return compareInt(r, a.Type, *a.Count, len(r.Final.Rated))
	case AssertNoticeCount:
		return compareInt(r, a.Type, *a.Count, len(r.Notices()))

	case AssertAchievement, AssertNoAchievement:
		has := slices.Contains(r.Final.Achievements, progress.Achievement(a.Achievement))
		want := a.Type == AssertAchievement
		if has != want {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s unlocked = %t", a.Achievement, want),
				Actual:   fmt.Sprintf("unlocked: %v", r.Final.Achievements),
			}
		}
		return nil

	case AssertNoticeOrder:
		return assertNoticeOrder(r, a.Titles)

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func compareInt(r *Result, typ string, want, got int) error {
	if want == got {
		return nil
	}
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("%d", want),
		Actual:   fmt.Sprintf("%d", got),
		Titles:   titles(r),
	}
}

// assertNoticeOrder checks that want appears in the delivered titles in
// order. Other notices may come in between.
func assertNoticeOrder(r *Result, want []string) error {
	got := titles(r)
	next := 0
	for _, title := range got {
		if next < len(want) && title == want[next] {
			next++
		}
	}
	if next == len(want) {
		return nil
	}
	return &AssertionError{
		Type:     AssertNoticeOrder,
		Expected: fmt.Sprintf("titles in order: %v", want),
		Actual:   fmt.Sprintf("missing %q after %d matched", want[next], next),
		Titles:   got,
	}
}

func titles(r *Result) []string {
	notices := r.Notices()
	out := make([]string, len(notices))
	for i, n := range notices {
		out[i] = n.Title
	}
	return out
}
