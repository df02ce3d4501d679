package harness

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moodflicks/internal/logging"
	"github.com/roach88/moodflicks/internal/progress"
)

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func TestRun_MinimalScenario(t *testing.T) {
	s := &Scenario{
		Name:        "minimal",
		Description: "One share",
		Steps:       []Step{{Op: OpShare}},
		Assertions: []Assertion{
			{Type: AssertPoints, Value: intPtr(15)},
			{Type: AssertAchievement, Achievement: "sharing"},
			{Type: AssertNoticeCount, Count: intPtr(0)},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 1)
	assert.Equal(t, 1, result.Trace[0].Step)
	assert.True(t, result.Trace[0].Applied)
	assert.Equal(t, 15, result.Persisted)
}

func TestRun_SeedIsHydrated(t *testing.T) {
	s := &Scenario{
		Name:        "seeded",
		Description: "Seed values are visible to the first mount",
		Seed: map[string]any{
			"points":       95,
			"achievements": []any{"sharing"},
		},
		Steps: []Step{
			{Op: OpShare, Expect: &Expect{Applied: boolPtr(false)}},
			{Op: OpRandomPick, Expect: &Expect{Awarded: intPtr(5), Unlocked: []string{"random-pick"}}},
		},
		Assertions: []Assertion{
			{Type: AssertPoints, Value: intPtr(100)},
			{Type: AssertLevel, Value: intPtr(2)},
			{Type: AssertNoticeOrder, Titles: []string{"Level Up! 🎉"}},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ExpectMismatchFails(t *testing.T) {
	s := &Scenario{
		Name:        "mismatch",
		Description: "Wrong expectations are reported per step",
		Steps: []Step{
			{Op: OpMarkWatched, Movie: 1, Expect: &Expect{Awarded: intPtr(99)}},
			{Op: OpQuiz, Correct: 1, Total: 2, Expect: &Expect{Error: "INVALID_QUIZ_RESULT"}},
			{Op: OpQuiz, Correct: 5, Total: 2},
		},
		Assertions: []Assertion{{Type: AssertPoints, Value: intPtr(20)}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "step 1 (mark_watched): awarded = 10, want 99")
	assert.Contains(t, result.Errors[1], "expected error INVALID_QUIZ_RESULT, got none")
	assert.Contains(t, result.Errors[2], "step 3 (quiz): unexpected error")
	assert.Equal(t, "INVALID_QUIZ_RESULT", result.Trace[2].Err)
}

func TestRun_FailedAssertion(t *testing.T) {
	s := &Scenario{
		Name:        "wrong_points",
		Description: "Assertion failures are collected",
		Steps:       []Step{{Op: OpMarkWatched, Movie: 1}},
		Assertions: []Assertion{
			{Type: AssertPoints, Value: intPtr(11)},
			{Type: AssertNoAchievement, Achievement: "watched-5"},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Assertion failed: points")
	assert.Contains(t, result.Errors[0], "Movie Marked as Watched! ✅")
}

func TestRun_Deterministic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/explorer_and_quiz.yaml")
	require.NoError(t, err)

	a, err := Run(s)
	require.NoError(t, err)
	b, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, RenderTrace(s.Name, a), RenderTrace(s.Name, b))
	notices := a.Notices()
	require.NotEmpty(t, notices)
	assert.Equal(t, "notice-0001", notices[0].ID)
	assert.Equal(t, int64(1), notices[0].Seq)
}

func TestRun_LoggerOption(t *testing.T) {
	var buf bytes.Buffer
	s := &Scenario{
		Name:        "logged",
		Description: "Absorbed failures reach the configured logger",
		Steps: []Step{
			{Op: OpFailPersistence},
			{Op: OpShare},
		},
		Assertions: []Assertion{{Type: AssertPersistedPoints, Value: intPtr(0)}},
	}

	result, err := Run(s, WithLogger(logging.NewTestLogger(&buf)))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Contains(t, buf.String(), "persistence failure absorbed")
	assert.Equal(t, 15, result.Final.Points)
}

func TestResult_Notices(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)
	r.Trace = []TraceEvent{
		{Notices: []progress.Notice{{Title: "a"}}},
		{},
		{Notices: []progress.Notice{{Title: "b"}, {Title: "c"}}},
	}
	assert.Equal(t, []string{"a", "b", "c"}, titles(r))

	r.AddError("boom")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"boom"}, r.Errors)
}
