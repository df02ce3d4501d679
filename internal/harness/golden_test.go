package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every scenario under testdata/scenarios, checks its
// assertions and compares the trace with the golden file of the same name.
func TestScenarios(t *testing.T) {
	paths, err := Discover("testdata/scenarios", "")
	require.NoError(t, err)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)
			require.Equal(t, name, s.Name, "scenario name must match its file name")

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRenderTrace(t *testing.T) {
	s := &Scenario{
		Name:        "render",
		Description: "Rendering covers every step shape",
		Steps: []Step{
			{Op: OpQuiz, Correct: 2, Total: 2},
			{Op: OpQuiz, Correct: 3, Total: 2},
			{Op: OpRemount},
			{Op: OpShare},
			{Op: OpShare},
		},
		Assertions: []Assertion{{Type: AssertPoints, Value: intPtr(35)}},
	}

	result, err := Run(s)
	require.NoError(t, err)

	want := strings.Join([]string{
		"scenario: render",
		"step 1 quiz correct=2 total=2: applied +20 points=20 unlocked=quiz-master",
		"  notice 1 success New Achievement! 🏆 | Quiz Master: You got a perfect score!",
		"  notice 2 success Quiz Completed! 🎉 | You scored 2/2 and earned 20 points!",
		"step 2 quiz correct=3 total=2: error INVALID_QUIZ_RESULT",
		"step 3 remount: points=20",
		"step 4 share: applied +15 points=35 unlocked=sharing",
		"step 5 share: rejected points=35",
		"final: points=35 level=1 watched=0 rated=0 persisted=35 achievements=[quiz-master,sharing]",
		"",
	}, "\n")
	assert.Equal(t, want, string(RenderTrace(s.Name, result)))
}
