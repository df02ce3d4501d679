package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	content := `
name: test_scenario
description: "Test scenario for validation"
seed:
  points: 40
  watched: [1, 2]
steps:
  - op: mark_watched
    movie: 3
    expect:
      applied: true
      awarded: 10
  - op: quiz
    correct: 2
    total: 3
assertions:
  - type: points
    value: 70
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", s.Name)
	assert.Len(t, s.Steps, 2)
	assert.Equal(t, int64(3), s.Steps[0].Movie)
	require.NotNil(t, s.Steps[0].Expect)
	assert.True(t, *s.Steps[0].Expect.Applied)
	assert.Equal(t, 10, *s.Steps[0].Expect.Awarded)
	assert.Nil(t, s.Steps[1].Expect)
	assert.Equal(t, 40, s.Seed["points"])
	require.Len(t, s.Assertions, 1)
	assert.Equal(t, 70, *s.Assertions[0].Value)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read scenario file")
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: typo
description: "misspelled key"
steps:
  - op: share
assertion:
  - type: points
    value: 15
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse YAML")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nsteps: [{op: share}]\nassertions: [{type: points, value: 1}]",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nsteps: [{op: share}]\nassertions: [{type: points, value: 1}]",
			wantErr: "description is required",
		},
		{
			name:    "no steps",
			yaml:    "name: n\ndescription: d\nassertions: [{type: points, value: 1}]",
			wantErr: "steps list is required",
		},
		{
			name:    "no assertions",
			yaml:    "name: n\ndescription: d\nsteps: [{op: share}]",
			wantErr: "assertions list is required",
		},
		{
			name:    "unknown op",
			yaml:    "name: n\ndescription: d\nsteps: [{op: dance}]\nassertions: [{type: points, value: 1}]",
			wantErr: `unknown op "dance"`,
		},
		{
			name:    "watch without movie",
			yaml:    "name: n\ndescription: d\nsteps: [{op: mark_watched}]\nassertions: [{type: points, value: 1}]",
			wantErr: "movie is required",
		},
		{
			name:    "visit without mood",
			yaml:    "name: n\ndescription: d\nsteps: [{op: mood_visit}]\nassertions: [{type: points, value: 1}]",
			wantErr: "mood is required",
		},
		{
			name:    "control step with expect",
			yaml:    "name: n\ndescription: d\nsteps: [{op: remount, expect: {applied: true}}]\nassertions: [{type: points, value: 1}]",
			wantErr: "takes no expect clause",
		},
		{
			name:    "unknown seed key",
			yaml:    "name: n\ndescription: d\nseed: {balance: 3}\nsteps: [{op: share}]\nassertions: [{type: points, value: 1}]",
			wantErr: `unknown key "balance"`,
		},
		{
			name:    "points without value",
			yaml:    "name: n\ndescription: d\nsteps: [{op: share}]\nassertions: [{type: points}]",
			wantErr: "value is required",
		},
		{
			name:    "achievement without code",
			yaml:    "name: n\ndescription: d\nsteps: [{op: share}]\nassertions: [{type: achievement}]",
			wantErr: "achievement is required",
		},
		{
			name:    "negative count",
			yaml:    "name: n\ndescription: d\nsteps: [{op: share}]\nassertions: [{type: notice_count, count: -1}]",
			wantErr: "non-negative count",
		},
		{
			name:    "order without titles",
			yaml:    "name: n\ndescription: d\nsteps: [{op: share}]\nassertions: [{type: notice_order}]",
			wantErr: "titles list is required",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: n\ndescription: d\nsteps: [{op: share}]\nassertions: [{type: vibes}]",
			wantErr: `unknown assertion type "vibes"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTestdataScenariosLoad(t *testing.T) {
	paths, err := Discover("testdata/scenarios", "")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, p := range paths {
		_, err := LoadScenario(p)
		assert.NoError(t, err, p)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "c.txt", "share_once.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o755))

	paths, err := Discover(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "share_once.yaml"),
	}, paths)

	paths, err = Discover(dir, "share")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "share_once.yaml")}, paths)

	_, err = Discover(filepath.Join(dir, "missing"), "")
	require.Error(t, err)

	_, err = Discover(filepath.Join(dir, "b.yaml"), "")
	require.Error(t, err)
}
