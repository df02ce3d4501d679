package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/moodflicks/internal/progress"
)

// Scenario is a scripted sequence of progression operations with checks on
// the resulting ledger and notices.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Seed holds values written to the medium before the first mount,
	// keyed by ledger key.
	Seed map[string]any `yaml:"seed,omitempty"`

	// Steps run in order against the engine.
	Steps []Step `yaml:"steps"`

	// Assertions are checked after the last step.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one operation.
type Step struct {
	Op      string `yaml:"op"`
	Movie   int64  `yaml:"movie,omitempty"`
	Liked   bool   `yaml:"liked,omitempty"`
	Mood    string `yaml:"mood,omitempty"`
	Correct int    `yaml:"correct,omitempty"`
	Total   int    `yaml:"total,omitempty"`

	// Expect, when set, checks the outcome of this step.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect checks a step outcome. Unset fields are not checked.
type Expect struct {
	Applied  *bool    `yaml:"applied,omitempty"`
	Awarded  *int     `yaml:"awarded,omitempty"`
	Unlocked []string `yaml:"unlocked,omitempty"`

	// Error is the expected rule error code, e.g. INVALID_QUIZ_RESULT.
	Error string `yaml:"error,omitempty"`
}

// Assertion checks the final state.
type Assertion struct {
	Type        string   `yaml:"type"`
	Value       *int     `yaml:"value,omitempty"`
	Count       *int     `yaml:"count,omitempty"`
	Achievement string   `yaml:"achievement,omitempty"`
	Titles      []string `yaml:"titles,omitempty"`
}

// Step operations.
const (
	OpMarkWatched        = "mark_watched"
	OpRateMovie          = "rate_movie"
	OpShare              = "share"
	OpMoodVisit          = "mood_visit"
	OpQuiz               = "quiz"
	OpRandomPick         = "random_pick"
	OpRemount            = "remount"
	OpFailPersistence    = "fail_persistence"
	OpRestorePersistence = "restore_persistence"
)

// Assertion types.
const (
	AssertPoints          = "points"
	AssertLevel           = "level"
	AssertPersistedPoints = "persisted_points"
	AssertAchievement     = "achievement"
	AssertNoAchievement   = "no_achievement"
	AssertWatchedCount    = "watched_count"
	AssertRatedCount      = "rated_count"
	AssertNoticeCount     = "notice_count"
	AssertNoticeOrder     = "notice_order"
)

var seedKeys = map[string]bool{
	progress.KeyPoints:       true,
	progress.KeyWatched:      true,
	progress.KeyRated:        true,
	progress.KeyAchievements: true,
}

// LoadScenario reads and validates a scenario file. Unknown fields are
// rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for key := range s.Seed {
		if !seedKeys[key] {
			return fmt.Errorf("seed: unknown key %q", key)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, s *Step) error {
	switch s.Op {
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	case OpMarkWatched, OpRateMovie:
		if s.Movie == 0 {
			return fmt.Errorf("steps[%d]: movie is required for %s", index, s.Op)
		}
	case OpMoodVisit:
		if s.Mood == "" {
			return fmt.Errorf("steps[%d]: mood is required for %s", index, s.Op)
		}
	case OpShare, OpQuiz, OpRandomPick:
	case OpRemount, OpFailPersistence, OpRestorePersistence:
		if s.Expect != nil {
			return fmt.Errorf("steps[%d]: %s takes no expect clause", index, s.Op)
		}
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, s.Op)
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertPoints, AssertLevel, AssertPersistedPoints:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertAchievement, AssertNoAchievement:
		if a.Achievement == "" {
			return fmt.Errorf("assertions[%d]: achievement is required for %s", index, a.Type)
		}
	case AssertWatchedCount, AssertRatedCount, AssertNoticeCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for %s", index, a.Type)
		}
	case AssertNoticeOrder:
		if len(a.Titles) == 0 {
			return fmt.Errorf("assertions[%d]: titles list is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
