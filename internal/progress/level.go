package progress

import (
	"fmt"
	"sync"
)

// PointsPerLevel is the width of one level.
const PointsPerLevel = 100

// LevelFor derives the level from a point balance: floor(points/100)+1.
func LevelFor(points int) int {
	if points < 0 {
		points = 0
	}
	return points/PointsPerLevel + 1
}

// LevelProgress returns the points earned within the current level (0-99).
func LevelProgress(points int) int {
	if points < 0 {
		return 0
	}
	return points % PointsPerLevel
}

// PointsToNextLevel returns how many points remain until the next level.
func PointsToNextLevel(points int) int {
	return PointsPerLevel - LevelProgress(points)
}

// LevelWatch remembers the last level a caller saw so it can announce a
// level-up exactly once per transition.
//
// The first observation only sets the baseline: a balance loaded at startup
// is not a level-up.
type LevelWatch struct {
	mu     sync.Mutex
	last   int
	primed bool
}

// Observe records the level for points and reports whether it rose since
// the previous observation.
func (w *LevelWatch) Observe(points int) (level int, up bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	level = LevelFor(points)
	if !w.primed {
		w.primed = true
		w.last = level
		return level, false
	}
	up = level > w.last
	if level > w.last {
		w.last = level
	}
	return level, up
}

// Last returns the last observed level, or 0 before the first observation.
func (w *LevelWatch) Last() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// LevelUpNotice builds the celebration shown when the viewer reaches level.
func LevelUpNotice(level int) Notice {
	return Notice{
		Title:    titleLevelUp,
		Body:     fmt.Sprintf("You've reached level %d! Keep exploring to unlock more features.", level),
		Severity: SeveritySuccess,
	}
}
