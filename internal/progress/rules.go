package progress

import (
	"fmt"
	"slices"

	"github.com/roach88/moodflicks/internal/kv"
	"github.com/roach88/moodflicks/internal/metrics"
	"github.com/roach88/moodflicks/internal/mood"
)

// Point values.
const (
	PointsWatch      = 10
	PointsRate       = 5
	PointsShare      = 15
	PointsMoodVisit  = 25
	PointsQuizAnswer = 10
	PointsRandomPick = 5

	BonusWatched5 = 50
	BonusCritic   = 30
)

// Milestones. Achievements unlock when the set reaches exactly this size.
const (
	WatchedMilestone = 5
	RatedMilestone   = 10
)

// MarkWatched adds id to the watched set and awards watch points. A movie
// already watched is a no-op with a warning notice. Reaching exactly five
// watched movies unlocks Movie Buff and its bonus in the same transaction.
func (e *Engine) MarkWatched(id int64) Outcome {
	const op = "mark_watched"

	e.mu.Lock()
	defer e.mu.Unlock()

	if slices.Contains(e.watched(), id) {
		metrics.RecordGuardRejection(op)
		e.enqueue(Notice{Title: titleAlreadyWatched, Body: bodyAlreadyWatched, Severity: SeverityWarning})
		return Outcome{Points: e.points()}
	}

	watched := kv.Update(e.store, KeyWatched, []int64{}, func(prev []int64) []int64 {
		return append(prev, id)
	})

	out := Outcome{Applied: true}
	e.award(op, "watch", PointsWatch, &out)
	notices := []Notice{{Title: titleWatched, Body: bodyWatched, Severity: SeveritySuccess}}

	if len(watched) == WatchedMilestone && e.unlock(AchievementWatched5, &out) {
		e.award(op, "bonus", BonusWatched5, &out)
		notices = append(notices, Notice{Title: titleAchievement, Body: bodyMovieBuff, Severity: SeveritySuccess})
	}

	out.Points = e.points()
	e.enqueue(notices...)
	return out
}

// RateMovie adds id to the rated set and awards rating points. The liked
// judgment only shapes the notice; it is not stored. Reaching exactly ten
// rated movies unlocks Movie Critic and its bonus.
func (e *Engine) RateMovie(id int64, liked bool) Outcome {
	const op = "rate_movie"

	e.mu.Lock()
	defer e.mu.Unlock()

	if slices.Contains(e.rated(), id) {
		metrics.RecordGuardRejection(op)
		e.enqueue(Notice{Title: titleAlreadyRated, Body: bodyAlreadyRated, Severity: SeverityWarning})
		return Outcome{Points: e.points()}
	}

	rated := kv.Update(e.store, KeyRated, []int64{}, func(prev []int64) []int64 {
		return append(prev, id)
	})

	out := Outcome{Applied: true}
	e.award(op, "rate", PointsRate, &out)

	title := titleDisliked
	if liked {
		title = titleLiked
	}
	notices := []Notice{{Title: title, Body: bodyRated, Severity: SeveritySuccess}}

	if len(rated) == RatedMilestone && e.unlock(AchievementCritic, &out) {
		e.award(op, "bonus", BonusCritic, &out)
		notices = append(notices, Notice{Title: titleAchievement, Body: bodyMovieCritic, Severity: SeveritySuccess})
	}

	out.Points = e.points()
	e.enqueue(notices...)
	return out
}

// RecordShare rewards the first share. Later shares are silent no-ops.
func (e *Engine) RecordShare() Outcome {
	return e.once("share", AchievementSharing, PointsShare)
}

// RecordRandomPick rewards the first random pick. Later picks are silent
// no-ops.
func (e *Engine) RecordRandomPick() Outcome {
	return e.once("random_pick", AchievementRandomPick, PointsRandomPick)
}

// RecordMoodVisit unlocks the explorer achievement for m once per profile.
//
// Only the first visit in this engine leaves the unseen state; concurrent
// or repeated visits find the mood processing or recorded and do nothing.
// A mood already unlocked in the persisted set is marked recorded without a
// notice.
func (e *Engine) RecordMoodVisit(m mood.Mood) (Outcome, error) {
	const op = "mood_visit"

	if !m.Valid() {
		return Outcome{}, newRuleError(ErrCodeInvalidMood, op, "unknown mood %q", m)
	}

	e.visitMu.Lock()
	if e.visits[m] != VisitUnseen {
		e.visitMu.Unlock()
		metrics.RecordGuardRejection(op)
		return Outcome{Points: e.Points()}, nil
	}
	e.visits[m] = VisitProcessing
	e.visitMu.Unlock()

	out := e.recordMood(op, m)

	e.visitMu.Lock()
	e.visits[m] = VisitRecorded
	e.visitMu.Unlock()

	return out, nil
}

func (e *Engine) recordMood(op string, m mood.Mood) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out Outcome
	if !e.unlock(MoodAchievement(m), &out) {
		out.Points = e.points()
		return out
	}
	out.Applied = true
	e.award(op, "mood", PointsMoodVisit, &out)
	out.Points = e.points()

	e.enqueue(Notice{
		Title:    titleAchievement,
		Body:     fmt.Sprintf("You've unlocked the %s badge!", MoodAchievement(m).Title()),
		Severity: SeveritySuccess,
	})
	return out
}

// RecordQuizResult awards ten points per correct answer on every attempt.
// The first perfect score also unlocks Quiz Master, announced before the
// completion notice.
func (e *Engine) RecordQuizResult(correct, total int) (Outcome, error) {
	const op = "quiz"

	switch {
	case total <= 0:
		return Outcome{}, newRuleError(ErrCodeInvalidQuizResult, op, "quiz must have at least one question, got %d", total)
	case correct < 0:
		return Outcome{}, newRuleError(ErrCodeInvalidQuizResult, op, "correct answers cannot be negative, got %d", correct)
	case correct > total:
		return Outcome{}, newRuleError(ErrCodeInvalidQuizResult, op, "correct answers %d exceed questions %d", correct, total)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	out := Outcome{Applied: true}
	var notices []Notice

	if correct == total && e.unlock(AchievementQuizMaster, &out) {
		notices = append(notices, Notice{Title: titleAchievement, Body: bodyQuizMaster, Severity: SeveritySuccess})
	}

	earned := correct * PointsQuizAnswer
	if earned > 0 {
		e.award(op, "quiz", earned, &out)
	}
	notices = append(notices, Notice{
		Title:    titleQuizCompleted,
		Body:     fmt.Sprintf("You scored %d/%d and earned %d points!", correct, total, earned),
		Severity: SeveritySuccess,
	})

	out.Points = e.points()
	e.enqueue(notices...)
	return out, nil
}

// once unlocks a and awards points the first time; afterwards it is a
// silent no-op.
func (e *Engine) once(op string, a Achievement, points int) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out Outcome
	if !e.unlock(a, &out) {
		metrics.RecordGuardRejection(op)
		out.Points = e.points()
		return out
	}
	out.Applied = true
	e.award(op, op, points, &out)
	out.Points = e.points()
	return out
}

// unlock appends a to the achievement set unless present (must be called
// with mu held).
func (e *Engine) unlock(a Achievement, out *Outcome) bool {
	if slices.Contains(e.achievements(), a) {
		return false
	}
	kv.Update(e.store, KeyAchievements, []Achievement{}, func(prev []Achievement) []Achievement {
		return append(prev, a)
	})
	metrics.RecordAchievement(string(a))
	out.Unlocked = append(out.Unlocked, a)
	e.logger.Info().Str("achievement", string(a)).Msg("achievement unlocked")
	return true
}

// award adds points to the balance (must be called with mu held).
func (e *Engine) award(op, reason string, amount int, out *Outcome) {
	if err := e.addPoints(op, reason, amount); err != nil {
		e.logger.Error().Err(err).Msg("award rejected")
		return
	}
	out.Awarded += amount
}

// addPoints is the only writer of the balance (must be called with mu held).
func (e *Engine) addPoints(op, reason string, amount int) error {
	if amount <= 0 {
		return newRuleError(ErrCodeInvalidAmount, op, "points must be positive, got %d", amount)
	}
	kv.Update(e.store, KeyPoints, 0, func(p int) int { return p + amount })
	metrics.RecordPoints(reason, amount)
	return nil
}
