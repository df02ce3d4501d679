package progress

import (
	"fmt"
	"strings"

	"github.com/roach88/moodflicks/internal/mood"
)

// Achievement is a persisted achievement code.
type Achievement string

const (
	AchievementSharing    Achievement = "sharing"
	AchievementWatched5   Achievement = "watched-5"
	AchievementCritic     Achievement = "critic"
	AchievementRandomPick Achievement = "random-pick"
	AchievementQuizMaster Achievement = "quiz-master"

	moodPrefix = "mood-"
)

// MoodAchievement returns the explorer achievement for m.
func MoodAchievement(m mood.Mood) Achievement {
	return Achievement(moodPrefix + string(m))
}

// Mood returns the mood an explorer achievement belongs to.
func (a Achievement) Mood() (mood.Mood, bool) {
	name, ok := strings.CutPrefix(string(a), moodPrefix)
	if !ok {
		return "", false
	}
	m := mood.Mood(name)
	return m, m.Valid()
}

// Title returns the display name of the achievement.
func (a Achievement) Title() string {
	switch a {
	case AchievementSharing:
		return "Social Butterfly"
	case AchievementWatched5:
		return "Movie Buff"
	case AchievementCritic:
		return "Movie Critic"
	case AchievementRandomPick:
		return "Lucky Pick"
	case AchievementQuizMaster:
		return "Quiz Master"
	}
	if m, ok := a.Mood(); ok {
		return mood.Label(m) + " Explorer"
	}
	return string(a)
}

// Description returns what earned the achievement.
func (a Achievement) Description() string {
	switch a {
	case AchievementSharing:
		return "Shared your mood picks with friends"
	case AchievementWatched5:
		return "Watched 5 movies"
	case AchievementCritic:
		return "Rated 10 movies"
	case AchievementRandomPick:
		return "Let fate pick a movie"
	case AchievementQuizMaster:
		return "Got a perfect quiz score"
	}
	if m, ok := a.Mood(); ok {
		return fmt.Sprintf("Explored %s movies", m)
	}
	return ""
}

// Known reports whether a is an achievement the rules can award.
func (a Achievement) Known() bool {
	switch a {
	case AchievementSharing, AchievementWatched5, AchievementCritic,
		AchievementRandomPick, AchievementQuizMaster:
		return true
	}
	_, ok := a.Mood()
	return ok
}

// Catalogue lists every achievement in display order.
func Catalogue() []Achievement {
	out := []Achievement{
		AchievementWatched5,
		AchievementCritic,
		AchievementQuizMaster,
		AchievementSharing,
		AchievementRandomPick,
	}
	for _, m := range mood.All() {
		out = append(out, MoodAchievement(m))
	}
	return out
}
