package views

import (
	"context"
	"fmt"

	"github.com/roach88/moodflicks/internal/catalog"
	"github.com/roach88/moodflicks/internal/mood"
	"github.com/roach88/moodflicks/internal/progress"
)

// RouletteMinimum is the fewest postered movies the roulette will spin.
const RouletteMinimum = 5

// MoodPage lists movies for one mood and hosts the mood quiz, the random
// pick and the roulette.
type MoodPage struct {
	levels
	deps   Deps
	rng    *picker
	mood   mood.Mood
	movies []catalog.MovieSummary
	err    error
}

// OpenMoodPage mounts the page for m. The mood visit is recorded before the
// catalogue is queried, so a failed fetch still counts as a visit. A fetch
// failure is queued as an error notice and kept in Err; the page stays
// usable with an empty list.
func OpenMoodPage(ctx context.Context, d Deps, m mood.Mood) (*MoodPage, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("open mood page: unknown mood %q", m)
	}
	p := &MoodPage{
		levels: levels{engine: d.Engine},
		deps:   d,
		rng:    &picker{r: d.Rand},
		mood:   m,
	}
	p.mount()

	if _, err := d.Engine.RecordMoodVisit(m); err != nil {
		return nil, err
	}
	p.check()

	movies, err := d.Catalog.MoviesByMood(ctx, m)
	if err != nil {
		log := d.logger()
		log.Warn().Err(err).Str("mood", string(m)).Bool("retryable", catalog.IsRetryable(err)).Msg("mood page fetch failed")
		d.Engine.Announce(errorNotice("Failed to fetch movies. Please try again."))
		p.err = err
		return p, nil
	}
	p.movies = movies
	return p, nil
}

// Mood returns the page mood.
func (p *MoodPage) Mood() mood.Mood { return p.mood }

// Movies returns a copy of the listed movies.
func (p *MoodPage) Movies() []catalog.MovieSummary {
	out := make([]catalog.MovieSummary, len(p.movies))
	copy(out, p.movies)
	return out
}

// Err returns the catalogue error from mount, if any.
func (p *MoodPage) Err() error { return p.err }

// Collections returns the curated collections shown for the mood.
func (p *MoodPage) Collections() []mood.Collection {
	return mood.Collections(p.mood)
}

// MarkWatched marks a listed movie as watched.
func (p *MoodPage) MarkWatched(id int64) progress.Outcome {
	out := p.deps.Engine.MarkWatched(id)
	p.check()
	return out
}

// Share records a share of the mood list and returns the link to offer.
func (p *MoodPage) Share() ShareLink {
	p.deps.Engine.RecordShare()
	p.check()
	return p.deps.MoodShareLink(p.mood, p.deps.Engine.Ledger())
}

// RandomPick chooses one listed movie at random. It reports false when the
// list is empty.
func (p *MoodPage) RandomPick() (catalog.MovieSummary, bool) {
	if len(p.movies) == 0 {
		return catalog.MovieSummary{}, false
	}
	m := p.movies[p.rng.IntN(len(p.movies))]
	p.deps.Engine.RecordRandomPick()
	p.check()
	return m, true
}

// CompleteQuiz records a finished mood quiz.
func (p *MoodPage) CompleteQuiz(correct, total int) (progress.Outcome, error) {
	out, err := p.deps.Engine.RecordQuizResult(correct, total)
	if err != nil {
		return out, err
	}
	p.check()
	return out, nil
}

// Spin runs the movie roulette over the listed movies that have a poster.
// Fewer than RouletteMinimum candidates queues an error notice and reports
// false. The roulette awards nothing.
func (p *MoodPage) Spin() (catalog.MovieSummary, bool) {
	var candidates []catalog.MovieSummary
	for _, m := range p.movies {
		if m.PosterPath != "" {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) < RouletteMinimum {
		p.deps.Engine.Announce(progress.Notice{
			Title:    "Not enough movies",
			Body:     "We need more movies to spin the roulette.",
			Severity: progress.SeverityError,
		})
		return catalog.MovieSummary{}, false
	}
	m := candidates[p.rng.IntN(len(candidates))]
	p.deps.Engine.Announce(progress.Notice{
		Title:    "Movie Selected!",
		Body:     "The roulette has chosen: " + m.Title,
		Severity: progress.SeveritySuccess,
	})
	return m, true
}

// Status returns the progress panel.
func (p *MoodPage) Status() LevelStatus {
	return statusOf(p.deps.Engine.Ledger())
}
