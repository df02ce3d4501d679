package views

import (
	"context"
	"fmt"

	"github.com/roach88/moodflicks/internal/catalog"
	"github.com/roach88/moodflicks/internal/progress"
)

// Movie page limits.
const (
	CastShown    = 5
	SimilarShown = 4
)

// MoviePage shows one movie with its cast and related titles.
type MoviePage struct {
	levels
	deps    Deps
	detail  *catalog.MovieDetail
	cast    []catalog.CastMember
	similar []catalog.MovieSummary
}

// OpenMoviePage mounts the page for id. If any of the three lookups fails
// an error notice is queued and the error is returned.
func OpenMoviePage(ctx context.Context, d Deps, id int64) (*MoviePage, error) {
	p := &MoviePage{levels: levels{engine: d.Engine}, deps: d}
	p.mount()

	if err := p.load(ctx, id); err != nil {
		log := d.logger()
		log.Warn().Err(err).Int64("movie", id).Bool("retryable", catalog.IsRetryable(err)).Msg("movie page fetch failed")
		d.Engine.Announce(errorNotice("Failed to fetch movie details. Please try again."))
		return nil, err
	}
	return p, nil
}

func (p *MoviePage) load(ctx context.Context, id int64) error {
	detail, err := p.deps.Catalog.MovieDetail(ctx, id)
	if err != nil {
		return fmt.Errorf("load movie %d: %w", id, err)
	}
	credits, err := p.deps.Catalog.Credits(ctx, id)
	if err != nil {
		return fmt.Errorf("load credits %d: %w", id, err)
	}
	similar, err := p.deps.Catalog.Similar(ctx, id)
	if err != nil {
		return fmt.Errorf("load similar %d: %w", id, err)
	}

	p.detail = detail
	p.cast = credits.Top(CastShown)
	if len(similar) > SimilarShown {
		similar = similar[:SimilarShown]
	}
	p.similar = similar
	return nil
}

// Detail returns the movie record.
func (p *MoviePage) Detail() catalog.MovieDetail { return *p.detail }

// Cast returns the top-billed cast.
func (p *MoviePage) Cast() []catalog.CastMember {
	out := make([]catalog.CastMember, len(p.cast))
	copy(out, p.cast)
	return out
}

// Similar returns the related titles shown under the movie.
func (p *MoviePage) Similar() []catalog.MovieSummary {
	out := make([]catalog.MovieSummary, len(p.similar))
	copy(out, p.similar)
	return out
}

// Watched reports whether the movie is in the watched set.
func (p *MoviePage) Watched() bool { return p.deps.Engine.HasWatched(p.detail.ID) }

// Rated reports whether the movie is in the rated set.
func (p *MoviePage) Rated() bool { return p.deps.Engine.HasRated(p.detail.ID) }

// MarkWatched marks this movie as watched.
func (p *MoviePage) MarkWatched() progress.Outcome {
	out := p.deps.Engine.MarkWatched(p.detail.ID)
	p.check()
	return out
}

// Rate rates this movie.
func (p *MoviePage) Rate(liked bool) progress.Outcome {
	out := p.deps.Engine.RateMovie(p.detail.ID, liked)
	p.check()
	return out
}

// Share records a share of this movie and returns the link to offer.
func (p *MoviePage) Share() ShareLink {
	p.deps.Engine.RecordShare()
	p.check()
	return p.deps.MovieShareLink(p.detail.ID, p.detail.Title)
}

// Status returns the progress panel.
func (p *MoviePage) Status() LevelStatus {
	return statusOf(p.deps.Engine.Ledger())
}
