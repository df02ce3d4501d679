// Package catalog fetches movies from The Movie Database (TMDB).
//
// The progression rules only need movie IDs; the catalogue supplies the
// lists and details that the mood and movie pages show around them.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sony/gobreaker/v2"

	"github.com/roach88/moodflicks/internal/mood"
)

// Catalog is the movie source consumed by the pages.
type Catalog interface {
	MoviesByMood(ctx context.Context, m mood.Mood) ([]MovieSummary, error)
	MovieDetail(ctx context.Context, id int64) (*MovieDetail, error)
	Similar(ctx context.Context, id int64) ([]MovieSummary, error)
	Credits(ctx context.Context, id int64) (*Credits, error)
}

// MovieSummary is a list entry.
type MovieSummary struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

// Year returns the release year, or "" when unknown.
func (m MovieSummary) Year() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	return m.ReleaseDate[:4]
}

// Genre is a named catalogue genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetail is the full record for one movie.
type MovieDetail struct {
	MovieSummary
	Runtime int     `json:"runtime"`
	Genres  []Genre `json:"genres"`
	Tagline string  `json:"tagline"`
}

// FormatRuntime renders minutes as "2h 15m".
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// GenreNames returns the genre names joined with ", ".
func (d *MovieDetail) GenreNames() string {
	names := make([]string, len(d.Genres))
	for i, g := range d.Genres {
		names[i] = g.Name
	}
	return strings.Join(names, ", ")
}

// CastMember is one credited actor.
type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// Credits is the cast list of a movie.
type Credits struct {
	Cast []CastMember `json:"cast"`
}

// Top returns at most n cast members in billing order.
func (c *Credits) Top(n int) []CastMember {
	if c == nil {
		return nil
	}
	if n > len(c.Cast) {
		n = len(c.Cast)
	}
	return c.Cast[:n]
}

// ErrNotFound is returned when the catalogue has no such movie.
var ErrNotFound = errors.New("catalog: not found")

// FetchError is a failed catalogue request.
type FetchError struct {
	// Op names the request, e.g. "discover" or "detail".
	Op string

	// Status is the HTTP status, or 0 when no response arrived.
	Status int

	Err error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports whether trying again later may succeed.
func (e *FetchError) Retryable() bool {
	switch {
	case errors.Is(e.Err, ErrNotFound):
		return false
	case errors.Is(e.Err, gobreaker.ErrOpenState), errors.Is(e.Err, gobreaker.ErrTooManyRequests):
		return true
	case e.Status == 0:
		return true
	case e.Status == 429 || e.Status >= 500:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether err is a retryable FetchError.
func IsRetryable(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Retryable()
	}
	return false
}
