package catalog

import (
	"context"

	"github.com/roach88/moodflicks/internal/mood"
)

// Static is an in-memory catalogue for tests and offline use.
type Static struct {
	ByMood  map[mood.Mood][]MovieSummary
	Details map[int64]MovieDetail
	Cast    map[int64]Credits
	Related map[int64][]MovieSummary

	// Err, when set, fails every call.
	Err error
}

var _ Catalog = (*Static)(nil)

func (s *Static) MoviesByMood(_ context.Context, m mood.Mood) ([]MovieSummary, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return clone(s.ByMood[m]), nil
}

func (s *Static) MovieDetail(_ context.Context, id int64) (*MovieDetail, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	d, ok := s.Details[id]
	if !ok {
		return nil, &FetchError{Op: "detail", Status: 404, Err: ErrNotFound}
	}
	return &d, nil
}

func (s *Static) Similar(_ context.Context, id int64) ([]MovieSummary, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return clone(s.Related[id]), nil
}

func (s *Static) Credits(_ context.Context, id int64) (*Credits, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	c := s.Cast[id]
	return &c, nil
}

func clone(in []MovieSummary) []MovieSummary {
	out := make([]MovieSummary, len(in))
	copy(out, in)
	return out
}
