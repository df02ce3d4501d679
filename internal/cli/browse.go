package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/moodflicks/internal/catalog"
	"github.com/roach88/moodflicks/internal/mood"
	"github.com/roach88/moodflicks/internal/views"
)

// MoodInfo describes one selectable mood.
type MoodInfo struct {
	Mood        mood.Mood         `json:"mood"`
	Label       string            `json:"label"`
	Collections []mood.Collection `json:"collections"`
}

// NewMoodsCommand creates the moods command.
func NewMoodsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "moods",
		Short: "List the selectable moods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				infos []MoodInfo
				b     strings.Builder
			)
			for i, m := range mood.All() {
				info := MoodInfo{Mood: m, Label: mood.Label(m), Collections: mood.Collections(m)}
				infos = append(infos, info)
				if i > 0 {
					b.WriteString("\n")
				}
				fmt.Fprintf(&b, "%-10s %s", m, info.Label)
			}
			return rootOpts.formatter(cmd).Result(infos, b.String(), nil)
		},
	}
}

// NewSurpriseCommand creates the surprise command.
func NewSurpriseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "surprise",
		Short: "Pick a random mood",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(s *session, f *OutputFormatter) error {
				m := views.OpenHome(s.deps).RandomMood()
				info := MoodInfo{Mood: m, Label: mood.Label(m), Collections: mood.Collections(m)}
				return f.Result(info, info.Label, s.flush())
			})
		},
	}
}

func parseMood(arg string) (mood.Mood, error) {
	m, err := mood.Parse(arg)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "invalid mood", err)
	}
	return m, nil
}

// openMood mounts the mood page and turns a catalogue failure into a
// CATALOG_UNAVAILABLE result.
func openMood(cmd *cobra.Command, s *session, f *OutputFormatter, m mood.Mood) (*views.MoodPage, error) {
	ctx, cancel := s.context(cmd)
	defer cancel()

	page, err := views.OpenMoodPage(ctx, s.deps, m)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "open mood page", err)
	}
	if page.Err() != nil {
		return nil, f.Failure(ExitFailure, "CATALOG_UNAVAILABLE", page.Err().Error(), s.flush())
	}
	return page, nil
}

// MoodPageView is the mood page content.
type MoodPageView struct {
	Mood        mood.Mood              `json:"mood"`
	Label       string                 `json:"label"`
	Movies      []catalog.MovieSummary `json:"movies"`
	Collections []mood.Collection      `json:"collections"`
	Status      views.LevelStatus      `json:"status"`
}

// NewMoodCommand creates the mood command.
func NewMoodCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mood <mood>",
		Short: "List movies for a mood",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMood(args[0])
			if err != nil {
				return err
			}
			return rootOpts.withSession(cmd, func(s *session, f *OutputFormatter) error {
				page, err := openMood(cmd, s, f, m)
				if err != nil {
					return err
				}

				v := MoodPageView{
					Mood:        m,
					Label:       mood.Label(m),
					Movies:      page.Movies(),
					Collections: page.Collections(),
					Status:      page.Status(),
				}
				var b strings.Builder
				fmt.Fprintf(&b, "%s movies", v.Label)
				for _, mv := range v.Movies {
					fmt.Fprintf(&b, "\n  %s", movieLine(mv))
				}
				if len(v.Collections) > 0 {
					b.WriteString("\nCollections:")
					for _, c := range v.Collections {
						fmt.Fprintf(&b, "\n  %s: %s", c.Title, c.Description)
					}
				}
				return f.Result(v, b.String(), s.flush())
			})
		},
	}
}

func movieLine(m catalog.MovieSummary) string {
	line := fmt.Sprintf("[%d] %s", m.ID, m.Title)
	if y := m.Year(); y != "" {
		line += " (" + y + ")"
	}
	if m.VoteAverage > 0 {
		line += fmt.Sprintf(" %.1f", m.VoteAverage)
	}
	return line
}

// MoviePageView is the movie page content.
type MoviePageView struct {
	Movie   catalog.MovieDetail    `json:"movie"`
	Poster  string                 `json:"poster,omitempty"`
	Cast    []catalog.CastMember   `json:"cast"`
	Similar []catalog.MovieSummary `json:"similar"`
	Watched bool                   `json:"watched"`
	Rated   bool                   `json:"rated"`
}

// NewMovieCommand creates the movie command.
func NewMovieCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "movie <movie-id>",
		Short: "Show one movie with its cast and similar titles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return rootOpts.withSession(cmd, func(s *session, f *OutputFormatter) error {
				ctx, cancel := s.context(cmd)
				defer cancel()

				page, err := views.OpenMoviePage(ctx, s.deps, id)
				if err != nil {
					return f.Failure(ExitFailure, "CATALOG_UNAVAILABLE", err.Error(), s.flush())
				}

				d := page.Detail()
				v := MoviePageView{
					Movie:   d,
					Poster:  catalog.PosterURL(s.cfg.Catalog.ImageBaseURL, d.PosterPath, "w500"),
					Cast:    page.Cast(),
					Similar: page.Similar(),
					Watched: page.Watched(),
					Rated:   page.Rated(),
				}

				var b strings.Builder
				b.WriteString(movieLine(d.MovieSummary))
				if d.Tagline != "" {
					fmt.Fprintf(&b, "\n%s", d.Tagline)
				}
				if rt := catalog.FormatRuntime(d.Runtime); rt != "" {
					fmt.Fprintf(&b, "\nRuntime: %s", rt)
				}
				if g := d.GenreNames(); g != "" {
					fmt.Fprintf(&b, "\nGenres: %s", g)
				}
				if d.Overview != "" {
					fmt.Fprintf(&b, "\n%s", d.Overview)
				}
				for _, c := range v.Cast {
					fmt.Fprintf(&b, "\n  %s as %s", c.Name, c.Character)
				}
				if len(v.Similar) > 0 {
					b.WriteString("\nSimilar:")
					for _, mv := range v.Similar {
						fmt.Fprintf(&b, "\n  %s", movieLine(mv))
					}
				}
				fmt.Fprintf(&b, "\nWatched: %t  Rated: %t", v.Watched, v.Rated)
				return f.Result(v, b.String(), s.flush())
			})
		},
	}
}

// NewRandomCommand creates the random command.
func NewRandomCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "random <mood>",
		Short: "Pick a random movie for a mood",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMood(args[0])
			if err != nil {
				return err
			}
			return rootOpts.withSession(cmd, func(s *session, f *OutputFormatter) error {
				page, err := openMood(cmd, s, f, m)
				if err != nil {
					return err
				}
				pick, ok := page.RandomPick()
				if !ok {
					return f.Failure(ExitFailure, "NO_MOVIES", fmt.Sprintf("no movies listed for %s", m), s.flush())
				}
				return f.Result(pick, movieLine(pick), s.flush())
			})
		},
	}
}

// NewRouletteCommand creates the roulette command.
func NewRouletteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "roulette <mood>",
		Short: "Spin the movie roulette for a mood",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMood(args[0])
			if err != nil {
				return err
			}
			return rootOpts.withSession(cmd, func(s *session, f *OutputFormatter) error {
				page, err := openMood(cmd, s, f, m)
				if err != nil {
					return err
				}
				pick, ok := page.Spin()
				if !ok {
					return f.Failure(ExitFailure, "NOT_ENOUGH_MOVIES",
						fmt.Sprintf("the roulette needs at least %d movies with posters", views.RouletteMinimum), s.flush())
				}
				return f.Result(pick, movieLine(pick), s.flush())
			})
		},
	}
}
