package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/moodflicks/internal/mood"
	"github.com/roach88/moodflicks/internal/progress"
	"github.com/roach88/moodflicks/internal/store"
	"github.com/roach88/moodflicks/internal/views"
)

// OutcomeView is the JSON form of an engine outcome.
type OutcomeView struct {
	Applied  bool     `json:"applied"`
	Awarded  int      `json:"awarded"`
	Unlocked []string `json:"unlocked,omitempty"`
	Points   int      `json:"points"`
	Level    int      `json:"level"`
}

func outcomeView(out progress.Outcome) OutcomeView {
	v := OutcomeView{
		Applied: out.Applied,
		Awarded: out.Awarded,
		Points:  out.Points,
		Level:   progress.LevelFor(out.Points),
	}
	for _, a := range out.Unlocked {
		v.Unlocked = append(v.Unlocked, string(a))
	}
	return v
}

func (v OutcomeView) String() string {
	var b strings.Builder
	if v.Awarded > 0 {
		fmt.Fprintf(&b, "+%d points", v.Awarded)
	} else {
		b.WriteString("No points awarded")
	}
	fmt.Fprintf(&b, " (total %d, level %d)", v.Points, v.Level)
	for _, code := range v.Unlocked {
		fmt.Fprintf(&b, "\nUnlocked: %s", progress.Achievement(code).Title())
	}
	return b.String()
}

// withSession opens a session, runs fn and closes the session.
func (o *RootOptions) withSession(cmd *cobra.Command, fn func(*session, *OutputFormatter) error) error {
	s, err := o.openSession(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			o.formatter(cmd).VerboseLog("close medium: %v", cerr)
		}
	}()
	return fn(s, o.formatter(cmd))
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show level, points and badges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(s *session, f *OutputFormatter) error {
				st := views.OpenHome(s.deps).Status()
				return f.Result(st, formatStatus(st), s.flush())
			})
		},
	}
}

func formatStatus(st views.LevelStatus) string {
	badges := "none"
	if len(st.Badges) > 0 {
		badges = strings.Join(st.Badges, ", ")
	}
	return fmt.Sprintf("Level %d: %d points (%d/%d, %d to next level)\nBadges: %s",
		st.Level, st.Points, st.Progress, progress.PointsPerLevel, st.PointsToNext, badges)
}

// LedgerView is the stored ledger plus the keys present on the medium.
// Durable is false when the medium could not be opened.
type LedgerView struct {
	progress.Ledger
	Durable bool     `json:"durable"`
	Keys    []string `json:"keys,omitempty"`
}

// NewLedgerCommand creates the ledger command.
func NewLedgerCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ledger",
		Short: "Dump the stored progress ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(s *session, f *OutputFormatter) error {
				v := LedgerView{Ledger: s.engine.Ledger(), Durable: s.medium != nil}
				if l, ok := s.medium.(store.Lister); ok {
					keys, err := l.Keys(context.Background())
					if err != nil {
						return WrapExitError(ExitFailure, "list stored keys", err)
					}
					v.Keys = keys
				}

				var b strings.Builder
				fmt.Fprintf(&b, "points: %d\nlevel: %d\n", v.Points, v.Level)
				fmt.Fprintf(&b, "watched: %v\nrated: %v\n", v.Watched, v.Rated)
				fmt.Fprintf(&b, "achievements: %v", v.Achievements)
				if v.Keys != nil {
					fmt.Fprintf(&b, "\nkeys: %s", strings.Join(v.Keys, ", "))
				}
				if !v.Durable {
					b.WriteString("\nmedium: unavailable, progress is not being saved")
				}
				return f.Result(v, b.String(), s.flush())
			})
		},
	}
}

func parseMovieID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid movie id %q", arg))
	}
	return id, nil
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <movie-id>",
		Short: "Mark a movie as watched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return rootOpts.withSession(cmd, func(s *session, f *OutputFormatter) error {
				out := s.engine.MarkWatched(id)
				s.checkLevel()
				v := outcomeView(out)
				return f.Result(v, v.String(), s.flush())
			})
		},
	}
}

// NewRateCommand creates the rate command.
func NewRateCommand(rootOpts *RootOptions) *cobra.Command {
	var like, dislike bool

	cmd := &cobra.Command{
		Use:   "rate <movie-id> (--like | --dislike)",
		Short: "Rate a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return rootOpts.withSession(cmd, func(s *session, f *OutputFormatter) error {
				out := s.engine.RateMovie(id, like)
				s.checkLevel()
				v := outcomeView(out)
				return f.Result(v, v.String(), s.flush())
			})
		},
	}

	cmd.Flags().BoolVar(&like, "like", false, "you liked it")
	cmd.Flags().BoolVar(&dislike, "dislike", false, "you did not like it")
	cmd.MarkFlagsMutuallyExclusive("like", "dislike")
	cmd.MarkFlagsOneRequired("like", "dislike")
	return cmd
}

// ShareView is the share dialog content.
type ShareView struct {
	views.ShareLink
	Targets []views.ShareTarget `json:"targets"`
	Points  int                 `json:"points"`
}

// NewShareCommand creates the share command.
func NewShareCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		moodName string
		movieID  int64
	)

	cmd := &cobra.Command{
		Use:   "share (--mood <mood> | --movie <id>)",
		Short: "Share a mood list or a movie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var m mood.Mood
			if moodName != "" {
				parsed, err := mood.Parse(moodName)
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid mood", err)
				}
				m = parsed
			}

			return rootOpts.withSession(cmd, func(s *session, f *OutputFormatter) error {
				var link views.ShareLink
				if m != "" {
					s.engine.RecordShare()
					s.checkLevel()
					link = s.deps.MoodShareLink(m, s.engine.Ledger())
				} else {
					ctx, cancel := s.context(cmd)
					defer cancel()
					page, err := views.OpenMoviePage(ctx, s.deps, movieID)
					if err != nil {
						return f.Failure(ExitFailure, "CATALOG_UNAVAILABLE", err.Error(), s.flush())
					}
					link = page.Share()
				}

				v := ShareView{
					ShareLink: link,
					Targets:   link.Targets(),
					Points:    s.engine.Points(),
				}
				var b strings.Builder
				fmt.Fprintf(&b, "%s\n%s\n%s", link.Title, link.Text, link.URL)
				for _, t := range v.Targets {
					fmt.Fprintf(&b, "\n  %s: %s", t.Name, t.URL)
				}
				return f.Result(v, b.String(), s.flush())
			})
		},
	}

	cmd.Flags().StringVar(&moodName, "mood", "", "share the list for this mood")
	cmd.Flags().Int64Var(&movieID, "movie", 0, "share this movie")
	cmd.MarkFlagsMutuallyExclusive("mood", "movie")
	cmd.MarkFlagsOneRequired("mood", "movie")
	return cmd
}

// NewQuizCommand creates the quiz command.
func NewQuizCommand(rootOpts *RootOptions) *cobra.Command {
	var correct, total int

	cmd := &cobra.Command{
		Use:   "quiz --correct <n> --total <n>",
		Short: "Record a finished mood quiz",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(s *session, f *OutputFormatter) error {
				out, err := s.engine.RecordQuizResult(correct, total)
				if err != nil {
					var re *progress.RuleError
					if errors.As(err, &re) {
						return f.Failure(ExitFailure, string(re.Code), re.Message, s.flush())
					}
					return err
				}
				s.checkLevel()
				v := outcomeView(out)
				return f.Result(v, v.String(), s.flush())
			})
		},
	}

	cmd.Flags().IntVar(&correct, "correct", 0, "correct answers")
	cmd.Flags().IntVar(&total, "total", 0, "questions in the quiz")
	_ = cmd.MarkFlagRequired("correct")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}
