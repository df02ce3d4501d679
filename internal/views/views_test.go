package views

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moodflicks/internal/catalog"
	"github.com/roach88/moodflicks/internal/kv"
	"github.com/roach88/moodflicks/internal/logging"
	"github.com/roach88/moodflicks/internal/mood"
	"github.com/roach88/moodflicks/internal/progress"
	"github.com/roach88/moodflicks/internal/store"
	"github.com/roach88/moodflicks/internal/testutil"
)

type fixture struct {
	deps    Deps
	engine  *progress.Engine
	notices *progress.Collector
	store   *kv.Store
}

func newFixture(t *testing.T, cat catalog.Catalog) *fixture {
	t.Helper()
	logger := logging.NewTestLogger(&bytes.Buffer{})
	s := kv.New(store.NewMemory(), kv.WithLogger(logger))
	c := &progress.Collector{}
	e := progress.New(s,
		progress.WithNotifier(c),
		progress.WithClock(progress.NewClock()),
		progress.WithIDGenerator(testutil.NewSequentialIDs("n")),
		progress.WithLogger(logger),
	)
	return &fixture{
		deps: Deps{
			Engine:  e,
			Catalog: cat,
			Rand:    rand.New(rand.NewPCG(7, 11)),
			SiteURL: "https://example.test/",
			Logger:  &logger,
		},
		engine:  e,
		notices: c,
		store:   s,
	}
}

func (f *fixture) titles() []string {
	f.engine.Drain()
	return f.notices.Titles()
}

func movies(n int, withPoster bool) []catalog.MovieSummary {
	out := make([]catalog.MovieSummary, n)
	for i := range out {
		out[i] = catalog.MovieSummary{ID: int64(i + 1), Title: "Movie " + string(rune('A'+i))}
		if withPoster {
			out[i].PosterPath = "/p.jpg"
		}
	}
	return out
}

func TestHome_RandomMood(t *testing.T) {
	f := newFixture(t, &catalog.Static{})
	h := OpenHome(f.deps)

	assert.Len(t, h.Moods(), 8)

	m := h.RandomMood()
	assert.True(t, m.Valid())

	f.engine.Drain()
	got := f.notices.Notices()
	require.Len(t, got, 1)
	assert.Equal(t, "Random Mood Selected!", got[0].Title)
	assert.Equal(t, `We've selected "`+string(m)+`" for you. Enjoy!`, got[0].Body)
	assert.Equal(t, 0, h.Status().Points, "picking a mood awards nothing")
}

func TestMoodPage_FirstVisit(t *testing.T) {
	f := newFixture(t, &catalog.Static{ByMood: map[mood.Mood][]catalog.MovieSummary{mood.Gloomy: movies(3, true)}})

	p, err := OpenMoodPage(context.Background(), f.deps, mood.Gloomy)
	require.NoError(t, err)
	assert.Len(t, p.Movies(), 3)
	assert.NoError(t, p.Err())
	assert.Len(t, p.Collections(), 4)
	assert.Equal(t, 25, p.Status().Points)
	assert.Equal(t, []string{"Gloomy Explorer"}, p.Status().Badges)
	assert.Equal(t, []string{"New Achievement! 🏆"}, f.titles())

	// A second mount of the same engine does not record again.
	_, err = OpenMoodPage(context.Background(), f.deps, mood.Gloomy)
	require.NoError(t, err)
	assert.Equal(t, 25, f.engine.Points())
	assert.Len(t, f.titles(), 1)
}

func TestMoodPage_VisitAnnouncesLevelUp(t *testing.T) {
	f := newFixture(t, &catalog.Static{})
	kv.Set(f.store, progress.KeyPoints, 90)

	_, err := OpenMoodPage(context.Background(), f.deps, mood.Relaxed)
	require.NoError(t, err)
	assert.Equal(t, []string{"New Achievement! 🏆", "Level Up! 🎉"}, f.titles())
	assert.Contains(t, f.notices.Notices()[1].Body, "level 2")
}

func TestMoodPage_FetchFailureStillCountsVisit(t *testing.T) {
	down := &catalog.FetchError{Op: "discover", Status: 503, Err: errors.New("down")}
	f := newFixture(t, &catalog.Static{Err: down})

	p, err := OpenMoodPage(context.Background(), f.deps, mood.Thrilling)
	require.NoError(t, err)
	assert.ErrorIs(t, p.Err(), down)
	assert.Empty(t, p.Movies())
	assert.True(t, f.engine.HasAchievement(progress.MoodAchievement(mood.Thrilling)))

	f.engine.Drain()
	got := f.notices.Notices()
	require.Len(t, got, 2)
	assert.Equal(t, "Error", got[1].Title)
	assert.Equal(t, "Failed to fetch movies. Please try again.", got[1].Body)
	assert.Equal(t, progress.SeverityError, got[1].Severity)
}

func TestMoodPage_UnknownMood(t *testing.T) {
	f := newFixture(t, &catalog.Static{})
	_, err := OpenMoodPage(context.Background(), f.deps, "angry")
	require.Error(t, err)
	assert.Zero(t, f.engine.Points())
}

func TestMoodPage_Share(t *testing.T) {
	f := newFixture(t, &catalog.Static{})
	p, err := OpenMoodPage(context.Background(), f.deps, mood.Humorous)
	require.NoError(t, err)

	link := p.Share()
	assert.Equal(t, "Humorous Movie Recommendations", link.Title)
	assert.Equal(t, "Check out these humorous movies I found on MoodFlicks! I'm currently at Level 1 with 40 points.", link.Text)
	assert.Equal(t, "https://example.test/mood/humorous", link.URL)

	p.Share()
	assert.Equal(t, 40, f.engine.Points(), "only the first share pays")
}

func TestMoodPage_RandomPick(t *testing.T) {
	f := newFixture(t, &catalog.Static{})
	p, err := OpenMoodPage(context.Background(), f.deps, mood.Cheerful)
	require.NoError(t, err)

	_, ok := p.RandomPick()
	assert.False(t, ok, "empty list")
	assert.False(t, f.engine.HasAchievement(progress.AchievementRandomPick))

	f2 := newFixture(t, &catalog.Static{ByMood: map[mood.Mood][]catalog.MovieSummary{mood.Cheerful: movies(6, false)}})
	p2, err := OpenMoodPage(context.Background(), f2.deps, mood.Cheerful)
	require.NoError(t, err)

	m, ok := p2.RandomPick()
	require.True(t, ok)
	assert.NotZero(t, m.ID)
	assert.Equal(t, 30, f2.engine.Points())

	p2.RandomPick()
	assert.Equal(t, 30, f2.engine.Points())
}

func TestMoodPage_Spin(t *testing.T) {
	list := append(movies(4, true), movies(3, false)...)
	f := newFixture(t, &catalog.Static{ByMood: map[mood.Mood][]catalog.MovieSummary{mood.Romantic: list}})
	p, err := OpenMoodPage(context.Background(), f.deps, mood.Romantic)
	require.NoError(t, err)

	_, ok := p.Spin()
	assert.False(t, ok, "only four movies have posters")
	f.engine.Drain()
	last := f.notices.Notices()[len(f.notices.Notices())-1]
	assert.Equal(t, "Not enough movies", last.Title)
	assert.Equal(t, progress.SeverityError, last.Severity)

	f2 := newFixture(t, &catalog.Static{ByMood: map[mood.Mood][]catalog.MovieSummary{mood.Romantic: movies(5, true)}})
	p2, err := OpenMoodPage(context.Background(), f2.deps, mood.Romantic)
	require.NoError(t, err)

	m, ok := p2.Spin()
	require.True(t, ok)
	f2.engine.Drain()
	got := f2.notices.Notices()
	assert.Equal(t, "Movie Selected!", got[len(got)-1].Title)
	assert.Equal(t, "The roulette has chosen: "+m.Title, got[len(got)-1].Body)
	assert.Equal(t, 25, f2.engine.Points(), "the roulette awards nothing")
}

func TestMoodPage_CompleteQuiz(t *testing.T) {
	f := newFixture(t, &catalog.Static{})
	p, err := OpenMoodPage(context.Background(), f.deps, mood.Adventurous)
	require.NoError(t, err)

	out, err := p.CompleteQuiz(3, 3)
	require.NoError(t, err)
	assert.Equal(t, 30, out.Awarded)
	assert.Equal(t, []progress.Achievement{progress.AchievementQuizMaster}, out.Unlocked)

	_, err = p.CompleteQuiz(4, 3)
	assert.True(t, progress.IsRuleError(err, progress.ErrCodeInvalidQuizResult))
	assert.Equal(t, 55, f.engine.Points())
}

func TestMoodPage_MarkWatchedCrossesLevel(t *testing.T) {
	f := newFixture(t, &catalog.Static{})
	kv.Set(f.store, progress.KeyPoints, 70)

	p, err := OpenMoodPage(context.Background(), f.deps, mood.Reflective)
	require.NoError(t, err)
	assert.Equal(t, 95, f.engine.Points())

	p.MarkWatched(42)
	assert.Equal(t, 105, f.engine.Points())
	titles := f.titles()
	assert.Equal(t, "Level Up! 🎉", titles[len(titles)-1])
}

func testMovieCatalog() *catalog.Static {
	cast := make([]catalog.CastMember, 8)
	for i := range cast {
		cast[i] = catalog.CastMember{ID: int64(i), Name: "Actor " + string(rune('A'+i)), Order: i}
	}
	return &catalog.Static{
		Details: map[int64]catalog.MovieDetail{
			550: {MovieSummary: catalog.MovieSummary{ID: 550, Title: "Fight Club"}, Runtime: 139},
		},
		Cast:    map[int64]catalog.Credits{550: {Cast: cast}},
		Related: map[int64][]catalog.MovieSummary{550: movies(6, true)},
	}
}

func TestMoviePage_Open(t *testing.T) {
	f := newFixture(t, testMovieCatalog())

	p, err := OpenMoviePage(context.Background(), f.deps, 550)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", p.Detail().Title)
	assert.Len(t, p.Cast(), CastShown)
	assert.Equal(t, "Actor A", p.Cast()[0].Name)
	assert.Len(t, p.Similar(), SimilarShown)
	assert.False(t, p.Watched())
	assert.False(t, p.Rated())
	assert.Empty(t, f.titles(), "opening a movie is silent")
}

func TestMoviePage_WatchAndRate(t *testing.T) {
	f := newFixture(t, testMovieCatalog())
	p, err := OpenMoviePage(context.Background(), f.deps, 550)
	require.NoError(t, err)

	assert.True(t, p.MarkWatched().Applied)
	assert.False(t, p.MarkWatched().Applied)
	assert.True(t, p.Rate(false).Applied)
	assert.False(t, p.Rate(true).Applied)

	assert.True(t, p.Watched())
	assert.True(t, p.Rated())
	assert.Equal(t, 15, p.Status().Points)
	assert.Equal(t, []string{
		"Movie Marked as Watched! ✅",
		"Already Watched",
		"You disliked this movie 👎",
		"Already Rated",
	}, f.titles())
}

func TestMoviePage_Share(t *testing.T) {
	f := newFixture(t, testMovieCatalog())
	p, err := OpenMoviePage(context.Background(), f.deps, 550)
	require.NoError(t, err)

	link := p.Share()
	assert.Equal(t, "Fight Club", link.Title)
	assert.Equal(t, "Check out this movie: Fight Club", link.Text)
	assert.Equal(t, "https://example.test/movie/550", link.URL)
	assert.Equal(t, 15, f.engine.Points())
}

func TestMoviePage_NotFound(t *testing.T) {
	f := newFixture(t, testMovieCatalog())

	_, err := OpenMoviePage(context.Background(), f.deps, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	f.engine.Drain()
	got := f.notices.Notices()
	require.Len(t, got, 1)
	assert.Equal(t, "Error", got[0].Title)
	assert.Equal(t, "Failed to fetch movie details. Please try again.", got[0].Body)
}

func TestShareLink_Targets(t *testing.T) {
	link := ShareLink{Title: "Fight Club", Text: "Check out this movie: Fight Club", URL: "https://example.test/movie/550"}
	targets := link.Targets()
	require.Len(t, targets, 4)

	names := make([]string, len(targets))
	for i, tg := range targets {
		names[i] = tg.Name
	}
	assert.Equal(t, []string{"Facebook", "Twitter", "LinkedIn", "Email"}, names)
	assert.Equal(t, "https://www.facebook.com/sharer/sharer.php?u=https%3A%2F%2Fexample.test%2Fmovie%2F550&quote=Check+out+this+movie%3A+Fight+Club", targets[0].URL)
	assert.True(t, strings.HasPrefix(targets[1].URL, "https://twitter.com/intent/tweet?text=Check+out"))
	assert.Equal(t, "https://www.linkedin.com/sharing/share-offsite/?url=https%3A%2F%2Fexample.test%2Fmovie%2F550", targets[2].URL)
	assert.True(t, strings.HasPrefix(targets[3].URL, "mailto:?subject=Fight%20Club&body="))
	assert.Contains(t, targets[3].URL, "%0A%0A")
}

func TestStatus_BadgesFollowCatalogueOrder(t *testing.T) {
	f := newFixture(t, &catalog.Static{})
	kv.Set(f.store, progress.KeyAchievements, []progress.Achievement{
		progress.MoodAchievement(mood.Gloomy),
		progress.AchievementSharing,
		progress.AchievementWatched5,
	})
	kv.Set(f.store, progress.KeyPoints, 230)

	st := OpenHome(f.deps).Status()
	assert.Equal(t, 3, st.Level)
	assert.Equal(t, 30, st.Progress)
	assert.Equal(t, 70, st.PointsToNext)
	assert.Equal(t, []string{"Movie Buff", "Social Butterfly", "Gloomy Explorer"}, st.Badges)
}
