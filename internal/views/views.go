// Package views models the MoodFlicks pages as mounts over a shared
// progression engine.
//
// A page is opened (mounted), works against the engine and the catalogue,
// and keeps its own LevelWatch: the level seen at mount is the baseline,
// and any later rise is announced once with a Level Up notice.
package views

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/roach88/moodflicks/internal/catalog"
	"github.com/roach88/moodflicks/internal/logging"
	"github.com/roach88/moodflicks/internal/mood"
	"github.com/roach88/moodflicks/internal/progress"
)

// DefaultSiteURL is the public base URL used in share links.
const DefaultSiteURL = "https://moodflicks.app"

// Deps are the collaborators every page needs.
type Deps struct {
	Engine  *progress.Engine
	Catalog catalog.Catalog

	// Rand drives random picks. Nil uses the global source.
	Rand *rand.Rand

	// SiteURL prefixes share links. Empty uses DefaultSiteURL.
	SiteURL string

	Logger *zerolog.Logger
}

func (d Deps) logger() zerolog.Logger {
	if d.Logger != nil {
		return *d.Logger
	}
	return logging.Component("views")
}

func (d Deps) siteURL() string {
	if d.SiteURL == "" {
		return DefaultSiteURL
	}
	return strings.TrimSuffix(d.SiteURL, "/")
}

// picker serializes access to a *rand.Rand, which is not safe for
// concurrent use.
type picker struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (p *picker) IntN(n int) int {
	if p.r == nil {
		return rand.IntN(n)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.IntN(n)
}

// LevelStatus is the progress panel shown on every page.
type LevelStatus struct {
	Level        int      `json:"level"`
	Points       int      `json:"points"`
	Progress     int      `json:"progress"`
	PointsToNext int      `json:"points_to_next"`
	Badges       []string `json:"badges"`
}

// statusOf builds the progress panel from a ledger. Badges follow the
// achievement catalogue order.
func statusOf(l progress.Ledger) LevelStatus {
	have := make(map[progress.Achievement]bool, len(l.Achievements))
	for _, a := range l.Achievements {
		have[a] = true
	}
	badges := []string{}
	for _, a := range progress.Catalogue() {
		if have[a] {
			badges = append(badges, a.Title())
		}
	}
	return LevelStatus{
		Level:        l.Level,
		Points:       l.Points,
		Progress:     progress.LevelProgress(l.Points),
		PointsToNext: progress.PointsToNextLevel(l.Points),
		Badges:       badges,
	}
}

// levels is embedded by pages to announce level-ups.
type levels struct {
	engine *progress.Engine
	watch  progress.LevelWatch
}

func (l *levels) mount() {
	l.watch.Observe(l.engine.Points())
}

// check announces a level-up if the balance crossed a level boundary since
// the last check.
func (l *levels) check() {
	if level, up := l.watch.Observe(l.engine.Points()); up {
		l.engine.Announce(progress.LevelUpNotice(level))
	}
}

// ShareLink is what the share dialog offers.
type ShareLink struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// MoodShareLink builds the link offered when sharing a mood list. The text
// carries the viewer's current level and points from l.
func (d Deps) MoodShareLink(m mood.Mood, l progress.Ledger) ShareLink {
	return ShareLink{
		Title: mood.Label(m) + " Movie Recommendations",
		Text: fmt.Sprintf("Check out these %s movies I found on MoodFlicks! I'm currently at Level %d with %d points.",
			m, l.Level, l.Points),
		URL: d.siteURL() + "/mood/" + url.PathEscape(string(m)),
	}
}

// MovieShareLink builds the link offered when sharing one movie.
func (d Deps) MovieShareLink(id int64, title string) ShareLink {
	return ShareLink{
		Title: title,
		Text:  "Check out this movie: " + title,
		URL:   fmt.Sprintf("%s/movie/%d", d.siteURL(), id),
	}
}

// ShareTarget is one destination in the share dialog.
type ShareTarget struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Targets returns the social share URLs for the link.
func (s ShareLink) Targets() []ShareTarget {
	u := url.QueryEscape(s.URL)
	text := url.QueryEscape(s.Text)
	return []ShareTarget{
		{Name: "Facebook", URL: "https://www.facebook.com/sharer/sharer.php?u=" + u + "&quote=" + text},
		{Name: "Twitter", URL: "https://twitter.com/intent/tweet?text=" + text + "&url=" + u},
		{Name: "LinkedIn", URL: "https://www.linkedin.com/sharing/share-offsite/?url=" + u},
		{Name: "Email", URL: "mailto:?subject=" + url.PathEscape(s.Title) + "&body=" + url.PathEscape(s.Text+"\n\n"+s.URL)},
	}
}

func errorNotice(body string) progress.Notice {
	return progress.Notice{Title: "Error", Body: body, Severity: progress.SeverityError}
}

func infoNotice(title, format string, args ...any) progress.Notice {
	return progress.Notice{Title: title, Body: fmt.Sprintf(format, args...), Severity: progress.SeverityInfo}
}
