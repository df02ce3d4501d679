package views

import (
	"github.com/roach88/moodflicks/internal/mood"
)

// Home is the landing page: the mood picker.
type Home struct {
	levels
	deps Deps
	rng  *picker
}

// OpenHome mounts the landing page.
func OpenHome(d Deps) *Home {
	h := &Home{
		levels: levels{engine: d.Engine},
		deps:   d,
		rng:    &picker{r: d.Rand},
	}
	h.mount()
	return h
}

// Moods lists the selectable moods.
func (h *Home) Moods() []mood.Mood {
	return mood.All()
}

// RandomMood picks a mood for a viewer who cannot decide.
func (h *Home) RandomMood() mood.Mood {
	all := mood.All()
	m := all[h.rng.IntN(len(all))]
	h.deps.Engine.Announce(infoNotice("Random Mood Selected!", "We've selected %q for you. Enjoy!", string(m)))
	return m
}

// Status returns the progress panel.
func (h *Home) Status() LevelStatus {
	return statusOf(h.deps.Engine.Ledger())
}
