// Package mood defines the fixed set of moods a viewer can browse by, and
// the catalogue criteria behind each one.
package mood

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Mood is one of the eight browsable moods.
type Mood string

const (
	Cheerful    Mood = "cheerful"
	Reflective  Mood = "reflective"
	Gloomy      Mood = "gloomy"
	Humorous    Mood = "humorous"
	Adventurous Mood = "adventurous"
	Romantic    Mood = "romantic"
	Thrilling   Mood = "thrilling"
	Relaxed     Mood = "relaxed"
)

// criteria maps a mood to the catalogue genres and keywords used to find
// matching movies.
type criteria struct {
	genres   []int
	keywords string
}

var table = map[Mood]criteria{
	Cheerful:    {genres: []int{35, 10751}, keywords: "feel-good,happy"},
	Reflective:  {genres: []int{18, 36}, keywords: "thought-provoking,philosophical"},
	Gloomy:      {genres: []int{18, 9648}, keywords: "melancholy,sad"},
	Humorous:    {genres: []int{35}, keywords: "comedy,funny"},
	Adventurous: {genres: []int{12, 28}, keywords: "adventure,action"},
	Romantic:    {genres: []int{10749}, keywords: "romance,love"},
	Thrilling:   {genres: []int{53, 27}, keywords: "suspense,thriller"},
	Relaxed:     {genres: []int{36, 99}, keywords: "calm,peaceful"},
}

var order = []Mood{Cheerful, Reflective, Gloomy, Humorous, Adventurous, Romantic, Thrilling, Relaxed}

// All returns every mood in display order.
func All() []Mood {
	out := make([]Mood, len(order))
	copy(out, order)
	return out
}

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	_, ok := table[m]
	return ok
}

func (m Mood) String() string { return string(m) }

// Parse resolves user input to a mood. Input is trimmed, NFC-normalised and
// case-folded, so " Gloomy" and "GLOOMY" both name Gloomy.
func Parse(s string) (Mood, error) {
	key := cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
	m := Mood(key)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mood %q: must be one of %s", s, strings.Join(names(), ", "))
	}
	return m, nil
}

// Genres returns the catalogue genre IDs for m, or nil for an unknown mood.
func Genres(m Mood) []int {
	c, ok := table[m]
	if !ok {
		return nil
	}
	out := make([]int, len(c.genres))
	copy(out, c.genres)
	return out
}

// Keywords returns the comma-separated catalogue keywords for m.
func Keywords(m Mood) string {
	return table[m].keywords
}

// Label returns the display name, e.g. "Gloomy".
func Label(m Mood) string {
	return cases.Title(language.English).String(string(m))
}

// Random picks a mood using r.
func Random(r *rand.Rand) Mood {
	return order[r.IntN(len(order))]
}

func names() []string {
	out := make([]string, len(order))
	for i, m := range order {
		out[i] = string(m)
	}
	return out
}
