// Package harness runs scripted progression scenarios against a real
// engine and checks the outcome.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: movie_buff
//	description: "Five watched movies unlock Movie Buff"
//	seed:
//	  watched: [1, 2, 3]
//	  points: 30
//	steps:
//	  - op: mark_watched
//	    movie: 4
//	  - op: mark_watched
//	    movie: 5
//	    expect:
//	      applied: true
//	      awarded: 60
//	      unlocked: [watched-5]
//	assertions:
//	  - type: points
//	    value: 80
//	  - type: achievement
//	    achievement: watched-5
//
// Seed values are written to the medium as JSON before the first mount.
//
// # Steps
//
//	mark_watched         movie
//	rate_movie           movie, liked
//	share
//	mood_visit           mood
//	quiz                 correct, total
//	random_pick
//	remount              drop the engine and hydrate a fresh one
//	fail_persistence     every load and save fails until restored
//	restore_persistence
//
// After each step the harness checks the level like a page does and queues
// a Level Up notice when the balance crosses a level boundary. A remount
// resets that baseline.
//
// # Assertions
//
//	points, level, persisted_points   value
//	achievement, no_achievement       achievement
//	watched_count, rated_count        count
//	notice_count                      count
//	notice_order                      titles (subsequence of delivered titles)
//
// # Golden Traces
//
// RunWithGolden renders the step-by-step trace as text and compares it
// against testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
