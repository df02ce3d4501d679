package progress

import "sync"

// Severity classifies a notice for presentation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is a user-visible notification.
type Notice struct {
	ID       string   `json:"id"`
	Seq      int64    `json:"seq"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Severity Severity `json:"severity"`
}

// Notifier receives delivered notices. Delivery is fire-and-forget.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Notifier = NotifierFunc(func(Notice) {})

// Collector is a Notifier that keeps every delivered notice in order.
type Collector struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify records n.
func (c *Collector) Notify(n Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, n)
}

// Notices returns a copy of everything delivered so far.
func (c *Collector) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

// Titles returns the delivered titles in order.
func (c *Collector) Titles() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.notices))
	for i, n := range c.notices {
		out[i] = n.Title
	}
	return out
}

// Reset forgets everything delivered so far.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = nil
}

// Notice texts.
const (
	titleAlreadyWatched = "Already Watched"
	bodyAlreadyWatched  = "You've already marked this movie as watched."
	titleWatched        = "Movie Marked as Watched! ✅"
	bodyWatched         = "You've earned 10 points for your movie journey."

	titleAlreadyRated = "Already Rated"
	bodyAlreadyRated  = "You've already rated this movie."
	titleLiked        = "You liked this movie! 👍"
	titleDisliked     = "You disliked this movie 👎"
	bodyRated         = "You've earned 5 points for rating."

	titleAchievement = "New Achievement! 🏆"
	bodyMovieBuff    = "Movie Buff: You've watched 5 movies!"
	bodyMovieCritic  = "Movie Critic: You've rated 10 movies!"
	bodyQuizMaster   = "Quiz Master: You got a perfect score!"

	titleQuizCompleted = "Quiz Completed! 🎉"
	titleLevelUp       = "Level Up! 🎉"
)
