package mood

// Collection is a themed shelf shown on a mood page.
type Collection struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var collections = map[Mood][]Collection{
	Cheerful: {
		{"For the Perpetually Optimistic", "Movies so upbeat they'll make your plants grow faster."},
		{"Sunshine in Film Form", "Warning: May cause spontaneous dancing and excessive smiling."},
		{"The 'Everything is Awesome' Collection", "Films that make Monday mornings feel like Friday afternoons."},
		{"Serotonin Boosters", "Scientifically proven* to be impossible to watch without grinning. (*Not actual science)"},
	},
	Reflective: {
		{"Existential Crisis Starters", "Films that make you question if that red shirt is really red."},
		{"The 'Stare Out Windows Dramatically' Pack", "Perfect for rainy days and pretending you're in a music video."},
		{"Philosophical Rabbit Holes", "Movies that will have you debating the meaning of life with your houseplants."},
		{"Contemplative Coffee Shop Vibes", "Best enjoyed while writing poetry nobody will ever read."},
	},
	Gloomy: {
		{"Emotional Damage: The Collection", "Films that pair perfectly with ice cream and tissues."},
		{"The 'Beautiful Tragedy' Marathon", "Because sometimes you just need a good cry."},
		{"Rainy Day Mood Amplifiers", "When you want to feel even more melancholy than the weather."},
		{"The 'Text Your Ex' Danger Zone", "Warning: May cause regrettable late-night messaging. Proceed with caution."},
	},
	Humorous: {
		{"Laugh Until You Snort Collection", "Films that will make you embarrass yourself in public."},
		{"The 'Milk Through Your Nose' Risk Group", "Do not consume beverages during viewing. We warned you."},
		{"Dad Joke: The Movie Experience", "So bad they're good. Just like dad's jokes."},
		{"Abs Workout Through Laughter", "Who needs the gym when you have these comedies?"},
	},
	Adventurous: {
		{"Couch Potato Explorer Series", "All the adventure, none of the mosquito bites."},
		{"The 'I Could Do That' Delusion Collection", "Films that make you think you could survive in the wild (you can't)."},
		{"Adrenaline Rush Without the Insurance Costs", "Experience danger from the safety of your snack-filled living room."},
		{"Vacation Inspiration That Exceeds Your Budget", "Dream big, spend small, watch movies instead."},
	},
	Romantic: {
		{"Unrealistic Expectations Generators", "Where everyone has perfect hair, even in the rain."},
		{"The 'Why Is My Love Life Not Like This' Collection", "Films that make your dating app experiences seem even worse."},
		{"Hopeless Romantic Support Group", "You're not alone in talking to your TV during these scenes."},
		{"First Date Idea Stealers", "Borrow these grand gestures at your own risk."},
	},
	Thrilling: {
		{"The 'Check Behind the Shower Curtain' Collection", "Films that make normal house noises suddenly suspicious."},
		{"Cardio Through Fear", "Who needs a fitness tracker when your heart rate is through the roof?"},
		{"The 'I'm Never Going Camping' Convincers", "Urban living never seemed so appealing."},
		{"Popcorn-Launching Jump Scares", "The real reason your floor is always sticky."},
	},
	Relaxed: {
		{"Cinematic ASMR", "Movies so calming you might miss the ending... because you're asleep."},
		{"The 'Gentle Background Noise' Collection", "Perfect for pretending to watch while scrolling your phone."},
		{"Meditation for People Who Can't Meditate", "Find your zen without having to sit cross-legged."},
		{"Digital Lullabies", "The sophisticated adult version of being read a bedtime story."},
	},
}

// Collections returns the themed shelves for m, or nil for an unknown mood.
func Collections(m Mood) []Collection {
	c, ok := collections[m]
	if !ok {
		return nil
	}
	out := make([]Collection, len(c))
	copy(out, c)
	return out
}
