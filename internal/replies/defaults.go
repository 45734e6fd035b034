package replies

import "github.com/spacesedan/empathybot/internal/sentiment"

var defaultEntries = map[sentiment.Category][]string{
	sentiment.Positive: {
		"I'm glad to hear that! 😊 Keep spreading positivity!",
		"That sounds amazing! What made your day so great?",
		"Happiness looks good on you! Tell me more!",
	},
	sentiment.Neutral: {
		"I see! Would you like to share more?",
		"Got it! What else is on your mind?",
		"That makes sense. What's next for you?",
	},
	sentiment.Negative: {
		"I'm here for you. Want to talk about it?",
		"That sounds tough. Remember, you're not alone. 💙",
		"I'm listening. Feel free to share your thoughts.",
	},
	sentiment.Unknown: {
		"I'm not sure I understand, but I'm here to listen!",
		"Could you rephrase that? I want to respond better.",
		"That's interesting! Can you tell me more?",
	},
}

// DefaultTable returns the built-in reply table.
func DefaultTable() *Table {
	return MustNewTable(defaultEntries)
}
