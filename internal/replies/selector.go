package replies

import (
	"log/slog"

	"github.com/spacesedan/empathybot/internal/sentiment"
)

// Selector picks a canned reply for a category.
type Selector struct {
	table  *Table
	picker Picker
}

func NewSelector(table *Table, picker Picker) *Selector {
	if picker == nil {
		picker = RandomPicker{}
	}
	return &Selector{table: table, picker: picker}
}

// Select returns one reply for category. Categories outside the classifiable
// set are answered from the unknown list; the classifier never emits one, so
// that branch only guards against future categories.
func (s *Selector) Select(category sentiment.Category) string {
	var candidates []string

	switch category {
	case sentiment.Positive, sentiment.Neutral, sentiment.Negative:
		candidates = s.table.lookup(category)
	default:
		slog.Warn("[ReplySelector] Falling back to unknown replies",
			slog.String("category", category.String()))
		candidates = s.table.lookup(sentiment.Unknown)
	}

	reply, _ := PickOne(s.picker, candidates)
	return reply
}
