package replies

import (
	"fmt"
	"strings"

	"github.com/spacesedan/empathybot/internal/sentiment"
)

// RequiredCategories must all have at least one reply in a Table.
var RequiredCategories = []sentiment.Category{
	sentiment.Positive,
	sentiment.Neutral,
	sentiment.Negative,
	sentiment.Unknown,
}

// Table maps each category to its candidate replies. It is immutable once
// built and can be shared across goroutines without locking.
type Table struct {
	entries map[sentiment.Category][]string
}

// NewTable validates and copies entries. Every required category needs a
// non-empty list and every reply must contain non-whitespace text.
func NewTable(entries map[sentiment.Category][]string) (*Table, error) {
	copied := make(map[sentiment.Category][]string, len(entries))

	for category, list := range entries {
		if _, err := sentiment.ParseCategory(string(category)); err != nil {
			return nil, fmt.Errorf("[ReplyTable] %w", err)
		}
		for i, reply := range list {
			if strings.TrimSpace(reply) == "" {
				return nil, fmt.Errorf("[ReplyTable] empty reply at %s[%d]", category, i)
			}
		}
		copied[category] = append([]string(nil), list...)
	}

	for _, category := range RequiredCategories {
		if len(copied[category]) == 0 {
			return nil, fmt.Errorf("[ReplyTable] no replies for category %q", category)
		}
	}

	return &Table{entries: copied}, nil
}

// MustNewTable is NewTable for tables known to be valid at compile time.
func MustNewTable(entries map[sentiment.Category][]string) *Table {
	t, err := NewTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Replies returns a copy of the replies registered for category.
func (t *Table) Replies(category sentiment.Category) []string {
	return append([]string(nil), t.entries[category]...)
}

// Entries returns a deep copy of the whole table.
func (t *Table) Entries() map[sentiment.Category][]string {
	out := make(map[sentiment.Category][]string, len(t.entries))
	for category, list := range t.entries {
		out[category] = append([]string(nil), list...)
	}
	return out
}

// Len is the total number of replies across all categories.
func (t *Table) Len() int {
	n := 0
	for _, list := range t.entries {
		n += len(list)
	}
	return n
}

func (t *Table) lookup(category sentiment.Category) []string {
	return t.entries[category]
}
