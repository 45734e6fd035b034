package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveLinks(t *testing.T) {
	assert.Equal(t, "read the docs ", RemoveLinks("read [the docs](https://example.com/docs) https://example.com"))
	assert.Equal(t, "see ", RemoveLinks("see www.example.com"))
}

func TestConvertMarkdownToText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "I love this", "I love this"},
		{"emphasis", "I *really* **love** this", "I really love this"},
		{"heading and paragraph", "# Great day\n\nReally fun", "Great day Really fun"},
		{"links", "**I love** this [site](https://x.com) https://y.com", "I love this site"},
		{"list", "- good\n- better\n", "good better"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConvertMarkdownToText(tt.input))
		})
	}
}
