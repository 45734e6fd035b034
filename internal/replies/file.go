package replies

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/spacesedan/empathybot/internal/sentiment"
)

// LoadFile reads a reply table from a TOML file with one array per
// category:
//
//	positive = ["Great!", "Nice!"]
//	neutral  = ["I see."]
//	negative = ["Sorry to hear that."]
//	unknown  = ["Tell me more?"]
func LoadFile(path string) (*Table, error) {
	var raw map[string][]string
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("[ReplyTable] failed to decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("[ReplyTable] unexpected keys in %s: %v", path, undecoded)
	}

	entries := make(map[sentiment.Category][]string, len(raw))
	for label, list := range raw {
		category, err := sentiment.ParseCategory(label)
		if err != nil {
			return nil, fmt.Errorf("[ReplyTable] %s: %w", path, err)
		}
		entries[category] = list
	}

	table, err := NewTable(entries)
	if err != nil {
		return nil, err
	}

	slog.Info("[ReplyTable] Loaded reply table from file",
		slog.String("path", path),
		slog.Int("replies", table.Len()))
	return table, nil
}
