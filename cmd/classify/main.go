package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spacesedan/empathybot/internal/chat"
	"github.com/spacesedan/empathybot/internal/logging"
	"github.com/spacesedan/empathybot/internal/replies"
	"github.com/spacesedan/empathybot/internal/sentiment"
)

func main() {
	var (
		seed      = flag.Uint64("seed", 0, "Seed for reply selection (0 picks randomly)")
		tableFile = flag.String("replies", "", "TOML reply table (defaults to the built-in table)")
		markdown  = flag.Bool("markdown", false, "Strip markdown before scoring")
		logLevel  = flag.String("log-level", "warn", "Log level")
	)
	flag.Parse()

	slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, *logLevel)))

	scorer, err := sentiment.NewVaderScorer()
	if err != nil {
		slog.Error("[Classify] Sentiment lexicon unavailable", "error", err)
		os.Exit(1)
	}

	table := replies.DefaultTable()
	if *tableFile != "" {
		table, err = replies.LoadFile(*tableFile)
		if err != nil {
			slog.Error("[Classify] Failed to load reply table", "error", err)
			os.Exit(1)
		}
	}

	var picker replies.Picker = replies.RandomPicker{}
	if *seed != 0 {
		picker = replies.NewSeededPicker(*seed)
	}

	var opts []sentiment.Option
	if *markdown {
		opts = append(opts, sentiment.WithMarkdownStripping())
	}
	pipeline := chat.NewPipeline(sentiment.NewClassifier(scorer, opts...), replies.NewSelector(table, picker))

	if flag.NArg() > 0 {
		for _, msg := range flag.Args() {
			writeReply(os.Stdout, pipeline.Respond(msg))
		}
		return
	}

	if err := classifyLines(os.Stdout, os.Stdin, pipeline); err != nil {
		slog.Error("[Classify] Failed to read input", "error", err)
		os.Exit(1)
	}
}

const MAX_LINE_BYTES = 4 * 1024 * 1024

// classifyLines answers every line of r, one output line per input line.
// Lines may be up to MAX_LINE_BYTES long.
func classifyLines(w io.Writer, r io.Reader, pipeline *chat.Pipeline) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MAX_LINE_BYTES)
	for scanner.Scan() {
		writeReply(w, pipeline.Respond(scanner.Text()))
	}
	return scanner.Err()
}

func writeReply(w io.Writer, reply chat.Reply) {
	fmt.Fprintf(w, "%s\t%.4f\t%s\n", reply.Category, reply.Score, reply.Text)
}
