package main

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/spacesedan/empathybot/internal/chat"
	"github.com/spacesedan/empathybot/internal/replies"
	"github.com/spacesedan/empathybot/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T) *chat.Pipeline {
	t.Helper()
	scorer, err := sentiment.NewVaderScorer()
	require.NoError(t, err)
	return chat.NewPipeline(
		sentiment.NewClassifier(scorer),
		replies.NewSelector(replies.DefaultTable(), replies.NewSeededPicker(1)),
	)
}

func TestClassifyLines(t *testing.T) {
	pipeline := newTestPipeline(t)

	input := "I love this, it is wonderful!\n\nThis is awful and I hate it.\n"
	var out bytes.Buffer
	require.NoError(t, classifyLines(&out, strings.NewReader(input), pipeline))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	want := []sentiment.Category{sentiment.Positive, sentiment.Neutral, sentiment.Negative}
	for i, line := range lines {
		fields := strings.SplitN(line, "\t", 3)
		require.Len(t, fields, 3, line)

		assert.Equal(t, string(want[i]), fields[0])
		_, err := strconv.ParseFloat(fields[1], 64)
		assert.NoError(t, err)
		assert.Contains(t, replies.DefaultTable().Replies(want[i]), fields[2])
	}
}

func TestWriteReply(t *testing.T) {
	var out bytes.Buffer
	writeReply(&out, chat.Reply{Text: "Got it!", Category: sentiment.Neutral, Score: 0})
	assert.Equal(t, "neutral\t0.0000\tGot it!\n", out.String())
}

func TestClassifyLines_LongLine(t *testing.T) {
	pipeline := newTestPipeline(t)

	long := strings.Repeat("Tuesday at seven ", 10_000)
	require.Greater(t, len(long), 64*1024)
	input := long + "\nI love this, it is wonderful!\n"

	var out bytes.Buffer
	require.NoError(t, classifyLines(&out, strings.NewReader(input), pipeline))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "positive\t"))
}

func TestClassifyLines_LineOverLimit(t *testing.T) {
	pipeline := newTestPipeline(t)

	input := strings.Repeat("a", MAX_LINE_BYTES+1)
	err := classifyLines(&bytes.Buffer{}, strings.NewReader(input), pipeline)
	assert.Error(t, err)
}
