package chat

import (
	"github.com/spacesedan/empathybot/internal/replies"
	"github.com/spacesedan/empathybot/internal/sentiment"
)

// Reply is the bot's answer to a single message together with the
// classification that produced it.
type Reply struct {
	Text     string             `json:"text"`
	Category sentiment.Category `json:"category"`
	Score    float64            `json:"score"`
}

// Pipeline answers a message by classifying it and picking a canned reply
// for the resulting category. It keeps no state between calls.
type Pipeline struct {
	classifier *sentiment.Classifier
	selector   *replies.Selector
}

func NewPipeline(classifier *sentiment.Classifier, selector *replies.Selector) *Pipeline {
	return &Pipeline{classifier: classifier, selector: selector}
}

func (p *Pipeline) Respond(message string) Reply {
	result := p.classifier.Analyze(message)
	return Reply{
		Text:     p.selector.Select(result.Category),
		Category: result.Category,
		Score:    result.Score,
	}
}
