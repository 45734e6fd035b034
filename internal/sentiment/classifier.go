package sentiment

// Result is the outcome of classifying a single message.
type Result struct {
	Score    float64  `json:"score"`
	Category Category `json:"category"`
}

type Option func(*Classifier)

// WithPreprocessor transforms text before it is scored.
func WithPreprocessor(fn func(string) string) Option {
	return func(c *Classifier) {
		c.preprocess = fn
	}
}

// WithMarkdownStripping scores only the readable text of markdown input.
func WithMarkdownStripping() Option {
	return WithPreprocessor(ConvertMarkdownToText)
}

// Classifier maps arbitrary text to one of the classifiable categories.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	scorer     Scorer
	preprocess func(string) string
}

func NewClassifier(scorer Scorer, opts ...Option) *Classifier {
	c := &Classifier{scorer: scorer}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Classifier) Analyze(text string) Result {
	if c.preprocess != nil {
		text = c.preprocess(text)
	}
	score := c.scorer.Score(text)
	return Result{Score: score, Category: Categorize(score)}
}

func (c *Classifier) Classify(text string) Category {
	return c.Analyze(text).Category
}
