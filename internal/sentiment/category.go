package sentiment

import "fmt"

// Category is the sentiment bucket a message falls into.
type Category string

const (
	Positive Category = "positive"
	Neutral  Category = "neutral"
	Negative Category = "negative"

	// Unknown is never produced by the classifier. It only exists as the
	// fallback bucket when replies are looked up for a category that is not
	// part of the closed set above.
	Unknown Category = "unknown"
)

const (
	POSITIVE_THRESHOLD = 0.3
	NEGATIVE_THRESHOLD = -0.3
)

// Categories lists every category the classifier can emit.
var Categories = []Category{Positive, Neutral, Negative}

func (c Category) String() string {
	return string(c)
}

// Classifiable reports whether c is one of the categories the classifier emits.
func (c Category) Classifiable() bool {
	switch c {
	case Positive, Neutral, Negative:
		return true
	default:
		return false
	}
}

// ParseCategory maps a label (including "unknown") back to its Category.
func ParseCategory(label string) (Category, error) {
	switch c := Category(label); c {
	case Positive, Neutral, Negative, Unknown:
		return c, nil
	default:
		return "", fmt.Errorf("[Sentiment] unrecognized category %q", label)
	}
}

// Categorize thresholds a compound score. The three ranges partition the
// real line: score >= 0.3 is positive, score <= -0.3 is negative and
// everything strictly in between is neutral.
func Categorize(score float64) Category {
	switch {
	case score >= POSITIVE_THRESHOLD:
		return Positive
	case score <= NEGATIVE_THRESHOLD:
		return Negative
	default:
		return Neutral
	}
}
