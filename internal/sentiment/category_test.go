package sentiment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize_Thresholds(t *testing.T) {
	tests := []struct {
		score    float64
		expected Category
	}{
		{1.0, Positive},
		{0.3, Positive},
		{0.2999, Neutral},
		{0.0, Neutral},
		{-0.2999, Neutral},
		{-0.3, Negative},
		{-1.0, Negative},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Categorize(tt.score), "score %v", tt.score)
	}
}

func TestCategorize_PartitionsRange(t *testing.T) {
	for i := -1000; i <= 1000; i++ {
		score := float64(i) / 1000
		c := Categorize(score)
		require.True(t, c.Classifiable(), "score %v produced %q", score, c)

		matches := 0
		if score >= POSITIVE_THRESHOLD {
			matches++
			assert.Equal(t, Positive, c)
		}
		if score <= NEGATIVE_THRESHOLD {
			matches++
			assert.Equal(t, Negative, c)
		}
		if score > NEGATIVE_THRESHOLD && score < POSITIVE_THRESHOLD {
			matches++
			assert.Equal(t, Neutral, c)
		}
		assert.Equal(t, 1, matches, "score %v", score)
	}
}

func TestCategorize_NaNIsNeutral(t *testing.T) {
	assert.Equal(t, Neutral, Categorize(math.NaN()))
}

func TestCategory_Classifiable(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Classifiable())
	}
	assert.False(t, Unknown.Classifiable())
	assert.False(t, Category("ecstatic").Classifiable())
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("negative")
	require.NoError(t, err)
	assert.Equal(t, Negative, c)

	c, err = ParseCategory("unknown")
	require.NoError(t, err)
	assert.Equal(t, Unknown, c)

	_, err = ParseCategory("Positive")
	assert.Error(t, err)
}
