package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spacesedan/empathybot/internal/chat"
)

// ReplyMetrics tracks what the chat pipeline answered. Message text is
// never recorded.
type ReplyMetrics struct {
	RepliesTotal   *prometheus.CounterVec
	SentimentScore prometheus.Histogram
}

func NewReplyMetrics(reg prometheus.Registerer) *ReplyMetrics {
	m := &ReplyMetrics{
		RepliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Total number of chat replies sent, by sentiment category.",
		}, []string{"category"}),
		SentimentScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sentiment_score",
			Help:      "Compound polarity score of incoming chat messages.",
			Buckets:   prometheus.LinearBuckets(-1, 0.1, 21),
		}),
	}

	reg.MustRegister(m.RepliesTotal, m.SentimentScore)
	return m
}

func (m *ReplyMetrics) Observe(reply chat.Reply) {
	m.RepliesTotal.WithLabelValues(reply.Category.String()).Inc()
	m.SentimentScore.Observe(reply.Score)
}
