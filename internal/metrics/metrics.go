// Package metrics содержит Prometheus-метрики разбора чатов.
package metrics

import (
	"net/http"
	"time"

	"chatter-io/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chatter"

// Metrics - набор коллекторов. Методы безопасны для nil-получателя.
type Metrics struct {
	chatsParsed   *prometheus.CounterVec
	messages      *prometheus.CounterVec
	parseDuration prometheus.Histogram
	tasks         *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
}

// New создает метрики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		chatsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chats_parsed_total",
			Help:      "Number of parsed chat exports by origin.",
		}, []string{"origin"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_parsed_total",
			Help:      "Number of parsed messages by kind.",
		}, []string{"kind"}),
		parseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent loading and parsing one export.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Number of finished processing tasks by status.",
		}, []string{"status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by outcome.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.chatsParsed, m.messages, m.parseDuration, m.tasks, m.cacheLookups)
	return m
}

// ObserveChat учитывает разобранный чат.
func (m *Metrics) ObserveChat(origin string, chat *domain.Chat, took time.Duration) {
	if m == nil || chat == nil {
		return
	}
	m.chatsParsed.WithLabelValues(origin).Inc()
	m.parseDuration.Observe(took.Seconds())

	counts := make(map[domain.MessageKind]int)
	for _, msg := range chat.Messages {
		counts[msg.Kind]++
	}
	for kind, n := range counts {
		m.messages.WithLabelValues(string(kind)).Add(float64(n))
	}
}

// TaskFinished учитывает завершенную задачу.
func (m *Metrics) TaskFinished(status string) {
	if m == nil {
		return
	}
	m.tasks.WithLabelValues(status).Inc()
}

// CacheLookup учитывает обращение к кэшу результатов.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Handler отдает метрики в текстовом формате Prometheus.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
