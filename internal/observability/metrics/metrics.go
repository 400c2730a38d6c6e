package metrics

import "github.com/prometheus/client_golang/prometheus"

// VoiceMetrics exposes counters/histograms for the call flow.
type VoiceMetrics struct {
	webhookTotal   *prometheus.CounterVec
	webhookLatency *prometheus.HistogramVec
	rephraseTotal  *prometheus.CounterVec
}

func NewVoiceMetrics(reg prometheus.Registerer) *VoiceMetrics {
	m := &VoiceMetrics{
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bfsi",
			Subsystem: "voice",
			Name:      "webhook_total",
			Help:      "Total voice webhook requests by stage",
		}, []string{"stage", "status"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bfsi",
			Subsystem: "voice",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of voice webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		rephraseTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bfsi",
			Subsystem: "voice",
			Name:      "rephrase_total",
			Help:      "Rephrasing attempts by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.webhookTotal, m.webhookLatency, m.rephraseTotal)
	return m
}

func (m *VoiceMetrics) ObserveWebhook(stage, status string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(stage, status).Inc()
}

func (m *VoiceMetrics) ObserveWebhookLatency(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(stage).Observe(seconds)
}

// ObserveRephrase satisfies conversation.RephraseMetrics.
func (m *VoiceMetrics) ObserveRephrase(outcome string) {
	if m == nil {
		return
	}
	m.rephraseTotal.WithLabelValues(outcome).Inc()
}
