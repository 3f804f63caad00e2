// Package metrics registers the Prometheus instruments shared by the
// transport and the submission pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SubmissionsReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "solicitacoes_received_total",
		Help: "Total purchase-request submissions accepted for processing",
	})
	SubmissionsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "solicitacoes_failed_total",
		Help: "Submissions that ended in an error response",
	})
	WebhookFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "webhook_failures_total",
		Help: "Best-effort webhook dispatches that failed (request still succeeded)",
	})
	SubmissionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "solicitacao_duration_seconds",
		Help: "Time to process a submission end-to-end",
	})
)

func init() {
	prometheus.MustRegister(
		SubmissionsReceived,
		SubmissionsFailed,
		WebhookFailures,
		SubmissionDuration,
	)
}
