package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const promNamespace = "hl_action_server"

type Prometheus struct {
	registry       *prometheus.Registry
	actions        *prometheus.CounterVec
	actionFailures *prometheus.CounterVec
	recordFailures prometheus.Counter
}

func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "actions_total",
		Help:      "Total number of attempted actions by type.",
	}, []string{"action"})
	actionFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "action_failures_total",
		Help:      "Total number of failed actions by type and reason.",
	}, []string{"action", "reason"})
	recordFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "record_failures_total",
		Help:      "Total number of action log write failures.",
	})

	registry.MustRegister(actions, actionFailures, recordFailures)

	return &Prometheus{
		registry:       registry,
		actions:        actions,
		actionFailures: actionFailures,
		recordFailures: recordFailures,
	}
}

func (p *Prometheus) ActionAttempt(action string) {
	p.actions.WithLabelValues(action).Inc()
}

func (p *Prometheus) ActionFailure(action, reason string) {
	p.actionFailures.WithLabelValues(action, reason).Inc()
}

func (p *Prometheus) RecordFailure() {
	p.recordFailures.Inc()
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
