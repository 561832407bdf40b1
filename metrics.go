package main

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"

	"landcheck/wizard"
)

type metrics struct {
	transitions *prometheus.CounterVec
	submissions *prometheus.CounterVec
	projections prometheus.Counter
	exports     *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "landcheck_wizard_transitions_total",
			Help: "Attempts to leave a wizard step, by step and outcome.",
		}, []string{"from", "outcome"}),
		submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "landcheck_submissions_total",
			Help: "Visitor submissions sent to the persistence API, by outcome.",
		}, []string{"outcome"}),
		projections: f.NewCounter(prometheus.CounterOpts{
			Name: "landcheck_projections_total",
			Help: "Projection reports computed.",
		}),
		exports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "landcheck_exports_total",
			Help: "Report exports, by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *metrics) transition(from wizard.Step, err error) {
	m.transitions.WithLabelValues(from.String(), transitionOutcome(err)).Inc()
}

func transitionOutcome(err error) string {
	var verr *wizard.ValidationError
	var serr *wizard.SubmitError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, wizard.ErrHardStop):
		return "hard_stop"
	case errors.Is(err, wizard.ErrNoOwnLand):
		return "no_own_land"
	case errors.As(err, &serr):
		return "submit_failed"
	}
	return "rejected"
}

func (m *metrics) submission(err error) {
	switch {
	case err == nil:
		m.submissions.WithLabelValues("ok").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		m.submissions.WithLabelValues("breaker_open").Inc()
	default:
		m.submissions.WithLabelValues("error").Inc()
	}
}

func (m *metrics) export(err error) {
	if err != nil {
		m.exports.WithLabelValues("error").Inc()
		return
	}
	m.exports.WithLabelValues("ok").Inc()
}
