// Package metrics exposes credential hashing activity as Prometheus collectors.
package metrics

import (
	"time"

	"library/config"
	domainerrors "library/internal/domain/errors"
	"library/internal/errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeMatch     = "match"
	OutcomeMismatch  = "mismatch"
	OutcomeMalformed = "malformed"
	OutcomeError     = "error"

	OperationHash   = "hash"
	OperationVerify = "verify"
)

// CredentialMetrics records derivation counts and latency. It satisfies auth.Observer.
type CredentialMetrics struct {
	hashes        *prometheus.CounterVec
	verifications *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// NewCredentialMetrics registers the collectors on reg. Collectors already
// registered under the same names are reused.
func NewCredentialMetrics(reg prometheus.Registerer, namespace string) (*CredentialMetrics, error) {
	if namespace == "" {
		namespace = config.DefaultMetricsNamespace
	}

	hashes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "credential",
		Name:      "hashes_total",
		Help:      "Credential records created, by result.",
	}, []string{"result"})

	verifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "credential",
		Name:      "verifications_total",
		Help:      "Credential verifications, by outcome.",
	}, []string{"outcome"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "credential",
		Name:      "derivation_duration_seconds",
		Help:      "Time spent deriving PBKDF2 keys.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	}, []string{"operation"})

	var err error
	if hashes, err = register(reg, hashes); err != nil {
		return nil, err
	}
	if verifications, err = register(reg, verifications); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}

	return &CredentialMetrics{
		hashes:        hashes,
		verifications: verifications,
		duration:      duration,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, collector C) (C, error) {
	if err := reg.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}

		return collector, errors.Wrap(err, "register credential collector")
	}

	return collector, nil
}

// ObserveHash counts a hash attempt and its latency.
func (m *CredentialMetrics) ObserveHash(elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = OutcomeError
	}
	m.hashes.WithLabelValues(result).Inc()
	m.duration.WithLabelValues(OperationHash).Observe(elapsed.Seconds())
}

// ObserveVerify counts a verification by outcome. Malformed records are not
// derived, so they add no latency sample.
func (m *CredentialMetrics) ObserveVerify(elapsed time.Duration, match bool, err error) {
	outcome := verifyOutcome(match, err)
	m.verifications.WithLabelValues(outcome).Inc()
	if outcome != OutcomeMalformed {
		m.duration.WithLabelValues(OperationVerify).Observe(elapsed.Seconds())
	}
}

func verifyOutcome(match bool, err error) string {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidCredentialRecord):
		return OutcomeMalformed
	case err != nil:
		return OutcomeError
	case match:
		return OutcomeMatch
	default:
		return OutcomeMismatch
	}
}
