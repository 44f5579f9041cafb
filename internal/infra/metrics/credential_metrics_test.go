package metrics

import (
	"strings"
	"testing"
	"time"

	domainerrors "library/internal/domain/errors"
	"library/internal/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialMetrics_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewCredentialMetrics(reg, "test")
	require.NoError(t, err)

	m.ObserveHash(2*time.Millisecond, nil)
	m.ObserveHash(time.Millisecond, domainerrors.ErrInvalidInput.WrapMessage("empty"))
	m.ObserveVerify(time.Millisecond, true, nil)
	m.ObserveVerify(time.Millisecond, false, nil)
	m.ObserveVerify(time.Millisecond, false, nil)
	m.ObserveVerify(0, false, domainerrors.ErrInvalidCredentialRecord.WrapMessage("bad"))
	m.ObserveVerify(0, false, errors.New("boom"))

	assert.InDelta(t, 1, testutil.ToFloat64(m.hashes.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.hashes.WithLabelValues(OutcomeError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.verifications.WithLabelValues(OutcomeMatch)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.verifications.WithLabelValues(OutcomeMismatch)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.verifications.WithLabelValues(OutcomeMalformed)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.verifications.WithLabelValues(OutcomeError)), 0)

	// One series per operation; malformed verifications add no sample.
	count, err := testutil.GatherAndCount(reg, "test_credential_derivation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	samples := map[string]uint64{}
	for _, family := range families {
		if family.GetName() != "test_credential_derivation_duration_seconds" {
			continue
		}
		for _, metric := range family.GetMetric() {
			samples[metric.GetLabel()[0].GetValue()] = metric.GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, map[string]uint64{OperationHash: 2, OperationVerify: 4}, samples)
}

func TestNewCredentialMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewCredentialMetrics(reg, "test")
	require.NoError(t, err)
	second, err := NewCredentialMetrics(reg, "test")
	require.NoError(t, err)

	first.ObserveVerify(time.Millisecond, true, nil)
	second.ObserveVerify(time.Millisecond, true, nil)

	assert.InDelta(t, 2, testutil.ToFloat64(first.verifications.WithLabelValues(OutcomeMatch)), 0)
}

func TestNewCredentialMetrics_DefaultNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewCredentialMetrics(reg, "")
	require.NoError(t, err)

	m.ObserveHash(time.Millisecond, nil)

	err = testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP library_credential_hashes_total Credential records created, by result.
# TYPE library_credential_hashes_total counter
library_credential_hashes_total{result="ok"} 1
`), "library_credential_hashes_total")
	assert.NoError(t, err)
}
