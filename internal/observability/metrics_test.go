package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordWorkoutMutation(t *testing.T) {
	m := NewTestManager()
	m.RecordWorkoutMutation("create")
	m.RecordWorkoutMutation("create")
	m.RecordWorkoutMutation("delete")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterWorkoutMutations.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterWorkoutMutations.WithLabelValues("delete")))
}

func TestRecordWorkoutMutation_NilManager(t *testing.T) {
	var m *Manager
	assert.NotPanics(t, func() { m.RecordWorkoutMutation("create") })
}

func TestNewManagerRegistersCollectors(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()
	m.CounterRequests.WithLabelValues("GET", "/api/health", "200").Inc()

	families, err := reg.Gather()
	assert.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "fitlife_test_http_requests_total")
}
