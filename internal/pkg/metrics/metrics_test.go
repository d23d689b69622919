package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()

	c.Renewals.WithLabelValues("monthly", "ok").Inc()
	c.Renewals.WithLabelValues("monthly", "ok").Inc()
	c.Expirations.Add(3)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.Renewals.WithLabelValues("monthly", "ok")))
	assert.Equal(t, float64(3), testutil.ToFloat64(c.Expirations))
	assert.NotNil(t, c.Handler())
}
