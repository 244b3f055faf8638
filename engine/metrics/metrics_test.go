package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	c.Transaction(ResultOK)
	c.Transaction(ResultOK)
	c.Transaction(ResultBounced)
	c.Deployment("question")
	c.Collection()
	c.Charged(1000, 7)
	c.Pending(3)

	require.Equal(t, 2.0, testutil.ToFloat64(c.transactions.WithLabelValues(ResultOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(c.transactions.WithLabelValues(ResultBounced)))
	require.Equal(t, 1.0, testutil.ToFloat64(c.deployments.WithLabelValues("question")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.collections))
	require.Equal(t, 1000.0, testutil.ToFloat64(c.gas))
	require.Equal(t, 7.0, testutil.ToFloat64(c.rent))
	require.Equal(t, 3.0, testutil.ToFloat64(c.pending))
}

func TestCollectorRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	require.Error(t, err)
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	require.NotPanics(t, func() {
		c.Transaction(ResultFailed)
		c.Deployment("root")
		c.Collection()
		c.Charged(1, 1)
		c.Pending(1)
	})
}
