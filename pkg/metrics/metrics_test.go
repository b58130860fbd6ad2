package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitIsIdempotent(t *testing.T) {
	assert.NotPanics(t, Init)
	assert.NotPanics(t, Init)
}

func TestRexRequestsCounter(t *testing.T) {
	counter := RexRequestsTotal.WithLabelValues("Listings", "read", "ok")
	before := testutil.ToFloat64(counter)

	counter.Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
