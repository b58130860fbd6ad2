package cache

import (
	"time"

	"rex-crm-client/pkg/metrics"
)

// observe records the duration of a Redis operation and counts it as failed when err is set.
func observe(operation string, start time.Time, err error) {
	metrics.RedisOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues(operation).Inc()
	}
}
