package services

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pinUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pinning_uploads_total",
			Help: "Uploads forwarded to the pinning provider partitioned by outcome",
		},
		[]string{"provider", "outcome"},
	)

	pinUploadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pinning_upload_duration_seconds",
			Help:    "Latency of pinning provider uploads in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"provider"},
	)
)

func observePin(provider string, err error, d time.Duration) {
	pinUploadsTotal.WithLabelValues(provider, pinOutcome(err)).Inc()
	pinUploadDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func pinOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrMissingCID):
		return "missing_cid"
	case StatusCodeOf(err) != 0:
		return "http_error"
	default:
		return "error"
	}
}
