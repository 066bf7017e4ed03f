package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	captureCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bfp_attendance",
		Subsystem: "capture",
		Name:      "events_total",
		Help:      "Number of face capture attempts grouped by outcome.",
	}, []string{"outcome"})

	recognitionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bfp_attendance",
		Subsystem: "capture",
		Name:      "recognition_duration_seconds",
		Help:      "Time spent detecting and matching a face per capture.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	indexSizeGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bfp_attendance",
		Subsystem: "face_index",
		Name:      "entries",
		Help:      "Number of face embeddings currently held in the in-memory index.",
	})
)

func init() {
	prometheus.MustRegister(captureCounter, recognitionDuration, indexSizeGauge)
}

// Capture outcomes recorded on the counter.
const (
	OutcomeTimeIn          = "time_in"
	OutcomeCooldown        = "cooldown"
	OutcomeAlreadyRecorded = "already_recorded"
	OutcomeNoFace          = "no_face"
	OutcomeUnrecognized    = "unrecognized"
	OutcomeError           = "error"
)

// RecordCapture counts one capture attempt by its outcome.
func RecordCapture(outcome string) {
	captureCounter.WithLabelValues(outcome).Inc()
}

// RecordRecognitionDuration observes one detect-and-match round trip.
func RecordRecognitionDuration(d time.Duration) {
	recognitionDuration.Observe(d.Seconds())
}

// SetIndexSize publishes the current face index entry count.
func SetIndexSize(n int) {
	indexSizeGauge.Set(float64(n))
}
