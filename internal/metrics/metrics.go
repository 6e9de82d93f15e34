// Package metrics provides Prometheus metrics for the HomeFiles server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homefiles_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"profile", "method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homefiles_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"profile", "method", "route"},
	)

	bytesDownloaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homefiles_bytes_downloaded_total",
			Help: "Total bytes sent by file and folder downloads",
		},
		[]string{"kind"},
	)

	bytesUploaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homefiles_bytes_uploaded_total",
			Help: "Total bytes stored by uploads",
		},
	)

	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homefiles_uploads_total",
			Help: "Total number of upload attempts",
		},
		[]string{"status"},
	)

	registryEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "homefiles_registry_entries",
			Help: "Number of shared entries in the registry",
		},
	)

	archiveBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "homefiles_archive_build_duration_seconds",
			Help:    "Time to build a folder archive",
			Buckets: prometheus.DefBuckets,
		},
	)

	eventSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "homefiles_event_subscribers",
			Help: "Number of connected live update subscribers",
		},
	)

	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homefiles_events_published_total",
			Help: "Total number of registry events published",
		},
		[]string{"type"},
	)
)

// Handler returns the Prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records one served HTTP request
func RecordRequest(profile, method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(profile, method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(profile, method, route).Observe(duration.Seconds())
}

// AddBytesDownloaded counts bytes sent for a download of the given kind
func AddBytesDownloaded(kind string, n int64) {
	bytesDownloaded.WithLabelValues(kind).Add(float64(n))
}

// RecordUpload counts an upload attempt and, on success, its size
func RecordUpload(status string, size int64) {
	uploadsTotal.WithLabelValues(status).Inc()
	if size > 0 {
		bytesUploaded.Add(float64(size))
	}
}

// SetRegistryEntries sets the registry size gauge
func SetRegistryEntries(n int) {
	registryEntries.Set(float64(n))
}

// ObserveArchiveBuild records how long an archive took to build
func ObserveArchiveBuild(d time.Duration) {
	archiveBuildDuration.Observe(d.Seconds())
}

// SetEventSubscribers sets the live subscriber gauge
func SetEventSubscribers(n int) {
	eventSubscribers.Set(float64(n))
}

// RecordEvent counts a published event
func RecordEvent(eventType string) {
	eventsPublished.WithLabelValues(eventType).Inc()
}
