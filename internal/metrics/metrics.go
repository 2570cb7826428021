package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "prepdeck", Name: "http_requests_total", Help: "Number of HTTP requests by method, route and status."},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "prepdeck", Name: "http_request_duration_seconds", Help: "HTTP request latency by method and route."},
		[]string{"method", "route"},
	)
	NotesIngested = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "prepdeck", Name: "notes_ingested_total", Help: "Number of notes successfully ingested."},
	)
	PDFRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "prepdeck", Name: "pdf_renders_total", Help: "Number of note PDF renders by outcome."},
		[]string{"outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
	reg.MustRegister(NotesIngested)
	reg.MustRegister(PDFRenders)
}
