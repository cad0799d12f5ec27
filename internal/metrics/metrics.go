// Package metrics declares the Prometheus collectors of the extraction engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DocumentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docextract_documents_processed_total",
			Help: "Total number of documents run through an extractor",
		},
		[]string{"kind", "status"},
	)

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docextract_extraction_duration_seconds",
			Help:    "Duration of text extraction plus field extraction per document",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"kind"},
	)

	RecordsExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docextract_records_extracted_total",
			Help: "Total number of records (order lines, licenses, registrations) produced",
		},
		[]string{"kind"},
	)

	CityResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docextract_city_resolutions_total",
			Help: "City locator outcomes by winning plan",
		},
		[]string{"plan", "outcome"},
	)

	ChoicesPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docextract_city_choices_pending",
			Help: "Workers blocked waiting for an interactive city choice",
		},
	)
)
