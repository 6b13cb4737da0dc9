package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storyshelf_http_requests_total",
		Help: "Total number of HTTP requests served",
	}, []string{"method", "route", "status"})

	HttpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storyshelf_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	ThumbnailGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storyshelf_thumbnail_generations_total",
		Help: "Thumbnail render attempts by strategy and result",
	}, []string{"strategy", "result"})

	CatalogSyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storyshelf_catalog_sync_duration_seconds",
		Help:    "Duration of catalog syncs in seconds",
		Buckets: prometheus.DefBuckets,
	})

	CatalogWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storyshelf_catalog_writes_total",
		Help: "Metadata document write-backs by result",
	}, []string{"result"})

	CatalogBooks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storyshelf_catalog_books",
		Help: "Number of books in the last synced catalog",
	})
)
