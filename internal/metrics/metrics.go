// Package metrics exposes Prometheus collectors for the storefront.
//
//	app.Use(metrics.Middleware())
//	app.Get("/metrics", metrics.Handler())
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"perfumeria/internal/domain"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "perfumeria",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// CatalogProducts is refreshed every time the listing is built.
	CatalogProducts = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "perfumeria",
			Subsystem: "catalog",
			Name:      "products",
			Help:      "Perfumes in the catalog by availability.",
		},
		[]string{"estado"},
	)

	AdminMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "perfumeria",
			Subsystem: "admin",
			Name:      "mutations_total",
			Help:      "Catalog writes made from the admin panel.",
		},
		[]string{"action", "result"}, // create|update|delete, ok|fail
	)

	ImageUploadBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "perfumeria",
		Subsystem: "storage",
		Name:      "image_upload_bytes",
		Help:      "Size of uploaded perfume images.",
		Buckets:   []float64{10_000, 50_000, 100_000, 250_000, 500_000},
	})
)

// Registry holds every collector served on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Registry.MustRegister(RequestDuration, CatalogProducts, AdminMutations, ImageUploadBytes)
}

// Middleware records request latency labelled by the matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		RequestDuration.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}

// ObserveCatalog sets the per-status gauge from a full listing.
func ObserveCatalog(ps []domain.Product) {
	counts := map[domain.Status]int{}
	for _, p := range ps {
		counts[p.Estado.Normalize()]++
	}
	for _, st := range domain.Statuses {
		CatalogProducts.WithLabelValues(string(st)).Set(float64(counts[st]))
	}
}

func Mutation(action string, err error) {
	result := "ok"
	if err != nil {
		result = "fail"
	}
	AdminMutations.WithLabelValues(action, result).Inc()
}
