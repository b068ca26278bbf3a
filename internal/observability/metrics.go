package observability

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge
	apiErrors   *prometheus.CounterVec

	storageLatency   *prometheus.HistogramVec
	storageConflicts *prometheus.CounterVec
	storageRetries   *prometheus.CounterVec

	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	v := strings.TrimSpace(os.Getenv("METRICS_ENABLED"))
	if v == "" {
		return false
	}
	return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
}

func Current() *Metrics {
	return instance
}

// Init builds the process-wide metrics once. It returns nil when
// METRICS_ENABLED is off; every method is safe on a nil *Metrics.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics initialized")
		}
	})
	return instance
}

// NewMetrics builds metrics on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total API requests by method/route/resource/status and caller.",
		}, []string{"method", "route", "resource", "status", "caller"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "API request latency in seconds by method/route.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "In-flight API requests.",
		}),
		apiErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Error envelopes written by resource/code.",
		}, []string{"resource", "code"}),
		storageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storage_operation_duration_seconds",
			Help:    "Storage unit of work latency in seconds by entity/op/status/tx.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}, []string{"entity", "op", "status", "tx"}),
		storageConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storage_conflicts_total",
			Help: "Storage operations that ended in a conflict, by entity/op.",
		}, []string{"entity", "op"}),
		storageRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storage_retries_total",
			Help: "Storage operations that ended in a retryable failure, by entity/op.",
		}, []string{"entity", "op"}),
		redisUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "redis_up",
			Help: "1 when the last redis ping succeeded.",
		}),
		redisPing: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "redis_ping_seconds",
			Help: "Latency of the last redis ping.",
		}),
	}
	reg.MustRegister(
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.apiErrors,
		m.storageLatency,
		m.storageConflicts,
		m.storageRetries,
		m.redisUp,
		m.redisPing,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the Prometheus exposition of m.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// APIRequest labels one finished HTTP request.
type APIRequest struct {
	Method        string
	Route         string
	Resource      string
	Status        string
	Authenticated bool
}

func (m *Metrics) ObserveAPI(req APIRequest, dur time.Duration) {
	if m == nil {
		return
	}
	method := orDefault(req.Method, "UNKNOWN")
	route := orDefault(req.Route, "unknown")
	caller := "anonymous"
	if req.Authenticated {
		caller = "user"
	}
	m.apiRequests.WithLabelValues(method, route, orDefault(req.Resource, "unknown"), orDefault(req.Status, "0"), caller).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) IncAPIError(resource, code string) {
	if m == nil {
		return
	}
	m.apiErrors.WithLabelValues(orDefault(resource, "unknown"), orDefault(code, "internal")).Inc()
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// StorageOperation labels one finished storage unit of work. CallerManaged
// units ran inside a transaction opened by the caller.
type StorageOperation struct {
	Entity        string
	Op            string
	Status        string
	CallerManaged bool
}

func (m *Metrics) ObserveStorageOperation(op StorageOperation, dur time.Duration) {
	if m == nil {
		return
	}
	tx := "self"
	if op.CallerManaged {
		tx = "caller"
	}
	m.storageLatency.WithLabelValues(orDefault(op.Entity, "unknown"), op.Op, orDefault(op.Status, "success"), tx).Observe(dur.Seconds())
}

func (m *Metrics) IncStorageConflict(entity, op string) {
	if m == nil {
		return
	}
	m.storageConflicts.WithLabelValues(orDefault(entity, "unknown"), op).Inc()
}

func (m *Metrics) IncStorageRetry(entity, op string) {
	if m == nil {
		return
	}
	m.storageRetries.WithLabelValues(orDefault(entity, "unknown"), op).Inc()
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

// RegisterDBStats exports database/sql pool stats of db under db_name.
func (m *Metrics) RegisterDBStats(log *logger.Logger, db *gorm.DB, dbName string) {
	if m == nil || db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("metrics: db stats unavailable", "error", err)
		}
		return
	}
	if err := m.registry.Register(collectors.NewDBStatsCollector(sqlDB, dbName)); err != nil && log != nil {
		log.Warn("metrics: db stats collector not registered", "error", err)
	}
}

// StartRedisCollector pings rdb on an interval until ctx is done.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

func scrapeInterval() time.Duration {
	v := strings.TrimSpace(os.Getenv("METRICS_SCRAPE_INTERVAL_SECONDS"))
	if v == "" {
		return 15 * time.Second
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return 15 * time.Second
}
