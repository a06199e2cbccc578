// Package metrics exposes Prometheus collectors for the HTTP surface, the
// query cache and the latest quality overview.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guttosm/contractpulse/internal/domain/models"
)

const namespace = "contractpulse"

// Metrics groups every collector the service publishes.
type Metrics struct {
	gatherer prometheus.Gatherer

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	sourceFetches   *prometheus.CounterVec

	contracts           prometheus.Gauge
	inconsistencyRate   prometheus.Gauge
	criticalContracts   prometheus.Gauge
	financialExposure   prometheus.Gauge
	penaltiesTotal      prometheus.Gauge
	highRiskPercentage  prometheus.Gauge
	autoRenewed         prometheus.Gauge
	expiringContracts   *prometheus.GaugeVec
	lastOverviewSeconds prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		gatherer: gatherer,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests served.",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Histogram of HTTP request durations in seconds.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"route", "method"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Query cache lookups by outcome (fresh, stale, miss).",
			},
			[]string{"result"},
		),
		sourceFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "source_fetches_total",
				Help:      "Contract data-source fetches by outcome.",
			},
			[]string{"outcome"},
		),
		contracts:          gauge("contracts_total", "Contracts in the last computed overview."),
		inconsistencyRate:  gauge("inconsistency_rate_percent", "Share of contracts with an inconsistency."),
		criticalContracts:  gauge("critical_contracts", "Contracts with critical status or alert."),
		financialExposure:  gauge("financial_exposure", "Summed value of high-risk contracts."),
		penaltiesTotal:     gauge("penalties_total", "Summed penalties over all contracts."),
		highRiskPercentage: gauge("high_risk_percent", "Share of high-risk contracts."),
		autoRenewed:        gauge("auto_renewed_contracts", "Contracts with renewed status."),
		expiringContracts: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "expiring_contracts",
				Help:      "Contracts expiring within the window (30d, 60d, 90d buckets).",
			},
			[]string{"window"},
		),
		lastOverviewSeconds: gauge("last_overview_timestamp_seconds", "Unix time of the last computed overview."),
	}

	reg.MustRegister(
		m.requestsTotal, m.requestDuration, m.cacheLookups, m.sourceFetches,
		m.contracts, m.inconsistencyRate, m.criticalContracts, m.financialExposure,
		m.penaltiesTotal, m.highRiskPercentage, m.autoRenewed, m.expiringContracts,
		m.lastOverviewSeconds,
	)
	return m
}

// NewDefault registers with the process-wide Prometheus registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

func gauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// CacheLookup implements cache.Observer.
func (m *Metrics) CacheLookup(result string) {
	m.cacheLookups.WithLabelValues(result).Inc()
}

// SourceFetch counts a data-source fetch; outcome is "ok", "no_data" or "error".
func (m *Metrics) SourceFetch(outcome string) {
	m.sourceFetches.WithLabelValues(outcome).Inc()
}

// PublishOverview mirrors an overview into the quality gauges.
func (m *Metrics) PublishOverview(q models.QualityMetrics, at time.Time) {
	m.contracts.Set(float64(q.TotalContracts))
	m.inconsistencyRate.Set(q.InconsistencyRate)
	m.criticalContracts.Set(float64(q.CriticalContracts))
	m.financialExposure.Set(q.TotalFinancialExposure)
	m.penaltiesTotal.Set(q.ProjectedPenalties)
	m.highRiskPercentage.Set(q.HighRiskPercentage)
	m.autoRenewed.Set(float64(q.AutoRenewedContracts))
	m.expiringContracts.WithLabelValues("30d").Set(float64(q.ContractsExpiring30Days))
	m.expiringContracts.WithLabelValues("60d").Set(float64(q.ContractsExpiring60Days))
	m.expiringContracts.WithLabelValues("90d").Set(float64(q.ContractsExpiring90Days))
	m.lastOverviewSeconds.Set(float64(at.Unix()))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
