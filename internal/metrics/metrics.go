package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "depotvergleich_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	simulationsTotal   *prometheus.CounterVec
	simulationLatency  prometheus.Histogram
	grossUpUnconverged *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpLatency        *prometheus.HistogramVec
	reportExports      *prometheus.CounterVec
)

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		simulationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "simulations_total",
				Help: "Total projection runs by result",
			},
			[]string{"result"},
		)
		simulationLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "simulation_duration_seconds",
				Help:    "Projection run duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		)
		grossUpUnconverged = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "grossup_unconverged_total",
				Help: "Payout months whose gross-up search fell back to the upper bound, by vehicle",
			},
			[]string{"vehicle"},
		)
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total API requests by route and status",
			},
			[]string{"route", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "API request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		)
		reportExports = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_exports_total",
				Help: "Total rendered reports by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			simulationsTotal,
			simulationLatency,
			grossUpUnconverged,
			httpRequests,
			httpLatency,
			reportExports,
		)
	})
}

// Recorder forwards engine measurements to Prometheus
type Recorder struct{}

// NewRecorder registers the collectors and returns a recorder for the projection engine
func NewRecorder() Recorder {
	Init()
	return Recorder{}
}

func (Recorder) ObserveSimulation(seconds float64, err error) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if simulationsTotal != nil {
		simulationsTotal.WithLabelValues(result).Inc()
	}
	if simulationLatency != nil {
		simulationLatency.Observe(seconds)
	}
}

func (Recorder) GrossUpNotConverged(vehicle string) {
	if grossUpUnconverged != nil {
		grossUpUnconverged.WithLabelValues(vehicle).Inc()
	}
}

// ObserveHTTPRequest records one API request
func ObserveHTTPRequest(route string, status int, duration time.Duration) {
	if httpRequests != nil {
		httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	}
	if httpLatency != nil {
		httpLatency.WithLabelValues(route).Observe(duration.Seconds())
	}
}

// IncReportExport counts a rendered report
func IncReportExport(format string, err error) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if reportExports != nil {
		reportExports.WithLabelValues(format, result).Inc()
	}
}
