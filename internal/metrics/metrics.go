package metrics

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "base_faucet"

type Metrics struct {
	registry *prometheus.Registry

	totalFundingWei *prometheus.CounterVec
	totalFundingTxs *prometheus.CounterVec
	txDuration      prometheus.Histogram

	rejectedClaims *prometheus.CounterVec
	viewFailures   *prometheus.CounterVec

	info *prometheus.GaugeVec
	up   prometheus.Gauge
}

var _ Metricer = (*Metrics)(nil)

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return newMetrics(registry)
}

func newMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,

		info: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "info",
			Help:      "Pseudo-metric tracking version info",
		}, []string{"version"}),
		up: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "up",
			Help:      "1 if the faucet has finished starting up",
		}),

		totalFundingWei: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "funding_wei_total",
			Help:      "Total of funding wei",
		}, []string{"result"}),
		totalFundingTxs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "funding_txs_total",
			Help:      "Count of funding txs",
		}, []string{"result"}),
		txDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "funding_duration_seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			Help:      "Duration it takes to build, sign and broadcast a funding tx",
		}),

		rejectedClaims: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "claims_rejected_total",
			Help:      "Count of claims rejected before dispatch",
		}, []string{"reason"}),
		viewFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "view_fetch_failures_total",
			Help:      "Count of balance and history fetches that degraded to their empty state",
		}, []string{"view"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordInfo sets a pseudo-metric that contains versioning info.
func (m *Metrics) RecordInfo(version string) {
	m.info.WithLabelValues(version).Set(1)
}

// RecordUp sets the up metric to 1.
func (m *Metrics) RecordUp() {
	m.up.Set(1)
}

func (m *Metrics) RecordFundAction(amount *big.Int) (onDone func(err error)) {
	timer := prometheus.NewTimer(m.txDuration)
	return func(err error) {
		timer.ObserveDuration()
		result := "success"
		if err != nil {
			result = "failed"
		}
		m.totalFundingTxs.WithLabelValues(result).Inc()
		wei, _ := new(big.Float).SetInt(amount).Float64()
		m.totalFundingWei.WithLabelValues(result).Add(wei)
	}
}

func (m *Metrics) RecordClaimRejected(reason string) {
	m.rejectedClaims.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordViewFailure(view string) {
	m.viewFailures.WithLabelValues(view).Inc()
}
