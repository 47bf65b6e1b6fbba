package metrics

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/opstack-relay/derive-node/eth"
	"github.com/opstack-relay/derive-node/rollup/derive"
)

var _ derive.Metrics = (*Metrics)(nil)

const Namespace = "derive_node"

// Metrics is the Prometheus-backed implementation of derive.Metrics, adapted
// from the teacher's op-node/metrics.Metrics: same promauto-registered-gauge
// construction style, trimmed to the subset of series this module's single
// pipeline instance (rather than a full node) produces.
type Metrics struct {
	Info prometheus.Gauge

	DerivationIdle   prometheus.Gauge
	PipelineResets   prometheus.Counter
	DerivationErrors prometheus.Counter

	RefsNumber *prometheus.GaugeVec
	RefsTime   *prometheus.GaugeVec
	RefsHash   *prometheus.GaugeVec

	registry *prometheus.Registry
}

func NewMetrics(procName string) *Metrics {
	if procName == "" {
		procName = "default"
	}
	ns := Namespace + "_" + procName

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewGoCollector())

	return &Metrics{
		Info: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "info",
			Help:      "Pseudo-metric tracking the runner's build info",
		}),
		DerivationIdle: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "derivation_idle",
			Help:      "1 if the derivation pipeline is idle (prepared queue drained, no progress this step)",
		}),
		PipelineResets: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "pipeline_resets_total",
			Help:      "Number of derivation pipeline resets",
		}),
		DerivationErrors: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "derivation_errors_total",
			Help:      "Number of non-temporary derivation errors",
		}),
		RefsNumber: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "refs_number",
			Help:      "Gauge representing the different L1/L2 reference block numbers",
		}, []string{"layer", "type"}),
		RefsTime: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "refs_time",
			Help:      "Gauge representing the different L1/L2 reference block timestamps",
		}, []string{"layer", "type"}),
		RefsHash: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "refs_hash",
			Help:      "Gauge representing the last 6 bytes of the different L1/L2 reference block hashes",
		}, []string{"layer", "type"}),
		registry: registry,
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) RecordPipelineReset() {
	m.PipelineResets.Inc()
}

func (m *Metrics) RecordDerivationError() {
	m.DerivationErrors.Inc()
}

func (m *Metrics) RecordL1Ref(name string, ref eth.L1BlockRef) {
	m.recordRef("l1", name, ref.Number, ref.Time, ref.Hash)
}

func (m *Metrics) RecordL2Ref(name string, ref eth.L2BlockInfo) {
	m.recordRef("l2", name, ref.Number, ref.Time, ref.Hash)
}

func (m *Metrics) recordRef(layer, name string, num, t uint64, h common.Hash) {
	m.RefsNumber.WithLabelValues(layer, name).Set(float64(num))
	m.RefsTime.WithLabelValues(layer, name).Set(float64(t))
	m.RefsHash.WithLabelValues(layer, name).Set(float64(truncatedHash(h)))
}

// truncatedHash takes the low 6 bytes of a hash so the result survives a
// round trip through a float64 gauge without losing precision, matching the
// teacher's RefsHash convention.
func truncatedHash(h common.Hash) uint64 {
	var v uint64
	for _, b := range h[len(h)-6:] {
		v = v<<8 | uint64(b)
	}
	return v
}
