package derive

import "github.com/opstack-relay/derive-node/eth"

// Metrics is the capability the pipeline reports its lifecycle through. Kept
// as a narrow interface (rather than a concrete *metrics.Metrics pointer) so
// tests can supply a fake, the same shape the teacher's derivation package
// uses for its own Metrics dependency.
type Metrics interface {
	RecordPipelineReset()
	RecordDerivationError()
	RecordL1Ref(name string, ref eth.L1BlockRef)
	RecordL2Ref(name string, ref eth.L2BlockInfo)
}

// NoopMetrics discards everything; used where a caller has no metrics
// backend wired up (e.g. the fixture runner in tests).
type NoopMetrics struct{}

func (NoopMetrics) RecordPipelineReset()                       {}
func (NoopMetrics) RecordDerivationError()                     {}
func (NoopMetrics) RecordL1Ref(name string, ref eth.L1BlockRef)  {}
func (NoopMetrics) RecordL2Ref(name string, ref eth.L2BlockInfo) {}
