package testutils

import (
	"github.com/opstack-relay/derive-node/eth"
	"github.com/opstack-relay/derive-node/rollup/derive"
)

// TestDerivationMetrics counts calls instead of exporting them, so tests can
// assert on reset/error counts without standing up a Prometheus registry.
type TestDerivationMetrics struct {
	ResetCount int
	ErrorCount int
	L1Refs     map[string]eth.L1BlockRef
	L2Refs     map[string]eth.L2BlockInfo
}

var _ derive.Metrics = (*TestDerivationMetrics)(nil)

func NewTestDerivationMetrics() *TestDerivationMetrics {
	return &TestDerivationMetrics{
		L1Refs: make(map[string]eth.L1BlockRef),
		L2Refs: make(map[string]eth.L2BlockInfo),
	}
}

func (m *TestDerivationMetrics) RecordPipelineReset()   { m.ResetCount++ }
func (m *TestDerivationMetrics) RecordDerivationError() { m.ErrorCount++ }
func (m *TestDerivationMetrics) RecordL1Ref(name string, ref eth.L1BlockRef) {
	m.L1Refs[name] = ref
}
func (m *TestDerivationMetrics) RecordL2Ref(name string, ref eth.L2BlockInfo) {
	m.L2Refs[name] = ref
}
