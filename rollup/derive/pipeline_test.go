package derive

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opstack-relay/derive-node/eth"
	"github.com/opstack-relay/derive-node/rollup/derive/testutils"
)

// Ported from original_source/crates/derive/src/pipeline/core.rs's test
// module: the Rust suite drives DerivationPipeline against a TestNextAttributes
// double and asserts on Step's resulting StepResult / the prepared queue, the
// same shape this file exercises against the Go port.

func newTestPipeline(top Stage) (*DerivationPipeline, *testutils.TestL2ChainProvider, *testutils.TestDerivationMetrics) {
	l2 := testutils.NewTestL2ChainProvider()
	metrics := testutils.NewTestDerivationMetrics()
	dp := NewDerivationPipeline(nil, metrics, nil, l2, top)
	return dp, l2, metrics
}

func TestPipelineNextAttributesEmpty(t *testing.T) {
	top := &testutils.TestNextAttributes{}
	dp, _, _ := newTestPipeline(top)
	assert.Nil(t, dp.Peek())
	assert.Nil(t, dp.Next())
}

func TestPipelineNextAttributesWithPeek(t *testing.T) {
	attrs := &OptimismAttributesWithParent{Parent: eth.L2BlockInfo{Number: 1}}
	top := &testutils.TestNextAttributes{NextAttrs: attrs}
	dp, _, _ := newTestPipeline(top)

	result := dp.Step(context.Background(), eth.L2BlockInfo{Number: 0})
	assert.Equal(t, PreparedAttributes, result.Kind)

	got := dp.Peek()
	require.NotNil(t, got)
	assert.Equal(t, attrs, got)

	popped := dp.Next()
	assert.Equal(t, attrs, popped)
	assert.Nil(t, dp.Next())
}

// test_derivation_pipeline_missing_block: NextAttributes returns EOF (no
// NextAttrs configured), and AdvanceOrigin itself fails - Step must report
// OriginAdvanceErr carrying that failure, not silently drop it.
func TestDerivationPipelineMissingBlock(t *testing.T) {
	advanceErr := errors.New("no more L1 blocks")
	top := &testutils.TestNextAttributes{AdvanceErr: advanceErr}
	dp, _, _ := newTestPipeline(top)

	result := dp.Step(context.Background(), eth.L2BlockInfo{})
	assert.Equal(t, OriginAdvanceErr, result.Kind)
	assert.ErrorIs(t, result.Err, advanceErr)
}

func TestDerivationPipelinePreparedAttributes(t *testing.T) {
	attrs := &OptimismAttributesWithParent{Parent: eth.L2BlockInfo{Number: 5}}
	top := &testutils.TestNextAttributes{NextAttrs: attrs}
	dp, _, _ := newTestPipeline(top)

	result := dp.Step(context.Background(), eth.L2BlockInfo{Number: 4})
	assert.Equal(t, PreparedAttributes, result.Kind)
	assert.Equal(t, 1, dp.prepared.Len())

	// Stepping again asks the stage for the next attributes regardless of
	// what is already queued, and pushes exactly one more record.
	result = dp.Step(context.Background(), eth.L2BlockInfo{Number: 4})
	assert.Equal(t, PreparedAttributes, result.Kind)
	assert.Equal(t, 2, dp.prepared.Len())
}

func TestDerivationPipelineAdvanceOrigin(t *testing.T) {
	top := &testutils.TestNextAttributes{AdvanceErr: nil}
	dp, _, _ := newTestPipeline(top)

	result := dp.Step(context.Background(), eth.L2BlockInfo{})
	assert.Equal(t, AdvancedOrigin, result.Kind)
	assert.Nil(t, result.Err)
}

func TestDerivationPipelineSignalResetMissingSysConfig(t *testing.T) {
	top := &testutils.TestNextAttributes{}
	dp, _, _ := newTestPipeline(top)

	err := dp.Signal(context.Background(), ResetSignal{L2SafeHead: eth.L2BlockInfo{Number: 42}})
	require.Error(t, err)
	assert.True(t, IsTemporary(err), "missing SystemConfig should surface as a temporary ProviderError")
}

func TestDerivationPipelineSignalResetOk(t *testing.T) {
	top := &testutils.TestNextAttributes{}
	dp, l2, metrics := newTestPipeline(top)
	l2.SystemConfigs[7] = eth.SystemConfig{GasLimit: 30_000_000}

	attrs := &OptimismAttributesWithParent{Parent: eth.L2BlockInfo{Number: 7}}
	dp.prepared.PushBack(attrs)
	require.Equal(t, 1, dp.prepared.Len())

	err := dp.Signal(context.Background(), ResetSignal{L2SafeHead: eth.L2BlockInfo{Number: 7}})
	require.NoError(t, err)
	assert.Equal(t, 0, dp.prepared.Len(), "Reset must clear the prepared queue")
	assert.Equal(t, 1, metrics.ResetCount)
}

func TestDerivationPipelineSignalFlushChannel(t *testing.T) {
	top := &testutils.TestNextAttributes{}
	dp, _, _ := newTestPipeline(top)
	dp.prepared.PushBack(&OptimismAttributesWithParent{})

	err := dp.Signal(context.Background(), FlushChannelSignal{})
	require.NoError(t, err)
	assert.Equal(t, 0, dp.prepared.Len())
}

func TestDerivationPipelineSignalUnknownType(t *testing.T) {
	top := &testutils.TestNextAttributes{}
	dp, _, _ := newTestPipeline(top)

	err := dp.Signal(context.Background(), unknownSignal{})
	require.Error(t, err)
	assert.True(t, IsCritical(err))
}

type unknownSignal struct{}

func (unknownSignal) isSignal() {}
