package testutils

import (
	"context"

	"github.com/opstack-relay/derive-node/eth"
	"github.com/opstack-relay/derive-node/rollup/derive"
)

// TestNextAttributes is a minimal derive.Stage double ported from
// original_source/crates/derive/src/pipeline/core.rs's TestNextAttributes
// test fixture: NextAttributes returns NextAttrs if set, or a temporary EOF
// (driving the pipeline to AdvanceOrigin) otherwise. AdvanceOrigin fails
// unless AdvanceErr is nil, modeling the "no L1 data available" case the
// Rust tests assert on (test_derivation_pipeline_missing_block).
type TestNextAttributes struct {
	NextAttrs  *derive.OptimismAttributesWithParent
	AdvanceErr error
	OriginRef  eth.BlockInfo
	HasOrigin  bool
	ResetErr   error
	FlushErr   error
}

var _ derive.Stage = (*TestNextAttributes)(nil)

func (t *TestNextAttributes) NextAttributes(_ context.Context, _ eth.L2BlockInfo) (*derive.OptimismAttributesWithParent, error) {
	if t.NextAttrs != nil {
		return t.NextAttrs, nil
	}
	return nil, derive.Temp(derive.EOF)
}

func (t *TestNextAttributes) AdvanceOrigin(_ context.Context) error {
	return t.AdvanceErr
}

func (t *TestNextAttributes) Origin() (eth.BlockInfo, bool) {
	return t.OriginRef, t.HasOrigin
}

func (t *TestNextAttributes) Reset(_ context.Context, _ eth.BlockInfo, _ *eth.SystemConfig) error {
	return t.ResetErr
}

func (t *TestNextAttributes) FlushChannel(_ context.Context) error {
	return t.FlushErr
}
