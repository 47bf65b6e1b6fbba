package derive

import (
	"context"

	"github.com/opstack-relay/derive-node/eth"
)

// NextAttributes is the capability that produces the pipeline's output: given
// an L2 cursor, either the next OptimismAttributesWithParent, or
// ErrNotEnoughData/EOF if more L1 data is needed, or a critical error.
type NextAttributes interface {
	NextAttributes(ctx context.Context, cursor eth.L2BlockInfo) (*OptimismAttributesWithParent, error)
}

// OriginAdvancer pulls the next L1 block into the bottom stage; the call may
// cascade upward through stages that react to a new origin becoming
// available (e.g. the channel bank timing out a channel).
type OriginAdvancer interface {
	AdvanceOrigin(ctx context.Context) error
}

// OriginProvider exposes the L1 block currently anchoring a stage. Returns
// the zero value and false before the stage has ever been anchored.
type OriginProvider interface {
	Origin() (eth.BlockInfo, bool)
}

// ResettableStage clears a stage's internal buffers and re-anchors it to a
// fresh L1 origin. Per spec §4.1, implementations must reset their inner
// successor stage first (head-recursion), then clear their own state.
type ResettableStage interface {
	Reset(ctx context.Context, l1Origin eth.BlockInfo, sysConfig *eth.SystemConfig) error
}

// FlushableStage drops the in-flight channel in the channel bank; the other
// stages clear their own buffers (if any) and pass the call to their inner
// stage.
type FlushableStage interface {
	FlushChannel(ctx context.Context) error
}

// Stage is the polymorphic top-stage handle the pipeline skeleton holds: the
// interface-object rendition of the spec's "stage trait set" (Design Note 9).
// Only the top stage needs to satisfy every capability; lower stages may
// implement a subset and are composed by the stage above them.
type Stage interface {
	NextAttributes
	OriginAdvancer
	OriginProvider
	ResettableStage
	FlushableStage
}
