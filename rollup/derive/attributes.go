package derive

import "github.com/opstack-relay/derive-node/eth"

// OptimismAttributesWithParent is the pipeline's output (spec §3): a single
// L2 block-building directive, the L2 block it builds on top of, and whether
// it is the last block derived from its containing span batch.
type OptimismAttributesWithParent struct {
	Attributes   eth.OptimismPayloadAttributes
	Parent       eth.L2BlockInfo
	IsLastInSpan bool
}
