package derive

import (
	"context"

	"github.com/opstack-relay/derive-node/eth"
	"github.com/opstack-relay/derive-node/rollup"
)

// L2ChainProvider is the spec §4.5 contract: the single capability consumed
// by the pipeline (on Reset) and, more broadly, by stages that need to read
// L2 state (e.g. the attributes queue, to read the SystemConfig for each
// batch). Errors are provider-defined; the pipeline wraps them with
// ProviderError and classifies them as temporary, since a Reset is expected
// to heal any reorg-related failure.
type L2ChainProvider interface {
	SystemConfigByNumber(ctx context.Context, number uint64, cfg *rollup.Config) (eth.SystemConfig, error)
	L2BlockInfoByNumber(ctx context.Context, number uint64) (eth.L2BlockInfo, error)
	PayloadByNumber(ctx context.Context, number uint64) (*eth.ExecutionPayload, error)
}

// L1Fetcher is the L1 data provider contract consumed by the lower stages
// (L1Traversal, and BatchQueue for span-batch origin lookups). Like
// L2ChainProvider, this module specifies only the interface: concrete RPC or
// blob-backed implementations are an out-of-scope external collaborator per
// spec §1.
type L1Fetcher interface {
	L1BlockRefByNumber(ctx context.Context, number uint64) (eth.L1BlockRef, error)
	L1BlockRefByHash(ctx context.Context, hash [32]byte) (eth.L1BlockRef, error)
	// InfoAndTxsByHash returns the L1 block info and the full transaction
	// list for that block, so FrameQueue can pick out batcher transactions.
	InfoAndTxsByHash(ctx context.Context, hash [32]byte) (eth.L1BlockRef, [][]byte, error)
}
