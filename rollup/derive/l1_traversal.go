package derive

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/opstack-relay/derive-node/eth"
	"github.com/opstack-relay/derive-node/rollup"
)

// L1Traversal is the bottom stage: it holds the single L1 block the rest of
// the pipeline is currently anchored to, and walks forward one block at a
// time via L1Fetcher. It has no NextAttributes of its own; FrameQueue pulls
// the origin's transactions through InfoAndTxsByHash.
type L1Traversal struct {
	log       log.Logger
	l1        L1Fetcher
	rollupCfg *rollup.Config

	block     eth.L1BlockRef
	hasOrigin bool
	done      bool // true once the block's data has been consumed by FrameQueue
}

func NewL1Traversal(log log.Logger, l1 L1Fetcher, cfg *rollup.Config) *L1Traversal {
	return &L1Traversal{log: log, l1: l1, rollupCfg: cfg}
}

func (l *L1Traversal) Origin() (eth.BlockInfo, bool) {
	if !l.hasOrigin {
		return eth.BlockInfo{}, false
	}
	return l.block.BlockInfo(), true
}

// originTransactions returns the current origin's raw transactions exactly
// once; subsequent calls return ErrNotEnoughData until AdvanceOrigin moves to
// a new block, matching spec §4.1's "stage below has fresh data" contract.
func (l *L1Traversal) originTransactions(ctx context.Context) ([][]byte, error) {
	if !l.hasOrigin {
		return nil, ErrMissingOrigin
	}
	if l.done {
		return nil, Temp(ErrNotEnoughData)
	}
	_, txs, err := l.l1.InfoAndTxsByHash(ctx, l.block.Hash)
	if err != nil {
		return nil, ProviderError(err.Error())
	}
	l.done = true
	return txs, nil
}

func (l *L1Traversal) AdvanceOrigin(ctx context.Context) error {
	if !l.hasOrigin {
		return ErrMissingOrigin
	}
	next, err := l.l1.L1BlockRefByNumber(ctx, l.block.Number+1)
	if err != nil {
		return ProviderError(err.Error())
	}
	if next.ParentHash != l.block.Hash {
		return Reset(fmt.Errorf("l1 reorg detected at block %d", next.Number))
	}
	l.block = next
	l.done = false
	return nil
}

func (l *L1Traversal) Reset(ctx context.Context, l1Origin eth.BlockInfo, _ *eth.SystemConfig) error {
	ref, err := l.l1.L1BlockRefByHash(ctx, l1Origin.ID().Hash)
	if err != nil {
		return ProviderError(err.Error())
	}
	l.block = ref
	l.hasOrigin = true
	l.done = false
	return EOF
}

func (l *L1Traversal) FlushChannel(ctx context.Context) error {
	return nil
}
