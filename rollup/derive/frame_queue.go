package derive

import (
	"context"

	"github.com/ethereum/go-ethereum/log"

	"github.com/opstack-relay/derive-node/eth"
	"github.com/opstack-relay/derive-node/rollup"
)

// FrameQueue sits directly on top of L1Traversal: it pulls the origin's raw
// transactions and parses each into frames for the channel bank to consume
// one at a time. It does not filter transactions by the rollup config's batch
// inbox or sender address; transactions that fail to parse are dropped.
type FrameQueue struct {
	log       log.Logger
	rollupCfg *rollup.Config
	inner     *L1Traversal

	queue []Frame
}

func NewFrameQueue(log log.Logger, cfg *rollup.Config, inner *L1Traversal) *FrameQueue {
	return &FrameQueue{log: log, rollupCfg: cfg, inner: inner}
}

func (fq *FrameQueue) Origin() (eth.BlockInfo, bool) { return fq.inner.Origin() }

func (fq *FrameQueue) AdvanceOrigin(ctx context.Context) error {
	return fq.inner.AdvanceOrigin(ctx)
}

func (fq *FrameQueue) Reset(ctx context.Context, l1Origin eth.BlockInfo, sysCfg *eth.SystemConfig) error {
	err := fq.inner.Reset(ctx, l1Origin, sysCfg)
	fq.queue = nil
	return err
}

func (fq *FrameQueue) FlushChannel(ctx context.Context) error {
	fq.queue = nil
	return fq.inner.FlushChannel(ctx)
}

// NextFrame returns the next parsed frame, pulling a fresh batch of L1
// transactions when the local queue runs dry. The L1Fetcher is expected to
// have already restricted InfoAndTxsByHash to the configured batch inbox.
func (fq *FrameQueue) NextFrame(ctx context.Context) (Frame, error) {
	if len(fq.queue) == 0 {
		txs, err := fq.inner.originTransactions(ctx)
		if err != nil {
			return Frame{}, err
		}
		for _, tx := range txs {
			frames, err := parseFrames(tx)
			if err != nil {
				fq.log.Warn("dropping malformed batcher transaction", "err", err)
				continue
			}
			fq.queue = append(fq.queue, frames...)
		}
		if len(fq.queue) == 0 {
			return Frame{}, Temp(ErrNotEnoughData)
		}
	}
	f := fq.queue[0]
	fq.queue = fq.queue[1:]
	return f, nil
}
