package derive

import (
	"container/list"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/opstack-relay/derive-node/eth"
	"github.com/opstack-relay/derive-node/rollup"
)

// BatchQueue decodes ChannelBank's raw byte stream into Batch values and
// buffers them in decode order, dropping decoded batches whose timestamp is
// not after the cursor the AttributesQueue is asking for. Epoch numbers are
// not checked; parent hashes are checked by AttributesQueue.
type BatchQueue struct {
	log       log.Logger
	rollupCfg *rollup.Config
	l1        L1Fetcher
	inner     *ChannelBank

	batches *list.List // of Batch, timestamp order
}

func NewBatchQueue(log log.Logger, cfg *rollup.Config, l1 L1Fetcher, inner *ChannelBank) *BatchQueue {
	return &BatchQueue{log: log, rollupCfg: cfg, l1: l1, inner: inner, batches: list.New()}
}

func (bq *BatchQueue) Origin() (eth.BlockInfo, bool) { return bq.inner.Origin() }

func (bq *BatchQueue) AdvanceOrigin(ctx context.Context) error {
	return bq.inner.AdvanceOrigin(ctx)
}

func (bq *BatchQueue) Reset(ctx context.Context, l1Origin eth.BlockInfo, sysCfg *eth.SystemConfig) error {
	err := bq.inner.Reset(ctx, l1Origin, sysCfg)
	bq.batches = list.New()
	return err
}

func (bq *BatchQueue) FlushChannel(ctx context.Context) error {
	bq.batches = list.New()
	return bq.inner.FlushChannel(ctx)
}

// decodeBatchEnvelope parses the channel's un-decoded byte stream: a single
// byte tagging the batch type, followed by the type-specific encoding. The
// span format delegates to decodeRawSpanBatch and resolves its blocks against
// a single L1 origin (the span's l1OriginNum prefix field) fetched through
// l1; the singular format is plain JSON, since the pre-span batch wire
// encoding predates span-batch's compact columnar layout and this pipeline
// has no legacy on-wire consumer to match byte for byte.
func decodeBatchEnvelope(ctx context.Context, data []byte, cfg *rollup.Config, l1 L1Fetcher) ([]Batch, error) {
	if len(data) == 0 {
		return nil, newSpanBatchError(InvalidTransactionData)
	}
	switch BatchType(data[0]) {
	case SpanBatchType:
		rest := data[1:]
		raw, err := decodeRawSpanBatch(&rest, cfg.L2ChainID)
		if err != nil {
			return nil, err
		}
		origin, err := l1.L1BlockRefByNumber(ctx, raw.l1OriginNum)
		if err != nil {
			return nil, ProviderError(err.Error())
		}
		singulars, err := raw.singularBatches(cfg.Genesis.L2Time, cfg.BlockTime, 0, []eth.BlockID{origin.ID()})
		if err != nil {
			return nil, err
		}
		out := make([]Batch, len(singulars))
		for i, s := range singulars {
			out[i] = s
		}
		return out, nil
	case SingularBatchType:
		var b SingularBatch
		if err := json.Unmarshal(data[1:], &b); err != nil {
			return nil, newSpanBatchError(InvalidTransactionData)
		}
		return []Batch{&b}, nil
	default:
		return nil, newSpanBatchError(InvalidTransactionType)
	}
}

// NextBatch returns the front of the buffered batches without checking it
// against cursor again. When the buffer is empty it pulls one channel's data,
// decodes it, drops every batch whose timestamp is not after cursor.Time and
// buffers the rest; if none remain it reports a temporary ErrNotEnoughData.
// Epoch numbers and parent hashes are not checked here.
func (bq *BatchQueue) NextBatch(ctx context.Context, cursor eth.L2BlockInfo) (Batch, error) {
	if e := bq.batches.Front(); e != nil {
		b := e.Value.(Batch)
		bq.batches.Remove(e)
		return b, nil
	}

	data, err := bq.inner.NextData(ctx)
	if err != nil {
		return nil, err
	}

	decoded, err := decodeBatchEnvelope(ctx, data, bq.rollupCfg, bq.l1)
	if err != nil {
		var sbErr *SpanBatchError
		if errors.As(err, &sbErr) {
			return nil, Crit(fmt.Errorf("%w: %w", ErrBadEncoding, err))
		}
		return nil, Crit(err)
	}

	for _, b := range decoded {
		if b.GetTimestamp() <= cursor.Time {
			continue // stale, drop
		}
		bq.batches.PushBack(b)
	}

	if e := bq.batches.Front(); e != nil {
		b := e.Value.(Batch)
		bq.batches.Remove(e)
		return b, nil
	}
	return nil, Temp(ErrNotEnoughData)
}
