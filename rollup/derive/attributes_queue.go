package derive

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"

	"github.com/opstack-relay/derive-node/eth"
	"github.com/opstack-relay/derive-node/rollup"
)

var errParentMismatch = errors.New("batch parent hash does not match cursor")

// AttributesQueue is the top stage (spec §4.1): it turns one Batch into an
// OptimismAttributesWithParent ready for the pipeline's prepared queue, by
// fetching the SystemConfig at the cursor's L2 block number and building
// PayloadAttributes around the batch's transactions.
type AttributesQueue struct {
	log       log.Logger
	rollupCfg *rollup.Config
	l2        L2ChainProvider
	inner     *BatchQueue
}

var _ Stage = (*AttributesQueue)(nil)

func NewAttributesQueue(log log.Logger, cfg *rollup.Config, l2 L2ChainProvider, inner *BatchQueue) *AttributesQueue {
	return &AttributesQueue{log: log, rollupCfg: cfg, l2: l2, inner: inner}
}

func (aq *AttributesQueue) Origin() (eth.BlockInfo, bool) { return aq.inner.Origin() }

func (aq *AttributesQueue) AdvanceOrigin(ctx context.Context) error {
	return aq.inner.AdvanceOrigin(ctx)
}

func (aq *AttributesQueue) Reset(ctx context.Context, l1Origin eth.BlockInfo, sysCfg *eth.SystemConfig) error {
	return aq.inner.Reset(ctx, l1Origin, sysCfg)
}

func (aq *AttributesQueue) FlushChannel(ctx context.Context) error {
	return aq.inner.FlushChannel(ctx)
}

// NextAttributes checks the next Batch's parent hash against cursor (an empty
// parent hash is accepted) and, if it lines up, builds the PayloadAttributes
// for it. Timestamps and epochs are not checked here.
func (aq *AttributesQueue) NextAttributes(ctx context.Context, cursor eth.L2BlockInfo) (*OptimismAttributesWithParent, error) {
	batch, err := aq.inner.NextBatch(ctx, cursor)
	if err != nil {
		return nil, err
	}

	sb, ok := batch.(*SingularBatch)
	if !ok {
		return nil, Crit(newSpanBatchError(InvalidTransactionData))
	}
	if sb.ParentHash != (eth.Bytes32{}) && sb.ParentHash != cursor.Hash {
		return nil, Reset(errParentMismatch)
	}

	sysCfg, err := aq.l2.SystemConfigByNumber(ctx, cursor.Number, aq.rollupCfg)
	if err != nil {
		return nil, ProviderError(err.Error())
	}
	aq.log.Trace("resolved system config for epoch",
		"l1BaseFeeScalar", sysCfg.BaseFeeScalar(),
		"l1BlobBaseFeeScalar", sysCfg.BlobBaseFeeScalar())

	txs := make([]eth.Data, 0, len(sb.Transactions)+1)
	txs = append(txs, sb.Transactions...)

	attrs := eth.OptimismPayloadAttributes{
		PayloadAttributes: eth.PayloadAttributes{
			Timestamp:             hexutil.Uint64(sb.Timestamp),
			SuggestedFeeRecipient: sysCfg.BatcherAddr,
		},
		Transactions: txs,
		NoTxPool:     true,
	}

	return &OptimismAttributesWithParent{
		Attributes:   attrs,
		Parent:       cursor,
		IsLastInSpan: true,
	}, nil
}
