package derive

import (
	"container/list"
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/opstack-relay/derive-node/eth"
	"github.com/opstack-relay/derive-node/rollup"
)

// DerivationPipeline is the owner of the prepared-attributes queue and the
// top Stage. Step() never returns a plain error: every outcome is folded into
// a StepResult, whose Err (for OriginAdvanceErr/StepFailed) is the stage's
// error as returned, left for the caller to classify. Signal() wraps
// SystemConfig fetch failures as a temporary ProviderError and returns any
// other reset or flush error as the top stage reported it (spec §4.2).
type DerivationPipeline struct {
	log       log.Logger
	metrics   Metrics
	rollupCfg *rollup.Config
	l2        L2ChainProvider
	top       Stage
	prepared  *list.List // of *OptimismAttributesWithParent
}

// NewDerivationPipeline wires the top stage together with the chain config
// and the L2 provider used to resolve SystemConfig on Reset.
func NewDerivationPipeline(logger log.Logger, metrics Metrics, cfg *rollup.Config, l2 L2ChainProvider, top Stage) *DerivationPipeline {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &DerivationPipeline{
		log:       logger,
		metrics:   metrics,
		rollupCfg: cfg,
		l2:        l2,
		top:       top,
		prepared:  list.New(),
	}
}

// Origin reports the L1 block the bottom of the pipeline is anchored to.
func (dp *DerivationPipeline) Origin() (eth.BlockInfo, bool) {
	return dp.top.Origin()
}

// Peek returns the front of the prepared queue without popping it, or nil if
// empty.
func (dp *DerivationPipeline) Peek() *OptimismAttributesWithParent {
	if dp.prepared.Len() == 0 {
		return nil
	}
	return dp.prepared.Front().Value.(*OptimismAttributesWithParent)
}

// Next pops and returns the front of the prepared queue, or nil if empty.
func (dp *DerivationPipeline) Next() *OptimismAttributesWithParent {
	front := dp.prepared.Front()
	if front == nil {
		return nil
	}
	dp.prepared.Remove(front)
	return front.Value.(*OptimismAttributesWithParent)
}

// Signal dispatches a Reset or FlushChannel request down through the stage
// stack. A Reset first resolves the SystemConfig at the target L2 safe head
// via the L2 provider (wrapping any fetch failure as a temporary
// ProviderError, matching spec §4.2's "reset always heals via re-derivation")
// before handing the signal to the top stage. An Eof surfacing from Reset is
// expected (the stage chain may have no more L1 data to anchor to yet) and is
// traced, not propagated.
func (dp *DerivationPipeline) Signal(ctx context.Context, sig Signal) error {
	switch s := sig.(type) {
	case ResetSignal:
		sysCfg, err := dp.l2.SystemConfigByNumber(ctx, s.L2SafeHead.Number, dp.rollupCfg)
		if err != nil {
			return ProviderError(err.Error())
		}
		dp.prepared.Init()
		dp.metrics.RecordPipelineReset()
		err = dp.top.Reset(ctx, s.L1Origin, &sysCfg)
		if err != nil {
			if err == EOF {
				dp.log.Trace("reset raised EOF, waiting for more L1 data", "l1Origin", s.L1Origin.ID())
				return nil
			}
			return err
		}
		return nil
	case FlushChannelSignal:
		dp.prepared.Init()
		return dp.top.FlushChannel(ctx)
	default:
		return Crit(fmt.Errorf("unknown signal type %T", sig))
	}
}

// Step advances the pipeline by exactly one unit of work, per spec §4.2:
//  1. Ask the top stage for the next attributes at the given L2 cursor.
//  2. On success, push the result and report PreparedAttributes.
//  3. On Eof specifically, advance the L1 origin by one block and report
//     AdvancedOrigin, or OriginAdvanceErr if that itself fails. Every other
//     temporary error (e.g. ErrNotEnoughData from a lower stage still
//     buffering) is NOT an Eof and falls through to 4.
//  4. On any other error, report StepFailed with the raw error for the
//     caller to classify via IsTemporary/IsCritical/IsReset.
func (dp *DerivationPipeline) Step(ctx context.Context, cursor eth.L2BlockInfo) StepResult {
	attrs, err := dp.top.NextAttributes(ctx, cursor)
	if err == nil {
		dp.prepared.PushBack(attrs)
		return prepared()
	}

	if errors.Is(err, EOF) {
		if advErr := dp.top.AdvanceOrigin(ctx); advErr != nil {
			return originAdvanceErr(advErr)
		}
		return advancedOrigin()
	}

	if !IsTemporary(err) {
		dp.metrics.RecordDerivationError()
	}
	return stepFailed(err)
}
