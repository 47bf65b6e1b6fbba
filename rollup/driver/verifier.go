package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/opstack-relay/derive-node/eth"
	"github.com/opstack-relay/derive-node/rollup"
	"github.com/opstack-relay/derive-node/rollup/derive"
)

// ErrInvalidAction is returned by calls that don't apply to the current
// driver state, ported from the teacher's op-e2e/derivation action-test
// harness conventions.
var ErrInvalidAction = errors.New("invalid action")

// SyncStatus mirrors the node-facing view of the pipeline's progress: the L1
// block it's anchored to, and the L2 safe/unsafe heads it has derived so far.
type SyncStatus struct {
	CurrentL1 eth.BlockInfo
	SafeL2    eth.L2BlockInfo
	UnsafeL2  eth.L2BlockInfo
}

// Verifier drives a DerivationPipeline one step at a time, classifying the
// pipeline's errors through errors.Is the same way the teacher's
// L2Verifier.actL2PipelineStep does, and issuing Reset signals when the
// pipeline reports one is required.
type Verifier struct {
	log log.Logger

	derivation *derive.DerivationPipeline
	rollupCfg  *rollup.Config

	safeL2   eth.L2BlockInfo
	unsafeL2 eth.L2BlockInfo

	pipelineIdle bool
}

func NewVerifier(logger log.Logger, cfg *rollup.Config, pipeline *derive.DerivationPipeline) *Verifier {
	return &Verifier{
		log:          logger,
		derivation:   pipeline,
		rollupCfg:    cfg,
		pipelineIdle: true,
	}
}

func (v *Verifier) SyncStatus() SyncStatus {
	origin, _ := v.derivation.Origin()
	return SyncStatus{
		CurrentL1: origin,
		SafeL2:    v.safeL2,
		UnsafeL2:  v.unsafeL2,
	}
}

// Step advances the pipeline once and folds its StepResult into the same
// three-way classification the teacher's L2Verifier applies to a plain
// error: reset-required, temporary, or critical.
func (v *Verifier) Step(ctx context.Context) error {
	v.pipelineIdle = false
	result := v.derivation.Step(ctx, v.safeL2)

	switch result.Kind {
	case derive.PreparedAttributes:
		attrs := v.derivation.Next()
		if attrs != nil {
			v.safeL2 = attrs.Parent
			v.unsafeL2 = attrs.Parent
		}
		return nil
	case derive.AdvancedOrigin:
		return nil
	case derive.OriginAdvanceErr:
		return v.classify(result.Err)
	case derive.StepFailed:
		return v.classify(result.Err)
	default:
		return nil
	}
}

func (v *Verifier) classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, derive.ErrReset) {
		v.log.Warn("derivation pipeline is reset", "err", err)
		return v.Reset(context.Background())
	}
	if errors.Is(err, derive.ErrTemporary) {
		v.log.Warn("derivation process temporary error", "err", err)
		return nil
	}
	if errors.Is(err, derive.ErrCritical) {
		return fmt.Errorf("derivation failed critically: %w", err)
	}
	return nil
}

func (v *Verifier) Reset(ctx context.Context) error {
	origin, _ := v.derivation.Origin()
	return v.derivation.Signal(ctx, derive.ResetSignal{L2SafeHead: v.safeL2, L1Origin: origin})
}
