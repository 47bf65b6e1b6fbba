package derive

import (
	"container/list"
	"context"

	"github.com/ethereum/go-ethereum/log"
	"github.com/hashicorp/go-multierror"

	"github.com/opstack-relay/derive-node/eth"
	"github.com/opstack-relay/derive-node/rollup"
)

// ChannelBank ingests frames from FrameQueue, groups them by ChannelID, and
// hands complete channels' decompressed bytes to BatchQueue one at a time.
// Channels older than ChannelTimeout L1 blocks are pruned on AdvanceOrigin.
type ChannelBank struct {
	log       log.Logger
	rollupCfg *rollup.Config
	inner     *FrameQueue

	channels map[ChannelID]*channel
	order    *list.List // of ChannelID, oldest first
}

func NewChannelBank(log log.Logger, cfg *rollup.Config, inner *FrameQueue) *ChannelBank {
	return &ChannelBank{
		log:       log,
		rollupCfg: cfg,
		inner:     inner,
		channels:  make(map[ChannelID]*channel),
		order:     list.New(),
	}
}

func (cb *ChannelBank) Origin() (eth.BlockInfo, bool) { return cb.inner.Origin() }

func (cb *ChannelBank) AdvanceOrigin(ctx context.Context) error {
	if err := cb.inner.AdvanceOrigin(ctx); err != nil {
		return err
	}
	origin, ok := cb.inner.Origin()
	if !ok {
		return nil
	}
	cb.pruneExpired(origin.Number)
	return nil
}

func (cb *ChannelBank) pruneExpired(l1Num uint64) {
	for e := cb.order.Front(); e != nil; {
		next := e.Next()
		id := e.Value.(ChannelID)
		ch := cb.channels[id]
		if ch != nil && l1Num > ch.openL1Block+cb.rollupCfg.ChannelTimeout {
			delete(cb.channels, id)
			cb.order.Remove(e)
		}
		e = next
	}
}

func (cb *ChannelBank) Reset(ctx context.Context, l1Origin eth.BlockInfo, sysCfg *eth.SystemConfig) error {
	err := cb.inner.Reset(ctx, l1Origin, sysCfg)
	cb.channels = make(map[ChannelID]*channel)
	cb.order = list.New()
	return err
}

func (cb *ChannelBank) FlushChannel(ctx context.Context) error {
	if cb.order.Len() > 0 {
		e := cb.order.Front()
		delete(cb.channels, e.Value.(ChannelID))
		cb.order.Remove(e)
	}
	return cb.inner.FlushChannel(ctx)
}

// NextData ingests frames until one channel is ready, then returns its
// decompressed byte stream. Frame ingestion errors for individual channels
// are aggregated and logged rather than aborting the whole call, mirroring
// the non-fatal per-frame tolerance the rest of the pack uses
// hashicorp/go-multierror for.
func (cb *ChannelBank) NextData(ctx context.Context) ([]byte, error) {
	for {
		if ready := cb.readyChannel(); ready != nil {
			out, err := ready.assemble()
			delete(cb.channels, ready.id)
			cb.removeFromOrder(ready.id)
			if err != nil {
				return nil, err
			}
			return out, nil
		}

		f, err := cb.inner.NextFrame(ctx)
		if err != nil {
			return nil, err
		}

		origin, _ := cb.inner.Origin()
		ch, ok := cb.channels[f.ID]
		if !ok {
			ch = newChannel(f.ID, origin.Number)
			cb.channels[f.ID] = ch
			cb.order.PushBack(f.ID)
		}

		var result *multierror.Error
		if err := ch.addFrame(f); err != nil {
			result = multierror.Append(result, err)
		}
		if result.ErrorOrNil() != nil {
			cb.log.Warn("dropped frame", "channel", f.ID, "err", result)
		}
	}
}

func (cb *ChannelBank) readyChannel() *channel {
	for e := cb.order.Front(); e != nil; e = e.Next() {
		id := e.Value.(ChannelID)
		if ch := cb.channels[id]; ch != nil && ch.isReady() {
			return ch
		}
	}
	return nil
}

func (cb *ChannelBank) removeFromOrder(id ChannelID) {
	for e := cb.order.Front(); e != nil; e = e.Next() {
		if e.Value.(ChannelID) == id {
			cb.order.Remove(e)
			return
		}
	}
}
