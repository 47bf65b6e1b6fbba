// Package rollup holds the static, process-lifetime chain parameters the
// derivation pipeline is built around: genesis anchors, block timing, and
// hardfork activation timestamps. Grounded on op-node/rollup.Config as used
// throughout op-e2e/derivation (BlockTime, MaxSequencerDrift, SeqWindowSize,
// L1ChainID, BatchInboxAddress, BatchSenderAddress).
package rollup

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/opstack-relay/derive-node/eth"
)

// Genesis anchors the L1 and L2 chains together at the rollup's genesis
// point, and records the SystemConfig in effect at that point.
type Genesis struct {
	L1 eth.BlockID `json:"l1"`
	L2 eth.BlockID `json:"l2"`

	L2Time uint64 `json:"l2_time"`

	SystemConfig eth.SystemConfig `json:"system_config"`
}

// Config is the RollupConfig of the spec's data model: static chain
// parameters shared by reference across the pipeline and its stages.
type Config struct {
	Genesis Genesis `json:"genesis"`

	// BlockTime is the number of seconds between L2 blocks.
	BlockTime uint64 `json:"block_time"`

	// MaxSequencerDrift is the maximum number of seconds a sequencer is
	// allowed to get ahead of the L1 origin's timestamp before it must adopt
	// a newer L1 origin, or produce an empty block.
	MaxSequencerDrift uint64 `json:"max_sequencer_drift"`

	// SeqWindowSize is the number of L1 blocks a batch has to be included in,
	// counted from its L1 origin.
	SeqWindowSize uint64 `json:"seq_window_size"`

	// ChannelTimeout is the number of L1 blocks a channel stays open before
	// the channel bank forces it closed.
	ChannelTimeout uint64 `json:"channel_timeout"`

	L1ChainID *big.Int `json:"l1_chain_id"`
	L2ChainID *big.Int `json:"l2_chain_id"`

	BatchInboxAddress  common.Address `json:"batch_inbox_address"`
	BatchSenderAddress common.Address `json:"batch_sender_address"`

	// RegolithTime and CanyonTime activate the Regolith and Canyon hardforks
	// respectively, measured in L2 block timestamp. Nil means "never active".
	RegolithTime *uint64 `json:"regolith_time,omitempty"`
	CanyonTime   *uint64 `json:"canyon_time,omitempty"`
	// DeltaTime activates the span-batch format.
	DeltaTime *uint64 `json:"delta_time,omitempty"`
	// HoloceneTime activates per-block EIP-1559 parameter overrides.
	HoloceneTime *uint64 `json:"holocene_time,omitempty"`
}

func activatedAt(t *uint64, timestamp uint64) bool {
	return t != nil && timestamp >= *t
}

// IsRegolith returns true if the Regolith hardfork is active at timestamp.
func (c *Config) IsRegolith(timestamp uint64) bool {
	return activatedAt(c.RegolithTime, timestamp)
}

// IsCanyon returns true if the Canyon hardfork (Shanghai-equivalent, adds
// withdrawals) is active at timestamp.
func (c *Config) IsCanyon(timestamp uint64) bool {
	return activatedAt(c.CanyonTime, timestamp)
}

// IsSpanBatch returns true if the span-batch format may be used for batches
// whose first block has the given timestamp.
func (c *Config) IsSpanBatch(timestamp uint64) bool {
	return activatedAt(c.DeltaTime, timestamp)
}

// IsHolocene returns true if per-block EIP-1559 parameters are active.
func (c *Config) IsHolocene(timestamp uint64) bool {
	return activatedAt(c.HoloceneTime, timestamp)
}

// TargetBlockNumber returns the L2 block number expected at the given L2
// timestamp, assuming no drift, given the genesis anchor.
func (c *Config) TargetBlockNumber(timestamp uint64) (num uint64, err error) {
	if timestamp < c.Genesis.L2Time {
		return 0, ErrBeforeGenesis
	}
	return c.Genesis.L2.Number + (timestamp-c.Genesis.L2Time)/c.BlockTime, nil
}
