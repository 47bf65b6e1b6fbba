package derive

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/opstack-relay/derive-node/eth"
)

// BatchType distinguishes the two wire formats the batch queue accepts.
type BatchType int

const (
	SingularBatchType BatchType = iota
	SpanBatchType
)

// Batch is the common handle the BatchQueue works with. SingularBatch (one
// L2 block) is its only implementation: a span batch (§4.3's compressed
// format) is expanded into one SingularBatch per L2 block when decoded. The
// batch queue reads GetTimestamp to drop batches that are not after the
// cursor.
type Batch interface {
	GetBatchType() BatchType
	// Timestamp of the earliest L2 block this batch carries.
	GetTimestamp() uint64
	// LastTimestamp of the latest L2 block this batch carries (equal to
	// GetTimestamp for a SingularBatch).
	LastTimestamp() uint64
}

// SingularBatch is the pre-span wire format: exactly one L2 block's worth of
// derivation input.
type SingularBatch struct {
	ParentHash   common.Hash
	EpochNum     uint64
	EpochHash    common.Hash
	Timestamp    uint64
	Transactions []eth.Data
}

func (b *SingularBatch) GetBatchType() BatchType { return SingularBatchType }
func (b *SingularBatch) GetTimestamp() uint64    { return b.Timestamp }
func (b *SingularBatch) LastTimestamp() uint64   { return b.Timestamp }

// Epoch returns the L1 origin this batch was built against.
func (b *SingularBatch) Epoch() eth.BlockID {
	return eth.BlockID{Hash: b.EpochHash, Number: b.EpochNum}
}
