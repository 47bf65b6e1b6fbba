// Package eth defines the wire types shared between the derivation pipeline and
// its L1/L2 data providers: block references, the system config snapshot, and the
// execution-engine payload types the pipeline produces.
package eth

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// Bytes32 is a 32-byte value, e.g. a prev_randao or a withdrawals root.
type Bytes32 = common.Hash

// Data is a raw, opaque byte string - typically an RLP-encoded, EIP-2718 typed
// transaction envelope.
type Data = hexutil.Bytes

// BlockID identifies a block by number and hash, without any reference to the
// chain it is a part of.
type BlockID struct {
	Hash   common.Hash `json:"hash"`
	Number uint64      `json:"number"`
}

func (id BlockID) String() string {
	return fmt.Sprintf("%s:%d", id.Hash, id.Number)
}

// BlockInfo is the L1 block identity the pipeline anchors stages to: the spec's
// BlockInfo data-model entry.
type BlockInfo struct {
	Hash       common.Hash `json:"hash"`
	Number     uint64      `json:"number"`
	ParentHash common.Hash `json:"parentHash"`
	Time       uint64      `json:"timestamp"`
}

func (b BlockInfo) ID() BlockID {
	return BlockID{Hash: b.Hash, Number: b.Number}
}

// L1BlockRef is BlockInfo plus enough context for the pipeline to reason about
// a specific L1 chain position; the two are kept distinct in the teacher's
// convention (BlockInfo is the narrow interface stages see, L1BlockRef the
// richer provider-facing type) even though in this module they carry the same
// fields.
type L1BlockRef struct {
	Hash       common.Hash `json:"hash"`
	Number     uint64      `json:"number"`
	ParentHash common.Hash `json:"parentHash"`
	Time       uint64      `json:"timestamp"`
}

func (r L1BlockRef) ID() BlockID {
	return BlockID{Hash: r.Hash, Number: r.Number}
}

func (r L1BlockRef) BlockInfo() BlockInfo {
	return BlockInfo{Hash: r.Hash, Number: r.Number, ParentHash: r.ParentHash, Time: r.Time}
}

func (r L1BlockRef) String() string {
	return fmt.Sprintf("%s:%d", r.Hash, r.Number)
}

// L2BlockInfo is the L2 cursor the pipeline advances: BlockInfo plus the L1
// origin it was derived from and its sequence number within that origin's
// epoch. Field names are flattened rather than nesting a BlockInfo value,
// matching the teacher's eth.L2BlockRef convention.
type L2BlockInfo struct {
	Hash           common.Hash `json:"hash"`
	Number         uint64      `json:"number"`
	ParentHash     common.Hash `json:"parentHash"`
	Time           uint64      `json:"timestamp"`
	L1Origin       BlockID     `json:"l1origin"`
	SequenceNumber uint64      `json:"sequenceNumber"`
}

func (r L2BlockInfo) ID() BlockID {
	return BlockID{Hash: r.Hash, Number: r.Number}
}

func (r L2BlockInfo) String() string {
	return fmt.Sprintf("%s:%d", r.Hash, r.Number)
}

// L2BlockRef is an alias for L2BlockInfo, matching the teacher's naming for
// the same concept (eth.L2BlockRef) outside the derivation pipeline proper.
type L2BlockRef = L2BlockInfo

// SystemConfig is the rollup-parameter snapshot at a given L2 height. Reset
// fetches it and hands it down the stage chain (the lower stages do not read
// it); the attributes queue fetches it again for each batch and reads the
// batcher address and fee scalars from it.
type SystemConfig struct {
	// BatcherAddr is the address authorized to submit batcher transactions to
	// the L1 batch inbox.
	BatcherAddr common.Address `json:"batcherAddr"`
	// Overhead and Scalar are the legacy L1 fee scalar parameters.
	Overhead Bytes32 `json:"overhead"`
	Scalar   Bytes32 `json:"scalar"`
	// GasLimit is the L2 gas limit in effect as of this snapshot.
	GasLimit uint64 `json:"gasLimit"`
}

// ecotoneScalarVersion is the Scalar byte-0 value signaling the packed
// Ecotone L1-fee-scalar encoding (blob scalar + base fee scalar) rather than
// the legacy single full-width scalar.
const ecotoneScalarVersion = 1

// BaseFeeScalar and BlobBaseFeeScalar decode SystemConfig.Scalar per its
// encoding version, the same two-scalar unpacking op-geth's L1 cost
// computation applies to a SystemConfig fetched from the
// GasPriceOracle/SystemConfig contracts. Pre-Ecotone configs carry their
// single legacy scalar as a full-width big-endian integer across all 32
// bytes; Ecotone configs tag byte 0 with ecotoneScalarVersion and pack both
// scalars into bytes 4-11.
func (c SystemConfig) BaseFeeScalar() uint32 {
	if c.Scalar[0] != ecotoneScalarVersion {
		return uint32(new(uint256.Int).SetBytes(c.Scalar[:]).Uint64())
	}
	return uint32From(c.Scalar[8:12])
}

func (c SystemConfig) BlobBaseFeeScalar() uint32 {
	if c.Scalar[0] != ecotoneScalarVersion {
		return 0
	}
	return uint32From(c.Scalar[4:8])
}

func uint32From(b []byte) uint32 {
	var v uint32
	for _, x := range b {
		v = v<<8 | uint32(x)
	}
	return v
}

