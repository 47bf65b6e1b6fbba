package derive

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opstack-relay/derive-node/eth"
)

// buildRawSpanBatchBytes assembles the wire bytes for a single-block,
// single-transaction span batch: one legacy transaction whose stripped body
// is a 3-item empty-string RLP list, with signature r=1, s=2, yParity=false.
func buildRawSpanBatchBytes(t *testing.T) []byte {
	t.Helper()
	var out []byte
	out = append(out, encodeSpanBatchVarint(1000)...) // relTimestamp
	out = append(out, encodeSpanBatchVarint(7)...)    // l1OriginNum
	out = append(out, make([]byte, 20)...)            // parentCheck
	out = append(out, make([]byte, 20)...)            // l1OriginCheck
	out = append(out, encodeSpanBatchVarint(1)...)    // blockCount = 1

	originBits := encodeSpanBatchBits(1, func(i uint64) bool { return false })
	out = append(out, originBits...)

	out = append(out, encodeSpanBatchVarint(1)...) // blockTxCounts[0] = 1

	contractCreationBits := encodeSpanBatchBits(1, func(i uint64) bool { return false })
	out = append(out, contractCreationBits...)
	yParityBits := encodeSpanBatchBits(1, func(i uint64) bool { return false })
	out = append(out, yParityBits...)

	var rBuf, sBuf [32]byte
	rBuf[31] = 1
	sBuf[31] = 2
	out = append(out, rBuf[:]...)
	out = append(out, sBuf[:]...)

	// txTos: one address, since contractCreationBits bit 0 is false.
	to := common.HexToAddress("0xdeadbeef00000000000000000000000000dead")
	out = append(out, to[:]...)

	// txDatas: a minimal legacy-shaped RLP list (3 empty strings).
	txBody := []byte{0xc3, 0x80, 0x80, 0x80}
	out = append(out, txBody...)

	return out
}

func TestDecodeRawSpanBatch(t *testing.T) {
	data := buildRawSpanBatchBytes(t)
	r := append([]byte{}, data...)

	raw, err := decodeRawSpanBatch(&r, big.NewInt(10))
	require.NoError(t, err)
	assert.Empty(t, r, "decoding must consume exactly the encoded bytes")

	assert.Equal(t, uint64(1000), raw.relTimestamp)
	assert.Equal(t, uint64(7), raw.l1OriginNum)
	assert.Equal(t, uint64(1), raw.blockCount)
	require.Len(t, raw.blockTxCounts, 1)
	assert.Equal(t, uint64(1), raw.blockTxCounts[0])
	require.Len(t, raw.txSigs, 1)
	assert.Equal(t, big.NewInt(1), raw.txSigs[0].r)
	assert.Equal(t, big.NewInt(2), raw.txSigs[0].s)
	require.Len(t, raw.txTos, 1)
	require.Len(t, raw.txDatas, 1)
	assert.Equal(t, byte(0), raw.txTypes[0]) // LegacyTxType
}

func TestRawSpanBatchSingularBatchesAndReassembleTx(t *testing.T) {
	data := buildRawSpanBatchBytes(t)
	r := append([]byte{}, data...)
	raw, err := decodeRawSpanBatch(&r, big.NewInt(10))
	require.NoError(t, err)

	origin := eth.BlockID{Number: 7, Hash: common.HexToHash("0x1234")}
	batches, err := raw.singularBatches(100, 2, 0, []eth.BlockID{origin})
	require.NoError(t, err)
	require.Len(t, batches, 1)

	b := batches[0]
	assert.Equal(t, uint64(1100), b.Timestamp) // genesisTime + relTimestamp + 0*blockTime
	assert.Equal(t, origin.Number, b.EpochNum)
	assert.Equal(t, origin.Hash, b.EpochHash)
	require.Len(t, b.Transactions, 1)

	// The reassembled transaction must be a 6-item RLP list: the original 3
	// stripped placeholder fields plus the reattached v, r, s.
	var items []rlp.RawValue
	require.NoError(t, rlp.DecodeBytes(b.Transactions[0], &items))
	assert.Len(t, items, 6)

	var v big.Int
	require.NoError(t, rlp.DecodeBytes(items[3], &v))
	// Legacy, protected (chainID=10), yParity=false -> v = 10*2+35 = 55.
	assert.Equal(t, big.NewInt(55), &v)

	var gotR big.Int
	require.NoError(t, rlp.DecodeBytes(items[4], &gotR))
	assert.Equal(t, big.NewInt(1), &gotR)
}

func TestDecodeRawSpanBatchRejectsZeroBlockCount(t *testing.T) {
	var data []byte
	data = append(data, encodeSpanBatchVarint(0)...) // relTimestamp
	data = append(data, encodeSpanBatchVarint(0)...) // l1OriginNum
	data = append(data, make([]byte, 20)...)
	data = append(data, make([]byte, 20)...)
	data = append(data, encodeSpanBatchVarint(0)...) // blockCount = 0, invalid

	r := append([]byte{}, data...)
	_, err := decodeRawSpanBatch(&r, big.NewInt(1))
	require.Error(t, err)
	var sbErr *SpanBatchError
	require.ErrorAs(t, err, &sbErr)
	assert.Equal(t, TooBigSpanBatchSize, sbErr.Kind)
}
