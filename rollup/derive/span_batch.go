package derive

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/opstack-relay/derive-node/eth"
)

// RawSpanBatch is the wire layout of the compressed many-block batch format
// (spec §4.3): a short prefix anchoring the span to an L1 origin and L2
// parent, followed by columnar per-block and per-transaction arrays. Storing
// parallel columns (all timestamps together, all tx counts together, all
// signature R values together, ...) rather than one row per block is what
// lets the channel bank's snappy compression do real work on the result.
//
// The transaction columns below hold each transaction's body RLP with its
// signature stripped (contractCreationBits/yParityBits/txSigs carry what was
// removed); reassembleTx puts it back together from the y-parity bit (with
// chainID for legacy EIP-155 v values) and the stored R/S.
type RawSpanBatch struct {
	relTimestamp  uint64
	l1OriginNum   uint64
	parentCheck   [20]byte
	l1OriginCheck [20]byte
	blockCount    uint64
	originBits    spanBatchBits
	blockTxCounts []uint64
	chainID       *big.Int

	contractCreationBits spanBatchBits
	yParityBits          spanBatchBits
	txSigs               []spanBatchSignature
	txTos                []common.Address
	txDatas              [][]byte
	txTypes              []byte
}

type spanBatchSignature struct {
	r, s *big.Int
}

// decodeRawSpanBatch parses the wire format described above from r, advancing
// it past every byte consumed. chainID is needed to reconstruct legacy
// EIP-155 v values.
func decodeRawSpanBatch(r *[]byte, chainID *big.Int) (*RawSpanBatch, error) {
	b := &RawSpanBatch{chainID: chainID}

	var err error
	if b.relTimestamp, err = decodeSpanBatchVarint(r); err != nil {
		return nil, err
	}
	if b.l1OriginNum, err = decodeSpanBatchVarint(r); err != nil {
		return nil, err
	}
	if err := readFixed(r, b.parentCheck[:]); err != nil {
		return nil, err
	}
	if err := readFixed(r, b.l1OriginCheck[:]); err != nil {
		return nil, err
	}
	if b.blockCount, err = decodeSpanBatchVarint(r); err != nil {
		return nil, err
	}
	if b.blockCount == 0 || b.blockCount > maxSpanBatchSize {
		return nil, newSpanBatchError(TooBigSpanBatchSize)
	}
	if b.originBits, err = decodeSpanBatchBits(r, b.blockCount); err != nil {
		return nil, err
	}
	b.blockTxCounts = make([]uint64, b.blockCount)
	totalTxCount := uint64(0)
	for i := range b.blockTxCounts {
		n, err := decodeSpanBatchVarint(r)
		if err != nil {
			return nil, err
		}
		b.blockTxCounts[i] = n
		totalTxCount += n
	}

	if b.contractCreationBits, err = decodeSpanBatchBits(r, totalTxCount); err != nil {
		return nil, err
	}
	if b.yParityBits, err = decodeSpanBatchBits(r, totalTxCount); err != nil {
		return nil, err
	}

	b.txSigs = make([]spanBatchSignature, totalTxCount)
	for i := range b.txSigs {
		var rBuf, sBuf [32]byte
		if err := readFixed(r, rBuf[:]); err != nil {
			return nil, err
		}
		if err := readFixed(r, sBuf[:]); err != nil {
			return nil, err
		}
		b.txSigs[i] = spanBatchSignature{r: new(big.Int).SetBytes(rBuf[:]), s: new(big.Int).SetBytes(sBuf[:])}
	}

	b.txTos = make([]common.Address, 0, totalTxCount)
	for i := uint64(0); i < totalTxCount; i++ {
		if b.contractCreationBits.bit(i) {
			continue
		}
		var to common.Address
		if err := readFixed(r, to[:]); err != nil {
			return nil, err
		}
		b.txTos = append(b.txTos, to)
	}

	b.txDatas = make([][]byte, totalTxCount)
	b.txTypes = make([]byte, totalTxCount)
	for i := range b.txDatas {
		data, txType, err := readTxData(r)
		if err != nil {
			return nil, err
		}
		b.txDatas[i] = data
		b.txTypes[i] = txType
	}

	return b, nil
}

func readFixed(r *[]byte, dst []byte) error {
	buf := *r
	if len(buf) < len(dst) {
		return newSpanBatchError(InvalidTransactionData)
	}
	copy(dst, buf[:len(dst)])
	*r = buf[len(dst):]
	return nil
}

// singularBatches reassembles the span into one SingularBatch per L2 block,
// in increasing block-number order, given the L2 genesis block time and
// block time used to turn relTimestamp into absolute timestamps.
func (b *RawSpanBatch) singularBatches(genesisTime, blockTime, firstBlockNumber uint64, l1Origins []eth.BlockID) ([]*SingularBatch, error) {
	out := make([]*SingularBatch, 0, b.blockCount)
	txIdx := uint64(0)
	currentOrigin := 0
	for blk := uint64(0); blk < b.blockCount; blk++ {
		if blk > 0 && b.originBits.bit(blk) {
			currentOrigin++
		}
		if currentOrigin >= len(l1Origins) {
			currentOrigin = len(l1Origins) - 1
		}
		origin := l1Origins[currentOrigin]

		txCount := b.blockTxCounts[blk]
		txs := make([]eth.Data, 0, txCount)
		for j := uint64(0); j < txCount; j++ {
			raw, err := b.reassembleTx(txIdx)
			if err != nil {
				return nil, err
			}
			txs = append(txs, raw)
			txIdx++
		}

		out = append(out, &SingularBatch{
			EpochNum:     origin.Number,
			EpochHash:    origin.Hash,
			Timestamp:    genesisTime + b.relTimestamp + blk*blockTime,
			Transactions: txs,
		})
	}
	return out, nil
}

// reassembleTx reconstructs the canonical EIP-2718 transaction bytes for the
// tx at column index i: the signature fields stripped during encoding are
// rebuilt from yParityBits/txSigs (and, for legacy transactions, chainID via
// the EIP-155 encoding) and re-attached to the decoded body.
func (b *RawSpanBatch) reassembleTx(i uint64) ([]byte, error) {
	txType := b.txTypes[i]
	sig := b.txSigs[i]
	yParity := b.yParityBits.bit(i)

	var v *big.Int
	switch txType {
	case types.LegacyTxType:
		if b.chainID != nil {
			// Span batches only ever carry EIP-155-protected legacy
			// transactions (spec §4.3): v = chainID*2 + 35 + yParity.
			v = new(big.Int).Mul(b.chainID, big.NewInt(2))
			v.Add(v, big.NewInt(35))
			if yParity {
				v.Add(v, big.NewInt(1))
			}
		} else if yParity {
			v = big.NewInt(28)
		} else {
			v = big.NewInt(27)
		}
	case types.AccessListTxType, types.DynamicFeeTxType:
		if yParity {
			v = big.NewInt(1)
		} else {
			v = big.NewInt(0)
		}
	default:
		return nil, newSpanBatchError(InvalidTransactionType)
	}

	content := b.txDatas[i]
	bodyStart := 0
	if txType != types.LegacyTxType {
		bodyStart = 1 // skip the leading type byte stored by readTxData
	}
	listHeaderKind, listPayload, _, err := rlp.Split(content[bodyStart:])
	if err != nil || listHeaderKind != rlp.List {
		return nil, newSpanBatchError(InvalidTransactionData)
	}

	vBytes, err := rlp.EncodeToBytes(v)
	if err != nil {
		return nil, newSpanBatchError(InvalidTransactionSignature)
	}
	rBytes, err := rlp.EncodeToBytes(sig.r)
	if err != nil {
		return nil, newSpanBatchError(InvalidTransactionSignature)
	}
	sBytes, err := rlp.EncodeToBytes(sig.s)
	if err != nil {
		return nil, newSpanBatchError(InvalidTransactionSignature)
	}

	fullPayload := append(append(append([]byte{}, listPayload...), vBytes...), rBytes...)
	fullPayload = append(fullPayload, sBytes...)

	out := append(rlpListHeader(len(fullPayload)), fullPayload...)
	if txType != types.LegacyTxType {
		out = append([]byte{txType}, out...)
	}
	return out, nil
}

// rlpListHeader encodes the RLP list header for a payload of the given
// length, per the RLP length-prefix rules (short list: 0xc0+len for len<56;
// long list: 0xf7+lenOfLen followed by the big-endian length).
func rlpListHeader(payloadLen int) []byte {
	if payloadLen < 56 {
		return []byte{0xc0 + byte(payloadLen)}
	}
	lenBytes := big.NewInt(int64(payloadLen)).Bytes()
	header := make([]byte, 0, 1+len(lenBytes))
	header = append(header, 0xf7+byte(len(lenBytes)))
	header = append(header, lenBytes...)
	return header
}
