package derive

import (
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
)

// readTxData reads one canonical EIP-2718-encoded transaction from the front
// of r and returns its raw bytes (type byte, if any, plus the RLP body) and
// its type. Ported verbatim from
// original_source/crates/derive/src/batch/span_batch/utils.rs:read_tx_data —
// the two-cursor discipline below (peeking the RLP header through a copy of
// the slice header before touching r) is load-bearing: a malformed RLP
// header must leave r's position unaffected so the caller can report the
// error at the original offset.
func readTxData(r *[]byte) ([]byte, byte, error) {
	buf := *r
	if len(buf) == 0 {
		return nil, 0, newSpanBatchError(InvalidTransactionData)
	}

	var txType byte
	var txData []byte
	firstByte := buf[0]
	if firstByte <= 0x7f {
		// EIP-2718: typed transaction envelope. Record the type byte.
		txType = firstByte
		txData = append(txData, txType)
		buf = buf[1:]
	}

	// Split peeks the RLP header without mutating buf: on failure r must not
	// be advanced at all, so the error is reported at the original offset.
	kind, _, rest, err := rlp.Split(buf)
	if err != nil || kind != rlp.List {
		return nil, 0, newSpanBatchError(InvalidTransactionData)
	}
	itemLen := len(buf) - len(rest)

	payload := buf[:itemLen]
	txData = append(txData, payload...)
	*r = buf[itemLen:]

	if !isKnownTxType(txType) {
		return nil, 0, newSpanBatchError(InvalidTransactionType)
	}
	return txData, txType, nil
}

func isKnownTxType(t byte) bool {
	switch t {
	case types.LegacyTxType, types.AccessListTxType, types.DynamicFeeTxType, types.BlobTxType, types.SetCodeTxType:
		return true
	default:
		return false
	}
}

// convertVToYParity converts a decoded signature's v field into a y-parity
// bit given the transaction's type, per
// original_source/.../utils.rs:convert_v_to_y_parity.
func convertVToYParity(v uint64, txType byte) (bool, error) {
	switch txType {
	case types.LegacyTxType:
		if v != 27 && v != 28 {
			// EIP-155: v = 2*chainID + 35 + yParity
			return (v-35)&1 == 1, nil
		}
		return v-27 == 1, nil
	case types.AccessListTxType, types.DynamicFeeTxType:
		return v == 1, nil
	default:
		return false, newSpanBatchError(InvalidTransactionType)
	}
}

// isProtectedV reports whether a decoded legacy transaction's v field is
// replay-protected (EIP-155), or unconditionally true for every typed
// transaction (they carry no legacy v at all), per
// original_source/.../utils.rs:is_protected_v.
func isProtectedV(txType byte, v uint64) bool {
	if txType != types.LegacyTxType {
		return true
	}
	if bitLen64(v) <= 8 {
		return v != 0 && v != 1 && v != 27 && v != 28
	}
	return true
}

func bitLen64(v uint64) int {
	n := 0
	for v != 0 {
		n++
		v >>= 1
	}
	return n
}
