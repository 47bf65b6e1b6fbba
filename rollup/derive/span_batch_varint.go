package derive

import "encoding/binary"

// decodeSpanBatchVarint reads one LEB128 varint from the front of r, the same
// encoding op-node's span-batch codec uses for its relative-timestamp and
// count fields. encoding/binary.Uvarint already implements exactly this
// format, so the codec leans on the stdlib here rather than hand-rolling a
// decoder the pack doesn't otherwise motivate a dependency for.
func decodeSpanBatchVarint(r *[]byte) (uint64, error) {
	v, n := binary.Uvarint(*r)
	if n <= 0 {
		return 0, newSpanBatchError(InvalidTransactionData)
	}
	*r = (*r)[n:]
	return v, nil
}

func encodeSpanBatchVarint(v uint64) []byte {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, v)
	return buf[:n]
}
