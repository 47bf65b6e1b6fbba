package derive

import (
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ported from original_source/crates/derive/src/batch/span_batch/utils.rs's
// test_convert_v_to_y_parity table.
func TestConvertVToYParity(t *testing.T) {
	tests := []struct {
		name    string
		v       uint64
		txType  byte
		want    bool
		wantErr bool
	}{
		{"legacy v=27", 27, types.LegacyTxType, false, false},
		{"legacy v=28", 28, types.LegacyTxType, true, false},
		{"legacy eip155 v=36", 36, types.LegacyTxType, true, false},
		{"legacy eip155 v=37", 37, types.LegacyTxType, false, false},
		{"eip2930 v=1", 1, types.AccessListTxType, true, false},
		{"eip1559 v=1", 1, types.DynamicFeeTxType, true, false},
		{"eip4844 rejected", 1, types.BlobTxType, false, true},
		{"eip7702 rejected", 0, types.SetCodeTxType, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convertVToYParity(tt.v, tt.txType)
			if tt.wantErr {
				require.Error(t, err)
				var sbErr *SpanBatchError
				require.ErrorAs(t, err, &sbErr)
				assert.Equal(t, InvalidTransactionType, sbErr.Kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Ported from utils.rs's test_is_protected_v, restated against the v value
// directly rather than a full TxEnvelope (isProtectedV takes the tx type and
// the numeric v, not a decoded envelope).
func TestIsProtectedV(t *testing.T) {
	assert.False(t, isProtectedV(types.LegacyTxType, 27))
	assert.False(t, isProtectedV(types.LegacyTxType, 28))
	assert.True(t, isProtectedV(types.LegacyTxType, 37))
	assert.True(t, isProtectedV(types.AccessListTxType, 1))
	assert.True(t, isProtectedV(types.DynamicFeeTxType, 0))
	assert.True(t, isProtectedV(types.BlobTxType, 0))
}

func TestReadTxDataLegacy(t *testing.T) {
	// A minimal legacy-shaped RLP list: c3 80 80 80 (a 3-byte list of three
	// empty strings) stands in for a stripped legacy tx body.
	data := []byte{0xc3, 0x80, 0x80, 0x80}
	r := append([]byte{}, data...)
	got, txType, err := readTxData(&r)
	require.NoError(t, err)
	assert.Equal(t, byte(types.LegacyTxType), txType)
	assert.Equal(t, data, got)
	assert.Empty(t, r)
}

func TestReadTxDataTyped(t *testing.T) {
	// type byte 0x02 (EIP-1559) followed by the same 3-item empty list.
	data := []byte{0x02, 0xc3, 0x80, 0x80, 0x80}
	r := append([]byte{}, data...)
	got, txType, err := readTxData(&r)
	require.NoError(t, err)
	assert.Equal(t, byte(types.DynamicFeeTxType), txType)
	assert.Equal(t, data, got)
}

func TestReadTxDataMalformedLeavesCursorUntouched(t *testing.T) {
	// 0x00 is read as a type byte, and no RLP list header follows it — must
	// fail without consuming r.
	data := []byte{0x00}
	r := append([]byte{}, data...)
	_, _, err := readTxData(&r)
	require.Error(t, err)
	assert.Equal(t, data, r)
}

func TestReadTxDataEmptyInput(t *testing.T) {
	var r []byte
	_, _, err := readTxData(&r)
	require.Error(t, err)
	var sbErr *SpanBatchError
	require.ErrorAs(t, err, &sbErr)
	assert.Equal(t, InvalidTransactionData, sbErr.Kind)
}
