package derive

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opstack-relay/derive-node/eth"
	"github.com/opstack-relay/derive-node/rollup"
	"github.com/opstack-relay/derive-node/rollup/derive/testutils"
)

func newTestChannelBank(t *testing.T, cfg *rollup.Config) (*ChannelBank, *testutils.TestL1Fetcher) {
	t.Helper()
	l1 := testutils.NewTestL1Fetcher()
	traversal := NewL1Traversal(log.New(), l1, cfg)
	fq := NewFrameQueue(log.New(), cfg, traversal)
	return NewChannelBank(log.New(), cfg, fq), l1
}

func TestChannelBankAssemblesCompleteChannel(t *testing.T) {
	cfg := &rollup.Config{ChannelTimeout: 100}
	cb, l1 := newTestChannelBank(t, cfg)

	block := eth.L1BlockRef{Hash: common.HexToHash("0x1"), Number: 10}
	payload := []byte("span batch bytes")
	compressed := snappyCompress(t, payload)

	f0 := Frame{FrameNumber: 0, Data: compressed}
	f1 := Frame{FrameNumber: 1, IsLast: true}
	batcherTx := append([]byte{DerivationVersion0}, encodeFrame(f0)...)
	batcherTx = append(batcherTx, encodeFrame(f1)...)
	l1.Insert(block, [][]byte{batcherTx})

	require.ErrorIs(t, cb.Reset(context.Background(), block.BlockInfo(), nil), EOF)

	out, err := cb.NextData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, payload, out)
}

func TestChannelBankPrunesExpiredChannels(t *testing.T) {
	cfg := &rollup.Config{ChannelTimeout: 1}
	cb, l1 := newTestChannelBank(t, cfg)

	block0 := eth.L1BlockRef{Hash: common.HexToHash("0x1"), Number: 10}
	block1 := eth.L1BlockRef{Hash: common.HexToHash("0x2"), Number: 11, ParentHash: block0.Hash}
	block2 := eth.L1BlockRef{Hash: common.HexToHash("0x3"), Number: 12, ParentHash: block1.Hash}

	// An incomplete channel opened at block 10, never finished.
	incomplete := Frame{FrameNumber: 0, Data: []byte("partial")}
	tx := append([]byte{DerivationVersion0}, encodeFrame(incomplete)...)
	l1.Insert(block0, [][]byte{tx})
	l1.Insert(block1, nil)
	l1.Insert(block2, nil)

	require.ErrorIs(t, cb.Reset(context.Background(), block0.BlockInfo(), nil), EOF)

	_, err := cb.NextData(context.Background())
	require.Error(t, err, "no complete channel yet, and no more L1 data at block 10")
	assert.True(t, IsTemporary(err))
	assert.Len(t, cb.channels, 1)

	require.NoError(t, cb.AdvanceOrigin(context.Background()))
	require.NoError(t, cb.AdvanceOrigin(context.Background()))

	assert.Empty(t, cb.channels, "channel opened at block 10 should be pruned once origin passes block 10+timeout")
}

func TestChannelBankFlushDropsOldestChannel(t *testing.T) {
	cfg := &rollup.Config{ChannelTimeout: 100}
	cb, l1 := newTestChannelBank(t, cfg)

	block := eth.L1BlockRef{Hash: common.HexToHash("0x1"), Number: 10}
	f := Frame{FrameNumber: 0, Data: []byte("partial")}
	tx := append([]byte{DerivationVersion0}, encodeFrame(f)...)
	l1.Insert(block, [][]byte{tx})

	require.ErrorIs(t, cb.Reset(context.Background(), block.BlockInfo(), nil), EOF)
	_, err := cb.NextData(context.Background())
	require.Error(t, err)
	require.Len(t, cb.channels, 1)

	require.NoError(t, cb.FlushChannel(context.Background()))
	assert.Empty(t, cb.channels)
	assert.Equal(t, 0, cb.order.Len())
}
