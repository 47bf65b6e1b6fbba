package derive

import (
	"container/list"
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

func newTestAttributesQueue(batches ...Batch) (*AttributesQueue, *testutils.TestL2ChainProvider) {
	l2 := testutils.NewTestL2ChainProvider()
	cfg := &rollup.Config{}
	bq := &BatchQueue{rollupCfg: cfg, batches: list.New()}
	for _, b := range batches {
		bq.batches.PushBack(b)
	}
	return NewAttributesQueue(log.New(), cfg, l2, bq), l2
}

func TestAttributesQueueBuildsPayload(t *testing.T) {
	cursor := eth.L2BlockInfo{Number: 4, Hash: common.HexToHash("0xaa")}
	batch := &SingularBatch{ParentHash: cursor.Hash, Timestamp: 1000, Transactions: []eth.Data{[]byte("tx")}}
	aq, l2 := newTestAttributesQueue(batch)
	l2.SystemConfigs[cursor.Number] = eth.SystemConfig{BatcherAddr: common.HexToAddress("0xb0b")}

	attrs, err := aq.NextAttributes(context.Background(), cursor)
	require.NoError(t, err)
	assert.Equal(t, cursor, attrs.Parent)
	assert.EqualValues(t, 1000, attrs.Attributes.Timestamp)
	assert.Equal(t, common.HexToAddress("0xb0b"), attrs.Attributes.SuggestedFeeRecipient)
	assert.True(t, attrs.Attributes.NoTxPool)
	assert.Len(t, attrs.Attributes.Transactions, 1)
}

func TestAttributesQueueRejectsParentMismatch(t *testing.T) {
	cursor := eth.L2BlockInfo{Number: 4, Hash: common.HexToHash("0xaa")}
	batch := &SingularBatch{ParentHash: common.HexToHash("0xbad"), Timestamp: 1000}
	aq, l2 := newTestAttributesQueue(batch)
	l2.SystemConfigs[cursor.Number] = eth.SystemConfig{}

	_, err := aq.NextAttributes(context.Background(), cursor)
	require.Error(t, err)
	assert.True(t, IsReset(err))
	assert.ErrorIs(t, err, errParentMismatch)
}

func TestAttributesQueueMissingSystemConfigIsProviderError(t *testing.T) {
	cursor := eth.L2BlockInfo{Number: 4, Hash: common.HexToHash("0xaa")}
	batch := &SingularBatch{ParentHash: cursor.Hash, Timestamp: 1000}
	aq, _ := newTestAttributesQueue(batch)

	_, err := aq.NextAttributes(context.Background(), cursor)
	require.Error(t, err)
	assert.True(t, IsTemporary(err))
}
