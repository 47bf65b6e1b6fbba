package testutils

import (
	"context"
	"fmt"

	"github.com/opstack-relay/derive-node/eth"
)

// TestL1Fetcher is a map-backed L1Fetcher for pipeline tests: populate
// BlocksByNumber/BlocksByHash/Txs directly before driving the stage under
// test.
type TestL1Fetcher struct {
	BlocksByNumber map[uint64]eth.L1BlockRef
	BlocksByHash   map[[32]byte]eth.L1BlockRef
	Txs            map[[32]byte][][]byte
}

func NewTestL1Fetcher() *TestL1Fetcher {
	return &TestL1Fetcher{
		BlocksByNumber: make(map[uint64]eth.L1BlockRef),
		BlocksByHash:   make(map[[32]byte]eth.L1BlockRef),
		Txs:            make(map[[32]byte][][]byte),
	}
}

func (f *TestL1Fetcher) Insert(ref eth.L1BlockRef, txs [][]byte) {
	f.BlocksByNumber[ref.Number] = ref
	f.BlocksByHash[ref.Hash] = ref
	f.Txs[ref.Hash] = txs
}

func (f *TestL1Fetcher) L1BlockRefByNumber(_ context.Context, number uint64) (eth.L1BlockRef, error) {
	ref, ok := f.BlocksByNumber[number]
	if !ok {
		return eth.L1BlockRef{}, fmt.Errorf("l1 block not found: %d", number)
	}
	return ref, nil
}

func (f *TestL1Fetcher) L1BlockRefByHash(_ context.Context, hash [32]byte) (eth.L1BlockRef, error) {
	ref, ok := f.BlocksByHash[hash]
	if !ok {
		return eth.L1BlockRef{}, fmt.Errorf("l1 block not found: %x", hash)
	}
	return ref, nil
}

func (f *TestL1Fetcher) InfoAndTxsByHash(_ context.Context, hash [32]byte) (eth.L1BlockRef, [][]byte, error) {
	ref, ok := f.BlocksByHash[hash]
	if !ok {
		return eth.L1BlockRef{}, nil, fmt.Errorf("l1 block not found: %x", hash)
	}
	return ref, f.Txs[hash], nil
}
