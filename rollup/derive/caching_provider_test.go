package derive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opstack-relay/derive-node/eth"
	"github.com/opstack-relay/derive-node/rollup/derive/testutils"
)

func TestCachingL2ChainProviderCachesSystemConfig(t *testing.T) {
	inner := testutils.NewTestL2ChainProvider()
	inner.SystemConfigs[5] = eth.SystemConfig{GasLimit: 30_000_000}

	cached, err := NewCachingL2ChainProvider(inner, 16)
	require.NoError(t, err)

	got, err := cached.SystemConfigByNumber(context.Background(), 5, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(30_000_000), got.GasLimit)

	// Mutate the backing store directly; a cache hit must still return the
	// value captured on first lookup.
	inner.SystemConfigs[5] = eth.SystemConfig{GasLimit: 99}
	got, err = cached.SystemConfigByNumber(context.Background(), 5, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(30_000_000), got.GasLimit)
}

func TestCachingL2ChainProviderPropagatesMisses(t *testing.T) {
	inner := testutils.NewTestL2ChainProvider()
	cached, err := NewCachingL2ChainProvider(inner, 16)
	require.NoError(t, err)

	_, err = cached.L2BlockInfoByNumber(context.Background(), 42)
	require.Error(t, err)
}
