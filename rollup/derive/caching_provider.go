package derive

import (
	"context"

	lru "github.com/hashicorp/golang-lru"

	"github.com/opstack-relay/derive-node/eth"
	"github.com/opstack-relay/derive-node/rollup"
)

// CachingL2ChainProvider wraps an L2ChainProvider with small LRU caches for
// SystemConfig and L2BlockInfo lookups, the same caching idiom the teacher's
// L1/L2 source wrappers use around their underlying RPC client (an
// op-node.derive.L1Fetcher/L2Provider is hit once per block by several
// stages in the same Step, so a cold RPC call per lookup is wasted work).
type CachingL2ChainProvider struct {
	inner L2ChainProvider

	sysCfgCache *lru.Cache // uint64 -> eth.SystemConfig
	infoCache   *lru.Cache // uint64 -> eth.L2BlockInfo
}

// NewCachingL2ChainProvider wraps inner with LRU caches of the given size.
func NewCachingL2ChainProvider(inner L2ChainProvider, size int) (*CachingL2ChainProvider, error) {
	sysCfgCache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	infoCache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachingL2ChainProvider{inner: inner, sysCfgCache: sysCfgCache, infoCache: infoCache}, nil
}

func (c *CachingL2ChainProvider) SystemConfigByNumber(ctx context.Context, number uint64, cfg *rollup.Config) (eth.SystemConfig, error) {
	if v, ok := c.sysCfgCache.Get(number); ok {
		return v.(eth.SystemConfig), nil
	}
	sysCfg, err := c.inner.SystemConfigByNumber(ctx, number, cfg)
	if err != nil {
		return eth.SystemConfig{}, err
	}
	c.sysCfgCache.Add(number, sysCfg)
	return sysCfg, nil
}

func (c *CachingL2ChainProvider) L2BlockInfoByNumber(ctx context.Context, number uint64) (eth.L2BlockInfo, error) {
	if v, ok := c.infoCache.Get(number); ok {
		return v.(eth.L2BlockInfo), nil
	}
	info, err := c.inner.L2BlockInfoByNumber(ctx, number)
	if err != nil {
		return eth.L2BlockInfo{}, err
	}
	c.infoCache.Add(number, info)
	return info, nil
}

func (c *CachingL2ChainProvider) PayloadByNumber(ctx context.Context, number uint64) (*eth.ExecutionPayload, error) {
	return c.inner.PayloadByNumber(ctx, number)
}

var _ L2ChainProvider = (*CachingL2ChainProvider)(nil)
