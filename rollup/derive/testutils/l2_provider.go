package testutils

import (
	"context"
	"fmt"

	"github.com/opstack-relay/derive-node/eth"
	"github.com/opstack-relay/derive-node/rollup"
)

// TestL2ChainProvider is a map-backed L2ChainProvider, ported from
// original_source/crates/derive/src/test_utils/sys_config_fetcher.rs's
// TestSystemConfigL2Fetcher: populate the maps directly, then hand the
// fetcher to the pipeline under test.
type TestL2ChainProvider struct {
	SystemConfigs map[uint64]eth.SystemConfig
	L2BlockInfos  map[uint64]eth.L2BlockInfo
	Payloads      map[uint64]*eth.ExecutionPayload
}

func NewTestL2ChainProvider() *TestL2ChainProvider {
	return &TestL2ChainProvider{
		SystemConfigs: make(map[uint64]eth.SystemConfig),
		L2BlockInfos:  make(map[uint64]eth.L2BlockInfo),
		Payloads:      make(map[uint64]*eth.ExecutionPayload),
	}
}

func (p *TestL2ChainProvider) SystemConfigByNumber(_ context.Context, number uint64, _ *rollup.Config) (eth.SystemConfig, error) {
	cfg, ok := p.SystemConfigs[number]
	if !ok {
		return eth.SystemConfig{}, fmt.Errorf("system config not found: %d", number)
	}
	return cfg, nil
}

func (p *TestL2ChainProvider) L2BlockInfoByNumber(_ context.Context, number uint64) (eth.L2BlockInfo, error) {
	info, ok := p.L2BlockInfos[number]
	if !ok {
		return eth.L2BlockInfo{}, fmt.Errorf("l2 block info not found: %d", number)
	}
	return info, nil
}

func (p *TestL2ChainProvider) PayloadByNumber(_ context.Context, number uint64) (*eth.ExecutionPayload, error) {
	payload, ok := p.Payloads[number]
	if !ok {
		return nil, fmt.Errorf("payload not found: %d", number)
	}
	return payload, nil
}
