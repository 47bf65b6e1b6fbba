package testutils

import (
	"encoding/json"
	"fmt"

	"github.com/opstack-relay/derive-node/eth"
)

// DerivationFixture is the runner's input document (spec §6): L2 block infos
// and expected payload attributes keyed by decimal block number, plus the
// auxiliary L1/L2 block and SystemConfig data the fixture providers serve.
type DerivationFixture struct {
	L2BlockInfos  map[string]eth.L2BlockInfo              `json:"l2_block_infos"`
	L2Payloads    map[string]eth.OptimismPayloadAttributes `json:"l2_payloads"`
	L1Blocks      map[string]eth.L1BlockRef               `json:"l1_blocks"`
	L2Blocks      map[string]eth.ExecutionPayload         `json:"l2_blocks"`
	SystemConfigs map[string]eth.SystemConfig             `json:"system_configs"`
}

// LoadDerivationFixture parses a fixture document from raw JSON bytes.
func LoadDerivationFixture(data []byte) (*DerivationFixture, error) {
	var f DerivationFixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing derivation fixture: %w", err)
	}
	return &f, nil
}

// L2ChainProvider builds a TestL2ChainProvider pre-populated from the
// fixture's system_configs, l2_block_infos and l2_blocks tables.
func (f *DerivationFixture) L2ChainProvider() *TestL2ChainProvider {
	p := NewTestL2ChainProvider()
	for _, info := range f.L2BlockInfos {
		p.L2BlockInfos[info.Number] = info
	}
	for _, payload := range f.L2Blocks {
		payload := payload
		p.Payloads[uint64(payload.BlockNumber)] = &payload
	}
	for numStr, cfg := range f.SystemConfigs {
		var num uint64
		if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
			continue
		}
		p.SystemConfigs[num] = cfg
	}
	return p
}

// L1Fetcher builds a TestL1Fetcher pre-populated from the fixture's
// l1_blocks table.
func (f *DerivationFixture) L1Fetcher() *TestL1Fetcher {
	l1 := NewTestL1Fetcher()
	for _, ref := range f.L1Blocks {
		l1.Insert(ref, nil)
	}
	return l1
}
