package eth

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// PayloadID identifies an in-progress Engine API block-building job.
type PayloadID [8]byte

func (p PayloadID) String() string {
	return hexutil.Encode(p[:])
}

// ForkchoiceState mirrors the Engine API forkchoiceState parameter.
type ForkchoiceState struct {
	HeadBlockHash      common.Hash `json:"headBlockHash"`
	SafeBlockHash      common.Hash `json:"safeBlockHash"`
	FinalizedBlockHash common.Hash `json:"finalizedBlockHash"`
}

// Withdrawal re-exports go-ethereum's withdrawal type; the attributes queue
// never constructs one itself (Optimism has no consensus-layer withdrawals),
// but the field exists on OptimismPayloadAttributes for Engine API parity.
type Withdrawal = types.Withdrawal
type Withdrawals = types.Withdrawals

// PayloadAttributes mirrors the Engine API's PayloadAttributesV3, extended by
// Optimism with the fields below via OptimismPayloadAttributes.
type PayloadAttributes struct {
	Timestamp             hexutil.Uint64 `json:"timestamp"`
	PrevRandao            Bytes32        `json:"prevRandao"`
	SuggestedFeeRecipient common.Address `json:"suggestedFeeRecipient"`
	Withdrawals           *Withdrawals   `json:"withdrawals,omitempty"`
	ParentBeaconBlockRoot *common.Hash   `json:"parentBeaconBlockRoot,omitempty"`
}

// EIP1559Params packs the per-block EIP-1559 denominator/elasticity override
// carried by Holocene-activated chains; nil on chains before that fork.
type EIP1559Params = hexutil.Bytes

// OptimismPayloadAttributes is the spec's `attributes` field of
// OptimismAttributesWithParent: PayloadAttributes plus the Optimism-specific
// block-building directives (sequencer-provided transactions, no_tx_pool,
// gas limit override, EIP-1559 parameter override).
type OptimismPayloadAttributes struct {
	PayloadAttributes

	Transactions  []Data          `json:"transactions,omitempty"`
	NoTxPool      bool            `json:"noTxPool,omitempty"`
	GasLimit      *hexutil.Uint64 `json:"gasLimit,omitempty"`
	EIP1559Params *EIP1559Params  `json:"eip1559Params,omitempty"`
}

// ExecutionPayload mirrors the subset of the Engine API's ExecutionPayloadV3
// this module round-trips through fixtures: it is never built or executed
// here, only loaded from fixtures and served by PayloadByNumber.
type ExecutionPayload struct {
	ParentHash    common.Hash    `json:"parentHash"`
	FeeRecipient  common.Address `json:"feeRecipient"`
	StateRoot     Bytes32        `json:"stateRoot"`
	BlockNumber   hexutil.Uint64 `json:"blockNumber"`
	GasLimit      hexutil.Uint64 `json:"gasLimit"`
	GasUsed       hexutil.Uint64 `json:"gasUsed"`
	Timestamp     hexutil.Uint64 `json:"timestamp"`
	PrevRandao    Bytes32        `json:"prevRandao"`
	BlockHash     common.Hash    `json:"blockHash"`
	Transactions  []Data         `json:"transactions"`
	Withdrawals   *Withdrawals   `json:"withdrawals,omitempty"`
}

func (p *ExecutionPayload) ID() BlockID {
	return BlockID{Hash: p.BlockHash, Number: uint64(p.BlockNumber)}
}

// ExecutionPayloadEnvelope wraps an ExecutionPayload with the additional
// fields returned by engine_getPayload once beacon-root requirements applied
// (post-Ecotone). Only carried here for parity with the teacher's types;
// nothing in this module executes or constructs full envelopes.
type ExecutionPayloadEnvelope struct {
	ExecutionPayload      *ExecutionPayload `json:"executionPayload"`
	ParentBeaconBlockRoot *common.Hash      `json:"parentBeaconBlockRoot,omitempty"`
}

// PayloadStatusV1 status strings, per the Engine API spec.
const (
	ExecutionValid             = "VALID"
	ExecutionInvalid           = "INVALID"
	ExecutionInvalidBlockHash  = "INVALID_BLOCK_HASH"
	ExecutionAccepted          = "ACCEPTED"
	ExecutionSyncing           = "SYNCING"
)

// InputError distinguishes an Engine API error that was caused by invalid
// input parameters (and thus will never succeed by retrying) from a
// transient failure. Nothing in this module calls into an engine, so nothing
// here constructs one.
type InputError struct {
	Inner error
	Code  int
}

func (e InputError) Error() string {
	return fmt.Sprintf("input error %d: %s", e.Code, e.Inner.Error())
}

func (e InputError) Unwrap() error {
	return e.Inner
}

const (
	InvalidForkchoiceState  = -38002
	InvalidPayloadAttributes = -38003
)
