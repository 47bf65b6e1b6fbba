package eth

// SyncStatus summarizes where the node thinks the L1 and L2 chains are, for
// RPC consumers. Grounded on op-node/rollup/driver.SyncStatus as used by
// op-e2e/derivation.L2Verifier.SyncStatus.
type SyncStatus struct {
	CurrentL1   BlockInfo  `json:"current_l1"`
	HeadL1      L1BlockRef `json:"head_l1"`
	SafeL1      L1BlockRef `json:"safe_l1"`
	FinalizedL1 L1BlockRef `json:"finalized_l1"`

	UnsafeL2    L2BlockInfo `json:"unsafe_l2"`
	SafeL2      L2BlockInfo `json:"safe_l2"`
	FinalizedL2 L2BlockInfo `json:"finalized_l2"`
}
