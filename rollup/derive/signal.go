package derive

import "github.com/opstack-relay/derive-node/eth"

// Signal is the tagged variant from spec §3: either a Reset or a
// FlushChannel request. Go has no closed sum type, so this is modeled as an
// interface with an unexported marker method, implemented by exactly two
// types (ResetSignal and FlushChannelSignal), matching
// Design Note 9 ("model as a small hierarchy of value-types dispatched
// through a closed switch").
type Signal interface {
	isSignal()
}

// ResetSignal carries the new L2 safe head and L1 origin the pipeline should
// re-anchor to after a reorg.
type ResetSignal struct {
	L2SafeHead eth.L2BlockInfo
	L1Origin   eth.BlockInfo
}

func (ResetSignal) isSignal() {}

// FlushChannelSignal requests that the channel bank drop its in-flight
// channel, e.g. because a later frame of it was found to be invalid.
type FlushChannelSignal struct{}

func (FlushChannelSignal) isSignal() {}
