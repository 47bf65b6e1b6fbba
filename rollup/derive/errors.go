package derive

import (
	"errors"
	"fmt"
)

// Base pipeline error kinds (spec §7, PipelineError). These are returned
// directly or wrapped by one of the classification sentinels below.
var (
	// EOF signals that a stage needs more L1 data before it can produce
	// anything; stages may return it unwrapped, and IsTemporary counts it as
	// temporary either way.
	EOF = errors.New("eof")

	// ErrNotEnoughData is a stage-local variant of EOF used by stages that
	// distinguish "need more L1 blocks" from "need the channel bank to flush".
	ErrNotEnoughData = errors.New("not enough data")

	// ErrMissingOrigin is returned when a stage is asked to act before it has
	// ever been anchored to an L1 origin (i.e. before the first advance or a
	// Reset).
	ErrMissingOrigin = errors.New("missing L1 origin")

	// ErrBadEncoding is the critical error raised when the span-batch codec
	// rejects an input; it is always wrapped as Critical at the pipeline
	// boundary, per spec §7.
	ErrBadEncoding = errors.New("bad encoding")
)

// Classification sentinels. The real op-node tree classifies pipeline errors
// by wrapping them with fmt.Errorf("...: %w", ErrTemporary) (etc.) and
// testing with errors.Is — see op-e2e/derivation/l2_verifier.go and
// rollup/driver/state.go. This module follows the same idiom rather than a
// hand-rolled tagged-union error kind, since Go error wrapping already gives
// exactly the classify-and-propagate behavior spec §7 describes.
var (
	// ErrTemporary marks an error the caller should retry later without
	// resetting - e.g. a provider hiccup, or an EOF.
	ErrTemporary = errors.New("temporary error")
	// ErrCritical marks an error the caller must treat as fatal until a
	// Reset is issued.
	ErrCritical = errors.New("critical error")
	// ErrReset marks an error that is itself a request for the driver to
	// issue Signal::Reset.
	ErrReset = errors.New("reset required")
)

// Temp wraps err as a temporary error.
func Temp(err error) error {
	return fmt.Errorf("%w: %w", ErrTemporary, err)
}

// Crit wraps err as a critical error.
func Crit(err error) error {
	return fmt.Errorf("%w: %w", ErrCritical, err)
}

// Reset wraps err as a reset-request error.
func Reset(err error) error {
	return fmt.Errorf("%w: %w", ErrReset, err)
}

// IsTemporary reports whether err (or any error it wraps) is classified
// Temporary. EOF itself always counts as temporary.
func IsTemporary(err error) bool {
	return errors.Is(err, ErrTemporary) || errors.Is(err, EOF)
}

// IsCritical reports whether err is classified Critical.
func IsCritical(err error) bool {
	return errors.Is(err, ErrCritical)
}

// IsReset reports whether err is classified as a reset request.
func IsReset(err error) bool {
	return errors.Is(err, ErrReset)
}

// ProviderError wraps an L1 or L2 provider failure as PipelineError::Provider
// from spec §7. It is always temporary: a provider hiccup is expected to
// heal itself, or be resolved by a Reset once the driver notices a reorg.
func ProviderError(msg string) error {
	return Temp(fmt.Errorf("provider error: %s", msg))
}

// SpanBatchError is the codec-local error family from spec §4.3 / §7. The
// codec functions return it unclassified; BatchQueue wraps it with
// ErrBadEncoding and classifies it Critical at the stage boundary, per spec §7's
// propagation policy ("Codec errors bubble as BadEncoding and are critical at
// the pipeline boundary").
type SpanBatchError struct {
	Kind SpanDecodingError
}

func (e *SpanBatchError) Error() string {
	return "span batch decoding error: " + e.Kind.String()
}

// SpanDecodingError enumerates the ways span-batch decoding can fail.
type SpanDecodingError int

const (
	// InvalidTransactionData is returned when a transaction's RLP payload is
	// malformed or the declared length does not match the available bytes.
	InvalidTransactionData SpanDecodingError = iota
	// InvalidTransactionType is returned when a decoded transaction type byte
	// does not correspond to a type this codec understands, or understands
	// but cannot determine a y-parity encoding for (EIP-4844, EIP-7702).
	InvalidTransactionType
	// InvalidTransactionSignature is returned when a transaction signature's
	// v-field is out of the admissible range for its type.
	InvalidTransactionSignature
	// InvalidBitList is returned when a packed bit-list's declared length
	// does not match the number of bits actually needed.
	InvalidBitList
	// TooBigSpanBatchSize is returned when a span batch claims more blocks or
	// transactions than the configured maximum.
	TooBigSpanBatchSize
)

func (e SpanDecodingError) String() string {
	switch e {
	case InvalidTransactionData:
		return "invalid transaction data"
	case InvalidTransactionType:
		return "invalid transaction type"
	case InvalidTransactionSignature:
		return "invalid transaction signature"
	case InvalidBitList:
		return "invalid bit list"
	case TooBigSpanBatchSize:
		return "too big span batch size"
	default:
		return "unknown span decoding error"
	}
}

func newSpanBatchError(kind SpanDecodingError) error {
	return &SpanBatchError{Kind: kind}
}
