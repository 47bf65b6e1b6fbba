package derive

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// DerivationVersion0 is the only batcher-inbox transaction format this
// derivation pipeline understands.
const DerivationVersion0 = byte(0)

// frameV0Length is the byte size of everything in a v0 frame except its
// variable-length data payload: channel ID (16) + frame number (2) + frame
// data length (4) + is-last flag (1).
const frameV0Length = 16 + 2 + 4 + 1

// ChannelID identifies the channel a frame belongs to; batcher transactions
// may interleave frames from several channels.
type ChannelID [16]byte

func (id ChannelID) String() string {
	return common.Bytes2Hex(id[:])
}

// Frame is one fragment of a compressed channel, as carried inside a
// batcher-inbox transaction's calldata (spec §4.1's FrameQueue input).
type Frame struct {
	ID          ChannelID
	FrameNumber uint16
	Data        []byte
	IsLast      bool
}

// parseFrames checks the leading version byte of one batcher transaction's
// data and splits the rest into its component frames. Malformed framing is a temporary error: it is
// attributed to this one transaction, not treated as a pipeline-wide fault.
func parseFrames(data []byte) ([]Frame, error) {
	if len(data) == 0 {
		return nil, newFrameParseError("empty frame data")
	}
	if data[0] != DerivationVersion0 {
		return nil, newFrameParseError("unsupported derivation version")
	}
	data = data[1:]

	var frames []Frame
	for len(data) > 0 {
		if len(data) < frameV0Length {
			return nil, newFrameParseError("truncated frame header")
		}
		var f Frame
		copy(f.ID[:], data[:16])
		data = data[16:]
		f.FrameNumber = binary.BigEndian.Uint16(data[:2])
		data = data[2:]
		dataLen := binary.BigEndian.Uint32(data[:4])
		data = data[4:]
		if uint64(len(data)) < uint64(dataLen)+1 {
			return nil, newFrameParseError("truncated frame data")
		}
		f.Data = append([]byte{}, data[:dataLen]...)
		data = data[dataLen:]
		f.IsLast = data[0] != 0
		data = data[1:]
		frames = append(frames, f)
	}
	return frames, nil
}

func newFrameParseError(msg string) error {
	return Temp(fmt.Errorf("frame parse error: %s", msg))
}
