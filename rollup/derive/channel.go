package derive

import (
	"bytes"
	"errors"
	"io"

	"github.com/golang/snappy"
)

var errDuplicateLast = errors.New("channel already has a last frame")

// channel accumulates frames for one ChannelID until IsLast is seen, then
// decompresses to the raw byte stream a batch reader consumes.
type channel struct {
	id          ChannelID
	size        uint64
	frames      map[uint16][]byte
	last        uint16
	hasLast     bool
	openL1Block uint64
}

func newChannel(id ChannelID, openL1Block uint64) *channel {
	return &channel{id: id, frames: make(map[uint16][]byte), openL1Block: openL1Block}
}

func (c *channel) addFrame(f Frame) error {
	if _, ok := c.frames[f.FrameNumber]; ok {
		return nil // duplicate frame, ignore
	}
	if f.IsLast {
		if c.hasLast {
			return errDuplicateLast
		}
		c.hasLast = true
		c.last = f.FrameNumber
	}
	c.frames[f.FrameNumber] = f.Data
	c.size += uint64(len(f.Data))
	return nil
}

func (c *channel) isReady() bool {
	if !c.hasLast {
		return false
	}
	for i := uint16(0); i <= c.last; i++ {
		if _, ok := c.frames[i]; !ok {
			return false
		}
	}
	return true
}

// assemble concatenates the channel's frames in order and snappy-decompresses
// the result, the compression codec real batcher-inbox channels use.
func (c *channel) assemble() ([]byte, error) {
	var buf bytes.Buffer
	for i := uint16(0); i <= c.last; i++ {
		buf.Write(c.frames[i])
	}
	r := snappy.NewReader(&buf)
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, newFrameParseError("channel decompression failed: " + err.Error())
	}
	return out, nil
}
