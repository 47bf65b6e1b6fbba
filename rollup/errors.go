package rollup

import "errors"

// ErrBeforeGenesis is returned when a timestamp predates the configured L2
// genesis time.
var ErrBeforeGenesis = errors.New("timestamp before genesis")
