package engine

import (
	"errors"
	"time"
)

// errFrameTimeout reports that no frame arrived within the wait interval.
// Pollers treat it as "try again", not as a failure.
var errFrameTimeout = errors.New("no frame within timeout")

// videoControl describes one tunable device control (gain, exposure, ...).
type videoControl struct {
	ID   int
	Name string
	Min  int
	Max  int
}

// frameSource is a streaming capture device. Implementations are
// platform-specific; openFrameSource picks the one compiled in.
type frameSource interface {
	// negotiate asks the device for a pixel format and frame size and
	// returns what it actually granted.
	negotiate(f Format, width, height int) (Format, int, int, error)
	start() error
	stop() error
	// frame blocks up to timeout for the next frame and returns its raw
	// bytes, or errFrameTimeout when the interval expires empty.
	frame(timeout time.Duration) ([]byte, error)
	controls() []videoControl
	control(id int) (int, error)
	setControl(id, value int) error
	close() error
}
