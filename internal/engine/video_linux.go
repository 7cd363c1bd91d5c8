//go:build linux

package engine

import (
	"errors"
	"sort"
	"time"

	"github.com/blackjack/webcam"
)

// v4l2Source drives a Video4Linux2 capture device.
type v4l2Source struct {
	cam *webcam.Webcam
}

// openFrameSource opens the named V4L2 device node.
func openFrameSource(device string) (frameSource, error) {
	cam, err := webcam.Open(device)
	if err != nil {
		return nil, wrapError("video.open", ErrSystem, err)
	}
	return &v4l2Source{cam: cam}, nil
}

func (v *v4l2Source) negotiate(f Format, width, height int) (Format, int, int, error) {
	pf, w, h, err := v.cam.SetImageFormat(webcam.PixelFormat(f), uint32(width), uint32(height))
	if err != nil {
		return 0, 0, 0, wrapError("video.format", ErrInvalid, err)
	}
	return Format(pf), int(w), int(h), nil
}

func (v *v4l2Source) start() error {
	if err := v.cam.StartStreaming(); err != nil {
		return wrapError("video.start", ErrSystem, err)
	}
	return nil
}

func (v *v4l2Source) stop() error {
	if err := v.cam.StopStreaming(); err != nil {
		return wrapError("video.stop", ErrSystem, err)
	}
	return nil
}

func (v *v4l2Source) frame(timeout time.Duration) ([]byte, error) {
	// The kernel wait is second-granular; round sub-second waits up so a
	// short poll still blocks instead of spinning.
	secs := uint32((timeout + time.Second - 1) / time.Second)
	if secs == 0 {
		secs = 1
	}
	err := v.cam.WaitForFrame(secs)
	var to *webcam.Timeout
	if errors.As(err, &to) {
		return nil, errFrameTimeout
	}
	if err != nil {
		return nil, wrapError("video.wait", ErrSystem, err)
	}
	data, err := v.cam.ReadFrame()
	if err != nil {
		return nil, wrapError("video.read", ErrSystem, err)
	}
	if len(data) == 0 {
		return nil, errFrameTimeout
	}
	return data, nil
}

func (v *v4l2Source) controls() []videoControl {
	raw := v.cam.GetControls()
	out := make([]videoControl, 0, len(raw))
	for id, c := range raw {
		out = append(out, videoControl{
			ID:   int(id),
			Name: c.Name,
			Min:  int(c.Min),
			Max:  int(c.Max),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (v *v4l2Source) control(id int) (int, error) {
	val, err := v.cam.GetControl(webcam.ControlID(id))
	if err != nil {
		return 0, wrapError("video.control", ErrSystem, err)
	}
	return int(val), nil
}

func (v *v4l2Source) setControl(id, value int) error {
	if err := v.cam.SetControl(webcam.ControlID(id), int32(value)); err != nil {
		return wrapError("video.control", ErrSystem, err)
	}
	return nil
}

func (v *v4l2Source) close() error {
	if err := v.cam.Close(); err != nil {
		return wrapError("video.close", ErrSystem, err)
	}
	return nil
}
