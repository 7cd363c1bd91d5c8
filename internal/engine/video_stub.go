//go:build !linux

package engine

// openFrameSource reports video capture as unavailable on this platform.
func openFrameSource(device string) (frameSource, error) {
	return nil, wrapErrorf("video.open", ErrUnsupported,
		"video capture is not supported on this platform (device %q)", device)
}
