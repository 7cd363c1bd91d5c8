package okapi

import "fmt"

// SizeMismatchError reports pixel data whose length does not match the
// declared image dimensions.
type SizeMismatchError struct {
	Width   uint32
	Height  uint32
	DataLen int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("okapi: image data length %d does not match %dx%d frame",
		e.DataLen, e.Width, e.Height)
}
