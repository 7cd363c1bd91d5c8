package engine

import (
	"fmt"
	"image"
	"os"

	xdraw "golang.org/x/image/draw"
)

// Image is a frame of raw pixel data in the engine graph. Pixel data is
// either owned (a cleanup func returns the buffer to the pool when the
// image is destroyed) or borrowed from the caller (nil cleanup). Decoded
// results attach to the image as a SymbolSet, and every symbol in that set
// holds its own reference back to the image, so results stay readable even
// after the creator drops the image.
//
// Images are not safe for concurrent mutation; Scanner and Processor
// serialize access on their own locks.
type Image struct {
	refCount
	format                     Format
	width, height              uint32
	cropX, cropY, cropW, cropH uint32
	sequence                   uint32
	data                       []byte
	cleanup                    func([]byte)
	userdata                   []byte
	syms                       *SymbolSet
}

// NewImage creates a blank image with a single owning reference. Format,
// size and data are attached through the setters.
func NewImage() *Image {
	img := &Image{}
	img.refCount.init()
	return img
}

// Ref takes an additional reference.
func (img *Image) Ref() { img.ref("image", 1) }

// Unref drops one reference and destroys the image when the last one goes.
func (img *Image) Unref() {
	if img.ref("image", -1) == 0 {
		img.destroy()
	}
}

func (img *Image) destroy() {
	if img.syms != nil {
		img.syms.Unref()
		img.syms = nil
	}
	if img.cleanup != nil && img.data != nil {
		img.cleanup(img.data)
	}
	img.data = nil
	img.cleanup = nil
	img.userdata = nil
	img.width, img.height = 0, 0
	img.cropX, img.cropY, img.cropW, img.cropH = 0, 0, 0, 0
}

// SetFormat sets the pixel format label for the attached data.
func (img *Image) SetFormat(f Format) { img.format = f }

// Format returns the pixel format.
func (img *Image) Format() Format { return img.format }

// SetSize sets the frame dimensions and resets the crop to the full frame.
func (img *Image) SetSize(width, height uint32) {
	img.width, img.height = width, height
	img.cropX, img.cropY = 0, 0
	img.cropW, img.cropH = width, height
}

// Size returns the frame dimensions.
func (img *Image) Size() (width, height uint32) { return img.width, img.height }

// Width returns the frame width in pixels.
func (img *Image) Width() uint32 { return img.width }

// Height returns the frame height in pixels.
func (img *Image) Height() uint32 { return img.height }

// SetCrop restricts scanning to a window of the frame. The window is
// clipped against the frame bounds.
func (img *Image) SetCrop(x, y, w, h uint32) {
	if x > img.width {
		x = img.width
	}
	if y > img.height {
		y = img.height
	}
	if x+w > img.width {
		w = img.width - x
	}
	if y+h > img.height {
		h = img.height - y
	}
	img.cropX, img.cropY, img.cropW, img.cropH = x, y, w, h
}

// Crop returns the scan window.
func (img *Image) Crop() (x, y, w, h uint32) {
	return img.cropX, img.cropY, img.cropW, img.cropH
}

// SetSequence stamps the image with a frame sequence number.
func (img *Image) SetSequence(n uint32) { img.sequence = n }

// Sequence returns the frame sequence number.
func (img *Image) Sequence() uint32 { return img.sequence }

// SetData attaches the raw pixel buffer. A non-nil cleanup is invoked
// exactly once when the image is destroyed and marks the buffer as owned;
// a nil cleanup marks it as borrowed from the caller, who must keep it
// alive and unchanged for the image's lifetime.
func (img *Image) SetData(data []byte, cleanup func([]byte)) {
	img.data = data
	img.cleanup = cleanup
}

// Data returns the raw pixel buffer without copying. The slice becomes
// invalid once the image is destroyed.
func (img *Image) Data() []byte { return img.data }

// SetUserData attaches an opaque caller buffer to the image.
func (img *Image) SetUserData(b []byte) { img.userdata = b }

// UserData returns the attached opaque buffer.
func (img *Image) UserData() []byte { return img.userdata }

// Symbols returns the attached result set, or nil when the image has not
// been scanned. The returned pointer is borrowed; callers that outlive the
// image must take their own reference.
func (img *Image) Symbols() *SymbolSet { return img.syms }

// SetSymbols replaces the attached result set, taking a reference on the
// new set and dropping the one on the old.
func (img *Image) SetSymbols(set *SymbolSet) {
	if set != nil {
		set.Ref()
	}
	if img.syms != nil {
		img.syms.Unref()
	}
	img.syms = set
}

// takeSymbols detaches the result set and transfers the image's reference
// to the caller.
func (img *Image) takeSymbols() *SymbolSet {
	set := img.syms
	img.syms = nil
	return set
}

// FirstSymbol returns the first decoded symbol, or nil. Borrowed pointer.
func (img *Image) FirstSymbol() *Symbol {
	if img.syms == nil {
		return nil
	}
	return img.syms.First()
}

func isGray(f Format) bool { return f == FormatY800 || f == FormatGrey }

// grayView exposes the frame as a luminance image for decoding. Grayscale
// frames are viewed in place; other formats convert through a pooled
// buffer released by the returned func. The crop window is applied.
func (img *Image) grayView() (*image.Gray, func(), error) {
	w, h := int(img.width), int(img.height)
	if w <= 0 || h <= 0 {
		return nil, nil, wrapErrorf("image.scan", ErrInvalid, "image has no size")
	}

	var g *image.Gray
	release := func() {}
	if isGray(img.format) {
		if len(img.data) < w*h {
			return nil, nil, wrapErrorf("image.scan", ErrInvalid,
				"short data: %d bytes for %dx%d", len(img.data), w, h)
		}
		g = &image.Gray{Pix: img.data[:w*h], Stride: w, Rect: image.Rect(0, 0, w, h)}
	} else {
		buf, err := grayFrame(img.data, img.format, img.width, img.height)
		if err != nil {
			return nil, nil, err
		}
		g = &image.Gray{Pix: buf, Stride: w, Rect: image.Rect(0, 0, w, h)}
		release = func() { PutBuffer(buf) }
	}

	if img.cropW > 0 && img.cropH > 0 &&
		!(img.cropX == 0 && img.cropY == 0 && img.cropW == img.width && img.cropH == img.height) {
		r := image.Rect(int(img.cropX), int(img.cropY),
			int(img.cropX+img.cropW), int(img.cropY+img.cropH))
		sub, ok := g.SubImage(r).(*image.Gray)
		if ok {
			g = sub
		}
	}
	return g, release, nil
}

// Convert returns a new image holding this frame's pixels in the target
// format. Conversions run through the luminance plane except for direct
// channel swaps, so color information does not survive a round trip.
// The new image owns its buffer and starts with one reference.
func (img *Image) Convert(target Format) (*Image, error) {
	const op = "image.convert"
	w, h := img.width, img.height
	n := int(w) * int(h)
	if n <= 0 {
		return nil, wrapErrorf(op, ErrInvalid, "image has no size")
	}

	var buf []byte
	switch {
	case target == img.format, isGray(target) && isGray(img.format):
		size := img.format.frameSize(w, h)
		if size < 0 {
			size = len(img.data)
		}
		if len(img.data) < size {
			return nil, wrapErrorf(op, ErrInvalid, "short data")
		}
		buf = GetBuffer(size)
		copy(buf, img.data[:size])

	case img.format == FormatRGB3 && target == FormatBGR3,
		img.format == FormatBGR3 && target == FormatRGB3:
		if len(img.data) < 3*n {
			return nil, wrapErrorf(op, ErrInvalid, "short data")
		}
		buf = GetBuffer(3 * n)
		for i := 0; i < n; i++ {
			buf[3*i], buf[3*i+1], buf[3*i+2] = img.data[3*i+2], img.data[3*i+1], img.data[3*i]
		}

	case isGray(target):
		var err error
		buf, err = grayFrame(img.data, img.format, w, h)
		if err != nil {
			return nil, err
		}

	default:
		gray, err := grayFrame(img.data, img.format, w, h)
		if err != nil {
			return nil, err
		}
		buf, err = expandGray(gray, target)
		PutBuffer(gray)
		if err != nil {
			return nil, err
		}
	}

	out := NewImage()
	out.SetFormat(target)
	out.SetSize(w, h)
	out.SetData(buf, PutBuffer)
	out.SetSequence(img.sequence)
	return out, nil
}

// ConvertResize converts the frame to the target format while scaling it
// to the given dimensions. Inputs are validated up front; the scale itself
// runs on the luminance plane with a bilinear kernel.
func (img *Image) ConvertResize(target Format, width, height uint32) (*Image, error) {
	const op = "image.convert-resize"
	if width == 0 || height == 0 {
		return nil, wrapErrorf(op, ErrInvalid, "zero target dimension %dx%d", width, height)
	}
	if uint64(width)*uint64(height) > 1<<29 {
		return nil, wrapErrorf(op, ErrInvalid, "target %dx%d too large", width, height)
	}
	if !isGray(target) && target.bytesPerPixel() == 0 {
		return nil, wrapErrorf(op, ErrUnsupported, "cannot render %s frames", target)
	}

	src, release, err := img.grayView()
	if err != nil {
		return nil, err
	}
	defer release()

	dst := image.NewGray(image.Rect(0, 0, int(width), int(height)))
	xdraw.ApproxBiLinear.Scale(dst, dst.Rect, src, src.Bounds(), xdraw.Src, nil)

	scaled := NewImage()
	scaled.SetFormat(FormatY800)
	scaled.SetSize(width, height)
	buf := GetBuffer(int(width) * int(height))
	copy(buf, dst.Pix)
	scaled.SetData(buf, PutBuffer)
	scaled.SetSequence(img.sequence)

	if isGray(target) {
		scaled.format = target
		return scaled, nil
	}
	out, err := scaled.Convert(target)
	scaled.Unref()
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WritePNM dumps the frame to a binary PNM file: P5 for grayscale frames,
// P6 for RGB3. Other formats are rejected.
func (img *Image) WritePNM(path string) error {
	const op = "image.write"
	w, h := int(img.width), int(img.height)
	n := w * h

	var header string
	var pix []byte
	switch {
	case isGray(img.format):
		if len(img.data) < n {
			return wrapErrorf(op, ErrInvalid, "short data")
		}
		header = fmt.Sprintf("P5\n%d %d\n255\n", w, h)
		pix = img.data[:n]
	case img.format == FormatRGB3:
		if len(img.data) < 3*n {
			return wrapErrorf(op, ErrInvalid, "short data")
		}
		header = fmt.Sprintf("P6\n%d %d\n255\n", w, h)
		pix = img.data[:3*n]
	default:
		return wrapErrorf(op, ErrUnsupported, "cannot write %s frames", img.format)
	}

	f, err := os.Create(path)
	if err != nil {
		return wrapError(op, ErrSystem, err)
	}
	if _, err := f.Write([]byte(header)); err != nil {
		_ = f.Close()
		return wrapError(op, ErrSystem, err)
	}
	if _, err := f.Write(pix); err != nil {
		_ = f.Close()
		return wrapError(op, ErrSystem, err)
	}
	if err := f.Close(); err != nil {
		return wrapError(op, ErrSystem, err)
	}
	return nil
}
