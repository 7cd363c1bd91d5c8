package okapi

import (
	"image"

	"github.com/okapiscan/okapi/internal/engine"
	"github.com/okapiscan/okapi/internal/imgutil"
)

// Image is a handle on one frame of pixel data. Images move through the
// scanning pipeline by reference: scanning attaches a result set to the
// image, and every decoded symbol keeps the image alive until the symbol
// itself is released.
//
// An Image is created with NewImage, NewImageBorrowed, ImageFromFile or
// ImageFromImage and released with Close. A closed handle must not be
// used.
type Image struct {
	eng *engine.Image
}

// NewImage creates an image over caller-provided pixel data, which the
// image takes ownership of. The data length must equal width*height or
// the call fails with a *SizeMismatchError. Formats packing more than one
// byte per pixel can be attached through NewImageBorrowed, which skips
// the length check; scanning validates the layout instead.
func NewImage(width, height uint32, format Format, data []byte) (*Image, error) {
	if uint64(width)*uint64(height) != uint64(len(data)) {
		return nil, &SizeMismatchError{Width: width, Height: height, DataLen: len(data)}
	}
	e := engine.NewImage()
	e.SetFormat(format)
	e.SetSize(width, height)
	e.SetData(data, engine.PutBuffer)
	return &Image{eng: e}, nil
}

// NewImageBorrowed creates an image that aliases caller-owned pixel data.
// The caller must keep the slice alive and unchanged for the life of the
// image and of every symbol decoded from it.
func NewImageBorrowed(width, height uint32, format Format, data []byte) *Image {
	e := engine.NewImage()
	e.SetFormat(format)
	e.SetSize(width, height)
	e.SetData(data, nil)
	return &Image{eng: e}
}

// ImageFromFile loads an image file (PNG, JPEG, ...) and flattens it to a
// grayscale frame ready for scanning.
func ImageFromFile(path string) (*Image, error) {
	data, w, h, err := imgutil.LoadGray(path)
	if err != nil {
		return nil, err
	}
	e := engine.NewImage()
	e.SetFormat(FormatY800)
	e.SetSize(uint32(w), uint32(h))
	e.SetData(data, nil)
	return &Image{eng: e}, nil
}

// ImageFromImage flattens a decoded image.Image to a grayscale frame
// ready for scanning.
func ImageFromImage(src image.Image) (*Image, error) {
	if src == nil {
		return nil, engine.DecodeError("image.from-image", int(ErrInvalid))
	}
	data, w, h := imgutil.GrayBytes(src)
	e := engine.NewImage()
	e.SetFormat(FormatY800)
	e.SetSize(uint32(w), uint32(h))
	e.SetData(data, nil)
	return &Image{eng: e}, nil
}

// Format returns the pixel format of the attached data.
func (img *Image) Format() Format { return img.eng.Format() }

// SetFormat sets the pixel format label for the attached data.
func (img *Image) SetFormat(f Format) { img.eng.SetFormat(f) }

// Width returns the frame width in pixels.
func (img *Image) Width() uint32 { return img.eng.Width() }

// Height returns the frame height in pixels.
func (img *Image) Height() uint32 { return img.eng.Height() }

// Size returns the frame dimensions.
func (img *Image) Size() (width, height uint32) { return img.eng.Size() }

// SetSize sets the frame dimensions and resets the crop window to the
// full frame.
func (img *Image) SetSize(width, height uint32) { img.eng.SetSize(width, height) }

// Crop returns the scan window.
func (img *Image) Crop() (x, y, w, h uint32) { return img.eng.Crop() }

// SetCrop restricts scanning to a window of the frame, clipped against
// the frame bounds.
func (img *Image) SetCrop(x, y, w, h uint32) { img.eng.SetCrop(x, y, w, h) }

// Sequence returns the frame sequence number.
func (img *Image) Sequence() uint32 { return img.eng.Sequence() }

// SetSequence stamps the image with a frame sequence number.
func (img *Image) SetSequence(n uint32) { img.eng.SetSequence(n) }

// Data returns the raw pixel data without copying. The slice is valid
// while the image lives.
func (img *Image) Data() []byte { return img.eng.Data() }

// UserData returns the opaque buffer attached with SetUserData.
func (img *Image) UserData() []byte { return img.eng.UserData() }

// SetUserData attaches an opaque caller buffer to the image.
func (img *Image) SetUserData(b []byte) { img.eng.SetUserData(b) }

// Symbols returns a handle on the image's decoded results, or nil when
// the image has not been scanned. The handle is independent of the image
// and must be closed by the caller.
func (img *Image) Symbols() *SymbolSet {
	return newSymbolSet(img.eng.Symbols())
}

// SetSymbols replaces the image's result set with the one behind the
// given handle, or detaches it for a nil set.
func (img *Image) SetSymbols(set *SymbolSet) {
	if set == nil {
		img.eng.SetSymbols(nil)
		return
	}
	img.eng.SetSymbols(set.eng)
}

// FirstSymbol returns a handle on the first decoded symbol, or nil when
// there are none.
func (img *Image) FirstSymbol() *Symbol {
	return newSymbol(img.eng.FirstSymbol())
}

// Convert returns a new image holding this frame's pixels in the target
// format. Color information does not survive conversions that pass
// through the luminance plane.
func (img *Image) Convert(target Format) (*Image, error) {
	e, err := img.eng.Convert(target)
	if err != nil {
		return nil, err
	}
	return &Image{eng: e}, nil
}

// ConvertResize converts the frame to the target format while scaling it
// to the given size. Inputs are validated before any pixel work happens.
//
// Experimental: the scaling kernel is bilinear and tuned for barcode
// legibility, not photographic quality.
func (img *Image) ConvertResize(target Format, width, height uint32) (*Image, error) {
	e, err := img.eng.ConvertResize(target, width, height)
	if err != nil {
		return nil, err
	}
	return &Image{eng: e}, nil
}

// Write dumps the frame to a binary PNM file: P5 for grayscale frames, P6
// for RGB3. Other formats are rejected.
func (img *Image) Write(path string) error {
	return img.eng.WritePNM(path)
}

// Close releases the handle's reference on the frame. Symbols decoded
// from the image keep the underlying object alive. Close is idempotent.
func (img *Image) Close() error {
	if img == nil || img.eng == nil {
		return nil
	}
	img.eng.Unref()
	img.eng = nil
	return nil
}
