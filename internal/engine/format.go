package engine

import (
	"bytes"
	"image"
	"image/jpeg"
)

// Format is a FOURCC pixel format code, packed little-endian so the label
// "Y800" reads in byte order from the least significant byte up. Labels
// shorter than four characters are right-padded with spaces.
type Format uint32

// Well-known formats. Y800 and GREY are the same 8bpp grayscale layout
// under two historical labels.
const (
	FormatY800 Format = 0x30303859 // "Y800"
	FormatGrey Format = 0x59455247 // "GREY"
	FormatRGB3 Format = 0x33424752 // "RGB3"
	FormatBGR3 Format = 0x33524742 // "BGR3"
	FormatRGB4 Format = 0x34424752 // "RGB4"
	FormatBGR4 Format = 0x34524742 // "BGR4"
	FormatYUYV Format = 0x56595559 // "YUYV"
	FormatUYVY Format = 0x59565955 // "UYVY"
	FormatYU12 Format = 0x32315559 // "YU12"
	FormatYV12 Format = 0x32315659 // "YV12"
	FormatNV12 Format = 0x3231564e // "NV12"
	FormatMJPG Format = 0x47504a4d // "MJPG"
)

// FormatFromLabel packs a textual label into its FOURCC code. Labels are
// truncated to four characters and right-padded with spaces, so any string
// yields a valid code and round-trips through Label up to that padding.
func FormatFromLabel(label string) Format {
	var b [4]byte
	b[0], b[1], b[2], b[3] = ' ', ' ', ' ', ' '
	copy(b[:], label)
	return Format(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24)
}

// Value returns the packed FOURCC code.
func (f Format) Value() uint32 { return uint32(f) }

// Label unpacks the FOURCC code into its textual label with trailing
// padding removed.
func (f Format) Label() string {
	b := [4]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)}
	s := string(b[:])
	return trimFourCC(s)
}

func trimFourCC(s string) string {
	for len(s) > 0 {
		last := s[len(s)-1]
		if last != ' ' && last != 0 {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}

func (f Format) String() string { return f.Label() }

// bytesPerPixel returns the packed per-pixel byte count, or 0 for planar
// and compressed layouts where the notion does not apply.
func (f Format) bytesPerPixel() int {
	switch f {
	case FormatY800, FormatGrey:
		return 1
	case FormatYUYV, FormatUYVY:
		return 2
	case FormatRGB3, FormatBGR3:
		return 3
	case FormatRGB4, FormatBGR4:
		return 4
	default:
		return 0
	}
}

// frameSize returns the expected buffer length for a whole frame, or -1
// when the format has no fixed size (MJPG).
func (f Format) frameSize(width, height uint32) int {
	n := int(width) * int(height)
	switch f {
	case FormatYU12, FormatYV12, FormatNV12:
		return n + n/2
	case FormatMJPG:
		return -1
	default:
		if bpp := f.bytesPerPixel(); bpp > 0 {
			return n * bpp
		}
		return -1
	}
}

// grayFrame extracts an 8bpp luminance plane from a raw frame. The source
// layouts it understands cover the common video device outputs; everything
// else fails with an unsupported request.
func grayFrame(data []byte, f Format, width, height uint32) ([]byte, error) {
	const op = "image.convert"
	w, h := int(width), int(height)
	n := w * h

	switch f {
	case FormatY800, FormatGrey:
		if len(data) < n {
			return nil, wrapErrorf(op, ErrInvalid, "short frame: %d bytes for %dx%d", len(data), w, h)
		}
		out := GetBuffer(n)
		copy(out, data[:n])
		return out, nil

	case FormatYU12, FormatYV12, FormatNV12:
		// Planar and semi-planar YUV keep the full luma plane first.
		if len(data) < n {
			return nil, wrapErrorf(op, ErrInvalid, "short frame: %d bytes for %dx%d", len(data), w, h)
		}
		out := GetBuffer(n)
		copy(out, data[:n])
		return out, nil

	case FormatYUYV, FormatUYVY:
		if len(data) < 2*n {
			return nil, wrapErrorf(op, ErrInvalid, "short frame: %d bytes for %dx%d", len(data), w, h)
		}
		out := GetBuffer(n)
		off := 0 // luma offset within each two-byte sample
		if f == FormatUYVY {
			off = 1
		}
		for i := 0; i < n; i++ {
			out[i] = data[2*i+off]
		}
		return out, nil

	case FormatRGB3, FormatBGR3, FormatRGB4, FormatBGR4:
		bpp := f.bytesPerPixel()
		if len(data) < bpp*n {
			return nil, wrapErrorf(op, ErrInvalid, "short frame: %d bytes for %dx%d", len(data), w, h)
		}
		ri, bi := 0, 2
		if f == FormatBGR3 || f == FormatBGR4 {
			ri, bi = 2, 0
		}
		out := GetBuffer(n)
		for i := 0; i < n; i++ {
			p := data[bpp*i:]
			r, g, b := int(p[ri]), int(p[1]), int(p[bi])
			out[i] = uint8((299*r + 587*g + 114*b) / 1000)
		}
		return out, nil

	case FormatMJPG:
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, wrapError(op, ErrInvalid, err)
		}
		out, dw, dh := grayFromImage(img)
		if dw != width || dh != height {
			PutBuffer(out)
			return nil, wrapErrorf(op, ErrInvalid,
				"frame decoded to %dx%d, expected %dx%d", dw, dh, w, h)
		}
		return out, nil

	default:
		return nil, wrapErrorf(op, ErrUnsupported, "no conversion from %s", f)
	}
}

// grayFromImage flattens a decoded image into a pooled luminance buffer.
func grayFromImage(img image.Image) (data []byte, w, h uint32) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	out := GetBuffer(width * height)

	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < height; y++ {
			copy(out[y*width:(y+1)*width], g.Pix[y*g.Stride:y*g.Stride+width])
		}
		return out, uint32(width), uint32(height)
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			out[i] = uint8((299*int(r>>8) + 587*int(g>>8) + 114*int(bl>>8)) / 1000)
			i++
		}
	}
	return out, uint32(width), uint32(height)
}

// expandGray renders a luminance plane into a packed RGB target layout.
func expandGray(gray []byte, target Format) ([]byte, error) {
	bpp := target.bytesPerPixel()
	switch target {
	case FormatRGB3, FormatBGR3:
		out := GetBuffer(len(gray) * bpp)
		for i, v := range gray {
			out[3*i], out[3*i+1], out[3*i+2] = v, v, v
		}
		return out, nil
	case FormatRGB4, FormatBGR4:
		out := GetBuffer(len(gray) * bpp)
		for i, v := range gray {
			out[4*i], out[4*i+1], out[4*i+2], out[4*i+3] = v, v, v, 0xff
		}
		return out, nil
	default:
		return nil, wrapErrorf("image.convert", ErrUnsupported, "no conversion to %s", target)
	}
}
