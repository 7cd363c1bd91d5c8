package engine

import (
	"context"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/common"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/multi"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/pdf417"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// zxingBackend decodes symbols with per-symbology gozxing readers, each
// wrapped in the generic multi-symbol reader so several instances of the
// same symbology in one frame are all reported.
type zxingBackend struct{}

var zxingReaders = []struct {
	typ       SymbolType
	newReader func() gozxing.Reader
}{
	{QRCode, func() gozxing.Reader { return qrcode.NewQRCodeReader() }},
	{DataMatrix, func() gozxing.Reader { return datamatrix.NewDataMatrixReader() }},
	{Aztec, func() gozxing.Reader { return aztec.NewAztecReader() }},
	{PDF417, func() gozxing.Reader { return pdf417.NewPDF417Reader() }},
	{Code128, func() gozxing.Reader { return oned.NewCode128Reader() }},
	{Code93, func() gozxing.Reader { return oned.NewCode93Reader() }},
	{Code39, func() gozxing.Reader { return oned.NewCode39Reader() }},
	{Codabar, func() gozxing.Reader { return oned.NewCodaBarReader() }},
	{I25, func() gozxing.Reader { return oned.NewITFReader() }},
	{EAN8, func() gozxing.Reader { return oned.NewEAN8Reader() }},
	{EAN13, func() gozxing.Reader { return oned.NewEAN13Reader() }},
	{UPCA, func() gozxing.Reader { return oned.NewUPCAReader() }},
	{UPCE, func() gozxing.Reader { return oned.NewUPCEReader() }},
}

func (b *zxingBackend) Decode(ctx context.Context, img image.Image, opts DecodeOptions) ([]DecodeResult, error) {
	if len(opts.Types) == 0 {
		return nil, nil
	}
	wanted := make(map[SymbolType]bool, len(opts.Types))
	for _, t := range opts.Types {
		wanted[t] = true
	}

	source := gozxing.NewLuminanceSourceFromImage(img)
	bmp, err := gozxing.NewBinaryBitmap(common.NewHybridBinarizer(source))
	if err != nil {
		return nil, wrapError("backend.decode", ErrInternal, err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{}
	if opts.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}

	var out []DecodeResult
	for _, entry := range zxingReaders {
		if !wanted[entry.typ] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return out, wrapError("backend.decode", ErrBusy, err)
		}
		reader := multi.NewGenericMultipleBarcodeReader(entry.newReader())
		results, err := reader.DecodeMultiple(bmp, hints)
		if err != nil {
			// Nothing found for this symbology.
			continue
		}
		for _, r := range results {
			out = append(out, DecodeResult{
				Type:   entry.typ,
				Text:   r.GetText(),
				Points: resultPoints(r),
			})
		}
	}
	return dedupeResults(out), nil
}

func resultPoints(r *gozxing.Result) []Point {
	pts := r.GetResultPoints()
	if len(pts) == 0 {
		return nil
	}
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if p == nil {
			continue
		}
		out = append(out, Point{X: int(p.GetX()), Y: int(p.GetY())})
	}
	return out
}

// dedupeResults drops duplicate detections. Identical (type, text) pairs
// collapse to one, and an EAN-13 reading that is just a UPC-A result with
// its leading zero is dropped in favor of the more specific type.
func dedupeResults(in []DecodeResult) []DecodeResult {
	if len(in) < 2 {
		return in
	}
	type key struct {
		typ  SymbolType
		text string
	}
	seen := make(map[key]bool, len(in))
	upca := make(map[string]bool)
	for _, r := range in {
		if r.Type == UPCA {
			upca[r.Text] = true
		}
	}
	out := in[:0]
	for _, r := range in {
		if r.Type == EAN13 && len(r.Text) == 13 && r.Text[0] == '0' && upca[r.Text[1:]] {
			continue
		}
		k := key{r.Type, r.Text}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}
