package engine

// SymbolType identifies a barcode symbology. The numeric values follow the
// zbar convention where variable-width codes carry their digit count
// (EAN8 is 8, Code128 is 128); the 2D matrix codes absent from that scheme
// use values from the unassigned range.
type SymbolType int

const (
	// None addresses no symbology, or all of them when used with
	// configuration calls.
	None SymbolType = 0
	// Partial marks an incompletely decoded result.
	Partial SymbolType = 1

	EAN2       SymbolType = 2
	EAN5       SymbolType = 5
	EAN8       SymbolType = 8
	UPCE       SymbolType = 9
	ISBN10     SymbolType = 10
	UPCA       SymbolType = 12
	EAN13      SymbolType = 13
	ISBN13     SymbolType = 14
	Composite  SymbolType = 15
	I25        SymbolType = 25
	DataBar    SymbolType = 34
	DataBarExp SymbolType = 35
	Codabar    SymbolType = 38
	Code39     SymbolType = 39
	PDF417     SymbolType = 57
	QRCode     SymbolType = 64
	SQCode     SymbolType = 80
	Code93     SymbolType = 93
	Code128    SymbolType = 128

	// Matrix symbologies outside the classic value scheme.
	DataMatrix SymbolType = 144
	Aztec      SymbolType = 148
)

var symbolTypeNames = map[SymbolType]string{
	None:       "NONE",
	Partial:    "PARTIAL",
	EAN2:       "EAN-2",
	EAN5:       "EAN-5",
	EAN8:       "EAN-8",
	UPCE:       "UPC-E",
	ISBN10:     "ISBN-10",
	UPCA:       "UPC-A",
	EAN13:      "EAN-13",
	ISBN13:     "ISBN-13",
	Composite:  "COMPOSITE",
	I25:        "I2/5",
	DataBar:    "DataBar",
	DataBarExp: "DataBar-Exp",
	Codabar:    "Codabar",
	Code39:     "CODE-39",
	PDF417:     "PDF417",
	QRCode:     "QR-Code",
	SQCode:     "SQ-Code",
	Code93:     "CODE-93",
	Code128:    "CODE-128",
	DataMatrix: "DataMatrix",
	Aztec:      "Aztec",
}

// String returns the canonical display name ("QR-Code", "CODE-128").
func (t SymbolType) String() string {
	if s, ok := symbolTypeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// symbologyAliases maps the lowercase names accepted by ParseConfig.
var symbologyAliases = map[string]SymbolType{
	"ean2":        EAN2,
	"ean5":        EAN5,
	"ean8":        EAN8,
	"ean13":       EAN13,
	"upca":        UPCA,
	"upce":        UPCE,
	"isbn10":      ISBN10,
	"isbn13":      ISBN13,
	"composite":   Composite,
	"i25":         I25,
	"databar":     DataBar,
	"databar-exp": DataBarExp,
	"codabar":     Codabar,
	"code39":      Code39,
	"code93":      Code93,
	"code128":     Code128,
	"pdf417":      PDF417,
	"qrcode":      QRCode,
	"sqcode":      SQCode,
	"datamatrix":  DataMatrix,
	"aztec":       Aztec,
	"*":           None,
}

// symbologies lists every addressable symbology, in value order. None and
// Partial are markers, not configurable symbologies, and are excluded.
var symbologies = []SymbolType{
	EAN2, EAN5, EAN8, UPCE, ISBN10, UPCA, EAN13, ISBN13, Composite,
	I25, DataBar, DataBarExp, Codabar, Code39, PDF417, QRCode, SQCode,
	Code93, Code128, DataMatrix, Aztec,
}
