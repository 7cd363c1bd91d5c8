package okapi

import (
	"context"
	"time"

	"github.com/okapiscan/okapi/internal/engine"
)

// Processor drives a video device through the capture-and-decode loop and
// doubles as a synchronous scanner for single images. Like a fresh
// ImageScanner it starts with every symbology disabled.
//
// Lifecycle: create, Init a device (or an empty name for image-only use),
// then ProcessOne/UserWait against the live stream. Close tears the
// device down and wakes any blocked call.
type Processor struct {
	eng *engine.Processor
}

// NewProcessor creates an idle processor with all symbologies disabled.
// With threaded set, streaming capture runs concurrently with decoding.
func NewProcessor(threaded bool) *Processor {
	eng := engine.NewProcessor(threaded)
	_ = eng.SetConfig(None, CfgEnable, 0)
	return &Processor{eng: eng}
}

// SetConfig stores one decoder setting on the processor's scanner. The
// None symbology broadcasts the setting to all symbologies.
func (p *Processor) SetConfig(sym SymbolType, cfg Config, value int) error {
	return p.eng.SetConfig(sym, cfg, value)
}

// RequestSize records the preferred capture size for the next Init.
func (p *Processor) RequestSize(width, height uint32) error {
	return p.eng.RequestSize(int(width), int(height))
}

// RequestInterface records the preferred driver interface version for the
// next Init.
func (p *Processor) RequestInterface(version int) error {
	return p.eng.RequestInterface(version)
}

// RequestIOMode records the preferred capture I/O mode for the next Init.
func (p *Processor) RequestIOMode(mode int) error {
	return p.eng.RequestIOMode(mode)
}

// ForceFormat pins the capture input and display output formats instead
// of negotiating them with the device.
func (p *Processor) ForceFormat(input, output Format) error {
	return p.eng.ForceFormat(input, output)
}

// Init attaches the processor to a video device and, optionally, a
// display window. An empty device name skips video so the processor only
// serves ProcessImage.
func (p *Processor) Init(device string, enableDisplay bool) error {
	return p.eng.Init(device, enableDisplay)
}

// SetVisible shows or hides the display window and reports the previous
// state. Fails when Init did not request a display.
func (p *Processor) SetVisible(visible bool) (bool, error) {
	return p.eng.SetVisible(visible)
}

// IsVisible reports whether the display window is shown.
func (p *Processor) IsVisible() (bool, error) {
	return p.eng.IsVisible()
}

// SetActive starts or stops video streaming and reports the previous
// state.
func (p *Processor) SetActive(active bool) (bool, error) {
	return p.eng.SetActive(active)
}

// Control reads a device control by name ("brightness", "contrast", ...).
// Names match case-insensitively, exact match first.
func (p *Processor) Control(name string) (int, error) {
	return p.eng.Control(name)
}

// SetControl writes a device control by name.
func (p *Processor) SetControl(name string, value int) error {
	return p.eng.SetControl(name, value)
}

// UserWait blocks until the display window closes or the timeout expires
// and returns the time spent waiting. A negative timeout waits
// indefinitely, zero polls.
func (p *Processor) UserWait(timeout time.Duration) (time.Duration, error) {
	return p.eng.UserWait(timeout)
}

// ProcessOne streams frames until one produces symbols or the timeout
// expires. A negative timeout waits indefinitely, zero polls a single
// frame. On timeout both results are nil.
func (p *Processor) ProcessOne(timeout time.Duration) (*SymbolSet, error) {
	set, err := p.eng.ProcessOne(context.Background(), timeout)
	if err != nil {
		return nil, err
	}
	return adoptSymbolSet(set), nil
}

// ProcessImage scans a single caller-supplied image synchronously. On
// success the returned set is never nil and img.Symbols() is guaranteed
// to return a non-nil set until the image is rescanned.
func (p *Processor) ProcessImage(img *Image) (*SymbolSet, error) {
	set, err := p.eng.ProcessImage(context.Background(), img.eng)
	if err != nil {
		return nil, err
	}
	return adoptSymbolSet(set), nil
}

// Results returns a handle on the set produced by the most recent decode,
// or nil before the first one.
func (p *Processor) Results() *SymbolSet {
	return newSymbolSet(p.eng.Results())
}

// SetUserData attaches caller data to the processor.
func (p *Processor) SetUserData(v any) { p.eng.SetUserData(v) }

// UserData returns data attached with SetUserData.
func (p *Processor) UserData() any { return p.eng.UserData() }

// Close releases the video device and wakes any blocked ProcessOne or
// UserWait. Result sets still referenced by open handles stay alive.
// Close is idempotent.
func (p *Processor) Close() error {
	if p == nil || p.eng == nil {
		return nil
	}
	err := p.eng.Destroy()
	p.eng = nil
	return err
}

// ProcessorBuilder accumulates processor configuration and applies it in
// one Build call, failing on the first rejected setting. Build leaves the
// processor uninitialized; call Init on the result to attach a device.
type ProcessorBuilder struct {
	threaded   bool
	width      uint32
	height     uint32
	hasSize    bool
	intf       int
	hasIntf    bool
	ioMode     int
	hasIOMode  bool
	formatIn   Format
	formatOut  Format
	hasFormats bool
	opts       []scannerOption
}

// NewProcessorBuilder returns an empty builder.
func NewProcessorBuilder() *ProcessorBuilder {
	return &ProcessorBuilder{}
}

// Threaded selects concurrent capture for the built processor.
func (b *ProcessorBuilder) Threaded(on bool) *ProcessorBuilder {
	b.threaded = on
	return b
}

// WithSize queues a preferred capture size request.
func (b *ProcessorBuilder) WithSize(width, height uint32) *ProcessorBuilder {
	b.width, b.height = width, height
	b.hasSize = true
	return b
}

// WithInterface queues a preferred driver interface version request.
func (b *ProcessorBuilder) WithInterface(version int) *ProcessorBuilder {
	b.intf = version
	b.hasIntf = true
	return b
}

// WithIOMode queues a preferred capture I/O mode request.
func (b *ProcessorBuilder) WithIOMode(mode int) *ProcessorBuilder {
	b.ioMode = mode
	b.hasIOMode = true
	return b
}

// WithFormat queues a forced capture input and display output format
// pair.
func (b *ProcessorBuilder) WithFormat(input, output Format) *ProcessorBuilder {
	b.formatIn, b.formatOut = input, output
	b.hasFormats = true
	return b
}

// WithConfig queues one decoder setting. Settings apply in the order they
// were added.
func (b *ProcessorBuilder) WithConfig(sym SymbolType, cfg Config, value int) *ProcessorBuilder {
	b.opts = append(b.opts, scannerOption{sym: sym, cfg: cfg, value: value})
	return b
}

// Build creates a processor and applies the queued configuration, failing
// on the first rejected setting. The processor is closed on failure.
func (b *ProcessorBuilder) Build() (*Processor, error) {
	p := NewProcessor(b.threaded)
	if err := b.apply(p); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func (b *ProcessorBuilder) apply(p *Processor) error {
	if b.hasSize {
		if err := p.RequestSize(b.width, b.height); err != nil {
			return err
		}
	}
	if b.hasIntf {
		if err := p.RequestInterface(b.intf); err != nil {
			return err
		}
	}
	if b.hasIOMode {
		if err := p.RequestIOMode(b.ioMode); err != nil {
			return err
		}
	}
	if b.hasFormats {
		if err := p.ForceFormat(b.formatIn, b.formatOut); err != nil {
			return err
		}
	}
	for _, o := range b.opts {
		if err := p.SetConfig(o.sym, o.cfg, o.value); err != nil {
			return err
		}
	}
	return nil
}
