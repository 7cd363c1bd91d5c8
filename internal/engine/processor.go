package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// captureSlice bounds one wait on the frame source so control signals are
// observed promptly even during indefinite processing.
const captureSlice = 500 * time.Millisecond

// Processor couples a frame source, a scanner and a (headless) display
// window into the high-level capture-and-decode loop.
//
// Lifecycle: a processor is created, then Init attaches the video device
// and display, then SetActive starts and stops streaming. Lifecycle and
// processing operations serialize on one lock; short state accessors use
// a second one so they stay responsive while a scan is in flight.
type Processor struct {
	opMu sync.Mutex // serializes Init/SetActive/ProcessOne/ProcessImage/Destroy
	mu   sync.Mutex // guards all fields below

	scanner  *Scanner
	threaded bool

	reqWidth  int
	reqHeight int
	reqIntf   int
	reqIOMode int

	forceInput  Format
	forceOutput Format
	haveForce   bool

	source        frameSource
	captureFormat Format
	width, height int
	sequence      uint32

	display bool
	visible bool
	active  bool

	frames chan []byte
	stop   chan struct{}
	wg     sync.WaitGroup

	quit      chan struct{} // closed by Destroy; wakes blocked waiters
	destroyed bool

	userdata any
}

// NewProcessor creates an idle processor. With threaded set, streaming
// capture runs on a prefetch goroutine so frame arrival overlaps decode.
func NewProcessor(threaded bool) *Processor {
	return &Processor{
		scanner:  NewScanner(),
		threaded: threaded,
		quit:     make(chan struct{}),
	}
}

// Scanner exposes the processor's scanner for configuration.
func (p *Processor) Scanner() *Scanner { return p.scanner }

// SetConfig stores one decoder setting on the processor's scanner.
func (p *Processor) SetConfig(sym SymbolType, cfg Config, value int) error {
	return p.scanner.SetConfig(sym, cfg, value)
}

// RequestSize records the preferred capture size for the next Init.
func (p *Processor) RequestSize(width, height int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.source != nil {
		return wrapErrorf("processor.request", ErrInvalid, "video device already initialized")
	}
	p.reqWidth, p.reqHeight = width, height
	return nil
}

// RequestInterface records the preferred driver interface version.
func (p *Processor) RequestInterface(version int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.source != nil {
		return wrapErrorf("processor.request", ErrInvalid, "video device already initialized")
	}
	p.reqIntf = version
	return nil
}

// RequestIOMode records the preferred capture I/O mode.
func (p *Processor) RequestIOMode(mode int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.source != nil {
		return wrapErrorf("processor.request", ErrInvalid, "video device already initialized")
	}
	p.reqIOMode = mode
	return nil
}

// ForceFormat pins the capture input format and the display output format
// instead of negotiating them.
func (p *Processor) ForceFormat(input, output Format) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forceInput, p.forceOutput = input, output
	p.haveForce = true
	return nil
}

// Init attaches the processor to a video device and, optionally, a
// display window. An empty device name skips video so the processor only
// serves ProcessImage. Calling Init again replaces the previous device.
func (p *Processor) Init(device string, enableDisplay bool) error {
	p.opMu.Lock()
	defer p.opMu.Unlock()
	if err := p.teardownVideo(); err != nil {
		return err
	}

	p.mu.Lock()
	p.display = enableDisplay
	p.visible = false
	p.mu.Unlock()

	if device == "" {
		return nil
	}

	src, err := openFrameSource(device)
	if err != nil {
		return err
	}
	f, w, h, err := p.negotiateFormat(src)
	if err != nil {
		_ = src.close()
		return err
	}

	p.mu.Lock()
	p.source = src
	p.captureFormat = f
	p.width, p.height = w, h
	p.mu.Unlock()

	// Streaming from a live device repeats every code across many frames;
	// the inter-frame cache collapses those into single verified results.
	p.scanner.EnableCache(true)

	logger.Info("video initialized",
		"device", device, "format", f.String(), "width", w, "height", h)
	return nil
}

// negotiateFormat walks the preferred capture formats until the device
// accepts one the luminance extractor understands.
func (p *Processor) negotiateFormat(src frameSource) (Format, int, int, error) {
	p.mu.Lock()
	w, h := p.reqWidth, p.reqHeight
	force, haveForce := p.forceInput, p.haveForce
	p.mu.Unlock()
	if w <= 0 || h <= 0 {
		w, h = 640, 480
	}

	candidates := []Format{FormatYUYV, FormatUYVY, FormatYU12, FormatNV12, FormatMJPG, FormatY800}
	if haveForce {
		candidates = []Format{force}
	}
	var lastErr error
	for _, c := range candidates {
		got, gw, gh, err := src.negotiate(c, w, h)
		if err != nil {
			lastErr = err
			continue
		}
		if !grayable(got) {
			lastErr = wrapErrorf("video.format", ErrUnsupported,
				"device granted unusable format %s", got)
			continue
		}
		return got, gw, gh, nil
	}
	if lastErr == nil {
		lastErr = newError("video.format", ErrUnsupported)
	}
	return 0, 0, 0, lastErr
}

// SetVisible shows or hides the display window and reports the previous
// state. Fails when Init did not request a display.
func (p *Processor) SetVisible(visible bool) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.display {
		return false, wrapErrorf("processor.display", ErrDisplay, "display window not initialized")
	}
	was := p.visible
	p.visible = visible
	return was, nil
}

// IsVisible reports whether the display window is shown.
func (p *Processor) IsVisible() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.display {
		return false, wrapErrorf("processor.display", ErrDisplay, "display window not initialized")
	}
	return p.visible, nil
}

// SetActive starts or stops video streaming and reports the previous
// state.
func (p *Processor) SetActive(active bool) (bool, error) {
	p.opMu.Lock()
	defer p.opMu.Unlock()
	return p.setActiveLocked(active)
}

func (p *Processor) setActiveLocked(active bool) (bool, error) {
	p.mu.Lock()
	src, was := p.source, p.active
	p.mu.Unlock()
	if src == nil {
		return false, wrapErrorf("processor.active", ErrInvalid, "video device not initialized")
	}
	if active == was {
		return was, nil
	}

	if active {
		if err := src.start(); err != nil {
			return was, err
		}
		p.mu.Lock()
		p.active = true
		if p.threaded {
			p.frames = make(chan []byte, 1)
			p.stop = make(chan struct{})
			p.wg.Add(1)
			go p.captureLoop(src, p.frames, p.stop)
		}
		p.mu.Unlock()
		return was, nil
	}

	p.mu.Lock()
	p.active = false
	frames, stop := p.frames, p.stop
	p.frames, p.stop = nil, nil
	p.mu.Unlock()
	if stop != nil {
		close(stop)
		p.wg.Wait()
		for {
			select {
			case buf := <-frames:
				PutBuffer(buf)
				continue
			default:
			}
			break
		}
	}
	return was, src.stop()
}

// captureLoop prefetches frames into a latest-wins mailbox so the decode
// side never waits on the kernel directly.
func (p *Processor) captureLoop(src frameSource, frames chan []byte, stop chan struct{}) {
	defer p.wg.Done()
	for {
		select {
		case <-stop:
			return
		default:
		}
		data, err := src.frame(captureSlice)
		if err != nil {
			if errors.Is(err, errFrameTimeout) {
				continue
			}
			logger.Warn("frame capture failed", "err", err)
			select {
			case <-stop:
				return
			case <-time.After(captureSlice):
			}
			continue
		}
		buf := GetBuffer(len(data))
		copy(buf, data)
		select {
		case frames <- buf:
		default:
			select {
			case old := <-frames:
				PutBuffer(old)
			default:
			}
			select {
			case frames <- buf:
			default:
				PutBuffer(buf)
			}
		}
	}
}

// nextFrame returns the next captured frame in an owned pooled buffer.
func (p *Processor) nextFrame(budget time.Duration) ([]byte, error) {
	p.mu.Lock()
	src, frames, quit := p.source, p.frames, p.quit
	p.mu.Unlock()
	if src == nil {
		return nil, wrapErrorf("processor.frame", ErrInvalid, "video device not initialized")
	}
	if frames != nil {
		t := time.NewTimer(budget)
		defer t.Stop()
		select {
		case buf := <-frames:
			return buf, nil
		case <-t.C:
			return nil, errFrameTimeout
		case <-quit:
			return nil, newError("processor.frame", ErrClosed)
		}
	}
	data, err := src.frame(budget)
	if err != nil {
		return nil, err
	}
	buf := GetBuffer(len(data))
	copy(buf, data)
	return buf, nil
}

// frameImage wraps an owned frame buffer as an Image carrying the
// negotiated capture geometry and the next sequence number.
func (p *Processor) frameImage(buf []byte) *Image {
	p.mu.Lock()
	f, w, h := p.captureFormat, p.width, p.height
	seq := p.sequence
	p.sequence++
	p.mu.Unlock()

	img := NewImage()
	img.SetFormat(f)
	img.SetSize(w, h)
	img.SetSequence(seq)
	img.SetData(buf, PutBuffer)
	return img
}

// ProcessOne streams frames until one produces symbols or the timeout
// expires. A negative timeout waits indefinitely, zero polls a single
// frame. On timeout both results are nil; on success the caller owns a
// reference on the returned set.
func (p *Processor) ProcessOne(ctx context.Context, timeout time.Duration) (*SymbolSet, error) {
	p.opMu.Lock()
	defer p.opMu.Unlock()

	p.mu.Lock()
	src := p.source
	p.mu.Unlock()
	if src == nil {
		return nil, wrapErrorf("processor.process", ErrInvalid, "video device not initialized")
	}

	was, err := p.setActiveLocked(true)
	if err != nil {
		return nil, err
	}
	if !was {
		defer func() { _, _ = p.setActiveLocked(false) }()
	}

	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}
	first := true
	for first || timeout < 0 || time.Now().Before(deadline) {
		first = false
		if err := ctx.Err(); err != nil {
			return nil, wrapError("processor.process", ErrBusy, err)
		}
		select {
		case <-p.quit:
			return nil, newError("processor.process", ErrClosed)
		default:
		}

		budget := captureSlice
		if timeout >= 0 {
			if rem := time.Until(deadline); rem < budget {
				budget = rem
			}
		}
		buf, err := p.nextFrame(budget)
		if errors.Is(err, errFrameTimeout) {
			continue
		}
		if err != nil {
			return nil, err
		}

		img := p.frameImage(buf)
		set, err := p.scanner.ScanImage(ctx, img)
		if err != nil {
			img.Unref()
			return nil, err
		}
		if set.Size() > 0 {
			img.Unref()
			return set, nil
		}
		set.Unref()
		img.Unref()
	}
	return nil, nil
}

// ProcessImage scans a single caller-supplied image with the processor's
// scanner. The caller owns a reference on the returned set.
func (p *Processor) ProcessImage(ctx context.Context, img *Image) (*SymbolSet, error) {
	if img == nil {
		return nil, wrapErrorf("processor.process", ErrInvalid, "nil image")
	}
	p.opMu.Lock()
	defer p.opMu.Unlock()
	return p.scanner.ScanImage(ctx, img)
}

// UserWait blocks until the display window closes or the timeout expires
// and returns the time spent waiting. Without a visible window the wait
// cannot ever complete, which reports as a closed-window error after any
// bounded wait finishes.
func (p *Processor) UserWait(timeout time.Duration) (time.Duration, error) {
	p.mu.Lock()
	visible, active, quit := p.visible, p.active, p.quit
	p.mu.Unlock()

	start := time.Now()
	if visible || active || timeout >= 0 {
		var expire <-chan time.Time
		if timeout >= 0 {
			t := time.NewTimer(timeout)
			defer t.Stop()
			expire = t.C
		}
		select {
		case <-quit:
		case <-expire:
		}
	}
	elapsed := time.Since(start)

	p.mu.Lock()
	visible = p.visible
	p.mu.Unlock()
	if !visible {
		return elapsed, newError("processor.wait", ErrClosed)
	}
	return elapsed, nil
}

// Controls lists the tunable controls of the attached video device.
func (p *Processor) Controls() ([]videoControl, error) {
	p.mu.Lock()
	src := p.source
	p.mu.Unlock()
	if src == nil {
		return nil, wrapErrorf("processor.control", ErrInvalid, "video device not initialized")
	}
	return src.controls(), nil
}

// Control reads a device control by name ("brightness", "contrast", ...).
// Names match case-insensitively, exact match first.
func (p *Processor) Control(name string) (int, error) {
	ctl, src, err := p.findControl(name)
	if err != nil {
		return 0, err
	}
	return src.control(ctl.ID)
}

// SetControl writes a device control by name.
func (p *Processor) SetControl(name string, value int) error {
	ctl, src, err := p.findControl(name)
	if err != nil {
		return err
	}
	return src.setControl(ctl.ID, value)
}

func (p *Processor) findControl(name string) (videoControl, frameSource, error) {
	p.mu.Lock()
	src := p.source
	p.mu.Unlock()
	if src == nil {
		return videoControl{}, nil, wrapErrorf("processor.control", ErrInvalid, "video device not initialized")
	}
	all := src.controls()
	for _, c := range all {
		if strings.EqualFold(c.Name, name) {
			return c, src, nil
		}
	}
	lower := strings.ToLower(name)
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), lower) {
			return c, src, nil
		}
	}
	return videoControl{}, nil, wrapErrorf("processor.control", ErrUnsupported, "no control named %q", name)
}

// Results returns the set produced by the most recent scan, or nil.
// Borrowed pointer; callers that retain it must take their own reference.
func (p *Processor) Results() *SymbolSet {
	return p.scanner.Results()
}

// SetUserData attaches caller data to the processor.
func (p *Processor) SetUserData(v any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userdata = v
}

// UserData returns data attached with SetUserData.
func (p *Processor) UserData() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.userdata
}

// teardownVideo stops streaming and closes the frame source, if any.
func (p *Processor) teardownVideo() error {
	p.mu.Lock()
	src := p.source
	p.mu.Unlock()
	if src == nil {
		return nil
	}
	var firstErr error
	if _, err := p.setActiveLocked(false); err != nil && firstErr == nil {
		firstErr = err
	}
	p.mu.Lock()
	p.source = nil
	p.mu.Unlock()
	if err := src.close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Destroy releases the video device, wakes blocked waiters and drops the
// scanner's result reference. Safe to call more than once.
func (p *Processor) Destroy() error {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return nil
	}
	p.destroyed = true
	p.visible = false
	close(p.quit)
	p.mu.Unlock()

	p.opMu.Lock()
	defer p.opMu.Unlock()
	err := p.teardownVideo()
	p.scanner.Destroy()
	return err
}

// grayable reports whether the luminance extractor understands f.
func grayable(f Format) bool {
	switch f {
	case FormatY800, FormatGrey, FormatYUYV, FormatUYVY,
		FormatYU12, FormatYV12, FormatNV12, FormatMJPG,
		FormatRGB3, FormatBGR3, FormatRGB4, FormatBGR4:
		return true
	}
	return false
}
