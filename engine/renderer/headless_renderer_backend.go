package renderer

import "sync"

// HeadlessBackend is a RendererBackend that draws nothing. It records the surface configuration and
// the frames it is given so the render loop can run and be inspected without a GPU.
type HeadlessBackend struct {
	mu sync.Mutex

	width, height int
	configures    int
	presentMode   PresentMode
	frames        int
	last          Frame
	released      bool
	failWith      error
}

var _ RendererBackend = &HeadlessBackend{}

// NewHeadlessBackend creates a recording backend.
func NewHeadlessBackend() *HeadlessBackend {
	return &HeadlessBackend{}
}

func (b *HeadlessBackend) Type() RendererBackendType {
	return BackendTypeHeadless
}

func (b *HeadlessBackend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
	b.configures++
}

func (b *HeadlessBackend) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = mode
}

func (b *HeadlessBackend) DrawFrame(frame *Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrNoBackend
	}
	if b.failWith != nil {
		return b.failWith
	}
	b.frames++
	b.last = *frame
	b.last.Draws = append([]DrawItem(nil), frame.Draws...)
	return nil
}

func (b *HeadlessBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.released = true
}

// FailWith makes every following DrawFrame return err. A nil err restores normal operation.
func (b *HeadlessBackend) FailWith(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failWith = err
}

// SurfaceSize returns the last configured surface size.
func (b *HeadlessBackend) SurfaceSize() (width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// Configures returns how many times the surface was configured.
func (b *HeadlessBackend) Configures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.configures
}

// PresentMode returns the last present mode set.
func (b *HeadlessBackend) PresentMode() PresentMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.presentMode
}

// Frames returns the number of frames drawn.
func (b *HeadlessBackend) Frames() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames
}

// LastFrame returns a copy of the last frame drawn and whether any frame was drawn.
func (b *HeadlessBackend) LastFrame() (Frame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.frames > 0
}

// Released reports whether Release was called.
func (b *HeadlessBackend) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}
