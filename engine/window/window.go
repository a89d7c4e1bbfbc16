package window

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling for the viewer.
// Sizes are reported in window coordinates together with the pixel ratio of the framebuffer.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the window size or its pixel ratio changes.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in window coordinates and the
	//     framebuffer pixel ratio
	SetResizeCallback(callback func(width, height int, pixelRatio float32))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up/zoom in, negative = down/zoom out)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetPointerDownCallback sets the callback for a primary (left) button press.
	//
	// Parameters:
	//   - callback: function receiving the cursor x, y position
	SetPointerDownCallback(callback func(x, y float32))

	// SetPointerUpCallback sets the callback for a primary (left) button release.
	//
	// Parameters:
	//   - callback: function receiving the cursor x, y position
	SetPointerUpCallback(callback func(x, y float32))

	// SetSecondaryPointerDownCallback sets the callback for a right or middle button press.
	//
	// Parameters:
	//   - callback: function receiving the cursor x, y position
	SetSecondaryPointerDownCallback(callback func(x, y float32))

	// SetSecondaryPointerUpCallback sets the callback for a right or middle button release.
	//
	// Parameters:
	//   - callback: function receiving the cursor x, y position
	SetSecondaryPointerUpCallback(callback func(x, y float32))

	// SetPointerMoveCallback sets the callback for cursor movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor x, y position
	SetPointerMoveCallback(callback func(x, y float32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to exit. Safe to call from any goroutine.
	RequestClose()

	// Close closes the window and releases platform resources.
	// Must be called from the goroutine that created the window.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current window width in window coordinates.
	Width() int

	// Height returns the current window height in window coordinates.
	Height() int

	// PixelRatio returns the ratio of framebuffer pixels to window coordinates.
	PixelRatio() float32
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	mu sync.RWMutex

	// title is the window title displayed in the title bar.
	title string

	// minWidth and minHeight bound the window size during resize.
	minWidth  int
	minHeight int

	// width and height are the window size in window coordinates.
	width  int
	height int

	// pixelRatio is framebuffer pixels per window coordinate.
	pixelRatio float32

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate      func()
	onResize      func(width, height int, pixelRatio float32)
	onScroll      func(delta float32)
	onKeyDown     func(keyCode uint32)
	onKeyUp       func(keyCode uint32)
	onPointerDown func(x, y float32)
	onPointerUp   func(x, y float32)
	onPointerMove func(x, y float32)

	onSecondaryDown func(x, y float32)
	onSecondaryUp   func(x, y float32)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order. Panics if the platform window cannot be created.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:      "oxy-viewer",
		minWidth:   320,
		minHeight:  200,
		width:      1280,
		height:     720,
		pixelRatio: 1,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int, pixelRatio float32)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetPointerDownCallback(callback func(x, y float32)) {
	w.onPointerDown = callback
}

func (w *engineWindow) SetPointerUpCallback(callback func(x, y float32)) {
	w.onPointerUp = callback
}

func (w *engineWindow) SetSecondaryPointerDownCallback(callback func(x, y float32)) {
	w.onSecondaryDown = callback
}

func (w *engineWindow) SetSecondaryPointerUpCallback(callback func(x, y float32)) {
	w.onSecondaryUp = callback
}

func (w *engineWindow) SetPointerMoveCallback(callback func(x, y float32)) {
	w.onPointerMove = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.height
}

func (w *engineWindow) PixelRatio() float32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pixelRatio
}

// setSize records a new size and pixel ratio and reports whether anything changed.
func (w *engineWindow) setSize(width, height int, pixelRatio float32) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.width == width && w.height == height && w.pixelRatio == pixelRatio {
		return false
	}
	w.width, w.height, w.pixelRatio = width, height, pixelRatio
	return true
}
