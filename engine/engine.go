package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/binder"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/logger"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/viewport"
)

// State is the lifecycle state of the render loop.
type State int32

const (
	// StateStopped is the state before Run and after Quit.
	StateStopped State = iota
	// StateRunning is the state while the render loop is scheduled.
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	default:
		return "Stopped"
	}
}

// Window is the part of the platform window the engine drives: its message loop, its size and the
// input callbacks mapped onto the camera controller.
type Window interface {
	ProcessMessages()
	RequestClose()
	Width() int
	Height() int
	PixelRatio() float32
	SetResizeCallback(callback func(width, height int, pixelRatio float32))
	SetScrollCallback(callback func(delta float32))
	SetKeyDownCallback(callback func(keyCode uint32))
	SetPointerDownCallback(callback func(x, y float32))
	SetPointerUpCallback(callback func(x, y float32))
	SetPointerMoveCallback(callback func(x, y float32))
	SetSecondaryPointerDownCallback(callback func(x, y float32))
	SetSecondaryPointerUpCallback(callback func(x, y float32))
}

// engine implements the Engine interface.
// Coordinates the render goroutine, the window message loop and the asset load.
type engine struct {
	state atomic.Int32
	wg    sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	loadCtx    context.Context
	cancelLoad context.CancelFunc

	window   Window
	scene    scene.Scene
	camera   camera.Camera
	renderer renderer.Renderer
	monitor  *viewport.Monitor
	loader   loader.Loader
	bindings binder.Table
	log      logger.Logger

	queueMu sync.Mutex
	queue   []func()

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	renderFrameLimit time.Duration

	// pan drag state, touched only on the render goroutine
	panning    bool
	panX, panY float32

	lastRenderErr string
	bound         atomic.Pointer[binder.Result]
	loadErr       atomic.Pointer[error]
}

// Engine is the main entry point of the viewer.
// It owns the render loop, applies posted scene mutations between frames and attaches the asset once
// it has loaded. Rendering never waits on the asset.
type Engine interface {
	// State reports whether the render loop is running.
	//
	// Returns:
	//   - State: StateRunning or StateStopped
	State() State

	// Scene returns the composed scene.
	Scene() scene.Scene

	// Camera returns the camera driven by the render loop.
	Camera() camera.Camera

	// Renderer returns the renderer.
	Renderer() renderer.Renderer

	// Viewport returns the monitor receiving window size changes.
	Viewport() *viewport.Monitor

	// Post queues a scene mutation to run on the render goroutine before the next frame.
	// Mutations posted after Quit are dropped.
	//
	// Parameters:
	//   - fn: the mutation
	//
	// Returns:
	//   - bool: false if the engine has quit and fn was dropped
	Post(fn func()) bool

	// Step runs one render loop iteration on the calling goroutine: drain posted mutations,
	// advance the camera, render. Run calls Step repeatedly; callers driving the loop themselves must
	// not call Run.
	//
	// Returns:
	//   - error: the render error, if any
	Step() error

	// LoadAsset starts loading the model at path. When it completes the asset is bound with the
	// binding table and attached on the render goroutine. Failures are logged by the loader and leave
	// the scene without an asset.
	//
	// Parameters:
	//   - path: the model file
	//
	// Returns:
	//   - <-chan struct{}: closed once the result has been handled (attached, failed or dropped)
	LoadAsset(path string) <-chan struct{}

	// Bound returns the outcome of binding the attached asset.
	//
	// Returns:
	//   - binder.Result: the binding counts
	//   - bool: false until an asset has been attached
	Bound() (binder.Result, bool)

	// LoadError returns the error of a failed asset load, or nil.
	LoadError() error

	// Recolor posts a rebinding of every node of partID to mat.
	//
	// Parameters:
	//   - partID: the fragment recorded on the nodes by binding
	//   - mat: the new shared material
	Recolor(partID string, mat material.Material)

	// EnableProfiler enables periodic frame statistics in the log.
	EnableProfiler()

	// DisableProfiler disables periodic frame statistics.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop.
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the render goroutine and blocks until Quit or until the window closes.
	// Releases the renderer and closes the loader before returning.
	Run()

	// Quit stops the render loop and cancels a pending asset load.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine with the provided options.
// A scene, camera, loader and binding table are created with defaults when not supplied; a renderer is
// required and NewEngine panics without one.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel: make(chan struct{}),
	}
	e.loadCtx, e.cancelLoad = context.WithCancel(context.Background())

	for _, opt := range options {
		opt(e)
	}

	if e.renderer == nil {
		panic(renderer.ErrNoBackend)
	}
	e.log = logger.OrNop(e.log)
	if e.scene == nil {
		e.scene = scene.NewScene("viewer")
	}
	if e.camera == nil {
		e.camera = camera.NewCamera(camera.WithController(camera.NewCameraController()))
	}
	if e.loader == nil {
		e.loader = loader.NewLoader(loader.WithLogger(e.log))
	}
	if e.bindings == nil {
		e.bindings = binder.DefaultTable()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(e.log, time.Second)
	}
	e.monitor = viewport.NewMonitor(e.renderer, e.camera)

	if e.window != nil {
		e.bindWindow()
	}

	return e
}

// bindWindow forwards window events into the engine. Every event is posted so camera and viewport
// state only change on the render goroutine.
func (e *engine) bindWindow() {
	w := e.window
	e.monitor.Notify(w.Width(), w.Height(), w.PixelRatio())

	w.SetResizeCallback(func(width, height int, pixelRatio float32) {
		e.Post(func() { e.monitor.Notify(width, height, pixelRatio) })
	})
	w.SetPointerDownCallback(func(x, y float32) {
		e.Post(func() {
			if ctrl := e.camera.Controller(); ctrl != nil {
				ctrl.BeginDrag(x, y)
			}
		})
	})
	w.SetSecondaryPointerDownCallback(func(x, y float32) {
		e.Post(func() {
			e.panning = true
			e.panX, e.panY = x, y
		})
	})
	w.SetPointerMoveCallback(func(x, y float32) {
		e.Post(func() {
			ctrl := e.camera.Controller()
			if ctrl == nil {
				return
			}
			height := float32(e.monitor.State().Height)
			if e.panning {
				ctrl.Pan(x-e.panX, y-e.panY, height)
				e.panX, e.panY = x, y
			}
			if ctrl.Dragging() {
				ctrl.Drag(x, y, height)
			}
		})
	})
	w.SetSecondaryPointerUpCallback(func(_, _ float32) {
		e.Post(func() { e.panning = false })
	})
	w.SetPointerUpCallback(func(_, _ float32) {
		e.Post(func() {
			if ctrl := e.camera.Controller(); ctrl != nil {
				ctrl.EndDrag()
			}
		})
	})
	w.SetScrollCallback(func(delta float32) {
		e.Post(func() {
			if ctrl := e.camera.Controller(); ctrl != nil {
				ctrl.Zoom(delta)
			}
		})
	})
	w.SetKeyDownCallback(func(keyCode uint32) {
		if keyCode == common.KeyEsc {
			e.Quit()
			return
		}
		e.Post(func() { e.handleKey(keyCode) })
	})
}

// handleKey maps viewer keys onto the camera controller.
func (e *engine) handleKey(keyCode uint32) {
	ctrl := e.camera.Controller()
	if ctrl == nil {
		return
	}
	step := ctrl.KeyOrbitStep()
	switch keyCode {
	case common.KeyR:
		ctrl.SetAutoRotate(!ctrl.AutoRotate())
	case common.KeyLeft:
		ctrl.RotateLeft(step)
	case common.KeyRight:
		ctrl.RotateLeft(-step)
	case common.KeyUp:
		ctrl.RotateUp(step)
	case common.KeyDown:
		ctrl.RotateUp(-step)
	}
}

func (e *engine) State() State {
	return State(e.state.Load())
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Viewport() *viewport.Monitor {
	return e.monitor
}

func (e *engine) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	select {
	case <-e.quitChannel:
		return false
	default:
	}
	e.queueMu.Lock()
	e.queue = append(e.queue, fn)
	e.queueMu.Unlock()
	return true
}

// drain runs the mutations posted so far. Mutations posted while draining run next frame.
func (e *engine) drain() {
	e.queueMu.Lock()
	pending := e.queue
	e.queue = nil
	e.queueMu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

func (e *engine) Step() error {
	e.drain()
	e.camera.Advance()
	err := e.renderer.Render(e.scene, e.camera)
	if e.profilingEnabled.Load() {
		e.profiler.Tick()
	}
	return err
}

func (e *engine) LoadAsset(path string) <-chan struct{} {
	done := make(chan struct{})
	results := e.loader.Load(e.loadCtx, path)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		var res loader.Result
		select {
		case res = <-results:
		case <-e.quitChannel:
			close(done)
			return
		}

		if !res.Loaded() {
			err := res.Err
			e.loadErr.Store(&err)
			close(done)
			return
		}

		handled := make(chan struct{})
		posted := e.Post(func() {
			defer close(handled)
			if e.loadCtx.Err() != nil {
				return
			}
			e.attach(res)
		})
		if posted {
			select {
			case <-handled:
			case <-e.quitChannel:
			}
		}
		close(done)
	}()
	return done
}

// attach binds and attaches a loaded asset. Runs on the render goroutine.
func (e *engine) attach(res loader.Result) {
	bound := binder.Bind(res.Root, e.bindings)
	if err := e.scene.Attach(res.Root); err != nil {
		e.log.Warnf("asset %s not attached: %v", res.AssetID, err)
		return
	}
	e.bound.Store(&bound)
	e.log.Infof("attached %s: %d of %d meshes bound %v", res.Path, bound.Bound, bound.Meshes, bound.Parts)
}

func (e *engine) Bound() (binder.Result, bool) {
	if r := e.bound.Load(); r != nil {
		return *r, true
	}
	return binder.Result{}, false
}

func (e *engine) LoadError() error {
	if err := e.loadErr.Load(); err != nil {
		return *err
	}
	return nil
}

func (e *engine) Recolor(partID string, mat material.Material) {
	e.Post(func() {
		n := binder.Recolor(e.scene.Asset(), partID, mat)
		e.log.Debugf("recolored %d nodes of part %q", n, partID)
	})
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetRenderFrameLimit must be called before Run.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Run() {
	if !e.state.CompareAndSwap(int32(StateStopped), int32(StateRunning)) {
		return
	}
	select {
	case <-e.quitChannel:
		e.state.Store(int32(StateStopped))
		return
	default:
	}

	e.wg.Add(1)
	go e.handleRender()

	if e.window != nil {
		e.window.ProcessMessages()
		e.Quit()
	} else {
		<-e.quitChannel
	}

	e.wg.Wait()
	e.loader.Close()
	e.renderer.Release()
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.state.Store(int32(StateStopped))
		e.cancelLoad()
		close(e.quitChannel)
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

// handleRender runs the render loop in its own goroutine until quit.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		frameStart := time.Now()
		e.reportRenderError(e.Step())

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// reportRenderError logs a render error once until a different error, or a successful frame, follows.
func (e *engine) reportRenderError(err error) {
	if err == nil {
		e.lastRenderErr = ""
		return
	}
	if msg := err.Error(); msg != e.lastRenderErr {
		e.lastRenderErr = msg
		e.log.Errorf("render: %v", err)
	}
}
