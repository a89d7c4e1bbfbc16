package loader

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-viewer/engine/logger"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/google/uuid"
)

// Result is the outcome of one load. Exactly one of Root and Err is set.
type Result struct {
	// AssetID identifies the load in logs.
	AssetID uuid.UUID
	Path    string
	Root    *scene.Node
	Err     error

	// Duration is the time spent decoding.
	Duration time.Duration
}

// Loaded reports whether the load produced an asset root.
func (r Result) Loaded() bool {
	return r.Err == nil && r.Root != nil
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.Mutex

	backends map[LoaderBackendType]loaderBackend
	logger   logger.Logger

	pool        worker.DynamicWorkerPool
	workers     int
	queueSize   int
	idleTimeout time.Duration

	nextTaskID int
	pending    map[int]*pendingLoad
	closed     bool
}

// pendingLoad is a submitted load whose result has not been claimed by a worker or by Close.
type pendingLoad struct {
	id   uuid.UUID
	path string
	out  chan Result
}

// Loader decodes model files into node trees off the caller's goroutine.
//
// Every load delivers exactly one Result on its channel and then closes the channel. The loader applies
// no placement to the decoded tree and never retries; failures carry a *LoadError matching
// ErrLoadFailure and are logged.
type Loader interface {
	// Load decodes the model file at path. The backend is selected from the file extension
	// (.gltf/.glb → glTF backend).
	//
	// Parameters:
	//   - ctx: cancelling ctx before the decode finishes turns the result into a failure
	//   - path: the file path to the model file
	//
	// Returns:
	//   - <-chan Result: receives exactly one Result, then closes
	Load(ctx context.Context, path string) <-chan Result

	// LoadReader decodes a self-contained model (GLB, or glTF with embedded data) from r.
	// The reader is consumed on a worker goroutine.
	//
	// Parameters:
	//   - ctx: cancellation for the load
	//   - name: the name given to the asset root and used in logs
	//   - r: the reader providing model data
	//
	// Returns:
	//   - <-chan Result: receives exactly one Result, then closes
	LoadReader(ctx context.Context, name string, r io.Reader) <-chan Result

	// Close stops the worker pool. Loads that have not started yet fail with ErrLoaderClosed; loads
	// requested afterwards fail immediately.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a Loader with the glTF backend and a worker pool.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		workers:     1,
		queueSize:   8,
		idleTimeout: time.Second,
		pending:     make(map[int]*pendingLoad),
	}
	for _, option := range options {
		option(l)
	}
	l.logger = logger.OrNop(l.logger)
	l.backends = map[LoaderBackendType]loaderBackend{
		BackendTypeGLTF: newGLTFLoaderBackend(l.logger),
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, l.queueSize, l.idleTimeout)
	return l
}

func (l *loader) Load(ctx context.Context, path string) <-chan Result {
	backend := l.backendFor(path)
	if backend == nil {
		return l.fail(path, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path))
	}
	return l.submit(ctx, path, func() (*scene.Node, error) {
		return backend.Decode(path)
	})
}

// backendFor returns the first registered backend that supports path, or nil.
func (l *loader) backendFor(path string) loaderBackend {
	for _, t := range backendTypes {
		if b, ok := l.backends[t]; ok && b.Supports(path) {
			return b
		}
	}
	return nil
}

func (l *loader) LoadReader(ctx context.Context, name string, r io.Reader) <-chan Result {
	backend := l.backends[BackendTypeGLTF]
	return l.submit(ctx, name, func() (*scene.Node, error) {
		return backend.DecodeReader(name, r)
	})
}

func (l *loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	abandoned := l.pending
	l.pending = make(map[int]*pendingLoad)
	l.mu.Unlock()

	l.pool.Stop()
	for _, p := range abandoned {
		l.deliver(p, Result{AssetID: p.id, Path: p.path, Err: &LoadError{Path: p.path, Err: ErrLoaderClosed}})
	}
}

// fail delivers an immediate failure without touching the pool.
func (l *loader) fail(path string, err error) <-chan Result {
	p := &pendingLoad{id: uuid.New(), path: path, out: make(chan Result, 1)}
	l.deliver(p, Result{AssetID: p.id, Path: path, Err: &LoadError{Path: path, Err: err}})
	return p.out
}

func (l *loader) submit(ctx context.Context, path string, decode func() (*scene.Node, error)) <-chan Result {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return l.fail(path, ErrLoaderClosed)
	}
	l.nextTaskID++
	taskID := l.nextTaskID
	p := &pendingLoad{id: uuid.New(), path: path, out: make(chan Result, 1)}
	l.pending[taskID] = p
	l.mu.Unlock()

	l.logger.Debugf("loading %s (asset %s)", path, p.id)
	l.pool.SubmitTask(worker.Task{
		ID:      taskID,
		Payload: path,
		Do: func() (any, error) {
			if !l.claim(taskID) {
				return nil, ErrLoaderClosed
			}
			res := l.decode(ctx, p, decode)
			l.deliver(p, res)
			return res, res.Err
		},
	})
	return p.out
}

// claim removes a pending load so exactly one party delivers its result.
func (l *loader) claim(taskID int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.pending[taskID]; !ok {
		return false
	}
	delete(l.pending, taskID)
	return true
}

func (l *loader) decode(ctx context.Context, p *pendingLoad, decode func() (*scene.Node, error)) (res Result) {
	res = Result{AssetID: p.id, Path: p.path}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res.Root = nil
			res.Err = &LoadError{Path: p.path, Err: fmt.Errorf("panic while decoding: %v", r)}
		}
		res.Duration = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		res.Err = &LoadError{Path: p.path, Err: err}
		return res
	}
	root, err := decode()
	if err != nil {
		res.Err = &LoadError{Path: p.path, Err: err}
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Err = &LoadError{Path: p.path, Err: err}
		return res
	}
	res.Root = root
	return res
}

// deliver logs the result, sends it and closes the channel.
func (l *loader) deliver(p *pendingLoad, res Result) {
	if res.Err != nil {
		l.logger.Errorf("%v", res.Err)
	} else {
		l.logger.Infof("loaded %s (asset %s): %d nodes, %d meshes in %s",
			res.Path, res.AssetID, res.Root.NodeCount(), res.Root.MeshCount(), res.Duration.Round(time.Millisecond))
	}
	p.out <- res
	close(p.out)
}
