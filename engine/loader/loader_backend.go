package loader

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loaderBackend defines the generic interface for decoding model files into node trees.
// Concrete implementations (e.g., gltfLoaderBackendImpl) handle format-specific details.
type loaderBackend interface {
	// Decode reads the model at path and builds its node tree. Node transforms are as stored in the
	// file; no placement is applied.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *scene.Node: the asset root
	//   - error: error if reading or decoding fails
	Decode(path string) (*scene.Node, error)

	// DecodeReader decodes a self-contained model (e.g. GLB or glTF with data URIs) from a stream.
	//
	// Parameters:
	//   - name: name given to the asset root
	//   - r: the reader providing model data
	//
	// Returns:
	//   - *scene.Node: the asset root
	//   - error: error if decoding fails
	DecodeReader(name string, r io.Reader) (*scene.Node, error)

	// Supports reports whether the backend can decode files with the given path.
	Supports(path string) bool
}

// backendTypes lists the registered backends in the order Load tries them.
var backendTypes = []LoaderBackendType{BackendTypeGLTF}

// hasExtension reports whether path ends in one of exts, ignoring case.
func hasExtension(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
