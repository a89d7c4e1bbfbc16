package webgpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider owns the GPU resources behind one bind group, and optionally the vertex and index
// buffers of a mesh. Providers are created and released by the backend only.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	bindGroup *wgpu.BindGroup
	// buffers holds the uniform buffers created for this provider, keyed by binding index.
	buffers map[int]*wgpu.Buffer
	// textures holds textures owned by this provider, keyed by binding index.
	textures map[int]*wgpu.Texture
	// textureViews holds the texture views bound by this provider, keyed by binding index.
	textureViews map[int]*wgpu.TextureView
	// samplers holds the samplers bound by this provider, keyed by binding index.
	samplers map[int]*wgpu.Sampler

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int

	// shared marks bindings whose view or sampler belongs to someone else and must not be released.
	shared map[int]bool
}

func newBindGroupProvider(label string) *bindGroupProvider {
	return &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textures:     make(map[int]*wgpu.Texture),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
		shared:       make(map[int]bool),
	}
}

// share records a view or sampler the provider binds but does not own.
func (p *bindGroupProvider) share(binding int) {
	p.shared[binding] = true
}

// Release releases every GPU resource the provider owns.
func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for i, tv := range p.textureViews {
		if tv != nil && !p.shared[i] {
			tv.Release()
		}
		delete(p.textureViews, i)
	}
	for i, t := range p.textures {
		if t != nil {
			t.Release()
		}
		delete(p.textures, i)
	}
	for i, s := range p.samplers {
		if s != nil && !p.shared[i] {
			s.Release()
		}
		delete(p.samplers, i)
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
}

// bufferWrite is a pending queue write into one of a provider's uniform buffers.
type bufferWrite struct {
	provider *bindGroupProvider
	binding  int
	data     []byte
}
