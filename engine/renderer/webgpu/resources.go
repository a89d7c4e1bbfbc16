package webgpu

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// binding indices of the frame bind group
const (
	frameBindingCamera = iota
	frameBindingLights
	frameBindingScene
	frameBindingShadowMap
	frameBindingShadowSampler
)

// binding indices of a material bind group
const (
	materialBindingUniform = iota
	materialBindingTexture
	materialBindingSampler
)

func uniformEntry(binding uint32, visibility wgpu.ShaderStage, size int) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: uint64(size),
		},
	}
}

// initLayouts creates the four bind group layouts shared by every pipeline.
func (b *Backend) initLayouts() error {
	var (
		cam    camera.GPUCameraUniform
		lights light.GPULightUniform
		sc     gpuSceneUniform
		mat    gpuMaterialUniform
		obj    gpuObjectUniform
		err    error
	)
	vf := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment

	b.frameLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Frame Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(frameBindingCamera, vf, cam.Size()),
			uniformEntry(frameBindingLights, vf, lights.Size()),
			uniformEntry(frameBindingScene, vf, sc.Size()),
			{
				Binding:    frameBindingShadowMap,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeDepth,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    frameBindingShadowSampler,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeComparison},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create frame layout: %w", err)
	}

	b.shadowFrameLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Shadow Frame Layout",
		Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageVertex, lights.Size())},
	})
	if err != nil {
		return fmt.Errorf("create shadow frame layout: %w", err)
	}

	b.materialLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Material Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(materialBindingUniform, wgpu.ShaderStageFragment, mat.Size()),
			{
				Binding:    materialBindingTexture,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    materialBindingSampler,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create material layout: %w", err)
	}

	b.objectLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Object Layout",
		Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, vf, obj.Size())},
	})
	if err != nil {
		return fmt.Errorf("create object layout: %w", err)
	}
	return nil
}

// initFrameResources creates the per-frame uniform buffers, the fallback texture and the samplers.
func (b *Backend) initFrameResources() error {
	var (
		cam    camera.GPUCameraUniform
		lights light.GPULightUniform
		sc     gpuSceneUniform
	)

	b.frame = newBindGroupProvider("Frame")
	for binding, size := range map[int]int{
		frameBindingCamera: cam.Size(),
		frameBindingLights: lights.Size(),
		frameBindingScene:  sc.Size(),
	} {
		buf, err := b.createUniformBuffer(b.frame.label, size)
		if err != nil {
			return err
		}
		b.frame.buffers[binding] = buf
	}

	shadowFrame, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Shadow Frame Bind Group",
		Layout: b.shadowFrameLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: b.frame.buffers[frameBindingLights], Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("create shadow frame bind group: %w", err)
	}
	b.shadowFrame = newBindGroupProvider("Shadow Frame")
	b.shadowFrame.bindGroup = shadowFrame

	b.whiteTexture, b.whiteView, err = b.uploadTexture("White", common.TextureStagingData{
		Pixels: []byte{255, 255, 255, 255},
		Width:  1,
		Height: 1,
	})
	if err != nil {
		return err
	}

	b.defaultSampler, err = b.createSampler("Default", common.SamplerStagingData{})
	if err != nil {
		return err
	}

	b.shadowSampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Shadow Comparison Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		Compare:       wgpu.CompareFunctionLess,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("create comparison sampler: %w", err)
	}

	return b.ensureShadowMap(1)
}

func (b *Backend) createUniformBuffer(label string, size int) (*wgpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Buffer",
		Size:  uint64(size),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", label, err)
	}
	return buf, nil
}

// ensureShadowMap resizes the shadow depth texture and rebinds the frame bind group when the size changes.
func (b *Backend) ensureShadowMap(size int) error {
	size = max(size, 1)
	if size == b.shadowSize && b.frame.bindGroup != nil {
		return nil
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Shadow Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(size),
			Height:             uint32(size),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth32Float,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("create shadow depth texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("create shadow depth texture view: %w", err)
	}

	entries := []wgpu.BindGroupEntry{
		{Binding: frameBindingCamera, Buffer: b.frame.buffers[frameBindingCamera], Size: wgpu.WholeSize},
		{Binding: frameBindingLights, Buffer: b.frame.buffers[frameBindingLights], Size: wgpu.WholeSize},
		{Binding: frameBindingScene, Buffer: b.frame.buffers[frameBindingScene], Size: wgpu.WholeSize},
		{Binding: frameBindingShadowMap, TextureView: view},
		{Binding: frameBindingShadowSampler, Sampler: b.shadowSampler},
	}
	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Frame Bind Group",
		Layout:  b.frameLayout,
		Entries: entries,
	})
	if err != nil {
		view.Release()
		tex.Release()
		return fmt.Errorf("create frame bind group: %w", err)
	}

	if b.frame.bindGroup != nil {
		b.frame.bindGroup.Release()
	}
	b.releaseShadowMap()
	b.frame.bindGroup = bindGroup
	b.frame.textureViews[frameBindingShadowMap] = view
	b.frame.samplers[frameBindingShadowSampler] = b.shadowSampler
	b.frame.share(frameBindingShadowMap)
	b.frame.share(frameBindingShadowSampler)
	b.shadowTexture, b.shadowView, b.shadowSize = tex, view, size
	return nil
}

func (b *Backend) releaseShadowMap() {
	if b.shadowView != nil {
		b.shadowView.Release()
		b.shadowView = nil
	}
	if b.shadowTexture != nil {
		b.shadowTexture.Release()
		b.shadowTexture = nil
	}
	b.shadowSize = 0
}

// uploadTexture creates an sRGB texture and copies the staged pixels into it.
func (b *Backend) uploadTexture(label string, staging common.TextureStagingData) (*wgpu.Texture, *wgpu.TextureView, error) {
	extent := wgpu.Extent3D{
		Width:              staging.Width,
		Height:             staging.Height,
		DepthOrArrayLayers: 1,
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label + " Texture",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          extent,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create %s texture: %w", label, err)
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.Width * 4,
			RowsPerImage: staging.Height,
		},
		&extent,
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("create %s texture view: %w", label, err)
	}
	return tex, view, nil
}

func addressMode(w common.WrapMode) wgpu.AddressMode {
	switch w {
	case common.WrapClampToEdge:
		return wgpu.AddressModeClampToEdge
	case common.WrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeRepeat
	}
}

func (b *Backend) createSampler(label string, staging common.SamplerStagingData) (*wgpu.Sampler, error) {
	mag := wgpu.FilterModeLinear
	if staging.Nearest {
		mag = wgpu.FilterModeNearest
	}
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  addressMode(staging.WrapU),
		AddressModeV:  addressMode(staging.WrapV),
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     mag,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s sampler: %w", label, err)
	}
	return samp, nil
}

// meshFor returns the cached vertex and index buffers of a geometry, uploading them on first use.
func (b *Backend) meshFor(g *scene.Geometry) (*bindGroupProvider, error) {
	if p, ok := b.meshes[g]; ok {
		return p, nil
	}

	vertices := common.SliceToBytes(g.Interleave())
	indices := g.Indices
	if len(indices) == 0 {
		indices = make([]uint32, len(g.Positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	indexBytes := common.SliceToBytes(indices)

	p := newBindGroupProvider("Mesh")
	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Mesh Vertex Buffer",
		Size:  uint64(len(vertices)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create vertex buffer: %w", err)
	}
	p.vertexBuffer = vb
	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Mesh Index Buffer",
		Size:  uint64(len(indexBytes)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("create index buffer: %w", err)
	}
	p.indexBuffer = ib
	p.indexCount = len(indices)

	b.queue.WriteBuffer(vb, 0, vertices)
	b.queue.WriteBuffer(ib, 0, indexBytes)
	b.meshes[g] = p
	return p, nil
}

// materialFor returns the cached bind group of a material. A base texture that fails to decode is
// logged once and the material falls back to its flat color.
func (b *Backend) materialFor(m material.Material) (*bindGroupProvider, error) {
	if p, ok := b.materials[m]; ok {
		return p, nil
	}

	label := "Material " + m.Name()
	p := newBindGroupProvider(label)
	var mu gpuMaterialUniform
	buf, err := b.createUniformBuffer(label, mu.Size())
	if err != nil {
		return nil, err
	}
	p.buffers[materialBindingUniform] = buf

	view, samp := b.whiteView, b.defaultSampler
	shared := true
	if t := m.BaseTexture(); t != nil {
		tex, tv, s, err := b.textureFor(label, t)
		if err != nil {
			b.log.Warnf("%s: %v", label, err)
		} else {
			p.textures[materialBindingTexture] = tex
			view, samp, shared = tv, s, false
		}
	}
	p.textureViews[materialBindingTexture] = view
	p.samplers[materialBindingSampler] = samp
	if shared {
		p.share(materialBindingTexture)
		p.share(materialBindingSampler)
	}

	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " Bind Group",
		Layout: b.materialLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: materialBindingUniform, Buffer: buf, Size: wgpu.WholeSize},
			{Binding: materialBindingTexture, TextureView: view},
			{Binding: materialBindingSampler, Sampler: samp},
		},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("create %s bind group: %w", label, err)
	}
	p.bindGroup = bg
	b.materials[m] = p
	return p, nil
}

// textureFor decodes and uploads a material's base texture with its sampler.
func (b *Backend) textureFor(label string, t *common.Texture) (*wgpu.Texture, *wgpu.TextureView, *wgpu.Sampler, error) {
	staging, err := t.Decode()
	if err != nil {
		return nil, nil, nil, err
	}
	tex, view, err := b.uploadTexture(label, staging)
	if err != nil {
		return nil, nil, nil, err
	}
	samp, err := b.createSampler(label, *common.Coalesce(t.Sampler, &common.SamplerStagingData{}))
	if err != nil {
		view.Release()
		tex.Release()
		return nil, nil, nil, err
	}
	return tex, view, samp, nil
}

// textured reports whether a material provider binds its own texture.
func (p *bindGroupProvider) textured() bool {
	_, ok := p.textures[materialBindingTexture]
	return ok
}

// objectFor returns the cached transform bind group of a node.
func (b *Backend) objectFor(n *scene.Node) (*bindGroupProvider, error) {
	if p, ok := b.objects[n]; ok {
		return p, nil
	}

	label := "Object " + n.Name
	p := newBindGroupProvider(label)
	var ou gpuObjectUniform
	buf, err := b.createUniformBuffer(label, ou.Size())
	if err != nil {
		return nil, err
	}
	p.buffers[0] = buf

	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label + " Bind Group",
		Layout:  b.objectLayout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: buf, Size: wgpu.WholeSize}},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("create %s bind group: %w", label, err)
	}
	p.bindGroup = bg
	b.objects[n] = p
	return p, nil
}

// updateGrid uploads the grid lines, growing the vertex buffer when needed.
func (b *Backend) updateGrid(lines []scene.LineVertex) error {
	if len(lines) == 0 {
		return nil
	}
	data := common.SliceToBytes(packLines(lines))
	if b.grid == nil || b.gridSize < len(data) {
		if b.grid != nil {
			b.grid.Release()
		}
		vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Grid Vertex Buffer",
			Size:  uint64(len(data)),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			b.grid = nil
			return fmt.Errorf("create grid buffer: %w", err)
		}
		b.grid = newBindGroupProvider("Grid")
		b.grid.vertexBuffer = vb
		b.gridSize = len(data)
	}
	b.grid.indexCount = len(lines)
	b.queue.WriteBuffer(b.grid.vertexBuffer, 0, data)
	return nil
}

// sweep releases cached resources that the last frame did not use.
func (b *Backend) sweep(meshes map[*scene.Geometry]bool, materials map[material.Material]bool, objects map[*scene.Node]bool) {
	for g, p := range b.meshes {
		if !meshes[g] {
			p.Release()
			delete(b.meshes, g)
		}
	}
	for m, p := range b.materials {
		if !materials[m] {
			p.Release()
			delete(b.materials, m)
		}
	}
	for n, p := range b.objects {
		if !objects[n] {
			p.Release()
			delete(b.objects, n)
		}
	}
}
