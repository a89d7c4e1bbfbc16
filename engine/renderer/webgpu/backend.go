// Package webgpu draws prepared frames with WebGPU: a forward Blinn-Phong pass lit by a hemisphere
// light and a shadow-casting directional light, linear fog, a line-list grid and optional MSAA.
package webgpu

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/engine/logger"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrSurfaceNotConfigured is returned by DrawFrame before the first ConfigureSurface.
var ErrSurfaceNotConfigured = errors.New("surface not configured")

// Backend is the WebGPU implementation of renderer.RendererBackend.
type Backend struct {
	mu  *sync.Mutex
	log logger.Logger

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	forceFallbackAdapter bool
	sampleCount          renderer.MSAASampleCount
	presentMode          wgpu.PresentMode

	surfaceFormat *wgpu.TextureFormat
	srgbSurface   bool
	width, height int
	configureErr  error

	// size-dependent attachments, recreated by ConfigureSurface
	msaaTexture  *wgpu.Texture
	msaaView     *wgpu.TextureView
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	frameLayout       *wgpu.BindGroupLayout
	shadowFrameLayout *wgpu.BindGroupLayout
	materialLayout    *wgpu.BindGroupLayout
	objectLayout      *wgpu.BindGroupLayout

	// frame binds camera(0), lights(1), scene(2), shadow map(3) and comparison sampler(4)
	frame *bindGroupProvider
	// shadowFrame binds the light uniform owned by frame for the shadow pass
	shadowFrame *bindGroupProvider

	shadowTexture *wgpu.Texture
	shadowView    *wgpu.TextureView
	shadowSampler *wgpu.Sampler
	shadowSize    int

	whiteTexture   *wgpu.Texture
	whiteView      *wgpu.TextureView
	defaultSampler *wgpu.Sampler

	pipelines map[string]*pipeline

	meshes    map[*scene.Geometry]*bindGroupProvider
	materials map[material.Material]*bindGroupProvider
	objects   map[*scene.Node]*bindGroupProvider
	grid      *bindGroupProvider
	gridSize  int
}

var _ renderer.RendererBackend = &Backend{}

// NewBackend creates a WebGPU device for the given window surface. The device, layouts and frame
// resources are created immediately; pipelines are built on the first ConfigureSurface once the surface
// format is known.
//
// Parameters:
//   - surfaceDescriptor: the platform surface, e.g. from window.Window.SurfaceDescriptor
//   - options: variadic list of BackendBuilderOption functions
//
// Returns:
//   - *Backend: the backend
//   - error: an error if no adapter or device could be obtained
func NewBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...BackendBuilderOption) (*Backend, error) {
	runtime.LockOSThread()
	b := &Backend{
		mu:          &sync.Mutex{},
		log:         logger.NewNopLogger(),
		sampleCount: renderer.MSAA4x,
		presentMode: wgpu.PresentModeFifo,
		pipelines:   make(map[string]*pipeline),
		meshes:      make(map[*scene.Geometry]*bindGroupProvider),
		materials:   make(map[material.Material]*bindGroupProvider),
		objects:     make(map[*scene.Node]*bindGroupProvider),
	}
	for _, opt := range options {
		opt(b)
	}

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	if err := b.initLayouts(); err != nil {
		b.Release()
		return nil, err
	}
	if err := b.initFrameResources(); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

func (b *Backend) Type() renderer.RendererBackendType {
	return renderer.BackendTypeWGPU
}

// ConfigureSurface configures the swapchain and recreates the MSAA and depth attachments. The first call,
// or a change of surface format, (re)builds the pipelines. Failures are reported by the next DrawFrame.
func (b *Backend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.configureErr = b.configure(width, height)
	if b.configureErr != nil {
		b.log.Errorf("configure surface %dx%d: %v", width, height, b.configureErr)
	}
}

func (b *Backend) configure(width, height int) error {
	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		return errors.New("surface reports no formats")
	}
	format, srgb := pickSurfaceFormat(capabilities.Formats)
	formatChanged := b.surfaceFormat == nil || *b.surfaceFormat != format
	b.surfaceFormat = &format
	b.srgbSurface = srgb
	b.width, b.height = width, height

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseAttachments()
	count := uint32(b.sampleCount)
	if count > 1 {
		tex, view, err := b.createAttachment("MSAA Texture", width, height, count, format)
		if err != nil {
			return err
		}
		b.msaaTexture, b.msaaView = tex, view
	}
	// depth sample count must match the color attachment
	tex, view, err := b.createAttachment("Depth Texture", width, height, count, wgpu.TextureFormatDepth24Plus)
	if err != nil {
		return err
	}
	b.depthTexture, b.depthView = tex, view

	if formatChanged || len(b.pipelines) == 0 {
		return b.buildPipelines()
	}
	return nil
}

func (b *Backend) createAttachment(label string, width, height int, samples uint32, format wgpu.TextureFormat) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("create %s view: %w", label, err)
	}
	return tex, view, nil
}

func (b *Backend) releaseAttachments() {
	for _, v := range []*wgpu.TextureView{b.msaaView, b.depthView} {
		if v != nil {
			v.Release()
		}
	}
	for _, t := range []*wgpu.Texture{b.msaaTexture, b.depthTexture} {
		if t != nil {
			t.Release()
		}
	}
	b.msaaTexture, b.msaaView, b.depthTexture, b.depthView = nil, nil, nil, nil
}

// pickSurfaceFormat prefers an sRGB swapchain format so the hardware encodes output. Otherwise the first
// format is used and shaders encode sRGB themselves.
func pickSurfaceFormat(formats []wgpu.TextureFormat) (wgpu.TextureFormat, bool) {
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8UnormSrgb || f == wgpu.TextureFormatRGBA8UnormSrgb {
			return f, true
		}
	}
	return formats[0], false
}

func (b *Backend) SetPresentMode(mode renderer.PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case renderer.PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case renderer.PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

// Release frees every GPU resource and the device. The backend must not be used afterwards.
func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.meshes {
		p.Release()
	}
	for _, p := range b.materials {
		p.Release()
	}
	for _, p := range b.objects {
		p.Release()
	}
	clear(b.meshes)
	clear(b.materials)
	clear(b.objects)
	if b.grid != nil {
		b.grid.Release()
		b.grid = nil
	}
	for key, p := range b.pipelines {
		p.Release()
		delete(b.pipelines, key)
	}
	if b.shadowFrame != nil {
		b.shadowFrame.Release()
		b.shadowFrame = nil
	}
	if b.frame != nil {
		b.frame.Release()
		b.frame = nil
	}
	b.releaseShadowMap()
	b.releaseAttachments()

	if b.whiteView != nil {
		b.whiteView.Release()
	}
	if b.whiteTexture != nil {
		b.whiteTexture.Release()
	}
	for _, s := range []*wgpu.Sampler{b.defaultSampler, b.shadowSampler} {
		if s != nil {
			s.Release()
		}
	}
	b.whiteTexture, b.whiteView, b.defaultSampler, b.shadowSampler = nil, nil, nil, nil

	for _, l := range []*wgpu.BindGroupLayout{b.frameLayout, b.shadowFrameLayout, b.materialLayout, b.objectLayout} {
		if l != nil {
			l.Release()
		}
	}
	b.frameLayout, b.shadowFrameLayout, b.materialLayout, b.objectLayout = nil, nil, nil, nil

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// pipelineKeys lists the pipelines in build order.
var pipelineKeys = []string{pipelinePhong, pipelinePhongDoubleSided, pipelinePhongBlend, pipelineShadow, pipelineGrid}

const (
	pipelinePhong            = "phong"
	pipelinePhongDoubleSided = "phong_double_sided"
	pipelinePhongBlend       = "phong_blend"
	pipelineShadow           = "shadow"
	pipelineGrid             = "grid"
)

// meshVertexLayout matches scene.Geometry.Interleave: position(3) normal(3) uv(2).
var meshVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: 8 * 4,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
	},
}

// shadowVertexLayout reads positions only from the interleaved mesh buffer.
var shadowVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: 8 * 4,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
	},
}

var lineVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: lineVertexStride,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
	},
}

// buildPipelines (re)creates every pipeline for the current surface format and sample count.
func (b *Backend) buildPipelines() error {
	for key, p := range b.pipelines {
		p.Release()
		delete(b.pipelines, key)
	}

	format := *b.surfaceFormat
	samples := uint32(b.sampleCount)
	phong := shaderSource(phongSource)
	phongLayouts := withBindGroupLayouts(b.frameLayout, b.materialLayout, b.objectLayout)

	built := map[string]*pipeline{
		pipelinePhong: newPipeline(pipelinePhong,
			withShader(phong, "vs_main", "fs_main"),
			phongLayouts,
			withVertexLayouts(meshVertexLayout),
			withColorTarget(format, samples),
		),
		pipelinePhongDoubleSided: newPipeline(pipelinePhongDoubleSided,
			withShader(phong, "vs_main", "fs_main"),
			phongLayouts,
			withVertexLayouts(meshVertexLayout),
			withColorTarget(format, samples),
			withCullMode(wgpu.CullModeNone),
		),
		pipelinePhongBlend: newPipeline(pipelinePhongBlend,
			withShader(phong, "vs_main", "fs_main"),
			phongLayouts,
			withVertexLayouts(meshVertexLayout),
			withColorTarget(format, samples),
			withCullMode(wgpu.CullModeNone),
			withBlendEnabled(true),
			withDepthWriteEnabled(false),
		),
		pipelineShadow: newPipeline(pipelineShadow,
			withShader(shaderSource(shadowSource), "vs_shadow", ""),
			withBindGroupLayouts(b.shadowFrameLayout, b.objectLayout),
			withVertexLayouts(shadowVertexLayout),
			withDepthFormat(wgpu.TextureFormatDepth32Float),
			withDepthBias(2, 2.0),
			withCullMode(wgpu.CullModeNone),
		),
		pipelineGrid: newPipeline(pipelineGrid,
			withShader(shaderSource(gridSource), "vs_line", "fs_line"),
			withBindGroupLayouts(b.frameLayout),
			withVertexLayouts(lineVertexLayout),
			withColorTarget(format, samples),
			withTopology(wgpu.PrimitiveTopologyLineList),
			withCullMode(wgpu.CullModeNone),
			withDepthWriteEnabled(false),
		),
	}

	for _, key := range pipelineKeys {
		p := built[key]
		if err := p.build(b.device); err != nil {
			for _, k := range pipelineKeys {
				built[k].Release()
			}
			return fmt.Errorf("build %s pipeline: %w", key, err)
		}
	}
	b.pipelines = built
	b.log.Debugf("built %d pipelines for %v, %d samples", len(built), format, samples)
	return nil
}
