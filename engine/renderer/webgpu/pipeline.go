package webgpu

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

var errNoShader = errors.New("pipeline has no shader source")

// pipeline describes one render pipeline and holds it once built. Pipelines without a fragment entry
// point are depth-only (the shadow pass).
type pipeline struct {
	// key is the unique identifier for this pipeline, used for labels
	key string

	source        string
	vertexEntry   string
	fragmentEntry string

	bindGroupLayouts []*wgpu.BindGroupLayout
	vertexLayouts    []wgpu.VertexBufferLayout

	colorFormat wgpu.TextureFormat
	depthFormat wgpu.TextureFormat
	sampleCount uint32

	depthWriteEnabled   bool
	depthBias           int32
	depthBiasSlopeScale float32
	blendEnabled        bool
	cullMode            wgpu.CullMode
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
	writeMask           wgpu.ColorWriteMask
	blendState          *wgpu.BlendState

	layout         *wgpu.PipelineLayout
	renderPipeline *wgpu.RenderPipeline
}

// newPipeline creates a pipeline description with the defaults of an opaque, depth tested, back-face
// culled triangle list.
//
// Parameters:
//   - key: unique pipeline name
//   - options: variadic list of pipelineBuilderOption functions
//
// Returns:
//   - *pipeline: the unbuilt pipeline
func newPipeline(key string, options ...pipelineBuilderOption) *pipeline {
	p := &pipeline{
		key:               key,
		depthFormat:       wgpu.TextureFormatDepth24Plus,
		sampleCount:       1,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeBack,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// build compiles the shader and creates the pipeline layout and render pipeline on the device.
func (p *pipeline) build(device *wgpu.Device) error {
	if p.source == "" || p.vertexEntry == "" {
		return errNoShader
	}

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.key + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.source,
		},
	})
	if err != nil {
		return err
	}
	defer module.Release()

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.key,
		BindGroupLayouts: p.bindGroupLayouts,
	})
	if err != nil {
		return err
	}

	var fragment *wgpu.FragmentState
	if p.fragmentEntry != "" {
		target := wgpu.ColorTargetState{
			Format:    p.colorFormat,
			WriteMask: p.writeMask,
		}
		if p.blendEnabled {
			target.Blend = p.blendState
		}
		fragment = &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.fragmentEntry,
			Targets:    []wgpu.ColorTargetState{target},
		}
	}

	created, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.key + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.vertexEntry,
			Buffers:    p.vertexLayouts,
		},
		Fragment: fragment,
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: p.sampleCount,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:              p.depthFormat,
			DepthWriteEnabled:   p.depthWriteEnabled,
			DepthCompare:        wgpu.CompareFunctionLessEqual,
			DepthBias:           p.depthBias,
			DepthBiasSlopeScale: p.depthBiasSlopeScale,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		layout.Release()
		return err
	}

	p.layout = layout
	p.renderPipeline = created
	return nil
}

// Release frees the built pipeline.
func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
}
