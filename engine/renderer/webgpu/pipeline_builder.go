package webgpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// pipelineBuilderOption is a functional option used to configure a pipeline during construction.
type pipelineBuilderOption func(*pipeline)

// withShader sets the WGSL source and its entry points. An empty fragment entry makes the pipeline
// depth-only.
//
// Parameters:
//   - source: complete WGSL source
//   - vertexEntry: vertex entry point name
//   - fragmentEntry: fragment entry point name, or ""
//
// Returns:
//   - pipelineBuilderOption: option function to apply
func withShader(source, vertexEntry, fragmentEntry string) pipelineBuilderOption {
	return func(p *pipeline) {
		p.source = source
		p.vertexEntry = vertexEntry
		p.fragmentEntry = fragmentEntry
	}
}

// withBindGroupLayouts sets the bind group layouts in group order.
func withBindGroupLayouts(layouts ...*wgpu.BindGroupLayout) pipelineBuilderOption {
	return func(p *pipeline) {
		p.bindGroupLayouts = layouts
	}
}

// withVertexLayouts sets the vertex buffer layouts.
func withVertexLayouts(layouts ...wgpu.VertexBufferLayout) pipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexLayouts = layouts
	}
}

// withColorTarget sets the color attachment format and sample count.
//
// Parameters:
//   - format: the surface format
//   - sampleCount: MSAA samples of the color and depth attachments
//
// Returns:
//   - pipelineBuilderOption: option function to apply
func withColorTarget(format wgpu.TextureFormat, sampleCount uint32) pipelineBuilderOption {
	return func(p *pipeline) {
		p.colorFormat = format
		p.sampleCount = sampleCount
	}
}

// withDepthFormat sets the depth attachment format.
func withDepthFormat(format wgpu.TextureFormat) pipelineBuilderOption {
	return func(p *pipeline) {
		p.depthFormat = format
	}
}

// withDepthWriteEnabled sets whether depth writing is enabled for this pipeline.
func withDepthWriteEnabled(enabled bool) pipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// withDepthBias sets the constant and slope-scaled depth bias, used by the shadow pass.
//
// Parameters:
//   - bias: constant depth bias
//   - slopeScale: depth bias slope scale
//
// Returns:
//   - pipelineBuilderOption: option function to apply
func withDepthBias(bias int32, slopeScale float32) pipelineBuilderOption {
	return func(p *pipeline) {
		p.depthBias = bias
		p.depthBiasSlopeScale = slopeScale
	}
}

// withBlendEnabled sets whether alpha blending is enabled for this pipeline.
func withBlendEnabled(enabled bool) pipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// withCullMode sets the cull mode for this pipeline.
func withCullMode(mode wgpu.CullMode) pipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// withTopology sets the primitive topology for this pipeline.
func withTopology(topology wgpu.PrimitiveTopology) pipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}
