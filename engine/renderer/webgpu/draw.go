package webgpu

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// preparedDraw is a draw item with its GPU resources resolved.
type preparedDraw struct {
	mesh     *bindGroupProvider
	material *bindGroupProvider
	object   *bindGroupProvider
	pipeline string
	caster   bool
}

// pipelineFor picks the Phong variant for a material.
func pipelineFor(m material.Material) string {
	switch {
	case m.Opacity() < 1:
		return pipelinePhongBlend
	case m.DoubleSided():
		return pipelinePhongDoubleSided
	default:
		return pipelinePhong
	}
}

// DrawFrame uploads the frame's uniforms, renders the shadow map when the directional light casts
// shadows, then draws the meshes and grid into the surface and presents it.
func (b *Backend) DrawFrame(frame *renderer.Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.configureErr != nil {
		return b.configureErr
	}
	if b.surfaceFormat == nil || len(b.pipelines) == 0 {
		return ErrSurfaceNotConfigured
	}

	shadows := frame.ShadowMapSize > 0
	if err := b.ensureShadowMap(frame.ShadowMapSize); err != nil {
		return err
	}

	sceneUniform := newGPUSceneUniform(frame.Fog, !b.srgbSurface)
	writes := []bufferWrite{
		{provider: b.frame, binding: frameBindingCamera, data: frame.Camera.Marshal()},
		{provider: b.frame, binding: frameBindingLights, data: frame.Lights.Marshal()},
		{provider: b.frame, binding: frameBindingScene, data: sceneUniform.Marshal()},
	}

	seenMeshes := make(map[*scene.Geometry]bool, len(frame.Draws))
	seenMaterials := make(map[material.Material]bool)
	seenObjects := make(map[*scene.Node]bool, len(frame.Draws))
	draws := make([]preparedDraw, 0, len(frame.Draws))
	for _, d := range frame.Draws {
		if d.Geometry == nil || d.Material == nil || d.Node == nil {
			continue
		}
		mesh, err := b.meshFor(d.Geometry)
		if err != nil {
			return err
		}
		mat, err := b.materialFor(d.Material)
		if err != nil {
			return err
		}
		obj, err := b.objectFor(d.Node)
		if err != nil {
			return err
		}

		if !seenMaterials[d.Material] {
			mu := newGPUMaterialUniform(d.Material, mat.textured())
			writes = append(writes, bufferWrite{provider: mat, binding: materialBindingUniform, data: mu.Marshal()})
		}
		ou := newGPUObjectUniform(d.Model, d.Normal, d.ReceiveShadow)
		writes = append(writes, bufferWrite{provider: obj, binding: 0, data: ou.Marshal()})

		seenMeshes[d.Geometry] = true
		seenMaterials[d.Material] = true
		seenObjects[d.Node] = true
		draws = append(draws, preparedDraw{
			mesh:     mesh,
			material: mat,
			object:   obj,
			pipeline: pipelineFor(d.Material),
			caster:   d.CastShadow,
		})
	}
	// blended surfaces draw after everything opaque
	slices.SortStableFunc(draws, func(x, y preparedDraw) int {
		xb, yb := x.pipeline == pipelinePhongBlend, y.pipeline == pipelinePhongBlend
		switch {
		case xb == yb:
			return 0
		case xb:
			return 1
		default:
			return -1
		}
	})

	if err := b.updateGrid(frame.Grid); err != nil {
		return err
	}
	for _, w := range writes {
		b.queue.WriteBuffer(w.provider.buffers[w.binding], 0, w.data)
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	if shadows {
		b.encodeShadowPass(encoder, draws)
	}
	b.encodeMainPass(encoder, view, frame, draws)

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish frame: %w", err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.surface.Present()

	b.sweep(seenMeshes, seenMaterials, seenObjects)
	return nil
}

// encodeShadowPass renders every caster's depth from the directional light into the shadow map.
func (b *Backend) encodeShadowPass(encoder *wgpu.CommandEncoder, draws []preparedDraw) {
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.shadowView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	pass.SetPipeline(b.pipelines[pipelineShadow].renderPipeline)
	pass.SetBindGroup(0, b.shadowFrame.bindGroup, nil)
	for _, d := range draws {
		if !d.caster {
			continue
		}
		pass.SetBindGroup(1, d.object.bindGroup, nil)
		pass.SetVertexBuffer(0, d.mesh.vertexBuffer, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(d.mesh.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(d.mesh.indexCount), 1, 0, 0, 0)
	}
	pass.End()
	pass.Release()
}

// encodeMainPass draws opaque meshes, the grid, then blended meshes. With MSAA the multisampled
// texture is the color attachment and the swapchain view is its resolve target.
func (b *Backend) encodeMainPass(encoder *wgpu.CommandEncoder, view *wgpu.TextureView, frame *renderer.Frame, draws []preparedDraw) {
	bg := clearValue(frame.ClearColor, b.srgbSurface)
	color := wgpu.RenderPassColorAttachment{
		View:       view,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: wgpu.Color{R: bg[0], G: bg[1], B: bg[2], A: 1.0},
	}
	if b.sampleCount > 1 {
		color.View = b.msaaView
		color.ResolveTarget = view
		color.StoreOp = wgpu.StoreOpDiscard
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})

	current := ""
	gridDrawn := false
	drawGrid := func() {
		gridDrawn = true
		if b.grid == nil || len(frame.Grid) == 0 {
			return
		}
		pass.SetPipeline(b.pipelines[pipelineGrid].renderPipeline)
		pass.SetBindGroup(0, b.frame.bindGroup, nil)
		pass.SetVertexBuffer(0, b.grid.vertexBuffer, 0, wgpu.WholeSize)
		pass.Draw(uint32(b.grid.indexCount), 1, 0, 0)
		current = pipelineGrid
	}

	for _, d := range draws {
		if d.pipeline == pipelinePhongBlend && !gridDrawn {
			drawGrid()
		}
		if d.pipeline != current {
			pass.SetPipeline(b.pipelines[d.pipeline].renderPipeline)
			pass.SetBindGroup(0, b.frame.bindGroup, nil)
			current = d.pipeline
		}
		pass.SetBindGroup(1, d.material.bindGroup, nil)
		pass.SetBindGroup(2, d.object.bindGroup, nil)
		pass.SetVertexBuffer(0, d.mesh.vertexBuffer, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(d.mesh.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(d.mesh.indexCount), 1, 0, 0, 0)
	}
	if !gridDrawn {
		drawGrid()
	}

	pass.End()
	pass.Release()
}
