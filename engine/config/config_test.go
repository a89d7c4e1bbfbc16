package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/binder"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultModelPath, cfg.Model.Path)
	assert.Equal(t, common.Color(0xf1f1f1), cfg.Scene.Background)
	assert.Equal(t, common.Color(0x00ffff), cfg.Lights.Directional.Color)
	assert.Equal(t, 1024, cfg.Lights.Directional.ShadowMapSize)
	assert.Len(t, cfg.Bindings, len(binder.DefaultParts))
}

func TestDefaultBindingTableSharesMaterial(t *testing.T) {
	table, err := Default().BindingTable()
	require.NoError(t, err)
	require.Len(t, table, 5)
	assert.Equal(t, binder.DefaultParts, table.Fragments())
	for _, e := range table[1:] {
		assert.Same(t, table[0].Material, e.Material)
	}
	assert.Equal(t, common.Color(0xf1f1f1), table[0].Material.Color())
	assert.Equal(t, float32(10), table[0].Material.Shininess())
}

func TestDecodeOverridesDefaults(t *testing.T) {
	src := `
[window]
width = 800
height = 600

[scene]
background = "#202020"

[camera]
position = [1.0, 2.0, 3.0]

[materials.wood]
color = "0x8b5a2b"
shininess = 5

[materials.fabric]
color = "#3050a0"

[[bindings]]
fragment = "legs"
material = "wood"

[[bindings]]
fragment = "cushions"
material = "fabric"

[[bindings]]
fragment = "back_legs"
material = "wood"
`
	cfg, err := Decode(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, common.Color(0x202020), cfg.Scene.Background)
	assert.Equal(t, Vec3{1, 2, 3}, cfg.Camera.Position)
	// untouched sections keep their defaults
	assert.Equal(t, float32(20), cfg.Scene.FogNear)

	table, err := cfg.BindingTable()
	require.NoError(t, err)
	require.Len(t, table, 3)
	assert.Equal(t, []string{"legs", "cushions", "back_legs"}, table.Fragments())
	assert.Same(t, table[0].Material, table[2].Material)
	assert.NotSame(t, table[0].Material, table[1].Material)
	assert.Equal(t, common.Color(0x8b5a2b), table[0].Material.Color())
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("[window]\nwidht = 10\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestDecodeRejectsBadColor(t *testing.T) {
	_, err := Decode(strings.NewReader("[scene]\nbackground = \"#zzzzzz\"\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"empty model", func(c *Config) { c.Model.Path = "" }},
		{"near beyond far", func(c *Config) { c.Camera.Near = 2000 }},
		{"damping above one", func(c *Config) { c.Controls.DampingFactor = 1.5 }},
		{"reversed polar range", func(c *Config) { c.Controls.MinPolarDegrees = 100 }},
		{"no shadow map", func(c *Config) { c.Lights.Directional.ShadowMapSize = 0 }},
		{"empty fragment", func(c *Config) { c.Bindings = append(c.Bindings, BindingConfig{Material: "chair"}) }},
		{"unknown material", func(c *Config) { c.Bindings[0].Material = "steel" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidateEmptyFragmentWrapsBinderError(t *testing.T) {
	cfg := Default()
	cfg.Bindings[2].Fragment = ""
	assert.ErrorIs(t, cfg.Validate(), binder.ErrEmptyFragment)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.toml")
	require.NoError(t, os.WriteFile(path, []byte("[model]\npath = \"other.gltf\"\n[controls]\nauto_rotate = true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "other.gltf", cfg.Model.Path)
	assert.True(t, cfg.Controls.AutoRotate)
	assert.Len(t, cfg.Bindings, 5)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSceneOptionsBuildDefaultScene(t *testing.T) {
	s := scene.NewScene("test", Default().SceneOptions()...)

	assert.Equal(t, common.Color(0xf1f1f1), s.Background())
	fog := s.Fog()
	assert.True(t, fog.Enabled)
	assert.Equal(t, s.Background(), fog.Color)
	assert.Equal(t, float32(20), fog.Near)
	assert.Equal(t, float32(100), fog.Far)

	p := s.Placement()
	assert.Equal(t, float32(2), p.Scale)
	assert.InDelta(t, math.Pi, float64(p.Yaw), 1e-5)

	grid, visible := s.Grid()
	assert.True(t, visible)
	assert.Equal(t, 1, grid.Divisions)
}

func TestSceneOptionsWithoutFog(t *testing.T) {
	cfg := Default()
	cfg.Scene.Fog = false
	s := scene.NewScene("test", cfg.SceneOptions()...)
	assert.False(t, s.Fog().Enabled)
}

func TestCameraAndControllerOptions(t *testing.T) {
	cfg := Default()
	ctrl := camera.NewCameraController(cfg.ControllerOptions()...)
	cam := camera.NewCamera(append(cfg.CameraOptions(), camera.WithController(ctrl))...)

	assert.InDelta(t, 50*math.Pi/180, float64(cam.Fov()), 1e-5)
	assert.InDelta(t, 1280.0/720.0, float64(cam.Aspect()), 1e-5)

	lo, hi := ctrl.PolarRange()
	assert.InDelta(t, math.Pi/3, float64(lo), 1e-5)
	assert.InDelta(t, math.Pi/2, float64(hi), 1e-5)
	assert.InDelta(t, 0.1, float64(ctrl.DampingFactor()), 1e-6)
	assert.False(t, ctrl.PanEnabled())
}

func TestRendererSettings(t *testing.T) {
	cfg := Default()
	assert.Equal(t, renderer.MSAA4x, cfg.MSAASamples())
	cfg.Window.MSAA = false
	assert.Equal(t, renderer.MSAAOff, cfg.MSAASamples())

	r := renderer.NewRenderer(renderer.NewHeadlessBackend(), cfg.RendererOptions()...)
	w, h := r.Size()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
}
