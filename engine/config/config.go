// Package config holds every tunable of the viewer with defaults matching the stock chair scene, and
// loads overrides from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/binder"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultModelPath is the asset loaded when no model is configured.
const DefaultModelPath = "assets/models/chair.glb"

// Vec3 is a position written as a three element TOML array.
type Vec3 [3]float32

func (v Vec3) mgl() mgl32.Vec3 { return mgl32.Vec3(v) }

// Config is the complete viewer configuration.
type Config struct {
	Window    WindowConfig              `toml:"window"`
	Model     ModelConfig               `toml:"model"`
	Scene     SceneConfig               `toml:"scene"`
	Ground    GroundConfig              `toml:"ground"`
	Lights    LightsConfig              `toml:"lights"`
	Grid      GridConfig                `toml:"grid"`
	Asset     AssetConfig               `toml:"asset"`
	Camera    CameraConfig              `toml:"camera"`
	Controls  ControlsConfig            `toml:"controls"`
	Profile   bool                      `toml:"profile"`
	Debug     bool                      `toml:"debug"`
	Materials map[string]MaterialConfig `toml:"materials"`
	Bindings  []BindingConfig           `toml:"bindings"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  bool   `toml:"vsync"`
	MSAA   bool   `toml:"msaa"`
}

type ModelConfig struct {
	Path string `toml:"path"`
}

type SceneConfig struct {
	Background common.Color `toml:"background"`
	Fog        bool         `toml:"fog"`
	FogNear    float32      `toml:"fog_near"`
	FogFar     float32      `toml:"fog_far"`
}

type GroundConfig struct {
	Width     float32      `toml:"width"`
	Depth     float32      `toml:"depth"`
	Color     common.Color `toml:"color"`
	Shininess float32      `toml:"shininess"`
	Y         float32      `toml:"y"`
}

type LightsConfig struct {
	Hemisphere  HemisphereConfig  `toml:"hemisphere"`
	Directional DirectionalConfig `toml:"directional"`
}

type HemisphereConfig struct {
	Sky       common.Color `toml:"sky"`
	Ground    common.Color `toml:"ground"`
	Intensity float32      `toml:"intensity"`
	Position  Vec3         `toml:"position"`
}

type DirectionalConfig struct {
	Color         common.Color `toml:"color"`
	Intensity     float32      `toml:"intensity"`
	Position      Vec3         `toml:"position"`
	ShadowMapSize int          `toml:"shadow_map_size"`
}

type GridConfig struct {
	Visible   bool    `toml:"visible"`
	Size      float32 `toml:"size"`
	Divisions int     `toml:"divisions"`
}

// AssetConfig is the placement applied to the loaded asset root.
type AssetConfig struct {
	Scale      float32 `toml:"scale"`
	Offset     Vec3    `toml:"offset"`
	YawDegrees float32 `toml:"yaw_degrees"`
}

type CameraConfig struct {
	FovDegrees float32 `toml:"fov_degrees"`
	Near       float32 `toml:"near"`
	Far        float32 `toml:"far"`
	Position   Vec3    `toml:"position"`
	Target     Vec3    `toml:"target"`
}

// ControlsConfig configures the orbit controller. Polar angles are measured from +Y in degrees.
type ControlsConfig struct {
	Damping         bool    `toml:"damping"`
	DampingFactor   float32 `toml:"damping_factor"`
	MinPolarDegrees float32 `toml:"min_polar_degrees"`
	MaxPolarDegrees float32 `toml:"max_polar_degrees"`
	MinDistance     float32 `toml:"min_distance"`
	MaxDistance     float32 `toml:"max_distance"`
	Pan             bool    `toml:"pan"`
	AutoRotate      bool    `toml:"auto_rotate"`
	AutoRotateSpeed float32 `toml:"auto_rotate_speed"`
	RotateSpeed     float32 `toml:"rotate_speed"`
	ZoomSpeed       float32 `toml:"zoom_speed"`
}

type MaterialConfig struct {
	Color     common.Color `toml:"color"`
	Shininess float32      `toml:"shininess"`
}

// BindingConfig is one binding table entry. Material names a key of Config.Materials.
type BindingConfig struct {
	Fragment string `toml:"fragment"`
	Material string `toml:"material"`
}

// Default returns the stock chair viewer configuration.
//
// Returns:
//   - Config: a fully populated configuration
func Default() Config {
	cfg := Config{
		Window: WindowConfig{Title: "oxy-viewer", Width: 1280, Height: 720, VSync: true, MSAA: true},
		Model:  ModelConfig{Path: DefaultModelPath},
		Scene: SceneConfig{
			Background: scene.DefaultBackground,
			Fog:        true,
			FogNear:    scene.DefaultFogNear,
			FogFar:     scene.DefaultFogFar,
		},
		Ground: GroundConfig{
			Width: scene.DefaultGroundSize,
			Depth: scene.DefaultGroundSize,
			Color: scene.DefaultGroundColor,
			Y:     scene.DefaultGroundY,
		},
		Lights: LightsConfig{
			Hemisphere: HemisphereConfig{
				Sky:       scene.DefaultHemisphereSky,
				Ground:    scene.DefaultHemisphereGround,
				Intensity: 1,
				Position:  Vec3{0, 50, 0},
			},
			Directional: DirectionalConfig{
				Color:         scene.DefaultDirectionalColor,
				Intensity:     scene.DefaultDirectionalIntensity,
				Position:      Vec3{-8, 12, 8},
				ShadowMapSize: scene.DefaultShadowMapSize,
			},
		},
		Grid: GridConfig{Visible: true, Size: scene.DefaultGridSize, Divisions: scene.DefaultGridDivisions},
		Asset: AssetConfig{
			Scale:      scene.DefaultAssetScale,
			Offset:     Vec3{0, scene.DefaultAssetOffsetY, 0},
			YawDegrees: 180,
		},
		Camera: CameraConfig{
			FovDegrees: 50,
			Near:       camera.DefaultNear,
			Far:        camera.DefaultFar,
			Position:   Vec3{0, 10, 5},
		},
		Controls: ControlsConfig{
			Damping:         true,
			DampingFactor:   0.1,
			MinPolarDegrees: 60,
			MaxPolarDegrees: 90,
			MinDistance:     1,
			MaxDistance:     100,
			AutoRotateSpeed: 0.2,
			RotateSpeed:     1,
			ZoomSpeed:       1,
		},
	}
	cfg.Materials, cfg.Bindings = defaultBindings()
	return cfg
}

func defaultBindings() (map[string]MaterialConfig, []BindingConfig) {
	materials := map[string]MaterialConfig{"chair": {Color: 0xf1f1f1, Shininess: 10}}
	bindings := make([]BindingConfig, 0, len(binder.DefaultParts))
	for _, part := range binder.DefaultParts {
		bindings = append(bindings, BindingConfig{Fragment: part, Material: "chair"})
	}
	return materials, bindings
}

// Load reads a TOML file over the defaults. Unknown keys are rejected. A file that sets neither
// materials nor bindings keeps the default binding table.
//
// Parameters:
//   - path: the TOML file to read
//
// Returns:
//   - Config: the merged configuration
//   - error: error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r over the defaults and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	cfg.Materials = nil
	cfg.Bindings = nil

	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strict.String())
		}
		return Config{}, fmt.Errorf("decode: %w", err)
	}

	if cfg.Materials == nil && cfg.Bindings == nil {
		cfg.Materials, cfg.Bindings = defaultBindings()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the viewer cannot run with.
//
// Returns:
//   - error: an error wrapping ErrInvalidConfig, or nil
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return invalid("window size %dx%d", c.Window.Width, c.Window.Height)
	case c.Model.Path == "":
		return invalid("model path is empty")
	case c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180:
		return invalid("camera fov %g", c.Camera.FovDegrees)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return invalid("camera clip range [%g, %g]", c.Camera.Near, c.Camera.Far)
	case c.Controls.DampingFactor <= 0 || c.Controls.DampingFactor > 1:
		return invalid("damping factor %g", c.Controls.DampingFactor)
	case c.Controls.MinPolarDegrees < 0 || c.Controls.MaxPolarDegrees > 180 ||
		c.Controls.MinPolarDegrees > c.Controls.MaxPolarDegrees:
		return invalid("polar range [%g, %g]", c.Controls.MinPolarDegrees, c.Controls.MaxPolarDegrees)
	case c.Controls.MinDistance <= 0 || c.Controls.MaxDistance < c.Controls.MinDistance:
		return invalid("distance range [%g, %g]", c.Controls.MinDistance, c.Controls.MaxDistance)
	case c.Lights.Directional.ShadowMapSize <= 0:
		return invalid("shadow map size %d", c.Lights.Directional.ShadowMapSize)
	case c.Grid.Divisions <= 0:
		return invalid("grid divisions %d", c.Grid.Divisions)
	case c.Asset.Scale <= 0:
		return invalid("asset scale %g", c.Asset.Scale)
	}
	for i, b := range c.Bindings {
		if b.Fragment == "" {
			return fmt.Errorf("%w: binding %d: %w", ErrInvalidConfig, i, binder.ErrEmptyFragment)
		}
		if _, ok := c.Materials[b.Material]; !ok {
			return invalid("binding %d (%q) names unknown material %q", i, b.Fragment, b.Material)
		}
	}
	return nil
}

// SceneOptions converts the scene, ground, light, grid and asset sections into scene builder options.
func (c Config) SceneOptions() []scene.SceneBuilderOption {
	opts := []scene.SceneBuilderOption{
		scene.WithBackground(c.Scene.Background),
		scene.WithGround(c.Ground.Width, c.Ground.Depth, c.Ground.Color, c.Ground.Shininess, c.Ground.Y),
		scene.WithHemisphereLight(c.Lights.Hemisphere.Sky, c.Lights.Hemisphere.Ground,
			c.Lights.Hemisphere.Intensity, c.Lights.Hemisphere.Position.mgl()),
		scene.WithDirectionalLight(c.Lights.Directional.Color, c.Lights.Directional.Intensity,
			c.Lights.Directional.Position.mgl(), c.Lights.Directional.ShadowMapSize),
		scene.WithGrid(c.Grid.Size, c.Grid.Divisions),
		scene.WithGridVisible(c.Grid.Visible),
		scene.WithPlacement(c.Asset.Scale, c.Asset.Offset.mgl(), mgl32.DegToRad(c.Asset.YawDegrees)),
	}
	if c.Scene.Fog {
		opts = append(opts, scene.WithFog(c.Scene.FogNear, c.Scene.FogFar))
	} else {
		opts = append(opts, scene.WithoutFog())
	}
	return opts
}

// CameraOptions returns the perspective camera options. The aspect follows the window size.
func (c Config) CameraOptions() []camera.CameraBuilderOption {
	return []camera.CameraBuilderOption{
		camera.WithFov(mgl32.DegToRad(c.Camera.FovDegrees)),
		camera.WithNear(c.Camera.Near),
		camera.WithFar(c.Camera.Far),
		camera.WithAspect(float32(c.Window.Width) / float32(c.Window.Height)),
	}
}

// ControllerOptions returns the orbit controller options.
func (c Config) ControllerOptions() []camera.CameraControllerOption {
	p, t := c.Camera.Position, c.Camera.Target
	return []camera.CameraControllerOption{
		camera.WithPosition(p[0], p[1], p[2]),
		camera.WithTarget(t[0], t[1], t[2]),
		camera.WithPolarRange(mgl32.DegToRad(c.Controls.MinPolarDegrees), mgl32.DegToRad(c.Controls.MaxPolarDegrees)),
		camera.WithDistanceRange(c.Controls.MinDistance, c.Controls.MaxDistance),
		camera.WithDamping(c.Controls.Damping, c.Controls.DampingFactor),
		camera.WithPan(c.Controls.Pan),
		camera.WithAutoRotate(c.Controls.AutoRotate, c.Controls.AutoRotateSpeed),
		camera.WithRotateSpeed(c.Controls.RotateSpeed),
		camera.WithZoomSpeed(c.Controls.ZoomSpeed),
	}
}

// RendererOptions returns the renderer options for the window size and present mode.
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	mode := renderer.PresentModeVSync
	if !c.Window.VSync {
		mode = renderer.PresentModeUncapped
	}
	return []renderer.RendererBuilderOption{
		renderer.WithSize(c.Window.Width, c.Window.Height),
		renderer.WithPresentMode(mode),
	}
}

// MSAASamples returns the sample count for the window MSAA setting.
func (c Config) MSAASamples() renderer.MSAASampleCount {
	if c.Window.MSAA {
		return renderer.MSAA4x
	}
	return renderer.MSAAOff
}

// BindingTable builds the binding table. Entries naming the same material share one Material value.
//
// Returns:
//   - binder.Table: the ordered binding table
//   - error: error if the configuration does not validate
func (c Config) BindingTable() (binder.Table, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(c.Materials))
	for name := range c.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	shared := make(map[string]material.Material, len(names))
	for _, name := range names {
		mc := c.Materials[name]
		shared[name] = material.NewMaterial(
			material.WithName(name),
			material.WithColor(mc.Color),
			material.WithShininess(mc.Shininess),
		)
	}

	table := make(binder.Table, 0, len(c.Bindings))
	for _, b := range c.Bindings {
		table = append(table, binder.Entry{Fragment: b.Fragment, Material: shared[b.Material]})
	}
	return table, nil
}

// Material returns the named material from the materials table.
//
// Returns:
//   - material.Material: a new material built from the entry
//   - bool: false if the name is unknown
func (c Config) Material(name string) (material.Material, bool) {
	mc, ok := c.Materials[name]
	if !ok {
		return nil, false
	}
	return material.NewMaterial(
		material.WithName(name),
		material.WithColor(mc.Color),
		material.WithShininess(mc.Shininess),
	), true
}
