package scene

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrAssetAttached is returned by Attach when the scene already holds an asset.
	ErrAssetAttached = errors.New("scene already has an attached asset")
	// ErrNilAsset is returned by Attach when given a nil node.
	ErrNilAsset = errors.New("cannot attach a nil asset")
)

// Fog is linear distance fog. Its color always equals the scene background.
type Fog struct {
	Enabled bool
	Color   common.Color
	Near    float32
	Far     float32
}

// Factor returns the fog blend factor in [0, 1] for a view-space distance.
func (f Fog) Factor(distance float32) float32 {
	if !f.Enabled || f.Far <= f.Near {
		return 0
	}
	return common.Clamp((distance-f.Near)/(f.Far-f.Near), 0, 1)
}

// Placement is the transform applied to the asset root when it is attached.
type Placement struct {
	Scale  float32
	Offset mgl32.Vec3
	Yaw    float32
}

// Apply overwrites the node's scale, position and rotation with the placement.
func (p Placement) Apply(n *Node) {
	n.Scale = mgl32.Vec3{p.Scale, p.Scale, p.Scale}
	n.Position = p.Offset
	n.SetYaw(p.Yaw)
}

// Scene is the composed, lit environment a single asset is presented in: background and fog, a
// shadow-receiving ground plane, a hemisphere light, a shadow-casting directional light, a grid helper
// and zero or one attached asset root.
//
// Thread-safe: Attach may race with Walk; the asset is published atomically with respect to traversal.
type Scene interface {
	// Name returns the scene name.
	Name() string

	// Background returns the clear color.
	Background() common.Color

	// Fog returns the scene fog. The fog color equals Background.
	Fog() Fog

	// Root returns the root node. The ground plane and, once attached, the asset are its children.
	Root() *Node

	// Ground returns the ground plane mesh node.
	Ground() *Node

	// Hemisphere returns the hemisphere (sky/ground) ambient light.
	Hemisphere() light.Light

	// Directional returns the shadow-casting directional light.
	Directional() light.Light

	// Lights returns every light in the scene, hemisphere first.
	Lights() []light.Light

	// Grid returns the grid helper and whether it is shown.
	Grid() (Grid, bool)

	// Placement returns the transform Attach applies to the asset root.
	Placement() Placement

	// Attach places the asset root and adds it to the scene.
	//
	// Parameters:
	//   - asset: the loaded and bound asset root
	//
	// Returns:
	//   - error: ErrAssetAttached if an asset is already attached, ErrNilAsset for a nil node
	Attach(asset *Node) error

	// Asset returns the attached asset root, or nil if none has been attached.
	Asset() *Node

	// HasAsset reports whether an asset is attached.
	HasAsset() bool

	// Walk visits every visible node depth-first with its world matrix. Hidden nodes and their
	// subtrees are skipped.
	//
	// Parameters:
	//   - fn: the visitor
	Walk(fn func(node *Node, world mgl32.Mat4))

	// MeshCount returns the number of visible mesh nodes.
	MeshCount() int
}

type scene struct {
	mu sync.RWMutex

	name       string
	background common.Color
	fog        Fog

	ground      groundSettings
	hemisphere  hemisphereSettings
	directional directionalSettings

	grid        Grid
	gridVisible bool
	placement   Placement

	root       *Node
	groundNode *Node
	hemiLight  light.Light
	dirLight   light.Light
	asset      *Node
}

var _ Scene = &scene{}

type groundSettings struct {
	width, depth float32
	color        common.Color
	shininess    float32
	y            float32
}

type hemisphereSettings struct {
	sky, ground common.Color
	intensity   float32
	position    mgl32.Vec3
}

type directionalSettings struct {
	color      common.Color
	intensity  float32
	position   mgl32.Vec3
	shadowSize int
}

// NewScene composes a scene. Unset options take the viewer defaults (a light grey background with
// matching fog, a red ground, warm hemisphere light and a cyan directional light casting 1024² shadows).
//
// Parameters:
//   - name: the scene name
//   - options: functional options overriding the defaults
//
// Returns:
//   - Scene: the composed scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		name:       name,
		background: DefaultBackground,
		fog:        Fog{Enabled: true, Near: DefaultFogNear, Far: DefaultFogFar},
		ground: groundSettings{
			width:     DefaultGroundSize,
			depth:     DefaultGroundSize,
			color:     DefaultGroundColor,
			shininess: 0,
			y:         DefaultGroundY,
		},
		hemisphere: hemisphereSettings{
			sky:       DefaultHemisphereSky,
			ground:    DefaultHemisphereGround,
			intensity: 1,
			position:  mgl32.Vec3{0, 50, 0},
		},
		directional: directionalSettings{
			color:      DefaultDirectionalColor,
			intensity:  DefaultDirectionalIntensity,
			position:   mgl32.Vec3{-8, 12, 8},
			shadowSize: DefaultShadowMapSize,
		},
		grid: Grid{
			Size:        DefaultGridSize,
			Divisions:   DefaultGridDivisions,
			CenterColor: DefaultGridCenterColor,
			LineColor:   DefaultGridLineColor,
		},
		gridVisible: true,
		placement:   Placement{Scale: DefaultAssetScale, Offset: mgl32.Vec3{0, DefaultAssetOffsetY, 0}, Yaw: DefaultAssetYaw},
	}
	for _, opt := range options {
		opt(s)
	}
	s.fog.Color = s.background
	s.compose()
	return s
}

func (s *scene) compose() {
	s.root = NewNode(s.name)

	g := s.ground
	s.groundNode = NewNode("ground",
		WithGeometry(NewPlaneGeometry(g.width, g.depth)),
		WithMaterial(material.NewMaterial(
			material.WithName("ground"),
			material.WithColor(g.color),
			material.WithShininess(g.shininess),
		)),
		WithPosition(0, g.y, 0),
	)
	s.groundNode.Rotation = mgl32.QuatRotate(-mgl32.DegToRad(90), mgl32.Vec3{1, 0, 0})
	s.groundNode.ReceiveShadow = true
	s.root.Add(s.groundNode)

	h := s.hemisphere
	s.hemiLight = light.NewLight(light.LightTypeHemisphere,
		light.WithColor(h.sky),
		light.WithGroundColor(h.ground),
		light.WithIntensity(h.intensity),
		light.WithPosition(h.position.X(), h.position.Y(), h.position.Z()),
	)

	d := s.directional
	s.dirLight = light.NewLight(light.LightTypeDirectional,
		light.WithColor(d.color),
		light.WithIntensity(d.intensity),
		light.WithPosition(d.position.X(), d.position.Y(), d.position.Z()),
		light.WithCastsShadows(true),
		light.WithShadowMapSize(d.shadowSize),
	)
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Background() common.Color {
	return s.background
}

func (s *scene) Fog() Fog {
	return s.fog
}

func (s *scene) Root() *Node {
	return s.root
}

func (s *scene) Ground() *Node {
	return s.groundNode
}

func (s *scene) Hemisphere() light.Light {
	return s.hemiLight
}

func (s *scene) Directional() light.Light {
	return s.dirLight
}

func (s *scene) Lights() []light.Light {
	return []light.Light{s.hemiLight, s.dirLight}
}

func (s *scene) Grid() (Grid, bool) {
	return s.grid, s.gridVisible
}

func (s *scene) Placement() Placement {
	return s.placement
}

func (s *scene) Attach(asset *Node) error {
	if asset == nil {
		return ErrNilAsset
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asset != nil {
		return ErrAssetAttached
	}
	s.placement.Apply(asset)
	s.root.Add(asset)
	s.asset = asset
	return nil
}

func (s *scene) Asset() *Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.asset
}

func (s *scene) HasAsset() bool {
	return s.Asset() != nil
}

type walkFrame struct {
	node   *Node
	parent mgl32.Mat4
}

func (s *scene) Walk(fn func(node *Node, world mgl32.Mat4)) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stack := []walkFrame{{node: s.root, parent: mgl32.Ident4()}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node.Hidden {
			continue
		}
		world := f.parent.Mul4(f.node.LocalMatrix())
		fn(f.node, world)
		children := f.node.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, walkFrame{node: children[i], parent: world})
		}
	}
}

func (s *scene) MeshCount() int {
	count := 0
	s.Walk(func(node *Node, _ mgl32.Mat4) {
		if node.HasGeometry() {
			count++
		}
	})
	return count
}
