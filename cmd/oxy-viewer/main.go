// oxy-viewer - single-asset chair viewer
// Loads one glTF chair, binds part materials by node name and shows it on a lit, fogged floor with
// a grid and an orbit camera.
//
// Controls:
//
//	Left drag  - Orbit
//	Right drag - Pan (when controls.pan is set)
//	Scroll     - Zoom
//	Arrows     - Orbit in steps
//	R          - Toggle auto-rotate
//	Esc        - Quit
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/logger"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/webgpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// the window, surface and message loop must stay on the main thread
func init() {
	runtime.LockOSThread()
}

// Environment variables read after loading an optional .env file.
const (
	envConfig = "OXY_VIEWER_CONFIG"
	envModel  = "OXY_VIEWER_MODEL"
)

type options struct {
	configPath string
	modelPath  string
	width      int
	height     int
	profile    bool
	debug      bool
	fallback   bool
	recolors   []string
}

// recolor rebinds one part to a named material once the asset is attached.
type recolor struct {
	part     string
	material material.Material
}

func main() {
	_ = godotenv.Load()

	opts := &options{
		configPath: os.Getenv(envConfig),
		modelPath:  os.Getenv(envModel),
	}

	cmd := &cobra.Command{
		Use:   "oxy-viewer [model.glb]",
		Short: "Single-asset chair viewer",
		Long: `oxy-viewer - single-asset chair viewer

Loads one glTF chair, binds part materials by node name and shows it on a
lit, fogged floor with a grid and an orbit camera.

Controls:
  Left drag  - Orbit
  Right drag - Pan (when controls.pan is set)
  Scroll     - Zoom
  Arrows     - Orbit in steps
  R          - Toggle auto-rotate
  Esc        - Quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.modelPath = args[0]
			}
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			recolors, err := parseRecolors(cfg, opts.recolors)
			if err != nil {
				return err
			}
			return view(cfg, opts.fallback, recolors)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", opts.configPath, "Path to a TOML config file (env "+envConfig+")")
	flags.StringVarP(&opts.modelPath, "model", "m", opts.modelPath, "Path to the .glb/.gltf asset (env "+envModel+")")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Window width in logical pixels")
	cmd.Flags().IntVar(&opts.height, "height", 0, "Window height in logical pixels")
	cmd.Flags().BoolVar(&opts.profile, "profile", false, "Log FPS and memory once per second")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&opts.fallback, "software", false, "Force the software fallback adapter")
	cmd.Flags().StringArrayVar(&opts.recolors, "recolor", nil, "Rebind a part to a configured material, as part=material (repeatable)")

	cmd.AddCommand(infoCommand(opts), configCommand(opts))

	if err := fang.Execute(context.Background(), cmd); err != nil {
		os.Exit(1)
	}
}

// load reads the config file, or the defaults, and applies command line overrides.
func (o *options) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}

	cfg.Model.Path = common.Coalesce(o.modelPath, cfg.Model.Path, config.DefaultModelPath)
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Window.Width = o.width
	}
	if flags.Changed("height") {
		cfg.Window.Height = o.height
	}
	if flags.Changed("profile") {
		cfg.Profile = o.profile
	}
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}
	return cfg, cfg.Validate()
}

// parseRecolors resolves part=material pairs against the materials table.
func parseRecolors(cfg config.Config, pairs []string) ([]recolor, error) {
	out := make([]recolor, 0, len(pairs))
	for _, pair := range pairs {
		part, name, ok := strings.Cut(pair, "=")
		if !ok || part == "" || name == "" {
			return nil, fmt.Errorf("recolor %q: want part=material", pair)
		}
		mat, ok := cfg.Material(name)
		if !ok {
			return nil, fmt.Errorf("recolor %q: unknown material %q", pair, name)
		}
		out = append(out, recolor{part: part, material: mat})
	}
	return out, nil
}

// view opens the window and runs the viewer until it is closed.
func view(cfg config.Config, fallback bool, recolors []recolor) error {
	log := logger.NewDefaultLogger("oxy-viewer", cfg.Debug)

	table, err := cfg.BindingTable()
	if err != nil {
		return err
	}

	w := window.NewWindow(
		window.WithTitle(common.Coalesce(cfg.Window.Title, "oxy-viewer")),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	)
	defer w.Close()

	backend, err := webgpu.NewBackend(w.SurfaceDescriptor(),
		webgpu.WithSampleCount(cfg.MSAASamples()),
		webgpu.WithForceFallbackAdapter(fallback),
		webgpu.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("webgpu: %w", err)
	}

	ctrl := camera.NewCameraController(cfg.ControllerOptions()...)
	cam := camera.NewCamera(append(cfg.CameraOptions(), camera.WithController(ctrl))...)

	eng := engine.NewEngine(
		engine.WithWindow(w),
		engine.WithRenderer(renderer.NewRenderer(backend, cfg.RendererOptions()...)),
		engine.WithScene(scene.NewScene("chair", cfg.SceneOptions()...)),
		engine.WithCamera(cam),
		engine.WithLoader(loader.NewLoader(loader.WithLogger(log))),
		engine.WithBindings(table),
		engine.WithLogger(log),
		engine.WithProfiler(profiler.NewProfiler(log, time.Second)),
		engine.WithProfiling(cfg.Profile),
	)

	log.Infof("loading %s", cfg.Model.Path)
	loaded := eng.LoadAsset(cfg.Model.Path)
	if len(recolors) > 0 {
		go func() {
			<-loaded
			for _, r := range recolors {
				eng.Recolor(r.part, r.material)
			}
		}()
	}
	eng.Run()
	return nil
}

func configCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}
}
