package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/binder"
	"github.com/Carmen-Shannon/oxy-viewer/engine/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quad() *scene.Geometry {
	g, err := scene.NewGeometry([]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}, nil, nil, []uint32{0, 1, 2, 0, 2, 3})
	if err != nil {
		panic(err)
	}
	return g
}

func TestWriteInfo(t *testing.T) {
	root := scene.NewNode("chair", scene.WithChildren(
		scene.NewNode("legs_front", scene.WithGeometry(quad())),
		scene.NewNode("legs_back", scene.WithGeometry(quad())),
		scene.NewNode("screws", scene.WithGeometry(quad())),
	))
	table := binder.Table{{Fragment: "legs", Material: material.NewMaterial(material.WithName("wood"))}}

	var out bytes.Buffer
	err := writeInfo(&out, loader.Result{Path: "chair.glb", Root: root, Duration: time.Millisecond}, table)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "File:       chair.glb")
	assert.Contains(t, text, "Nodes:      4")
	assert.Contains(t, text, "Meshes:     3")
	assert.Contains(t, text, "Vertices:   12")
	assert.Contains(t, text, "Triangles:  6")
	assert.Contains(t, text, "Bound:      2/3")
	assert.Contains(t, text, "Parts:      legs=2")
	assert.Contains(t, text, "Unbound:    screws")
}

func newFlagCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().IntVar(&opts.width, "width", 0, "")
	cmd.Flags().IntVar(&opts.height, "height", 0, "")
	cmd.Flags().BoolVar(&opts.profile, "profile", false, "")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "")
	return cmd
}

func TestOptionsLoadAppliesOverrides(t *testing.T) {
	opts := &options{modelPath: "other.glb"}
	cmd := newFlagCommand(opts)
	require.NoError(t, cmd.Flags().Parse([]string{"--width", "640", "--profile"}))

	cfg, err := opts.load(cmd)
	require.NoError(t, err)
	assert.Equal(t, "other.glb", cfg.Model.Path)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.True(t, cfg.Profile)
	assert.False(t, cfg.Debug)
}

func TestOptionsLoadRejectsInvalidSize(t *testing.T) {
	opts := &options{}
	cmd := newFlagCommand(opts)
	require.NoError(t, cmd.Flags().Parse([]string{"--height", "0"}))

	_, err := opts.load(cmd)
	assert.Error(t, err)
}

func TestOptionsLoadMissingConfig(t *testing.T) {
	opts := &options{configPath: "does-not-exist.toml"}
	_, err := opts.load(newFlagCommand(opts))
	assert.Error(t, err)
}

func TestParseRecolors(t *testing.T) {
	cfg := config.Default()
	cfg.Materials["walnut"] = config.MaterialConfig{Color: 0x5c4033, Shininess: 30}

	recolors, err := parseRecolors(cfg, []string{"legs=walnut", "back=chair"})
	require.NoError(t, err)
	require.Len(t, recolors, 2)
	assert.Equal(t, "legs", recolors[0].part)
	assert.Equal(t, "walnut", recolors[0].material.Name())
	assert.EqualValues(t, 0x5c4033, recolors[0].material.Color())
	assert.Equal(t, float32(30), recolors[0].material.Shininess())
	assert.EqualValues(t, 0xf1f1f1, recolors[1].material.Color())

	_, err = parseRecolors(cfg, []string{"legs=oak"})
	assert.ErrorContains(t, err, "unknown material")
	_, err = parseRecolors(cfg, []string{"legs"})
	assert.ErrorContains(t, err, "want part=material")
	_, err = parseRecolors(cfg, []string{"=walnut"})
	assert.Error(t, err)
}
