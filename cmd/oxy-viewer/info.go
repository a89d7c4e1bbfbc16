package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/engine/binder"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/logger"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/spf13/cobra"
)

func infoCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info [model.glb]",
		Short: "Load a model and report its meshes and part bindings",
		Long:  "Load a model without opening a window, apply the configured binding table and print mesh, triangle and part counts.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.modelPath = args[0]
			}
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			table, err := cfg.BindingTable()
			if err != nil {
				return err
			}

			ld := loader.NewLoader(loader.WithLogger(logger.NewDefaultLogger("info", cfg.Debug)))
			defer ld.Close()
			res := <-ld.Load(cmd.Context(), cfg.Model.Path)
			if res.Err != nil {
				return res.Err
			}
			return writeInfo(cmd.OutOrStdout(), res, table)
		},
	}
}

// writeInfo binds the loaded tree and prints a summary of it.
func writeInfo(w io.Writer, res loader.Result, table binder.Table) error {
	bound := binder.Bind(res.Root, table)

	var triangles, vertices int
	var unbound []string
	res.Root.WalkMeshes(func(n *scene.Node) {
		triangles += n.Geometry.TriangleCount()
		vertices += n.Geometry.VertexCount()
		if n.PartID == "" {
			unbound = append(unbound, n.Name)
		}
	})

	parts := make([]string, 0, len(bound.Parts))
	for id, count := range bound.Parts {
		parts = append(parts, fmt.Sprintf("%s=%d", id, count))
	}
	slices.Sort(parts)
	slices.Sort(unbound)

	b := &strings.Builder{}
	fmt.Fprintf(b, "File:       %s\n", res.Path)
	fmt.Fprintf(b, "Decoded in: %s\n", res.Duration)
	fmt.Fprintf(b, "Nodes:      %d\n", res.Root.NodeCount())
	fmt.Fprintf(b, "Meshes:     %d\n", bound.Meshes)
	fmt.Fprintf(b, "Vertices:   %d\n", vertices)
	fmt.Fprintf(b, "Triangles:  %d\n", triangles)
	fmt.Fprintf(b, "Bound:      %d/%d\n", bound.Bound, bound.Meshes)
	if len(parts) > 0 {
		fmt.Fprintf(b, "Parts:      %s\n", strings.Join(parts, " "))
	}
	if len(unbound) > 0 {
		fmt.Fprintf(b, "Unbound:    %s\n", strings.Join(unbound, " "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
