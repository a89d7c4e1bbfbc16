// Package binder assigns shared materials to the named sub-parts of a loaded asset.
//
// A binding table is an ordered list of name fragments, each paired with a material. Binding walks the
// whole asset tree once: every mesh node whose name contains a fragment receives that fragment's
// material and records the fragment as its part id. Entries are tested in table order without an early
// exit, so when several fragments match one node the last matching entry wins. Binding also turns on
// shadow casting and receiving for every mesh node, matched or not.
package binder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
)

// ErrEmptyFragment is returned by Validate for a binding entry with an empty fragment. An empty
// fragment would match every mesh node.
var ErrEmptyFragment = errors.New("binding entry has an empty fragment")

// ErrNilMaterial is returned by Validate for a binding entry without a material.
var ErrNilMaterial = errors.New("binding entry has no material")

// Entry pairs a case-sensitive name fragment with the material applied to matching parts.
// Entries that should look the same hold the same Material value.
type Entry struct {
	Fragment string
	Material material.Material
}

// Table is an ordered list of binding entries. Order is significant: later entries override earlier
// ones on the same node.
type Table []Entry

// Validate checks that every entry has a fragment and a material.
//
// Returns:
//   - error: ErrEmptyFragment or ErrNilMaterial wrapped with the entry index, or nil
func (t Table) Validate() error {
	for i, e := range t {
		if e.Fragment == "" {
			return fmt.Errorf("entry %d: %w", i, ErrEmptyFragment)
		}
		if e.Material == nil {
			return fmt.Errorf("entry %d (%q): %w", i, e.Fragment, ErrNilMaterial)
		}
	}
	return nil
}

// Fragments returns the table fragments in order.
func (t Table) Fragments() []string {
	out := make([]string, len(t))
	for i, e := range t {
		out[i] = e.Fragment
	}
	return out
}

// Result summarizes one Bind pass.
type Result struct {
	// Meshes is the number of mesh nodes visited.
	Meshes int
	// Bound is the number of mesh nodes that matched at least one entry.
	Bound int
	// Parts counts bound mesh nodes per winning fragment.
	Parts map[string]int
}

// Bind walks the tree rooted at root depth-first and binds materials to mesh nodes.
//
// For each mesh node every entry is tested in order; each entry whose fragment is a substring of the
// node name overwrites the node's Material (by reference) and PartID. Every mesh node gets CastShadow
// and ReceiveShadow set. Nodes without geometry are left untouched, and an empty table still sets the
// shadow flags.
//
// Parameters:
//   - root: the asset root; nil is a no-op
//   - table: the binding table
//
// Returns:
//   - Result: counts of visited and bound mesh nodes
func Bind(root *scene.Node, table Table) Result {
	res := Result{Parts: make(map[string]int)}
	root.WalkMeshes(func(n *scene.Node) {
		res.Meshes++
		matched := false
		for _, e := range table {
			if strings.Contains(n.Name, e.Fragment) {
				n.Material = e.Material
				n.PartID = e.Fragment
				matched = true
			}
		}
		if matched {
			res.Bound++
			res.Parts[n.PartID]++
		}
		n.CastShadow = true
		n.ReceiveShadow = true
	})
	return res
}

// Recolor assigns mat to every mesh node previously bound to partID.
//
// Parameters:
//   - root: the asset root
//   - partID: the fragment recorded on the nodes by Bind
//   - mat: the new material, shared by all recolored nodes
//
// Returns:
//   - int: the number of nodes recolored
func Recolor(root *scene.Node, partID string, mat material.Material) int {
	if mat == nil {
		return 0
	}
	parts := root.FindParts(partID)
	for _, n := range parts {
		n.Material = mat
	}
	return len(parts)
}

// DefaultParts are the chair part fragments bound by DefaultTable.
var DefaultParts = []string{"back", "base", "cushions", "legs", "supports"}

// DefaultTable binds every default chair part to one shared light grey material.
//
// Returns:
//   - Table: the default binding table
func DefaultTable() Table {
	shared := material.NewMaterial(
		material.WithName("chair"),
		material.WithColor(0xf1f1f1),
		material.WithShininess(10),
	)
	t := make(Table, 0, len(DefaultParts))
	for _, part := range DefaultParts {
		t = append(t, Entry{Fragment: part, Material: shared})
	}
	return t
}
