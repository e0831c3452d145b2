// Package normalize holds the tree-rewrite rules the editor runs after every
// transaction: the heading rank ceiling and list-item prefix cleanup.
package normalize

import (
	"pastegate/internal/doctree"
	"pastegate/internal/editor"
)

// MaxRank is the deepest heading rank allowed in the tree.
const MaxRank = 3

// AllowedRanks returns the heading ranks the tree may contain.
func AllowedRanks() []int {
	ranks := make([]int, MaxRank)
	for i := range ranks {
		ranks[i] = i + 1
	}
	return ranks
}

// IsAllowedRank reports whether rank may appear in a settled tree.
func IsAllowedRank(rank int) bool {
	return rank >= 1 && rank <= MaxRank
}

// RegisterHeadingCeiling installs the rank-ceiling transform on ed. Any
// heading whose rank exceeds MaxRank is replaced, within the enclosing
// transaction, by a fresh heading at MaxRank carrying the original's format
// mask, indent, direction, and children in order. Registering twice against
// the same surface is a no-op; the returned function unregisters.
func RegisterHeadingCeiling(ed *editor.Editor) func() {
	if !editor.MarkAttached(ed, "normalize.heading-ceiling") {
		return func() {}
	}
	unreg := ed.RegisterTransform(doctree.KindHeading, capHeading)
	return func() {
		unreg()
		editor.Detach(ed, "normalize.heading-ceiling")
	}
}

// capHeading rewrites one excess-rank heading. It is idempotent: a compliant
// heading produces no mutation and no allocation. It does not care how the
// excess rank arose, which is what gives it universal coverage.
func capHeading(tx *editor.Tx, parent doctree.Container, index int, n doctree.Node) bool {
	if !tx.Editable() {
		return false
	}
	h, ok := n.(*doctree.Heading)
	if !ok || h.Rank <= MaxRank {
		return false
	}
	repl := &doctree.Heading{
		Rank:      MaxRank,
		Format:    h.Format,
		Indent:    h.Indent,
		Direction: h.Direction,
	}
	repl.SetChildren(doctree.DetachChildren(h))
	doctree.ReplaceChild(parent, index, repl)
	return true
}
