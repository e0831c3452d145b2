package normalize

import (
	"strings"

	"pastegate/internal/doctree"
	"pastegate/internal/editor"
	"pastegate/internal/listmark"
)

// RegisterListItemCleanup installs the prefix-cleanup transform on ed: the
// first meaningful text run of every list item has at most one leading
// bullet/number glyph stripped. Guarded per surface like the rank ceiling.
func RegisterListItemCleanup(ed *editor.Editor) func() {
	if !editor.MarkAttached(ed, "normalize.listitem-cleanup") {
		return func() {}
	}
	unreg := ed.RegisterTransform(doctree.KindListItem, cleanItemPrefix)
	return func() {
		unreg()
		editor.Detach(ed, "normalize.listitem-cleanup")
	}
}

func cleanItemPrefix(tx *editor.Tx, parent doctree.Container, index int, n doctree.Node) bool {
	if !tx.Editable() {
		return false
	}
	item, ok := n.(*doctree.ListItem)
	if !ok {
		return false
	}
	run := firstMeaningfulRun(item)
	if run == nil || run.Format&doctree.FormatCode != 0 {
		return false
	}
	if !listmark.HasPrefix(run.Text) {
		return false
	}
	run.Text = listmark.StripPrefix(run.Text)
	return true
}

// firstMeaningfulRun finds the prefix-stripping subject: the first text run
// that is not empty or whitespace-only, walking into inline containers
// (links) depth-first. Nested lists end the search; the marker belongs to
// this item's own text, not a descendant's.
func firstMeaningfulRun(c doctree.Container) *doctree.TextRun {
	for _, k := range c.Children() {
		switch v := k.(type) {
		case *doctree.TextRun:
			if strings.TrimSpace(listmark.NormalizeSpaces(v.Text)) != "" {
				return v
			}
		case *doctree.Link:
			if run := firstMeaningfulRun(v); run != nil {
				return run
			}
		case *doctree.List:
			return nil
		}
	}
	return nil
}
