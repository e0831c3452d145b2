// Package editor provides the host-engine surface the ingestion pipeline
// runs against: a document tree behind a transaction primitive, an undo/redo
// stack with exactly one entry per committed transaction, node transforms
// invoked in a settle loop after every mutation, and a block-position
// selection cursor.
package editor

import (
	"errors"
	"sync"

	"pastegate/internal/doctree"
)

var (
	// ErrReadOnly is returned when a transaction is attempted on a
	// non-editable surface.
	ErrReadOnly = errors.New("editor is read-only")
	// ErrNoSelection is returned when an insertion requires a positioned
	// selection and none exists.
	ErrNoSelection = errors.New("no valid selection")
)

// maxSettlePasses bounds the settle loop so a misbehaving transform cannot
// spin the editor forever.
const maxSettlePasses = 16

// TransformFunc is invoked once per matching node introduced by a
// transaction, inside the same transaction. parent and index locate the
// node; the function may rewrite the tree through them. It returns true iff
// it mutated anything.
type TransformFunc func(tx *Tx, parent doctree.Container, index int, n doctree.Node) bool

type transformEntry struct {
	kind doctree.Kind
	fn   TransformFunc
}

// Selection is a collapsed cursor between block positions: Block is the
// child index in the document root where the next insertion lands.
type Selection struct {
	Block int
}

// Editor owns one document tree. All mutation goes through Update, and the
// editor serializes transactions: concurrent callers (paste handlers,
// import workers) block until the current transaction commits. fn must not
// call Update re-entrantly; nested mutation goes through the supplied Tx.
type Editor struct {
	mu sync.Mutex

	doc      *doctree.Document
	editable bool
	sel      *Selection

	undo []*doctree.Document
	redo []*doctree.Document

	transforms []*transformEntry
}

// New creates an editable editor with an empty document and a selection
// positioned at the start.
func New() *Editor {
	return &Editor{
		doc:      &doctree.Document{},
		editable: true,
		sel:      &Selection{Block: 0},
	}
}

// Document returns the current tree. Callers outside a transaction must not
// mutate it; callers that may race a transaction use Snapshot instead.
func (ed *Editor) Document() *doctree.Document {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.doc
}

// Snapshot returns a deep copy of the current tree, safe to read while
// transactions commit concurrently.
func (ed *Editor) Snapshot() *doctree.Document {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.doc.CloneDocument()
}

// Editable reports whether the surface accepts mutations.
func (ed *Editor) Editable() bool {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.editable
}

// SetEditable toggles read-only mode.
func (ed *Editor) SetEditable(v bool) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.editable = v
}

// Selection returns the current selection, or nil when none exists.
func (ed *Editor) Selection() *Selection {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.sel
}

// SetSelection positions the cursor at block index i.
func (ed *Editor) SetSelection(i int) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.sel = &Selection{Block: i}
}

// ClearSelection removes the selection.
func (ed *Editor) ClearSelection() {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.sel = nil
}

// HasSelection reports whether a valid, positioned selection exists.
func (ed *Editor) HasSelection() bool {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.hasSelection()
}

func (ed *Editor) hasSelection() bool {
	return ed.sel != nil && ed.sel.Block >= 0 && ed.sel.Block <= len(ed.doc.Children())
}

// RegisterTransform registers fn to run against every node a transaction
// introduces, matched by kind, before the transaction commits. The returned
// function unregisters it.
func (ed *Editor) RegisterTransform(kind doctree.Kind, fn TransformFunc) func() {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	entry := &transformEntry{kind: kind, fn: fn}
	ed.transforms = append(ed.transforms, entry)
	return func() {
		ed.mu.Lock()
		defer ed.mu.Unlock()
		for i, e := range ed.transforms {
			if e == entry {
				ed.transforms = append(ed.transforms[:i], ed.transforms[i+1:]...)
				return
			}
		}
	}
}

// Update runs fn with tree-write access, settles registered transforms over
// the nodes the transaction introduced, and commits the result as exactly
// one undo step. If fn returns an error the tree and selection are restored
// to their pre-transaction state and no undo entry is produced. The editor's
// lock is held for the whole transaction.
func (ed *Editor) Update(fn func(tx *Tx) error) error {
	ed.mu.Lock()
	defer ed.mu.Unlock()

	if !ed.editable {
		return ErrReadOnly
	}

	before := ed.doc.CloneDocument()
	selBefore := ed.sel

	tx := &Tx{ed: ed}
	if err := fn(tx); err != nil {
		ed.doc = before
		ed.sel = selBefore
		return err
	}

	ed.settle(tx)

	if !tx.dirty {
		return nil
	}
	ed.undo = append(ed.undo, before)
	ed.redo = nil
	return nil
}

// settle invokes each registered transform once per matching node the
// transaction introduced, repeating passes until a full pass produces no
// mutations. Nodes already in the tree before the transaction are settled by
// construction and are left alone; replacement nodes created by a transform
// count as introduced and are visited on the next pass.
func (ed *Editor) settle(tx *Tx) {
	if len(ed.transforms) == 0 || len(tx.added) == 0 {
		return
	}
	fresh := make(map[doctree.Node]bool)
	for _, root := range tx.added {
		markFresh(fresh, root)
	}
	seen := make(map[*transformEntry]map[doctree.Node]bool, len(ed.transforms))
	for _, e := range ed.transforms {
		seen[e] = make(map[doctree.Node]bool)
	}
	for pass := 0; pass < maxSettlePasses; pass++ {
		changed := false
		for _, e := range ed.transforms {
			if ed.applyTransform(tx, e, ed.doc, fresh, seen[e]) {
				changed = true
			}
		}
		if !changed {
			return
		}
		tx.dirty = true
	}
}

func markFresh(fresh map[doctree.Node]bool, n doctree.Node) {
	fresh[n] = true
	if c, ok := n.(doctree.Container); ok {
		for _, k := range c.Children() {
			markFresh(fresh, k)
		}
	}
}

func (ed *Editor) applyTransform(tx *Tx, e *transformEntry, parent doctree.Container, fresh, seen map[doctree.Node]bool) bool {
	changed := false
	for i := 0; i < len(parent.Children()); i++ {
		n := parent.Children()[i]
		if n.Kind() == e.kind && fresh[n] && !seen[n] {
			seen[n] = true
			if e.fn(tx, parent, i, n) {
				changed = true
				// The child at i may have been replaced; the replacement
				// is introduced by this transaction too.
				n = parent.Children()[i]
				markFresh(fresh, n)
			}
		}
		if c, ok := n.(doctree.Container); ok {
			if ed.applyTransform(tx, e, c, fresh, seen) {
				changed = true
			}
		}
	}
	return changed
}

// CanUndo reports whether an undo step is available.
func (ed *Editor) CanUndo() bool {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return len(ed.undo) > 0
}

// CanRedo reports whether a redo step is available.
func (ed *Editor) CanRedo() bool {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return len(ed.redo) > 0
}

// Undo reverts the most recent committed transaction. Returns false when
// there is nothing to undo.
func (ed *Editor) Undo() bool {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	if len(ed.undo) == 0 {
		return false
	}
	ed.redo = append(ed.redo, ed.doc)
	ed.doc = ed.undo[len(ed.undo)-1]
	ed.undo = ed.undo[:len(ed.undo)-1]
	ed.clampSelection()
	return true
}

// Redo reapplies the most recently undone transaction.
func (ed *Editor) Redo() bool {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	if len(ed.redo) == 0 {
		return false
	}
	ed.undo = append(ed.undo, ed.doc)
	ed.doc = ed.redo[len(ed.redo)-1]
	ed.redo = ed.redo[:len(ed.redo)-1]
	ed.clampSelection()
	return true
}

// UndoDepth returns the number of undo steps on the stack.
func (ed *Editor) UndoDepth() int {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return len(ed.undo)
}

func (ed *Editor) clampSelection() {
	if ed.sel == nil {
		return
	}
	if max := len(ed.doc.Children()); ed.sel.Block > max {
		ed.sel.Block = max
	}
}

// Tx gives a transaction body write access to the tree.
type Tx struct {
	ed    *Editor
	dirty bool
	added []doctree.Node
}

// Document returns the tree under mutation.
func (tx *Tx) Document() *doctree.Document { return tx.ed.doc }

// Editable reports the surface's editable flag. Transforms use this to
// no-op on read-only surfaces.
func (tx *Tx) Editable() bool { return tx.ed.editable }

// MarkDirty records that the transaction mutated the tree.
func (tx *Tx) MarkDirty() { tx.dirty = true }

// InsertAtSelection inserts blocks at the selection cursor and collapses the
// selection to the end of the last inserted node.
func (tx *Tx) InsertAtSelection(nodes ...doctree.Node) error {
	if !tx.ed.hasSelection() {
		return ErrNoSelection
	}
	if len(nodes) == 0 {
		return nil
	}
	at := tx.ed.sel.Block
	doctree.InsertChildren(tx.ed.doc, at, nodes...)
	tx.ed.sel = &Selection{Block: at + len(nodes)}
	tx.added = append(tx.added, nodes...)
	tx.dirty = true
	return nil
}

// AppendBlocks appends blocks at the end of the document.
func (tx *Tx) AppendBlocks(nodes ...doctree.Node) {
	if len(nodes) == 0 {
		return
	}
	tx.ed.doc.SetChildren(append(tx.ed.doc.Children(), nodes...))
	tx.added = append(tx.added, nodes...)
	tx.dirty = true
}
