package paste

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"pastegate/internal/convert"
	"pastegate/internal/doctree"
	"pastegate/internal/editor"
	"pastegate/internal/sanitize"
)

const (
	// MarkupByteCeiling is the largest markup representation the sanitizer
	// will be asked to process; anything larger routes straight to the
	// plaintext fallback.
	MarkupByteCeiling = 500 * 1024

	// SanitizeBudget is the wall-clock allowance for one sanitization run.
	// The measurement is advisory: an overrun discards the result and
	// triggers the fallback, it does not preempt the call.
	SanitizeBudget = 150 * time.Millisecond
)

// Dispatcher routes ingestion events into one editor surface. Attach it
// once per surface; re-attaching returns the existing instance.
type Dispatcher struct {
	ed    *editor.Editor
	log   *slog.Logger
	stats *Stats

	markupCeiling int
	budget        time.Duration

	// sanitizeFn is swappable in tests to simulate pathological inputs.
	sanitizeFn func(string) string
}

// Option configures a Dispatcher at attach time.
type Option func(*Dispatcher)

// WithMarkupCeiling overrides the markup size ceiling in bytes.
func WithMarkupCeiling(n int) Option {
	return func(d *Dispatcher) { d.markupCeiling = n }
}

// WithSanitizeBudget overrides the sanitization time budget.
func WithSanitizeBudget(budget time.Duration) Option {
	return func(d *Dispatcher) { d.budget = budget }
}

func withSanitizeFunc(fn func(string) string) Option {
	return func(d *Dispatcher) { d.sanitizeFn = fn }
}

// dispatchers tracks the one live dispatcher per surface, so a duplicate
// Attach after a host remount never processes the same paste twice.
var (
	dispatchMu  sync.Mutex
	dispatchers = map[*editor.Editor]*Dispatcher{}
)

// Attach binds a dispatcher to an editor surface. Attaching to an already
// instrumented surface is a no-op that returns the existing dispatcher.
func Attach(ed *editor.Editor, log *slog.Logger, opts ...Option) *Dispatcher {
	dispatchMu.Lock()
	defer dispatchMu.Unlock()
	if !editor.MarkAttached(ed, "paste.dispatcher") {
		return dispatchers[ed]
	}
	if log == nil {
		log = slog.Default()
	}
	d := &Dispatcher{
		ed:            ed,
		log:           log,
		stats:         &Stats{},
		markupCeiling: MarkupByteCeiling,
		budget:        SanitizeBudget,
		sanitizeFn:    sanitize.Sanitize,
	}
	for _, opt := range opts {
		opt(d)
	}
	dispatchers[ed] = d
	return d
}

// Detach releases the dispatcher's claim on its surface.
func (d *Dispatcher) Detach() {
	dispatchMu.Lock()
	defer dispatchMu.Unlock()
	editor.Detach(d.ed, "paste.dispatcher")
	delete(dispatchers, d.ed)
}

// Stats returns the dispatcher's ingestion counters.
func (d *Dispatcher) Stats() *Stats { return d.stats }

// HandlePaste consumes an ingestion event. It returns true iff content was
// accepted and inserted, in which case default handling is suppressed on the
// event; false means the event should be passed through unhandled. A false
// return guarantees zero tree mutations and zero undo entries.
func (d *Dispatcher) HandlePaste(ev *Event) bool {
	if ev == nil || ev.Empty() || !d.ed.Editable() {
		return false
	}

	nodes, path := d.selectNodes(ev)
	if path == pathRejected {
		d.stats.reject()
		return false
	}
	if len(nodes) == 0 {
		d.stats.reject()
		return false
	}

	// Insertion requires a valid, positioned selection; without one the
	// event is rejected so the caller can fall back, not silently dropped.
	if !d.ed.HasSelection() {
		d.stats.reject()
		return false
	}

	err := d.ed.Update(func(tx *editor.Tx) error {
		return tx.InsertAtSelection(nodes...)
	})
	if err != nil {
		// The transaction rolled back; no partial insertion remains.
		d.log.Error("paste insertion failed", "path", path, "error", err)
		d.stats.failure()
		return false
	}

	ev.PreventDefault()
	d.stats.accept(path)
	return true
}

const pathRejected = ""

// selectNodes walks the priority chain: native fast path, markup path with
// size and time guards, plaintext fallback. It returns the nodes to insert
// and the path that produced them, or (nil, pathRejected) when the event
// must be rejected outright.
func (d *Dispatcher) selectNodes(ev *Event) ([]doctree.Node, string) {
	// Native fast path: same-document-model content needs no sanitization.
	if raw, ok := ev.Get(TypeNative); ok {
		nodes, err := editor.DeserializeNodes([]byte(raw))
		if err != nil {
			// Malformed native payload: recover locally by falling
			// through to the markup path.
			d.log.Debug("native payload undecodable, falling through", "error", err)
		} else if len(nodes) > 0 {
			return nodes, "native"
		}
	}

	markup, hasMarkup := ev.Get(TypeHTML)
	if hasMarkup {
		switch nodes, verdict := d.markupNodes(markup); verdict {
		case markupAccepted:
			return nodes, "markup"
		case markupEmpty:
			// Sanitization left nothing: inserting nothing is
			// indistinguishable from letting default handling proceed.
			return nil, pathRejected
		case markupFallback:
			// Oversized or over budget; the plaintext fallback takes over.
		}
	}

	// Plaintext fallback: prefer the plain representation, else derive it
	// by stripping tags from the markup. Inserted as a single text run.
	text, _ := ev.Get(TypePlain)
	if text == "" && hasMarkup {
		text = sanitize.StripTags(markup)
	}
	if strings.TrimSpace(text) == "" {
		return nil, pathRejected
	}
	p := &doctree.Paragraph{}
	p.SetChildren([]doctree.Node{&doctree.TextRun{Text: text}})
	return []doctree.Node{p}, "plaintext"
}

type markupVerdict int

const (
	markupAccepted markupVerdict = iota
	markupEmpty
	markupFallback
)

func (d *Dispatcher) markupNodes(markup string) ([]doctree.Node, markupVerdict) {
	if len(markup) > d.markupCeiling {
		d.log.Debug("markup exceeds size ceiling, skipping sanitizer",
			"bytes", len(markup), "ceiling", d.markupCeiling)
		d.stats.oversizeSkip()
		return nil, markupFallback
	}

	start := time.Now()
	clean := d.sanitizeFn(markup)
	if elapsed := time.Since(start); elapsed > d.budget {
		d.log.Debug("sanitization exceeded budget, discarding result",
			"elapsed_ms", elapsed.Milliseconds(), "budget_ms", d.budget.Milliseconds())
		d.stats.budgetSkip()
		return nil, markupFallback
	}
	if clean == "" {
		return nil, markupEmpty
	}

	nodes, err := convert.NodesFromHTML(clean)
	if err != nil {
		// Unexpected: sanitized markup should always convert. Log and
		// treat the path as a no-op.
		d.log.Error("markup conversion failed", "error", err)
		d.stats.failure()
		return nil, markupFallback
	}
	if len(nodes) == 0 {
		return nil, markupEmpty
	}
	return nodes, markupAccepted
}
