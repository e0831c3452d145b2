// Package paste implements the content ingestion dispatcher: given a paste
// or import event carrying up to three representations of the incoming
// content, it selects one in priority order (native serialized tree,
// sanitized markup, plain text), applies size and time guards, and performs
// the insertion inside exactly one editor transaction.
package paste

// Representation types recognized on an ingestion event, by MIME-equivalent
// identity.
const (
	TypeNative = "application/x-doctree+json"
	TypeHTML   = "text/html"
	TypePlain  = "text/plain"
)

// Event is an ephemeral ingestion event: zero or more alternative content
// representations plus the capability to suppress the host's default
// handling. Created once per paste action, consumed synchronously, then
// discarded.
type Event struct {
	reprs            map[string]string
	defaultPrevented bool
}

// NewEvent creates an empty ingestion event.
func NewEvent() *Event {
	return &Event{reprs: make(map[string]string)}
}

// Set attaches a representation to the event. An empty value counts as
// absent.
func (e *Event) Set(typ, data string) *Event {
	if data != "" {
		e.reprs[typ] = data
	}
	return e
}

// Get returns a representation and whether it is present.
func (e *Event) Get(typ string) (string, bool) {
	v, ok := e.reprs[typ]
	return v, ok
}

// Empty reports whether the event carries no representations at all.
func (e *Event) Empty() bool { return len(e.reprs) == 0 }

// PreventDefault suppresses the host's default handling of this event.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether default handling was suppressed.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }
