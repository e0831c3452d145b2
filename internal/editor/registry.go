package editor

import "sync"

// Process-wide registry of instrumented surfaces. Attaching a dispatcher or
// transform to the same editor twice (e.g. after a host component remount)
// must be a no-op, keyed by surface identity rather than call count.
var (
	attachMu sync.Mutex
	attached = make(map[*Editor]map[string]bool)
)

// MarkAttached records that the named instrumentation is attached to ed.
// It returns false if the same name was already attached to this surface.
func MarkAttached(ed *Editor, name string) bool {
	attachMu.Lock()
	defer attachMu.Unlock()
	keys := attached[ed]
	if keys == nil {
		keys = make(map[string]bool)
		attached[ed] = keys
	}
	if keys[name] {
		return false
	}
	keys[name] = true
	return true
}

// Detach removes one named instrumentation from ed, allowing a later
// re-attach.
func Detach(ed *Editor, name string) {
	attachMu.Lock()
	defer attachMu.Unlock()
	if keys := attached[ed]; keys != nil {
		delete(keys, name)
		if len(keys) == 0 {
			delete(attached, ed)
		}
	}
}

// ReleaseSurface clears every registration for ed. Called on surface
// teardown so a rebuilt surface starts clean.
func ReleaseSurface(ed *Editor) {
	attachMu.Lock()
	defer attachMu.Unlock()
	delete(attached, ed)
}
