package paste

import "sync"

// Stats counts dispatcher outcomes per ingestion path.
type Stats struct {
	mu sync.Mutex

	nativeAccepted    int64
	markupAccepted    int64
	plaintextAccepted int64
	oversizeSkips     int64
	budgetSkips       int64
	rejected          int64
	failures          int64
}

// StatsSnapshot is a point-in-time copy of the dispatcher counters.
type StatsSnapshot struct {
	NativeAccepted    int64 `json:"native_accepted"`
	MarkupAccepted    int64 `json:"markup_accepted"`
	PlaintextAccepted int64 `json:"plaintext_accepted"`
	OversizeSkips     int64 `json:"oversize_skips"`
	BudgetSkips       int64 `json:"budget_skips"`
	Rejected          int64 `json:"rejected"`
	Failures          int64 `json:"failures"`
}

func (s *Stats) accept(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch path {
	case "native":
		s.nativeAccepted++
	case "markup":
		s.markupAccepted++
	case "plaintext":
		s.plaintextAccepted++
	}
}

func (s *Stats) oversizeSkip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.oversizeSkips++
}

func (s *Stats) budgetSkip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgetSkips++
}

func (s *Stats) reject() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejected++
}

func (s *Stats) failure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures++
}

// Snapshot returns a copy of the counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{
		NativeAccepted:    s.nativeAccepted,
		MarkupAccepted:    s.markupAccepted,
		PlaintextAccepted: s.plaintextAccepted,
		OversizeSkips:     s.oversizeSkips,
		BudgetSkips:       s.budgetSkips,
		Rejected:          s.rejected,
		Failures:          s.failures,
	}
}
