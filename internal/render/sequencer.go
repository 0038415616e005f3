package render

import "sync"

// Sequencer orders render completions. Each request takes a generation
// from Begin; Complete accepts a result only for the newest generation
// issued, so a slow render of old text can never replace the display of
// newer text.
type Sequencer struct {
	mu       sync.Mutex
	issued   uint64
	accepted uint64
	latest   Result
}

// Begin issues the next generation.
func (s *Sequencer) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Complete records the result of generation gen and reports whether it
// is current. Stale results are dropped.
func (s *Sequencer) Complete(gen uint64, r Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.issued || gen <= s.accepted {
		return false
	}
	s.accepted = gen
	s.latest = r
	return true
}

// Latest returns the last accepted result and its generation.
func (s *Sequencer) Latest() (Result, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.accepted
}
