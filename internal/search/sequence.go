package search

import "time"

// DebounceInterval is the quiet period a new keystroke must survive before a
// lookup is issued.
const DebounceInterval = 200 * time.Millisecond

// Sequencer orders in-flight lookups so that the last-issued query wins,
// regardless of the order results arrive in. It is used from a single
// goroutine (the UI event loop); results produced by superseded requests are
// rejected by Accept.
type Sequencer struct {
	issued uint64
}

// Next registers a new request and returns its sequence number.
func (s *Sequencer) Next() uint64 {
	s.issued++
	return s.issued
}

// Accept reports whether a result carrying the given sequence number belongs
// to the newest issued request. Results of superseded requests must be
// dropped so they never overwrite a later query's results.
func (s *Sequencer) Accept(seq uint64) bool {
	return seq == s.issued
}

// Current returns the newest issued sequence number.
func (s *Sequencer) Current() uint64 {
	return s.issued
}
