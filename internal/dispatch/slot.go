package dispatch

import "sync/atomic"

// Slot states. Transitions:
//
//	pending -> running    logic goroutine starts the operation
//	pending -> abandoned  caller gives up before the operation started
//	running -> done       operation finished, result published
//	running -> abandoned  caller gives up while the operation runs
const (
	statePending int32 = iota
	stateRunning
	stateDone
	stateAbandoned
)

// result is the outcome of one operation.
type result struct {
	value any
	err   error
}

// slot is a single-use completion cell shared by one caller and the logic
// goroutine. Exactly one of them decides the outcome the caller reports.
type slot struct {
	state atomic.Int32
	ch    chan result
}

func newSlot() *slot {
	return &slot{ch: make(chan result, 1)}
}

// start moves the slot to running. It fails if the caller already gave up.
func (s *slot) start() bool {
	return s.state.CompareAndSwap(statePending, stateRunning)
}

// complete publishes r. It reports false if the caller gave up while the
// operation was running; r is then dropped.
func (s *slot) complete(r result) bool {
	if !s.state.CompareAndSwap(stateRunning, stateDone) {
		return false
	}
	s.ch <- r
	return true
}

// abandon marks the slot as given up by the caller. It returns the state
// the slot was in: pending or running mean the caller won, done means a
// result is (or is about to be) in ch and must be used instead.
func (s *slot) abandon() int32 {
	for {
		cur := s.state.Load()
		switch cur {
		case statePending, stateRunning:
			if s.state.CompareAndSwap(cur, stateAbandoned) {
				return cur
			}
		default:
			return cur
		}
	}
}
