// Package dispatch hands operations from request goroutines to the host's
// single logic goroutine and returns their outcome to the caller.
//
// Each submission owns a completion slot that is settled exactly once:
// by the logic goroutine when the operation finishes, or by the caller
// when it times out or its context is cancelled. Whichever comes first
// wins; the loser's value is dropped. An operation whose slot is already
// settled when the logic goroutine reaches it is skipped, so a caller
// that was told "timeout" never sees the operation start afterwards.
package dispatch
