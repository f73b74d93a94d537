// Package host implements the game server host that craftgate controls.
//
// All mutable state (players, worlds) belongs to one logic goroutine.
// Other goroutines interact with it in two ways:
//
//   - Execute enqueues a task on the FIFO task queue; the logic goroutine
//     runs tasks in order between ticks. Methods documented as
//     "logic goroutine only" may be called from inside such a task.
//   - Players, ServerInfo and Stats read an immutable snapshot that the
//     logic goroutine publishes after every tick and every task.
package host
