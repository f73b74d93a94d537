package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/craftgate/internal/core/domain"
	"github.com/yndnr/craftgate/internal/telemetry/metric"
)

// DefaultTimeout bounds how long a caller waits for its operation.
const DefaultTimeout = 5 * time.Second

// Executor runs tasks on the host's logic goroutine in submission order.
type Executor interface {
	Execute(task func()) error
}

// Op is a unit of work run on the logic goroutine.
type Op = func() (any, error)

// command is one submission.
type command struct {
	id   string
	name string
	op   Op
	slot *slot
}

// Config holds configuration for Dispatcher.
type Config struct {
	// Timeout bounds each submission, including admission (default: 5s).
	Timeout time.Duration

	// MaxRate is the admitted submissions per second; 0 disables throttling.
	MaxRate float64

	// Burst is the admission burst size (default: 1).
	Burst int

	Logger  *slog.Logger
	Metrics *metric.Registry
}

// Dispatcher submits operations to an Executor and waits for their
// outcome. It is safe for concurrent use.
type Dispatcher struct {
	exec    Executor
	timeout time.Duration
	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *metric.Registry
}

// New creates a Dispatcher on top of exec.
func New(exec Executor, cfg Config) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	d := &Dispatcher{
		exec:    exec,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
	if cfg.MaxRate > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(cfg.MaxRate), cfg.Burst)
	}
	return d
}

// Submit runs op on the logic goroutine and returns its result.
//
// Errors returned by op are passed through unchanged. A panic in op is
// reported as domain.ErrDispatchFailure, as is a rejection by the
// Executor. If neither the result nor ctx arrives within the timeout the
// caller gets domain.ErrDispatchTimeout and any later result is dropped.
func (d *Dispatcher) Submit(ctx context.Context, name string, op Op) (any, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	cmd := &command{
		id:   ulid.Make().String(),
		name: name,
		op:   op,
		slot: newSlot(),
	}

	value, err := d.submit(ctx, cmd)

	d.observe(cmd, start, err)
	return value, err
}

func (d *Dispatcher) submit(ctx context.Context, cmd *command) (any, error) {
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, d.contextError(ctx, cmd)
		}
	}

	if err := d.exec.Execute(func() { d.run(cmd) }); err != nil {
		return nil, domain.ErrDispatchFailure.WithDetails("command: " + cmd.name).WithCause(err)
	}

	select {
	case r := <-cmd.slot.ch:
		return r.value, r.err
	case <-ctx.Done():
		switch cmd.slot.abandon() {
		case stateDone:
			// Completed concurrently with the deadline; the result wins.
			r := <-cmd.slot.ch
			return r.value, r.err
		case statePending:
			d.logger.Debug("dispatch abandoned before start", "command", cmd.name, "id", cmd.id)
			if d.metrics != nil {
				d.metrics.DispatchAbandoned.Inc()
			}
		}
		return nil, d.contextError(ctx, cmd)
	}
}

// run executes cmd on the logic goroutine.
func (d *Dispatcher) run(cmd *command) {
	if !cmd.slot.start() {
		return
	}

	r := d.invoke(cmd)

	if !cmd.slot.complete(r) {
		d.logger.Debug("late completion discarded", "command", cmd.name, "id", cmd.id, "error", r.err)
		if d.metrics != nil {
			d.metrics.DispatchLateCompletions.Inc()
		}
	}
}

func (d *Dispatcher) invoke(cmd *command) (r result) {
	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("dispatched command panicked",
				"command", cmd.name,
				"id", cmd.id,
				"panic", p,
				"stack", string(debug.Stack()),
			)
			r = result{err: domain.ErrDispatchFailure.
				WithDetails("command: " + cmd.name).
				WithCause(fmt.Errorf("panic: %v", p))}
		}
	}()

	value, err := cmd.op()
	return result{value: value, err: err}
}

// contextError maps a finished context to a domain error. Deadlines are
// timeouts; caller cancellation is a dispatch failure carrying the cause.
// A nil ctx.Err() comes from the limiter refusing a wait that would
// overrun the deadline, which is also a timeout.
func (d *Dispatcher) contextError(ctx context.Context, cmd *command) error {
	if err := ctx.Err(); err == nil || errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrDispatchTimeout.WithDetails("command: " + cmd.name)
	}
	return domain.ErrDispatchFailure.WithDetails("command: " + cmd.name).WithCause(ctx.Err())
}

func (d *Dispatcher) observe(cmd *command, start time.Time, err error) {
	if d.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrDispatchTimeout):
		outcome = "timeout"
	case errors.Is(err, domain.ErrDispatchFailure):
		outcome = "failure"
	default:
		outcome = "error"
	}
	d.metrics.DispatchTotal.WithLabelValues(cmd.name, outcome).Inc()
	d.metrics.DispatchDuration.WithLabelValues(cmd.name).Observe(time.Since(start).Seconds())
}
