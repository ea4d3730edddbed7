// Package pipeline implements the demand-driven stage chain that
// foresight uses to move a single input event from its producing device
// through zero or more observers and mutators to its emitting device.
//
// There is no internal thread pool: a Pipeline's Run method is pumped by
// a single goroutine, and a Stage only ever does work in response to
// being asked for the next event. Code that wants to stop the whole
// pipeline (for example, on SIGINT) sets the atomic flag on the shared
// Context; Run checks it before every tick.
package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/moisrex/foresight/internal/event"
)

// idleInterval is how long Run waits before re-polling the producer chain
// after a tick comes back Idle. Matches the "sleeps a short interval"
// backoff a non-blocking poll(2) loop needs so an idle pipeline doesn't
// spin a CPU core.
const idleInterval = 2 * time.Millisecond

// Action tells a Pipeline what a Stage wants to happen next.
type Action int

const (
	// Next means the event currently held by the Context should continue
	// to the following stage unchanged.
	Next Action = iota

	// IgnoreEvent means the current event should be dropped; no stage
	// after this one sees it.
	IgnoreEvent

	// Idle means this stage produced nothing this tick and the pipeline
	// should return to its driver without visiting later stages.
	Idle

	// Exit means the pipeline should stop entirely, as if the stop flag
	// had been set.
	Exit
)

// String renders an Action for logging.
func (a Action) String() string {
	switch a {
	case Next:
		return "next"
	case IgnoreEvent:
		return "ignore"
	case Idle:
		return "idle"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// Context is the shared state a Pipeline hands to every Stage on every
// tick. A stage that needs to remember something across ticks (a running
// velocity estimate, a ring buffer of recent codepoints) stores it on
// itself, not on the Context; the Context carries the event of the
// moment, the shutdown signal, and the few named values set with SetVar.
type Context struct {
	// Event is the event currently being processed. Mutator stages may
	// rewrite its fields in place.
	Event event.Event

	stop atomic.Bool

	vars map[string]any
}

// NewContext returns an empty Context ready for use by a Pipeline.
func NewContext() *Context {
	return &Context{vars: make(map[string]any)}
}

// Stop requests that the owning Pipeline halt after the current tick.
// Safe to call from a signal handler goroutine; stages only ever observe
// it, they never block on it.
func (c *Context) Stop() {
	c.stop.Store(true)
}

// Stopped reports whether Stop has been called.
func (c *Context) Stopped() bool {
	return c.stop.Load()
}

// SetVar stores a named value visible to every stage sharing this
// Context, for the rare case where two independently grounded stages
// need to coordinate (for example, a keymap layout selector and the
// stage that renders it).
func (c *Context) SetVar(name string, value any) {
	c.vars[name] = value
}

// Var retrieves a value set with SetVar.
func (c *Context) Var(name string) (any, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Stage is the minimal interface every pipeline element satisfies. Most
// stages additionally implement one of Producer, Observer, Mutator, or
// Emitter below; Pipeline uses type assertions to discover the role a
// given Stage plays, without a deep interface hierarchy. On each tick a
// stage is visited in exactly one role: the first of Producer, Mutator,
// Observer, Emitter that it implements.
type Stage interface {
	// Name identifies the stage in logs and error messages.
	Name() string
}

// Producer stages originate events: a device reader, a timer. Produce is
// called once per pipeline tick before any other stage runs; it returns
// Idle when it has nothing to offer this tick.
type Producer interface {
	Stage
	Produce(ctx *Context) (Action, error)
}

// Observer stages read the current event without modifying it: triggers,
// loggers, status trackers.
type Observer interface {
	Stage
	Observe(ctx *Context) (Action, error)
}

// Mutator stages rewrite the current event in place: quantizers, jump
// filters, abs-to-relative converters.
type Mutator interface {
	Stage
	Mutate(ctx *Context) (Action, error)
}

// Emitter stages consume the current event by sending it somewhere
// outside the pipeline: a uinput device, a typist queue.
type Emitter interface {
	Stage
	Emit(ctx *Context) (Action, error)
}

// Starter stages need to run setup once before the first tick (grabbing a
// device, creating a uinput node).
type Starter interface {
	Stage
	Start(ctx *Context) error
}

// Stopper stages need to run teardown once after the final tick (ungrab,
// UI_DEV_DESTROY, closing a file).
type Stopper interface {
	Stage
	Close() error
}

// Pipeline is an ordered list of stages sharing one Context.
type Pipeline struct {
	stages []Stage

	// idleLimiter paces how often the run loop re-polls after an Idle
	// tick, so a producer with nothing to read doesn't busy-spin.
	idleLimiter *rate.Limiter
}

// New builds a Pipeline from stages in the order they should run.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{
		stages:      stages,
		idleLimiter: rate.NewLimiter(rate.Every(idleInterval), 1),
	}
}

// Run drives the pipeline until the Context is stopped, a stage returns
// Exit, or a stage returns a non-nil error. It calls Start on every
// Starter stage before the loop and Close on every Stopper stage, in
// reverse order, once the loop ends, regardless of how it ended.
func (p *Pipeline) Run(ctx *Context) error {
	var err error

	for _, s := range p.stages {
		if starter, ok := s.(Starter); ok {
			if err = starter.Start(ctx); err != nil {
				return fmt.Errorf("pipeline.Run: starting %s: %w", s.Name(), err)
			}
		}
	}

	runErr := p.run(ctx)

	for i := len(p.stages) - 1; i >= 0; i-- {
		if stopper, ok := p.stages[i].(Stopper); ok {
			if closeErr := stopper.Close(); closeErr != nil && runErr == nil {
				runErr = fmt.Errorf("pipeline.Run: closing %s: %w", p.stages[i].Name(), closeErr)
			}
		}
	}

	return runErr
}

func (p *Pipeline) run(ctx *Context) error {
	for !ctx.Stopped() {
		action, err := p.tick(ctx)
		if err != nil {
			return err
		}

		switch action {
		case Exit:
			return nil
		case Idle:
			// No stage had anything to do this tick: wait for the
			// limiter to admit the next poll instead of spinning.
			_ = p.idleLimiter.Wait(context.Background())
			continue
		default:
			continue
		}
	}

	return nil
}

// tick runs every stage once against the current Context, stopping early
// on IgnoreEvent, Idle, or Exit.
func (p *Pipeline) tick(ctx *Context) (Action, error) {
	for _, s := range p.stages {
		action, err := p.visit(s, ctx)
		if err != nil {
			return Exit, fmt.Errorf("pipeline.tick: %s: %w", s.Name(), err)
		}

		switch action {
		case IgnoreEvent:
			return Next, nil
		case Idle, Exit:
			return action, nil
		}
	}

	return Next, nil
}

func (p *Pipeline) visit(s Stage, ctx *Context) (Action, error) {
	if producer, ok := s.(Producer); ok {
		return producer.Produce(ctx)
	}
	if mutator, ok := s.(Mutator); ok {
		return mutator.Mutate(ctx)
	}
	if observer, ok := s.(Observer); ok {
		return observer.Observe(ctx)
	}
	if emitter, ok := s.(Emitter); ok {
		return emitter.Emit(ctx)
	}

	return Next, nil
}
