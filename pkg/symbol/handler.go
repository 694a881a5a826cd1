package symbol

import (
	"context"

	"mercator-hq/vesta/pkg/message"
)

// Response is what a handler reports back to the scheduler. The scheduler
// turns it into a Result by applying the descriptor weight, the multiplier,
// and the configured score clamps.
type Response struct {
	// Fired reports whether the symbol's condition matched the message.
	Fired bool

	// Multiplier scales the declared weight. A zero multiplier is treated
	// as 1 so handlers that only care about fired/not-fired can leave it
	// unset.
	Multiplier float64

	// Description is free-form text carried into the result.
	Description string
}

// Sink delivers an asynchronous handler's response back to the scheduler.
// An asynchronous handler must invoke its sink exactly once: never zero
// times, never more than once. Invocations past the first are dropped and
// logged.
type Sink func(Response, error)

// Handler is the single entry point every symbol implements. The scheduler
// calls it with the message's structured representation and a completion
// sink.
//
// Synchronous handlers (Descriptor.Kind == KindSynchronous) return their
// response directly and must not touch the sink. Asynchronous handlers
// return immediately, having arranged for exactly one sink invocation at a
// later point; their direct return values are ignored except for an
// immediate dispatch error.
//
// The supplied context carries the remaining message budget; handlers
// performing I/O should honor its cancellation.
type Handler interface {
	Check(ctx context.Context, msg *message.Message, sink Sink) (Response, error)
}

// SyncFunc adapts a plain function into a synchronous Handler.
type SyncFunc func(ctx context.Context, msg *message.Message) (Response, error)

// Check implements Handler.
func (f SyncFunc) Check(ctx context.Context, msg *message.Message, _ Sink) (Response, error) {
	return f(ctx, msg)
}

// AsyncFunc adapts a plain function into an asynchronous Handler. The
// function is responsible for invoking the sink exactly once.
type AsyncFunc func(ctx context.Context, msg *message.Message, sink Sink) error

// Check implements Handler.
func (f AsyncFunc) Check(ctx context.Context, msg *message.Message, sink Sink) (Response, error) {
	return Response{}, f(ctx, msg, sink)
}
