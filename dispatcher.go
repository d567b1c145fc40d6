package mediate

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

// Dispatcher executes messages against the bindings and pipelines frozen
// by Builder.Build. It is immutable: no registration API is reachable,
// and it is safe for unsynchronized concurrent use. The dispatcher
// itself spawns no goroutines; Send, Publish, and Stream all execute on
// the caller.
type Dispatcher struct {
	commands      map[Key]*composedCommand
	notifications map[Key][]notificationBinding
	streams       map[Key]*streamBinding
}

// composedCommand pairs a command binding with its pipeline, composed
// once at build time.
type composedCommand struct {
	binding *commandBinding
	run     pipeline
}

// Send dispatches cmd to its single registered handler through the
// command's composed pipeline and returns the handler's response.
//
// If no handler is bound for C, Send fails with an error wrapping
// ErrHandlerNotFound. Any failure inside the pipeline is returned as an
// *ExecutionError wrapping the original error.
//
// Cancellation is cooperative: ctx is threaded through every hook and
// the handler, and the pipeline polls it between stages.
//
// This is a package-level function (not a method) due to Go generics
// limitations: methods cannot have type parameters independent of the
// receiver.
func Send[C, R any](ctx context.Context, d *Dispatcher, cmd C) (R, error) {
	var zero R
	key := KeyOf[C]()
	cc, ok := d.commands[key]
	if !ok {
		return zero, &NotFoundError{Kind: KindCommand, Key: key}
	}
	out, err := cc.run(ctx, cmd)
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}
	res, ok := out.(R)
	if !ok {
		return zero, &ExecutionError{
			Key:   key,
			Stage: StageHandler,
			Err:   fmt.Errorf("handler produced %T, caller requested %T", out, zero),
		}
	}
	return res, nil
}

// Publish delivers n to every registered notification handler, strictly
// in registration order, on the calling goroutine. Zero handlers is not
// an error.
//
// Delivery is continue-on-error: a failing handler does not stop the
// fan-out. After every handler has run, the collected failures are
// returned as one *FanoutError naming each failing handler. Pipeline
// hooks do not apply to notifications.
//
// If ctx is done, Publish stops at the next handler boundary and
// returns the context error, joined with any failures already
// collected.
func Publish[N any](ctx context.Context, d *Dispatcher, n N) error {
	key := KeyOf[N]()
	var failures []HandlerFailure
	for _, nb := range d.notifications[key] {
		if cerr := ctx.Err(); cerr != nil {
			if len(failures) > 0 {
				return errors.Join(cerr, &FanoutError{Key: key, Failures: failures})
			}
			return cerr
		}
		if err := nb.invoke(ctx, n); err != nil {
			failures = append(failures, HandlerFailure{Handler: nb.name, Err: err})
		}
	}
	if len(failures) > 0 {
		return &FanoutError{Key: key, Failures: failures}
	}
	return nil
}

// Stream resolves the single stream handler for S and returns a lazy,
// single-use sequence of items. The handler does not run until the
// caller iterates, and each Stream call produces a fresh sequence.
//
// If no handler is bound for S, Stream fails immediately with an error
// wrapping ErrHandlerNotFound. Production failures are yielded in-band
// as the sequence's error value. Once ctx is done, the sequence yields
// the context error at the next item boundary and stops producing.
func Stream[S, I any](ctx context.Context, d *Dispatcher, req S) (iter.Seq2[I, error], error) {
	key := KeyOf[S]()
	sb, ok := d.streams[key]
	if !ok {
		return nil, &NotFoundError{Kind: KindStream, Key: key}
	}
	return func(yield func(I, error) bool) {
		var zero I
		for item, err := range sb.invoke(ctx, req) {
			if cerr := ctx.Err(); cerr != nil {
				yield(zero, cerr)
				return
			}
			if err != nil {
				if !yield(zero, err) {
					return
				}
				continue
			}
			v, ok := item.(I)
			if !ok && item != nil {
				yield(zero, fmt.Errorf("stream handler for %s produced %T, caller requested %T", key, item, zero))
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}, nil
}
