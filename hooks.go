package mediate

import (
	"cmp"
	"context"
	"fmt"
	"slices"
)

// HookKind identifies where in a command pipeline a hook runs.
type HookKind uint8

const (
	// HookPre runs before the handler. Pre hooks run sequentially in
	// sorted order; a failing pre hook aborts the pipeline.
	HookPre HookKind = iota + 1

	// HookAround wraps the handler. Around hooks nest so the hook with
	// the smallest order is outermost.
	HookAround

	// HookPost runs after a successful handler return, receiving the
	// command and the produced result.
	HookPost

	// HookOnError observes any pipeline failure. It cannot suppress the
	// error; the failure propagates to the caller unchanged.
	HookOnError
)

func (k HookKind) String() string {
	switch k {
	case HookPre:
		return "pre"
	case HookAround:
		return "around"
	case HookPost:
		return "post"
	case HookOnError:
		return "on-error"
	default:
		return "unknown"
	}
}

// PreFunc runs before the handler. Returning an error aborts the
// pipeline.
type PreFunc func(ctx context.Context, cmd any) error

// Next invokes the rest of an around hook's pipeline: inner around
// hooks, then the handler.
type Next func(ctx context.Context) (any, error)

// AroundFunc wraps the handler. The hook decides whether and when to
// call next, and may substitute the context it passes down.
type AroundFunc func(ctx context.Context, cmd any, next Next) (any, error)

// PostFunc runs after a successful handler return with the original
// command and its result. Returning an error fails the pipeline.
type PostFunc func(ctx context.Context, cmd any, result any) error

// OnErrorFunc observes a pipeline failure. The error it receives is the
// ExecutionError that will propagate to the caller.
type OnErrorFunc func(ctx context.Context, cmd any, err error)

// Hook is one registered cross-cutting behavior. Hooks are matched to
// commands by Scope at build time and ordered by (Order, registration
// sequence) within their kind.
type Hook struct {
	Kind  HookKind
	Scope Scope
	Order int

	fn  any
	seq int
}

// normalize checks that the hook function matches its kind, converting
// raw function literals to the package's named hook types.
func (h Hook) normalize() (Hook, error) {
	if h.fn == nil {
		return h, &HookSignatureError{Kind: h.Kind, Got: "nil function"}
	}
	switch h.Kind {
	case HookPre:
		switch fn := h.fn.(type) {
		case PreFunc:
		case func(context.Context, any) error:
			h.fn = PreFunc(fn)
		default:
			return h, &HookSignatureError{Kind: h.Kind, Got: fmt.Sprintf("%T", h.fn)}
		}
	case HookAround:
		switch fn := h.fn.(type) {
		case AroundFunc:
		case func(context.Context, any, Next) (any, error):
			h.fn = AroundFunc(fn)
		default:
			return h, &HookSignatureError{Kind: h.Kind, Got: fmt.Sprintf("%T", h.fn)}
		}
	case HookPost:
		switch fn := h.fn.(type) {
		case PostFunc:
		case func(context.Context, any, any) error:
			h.fn = PostFunc(fn)
		default:
			return h, &HookSignatureError{Kind: h.Kind, Got: fmt.Sprintf("%T", h.fn)}
		}
	case HookOnError:
		switch fn := h.fn.(type) {
		case OnErrorFunc:
		case func(context.Context, any, error):
			h.fn = OnErrorFunc(fn)
		default:
			return h, &HookSignatureError{Kind: h.Kind, Got: fmt.Sprintf("%T", h.fn)}
		}
	default:
		return h, &HookSignatureError{Kind: h.Kind, Got: fmt.Sprintf("%T", h.fn)}
	}
	return h, nil
}

// sortHooks orders hooks by explicit order, with registration sequence
// as the tiebreaker. Sequence numbers are unique, so the sort is total.
func sortHooks(hs []Hook) {
	slices.SortFunc(hs, func(a, b Hook) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
}
