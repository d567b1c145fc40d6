package mediate

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for matching with errors.Is. The concrete errors
// returned by the package wrap these and carry the details.
var (
	// ErrDuplicateHandler is wrapped by build failures caused by a
	// second command or stream handler for an already-bound identity.
	ErrDuplicateHandler = errors.New("duplicate handler")

	// ErrHandlerNotFound is wrapped by Send and Stream failures when no
	// handler is bound for the message identity.
	ErrHandlerNotFound = errors.New("handler not found")

	// ErrInvalidHookSignature is wrapped by build failures caused by a
	// hook function that does not match its declared kind.
	ErrInvalidHookSignature = errors.New("invalid hook signature")

	// ErrUnresolvableScope is wrapped by build failures caused by a hook
	// whose scope matches no registered command.
	ErrUnresolvableScope = errors.New("hook scope matches no registered command")
)

// DuplicateError reports a second command or stream handler registered
// for an identity that already has one.
type DuplicateError struct {
	Kind Kind
	Key  Key
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s handler for %s", e.Kind, e.Key)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicateHandler }

// NotFoundError reports a Send or Stream call for an identity with no
// bound handler.
type NotFoundError struct {
	Kind Kind
	Key  Key
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s handler for %s", e.Kind, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrHandlerNotFound }

// HookSignatureError reports a hook registered with a function that does
// not match its kind.
type HookSignatureError struct {
	Kind HookKind
	Got  string
}

func (e *HookSignatureError) Error() string {
	return fmt.Sprintf("%s hook registered with %s", e.Kind, e.Got)
}

func (e *HookSignatureError) Unwrap() error { return ErrInvalidHookSignature }

// UnresolvableScopeError reports a hook whose scope matched no command
// registered at build time.
type UnresolvableScopeError struct {
	Kind  HookKind
	Order int
}

func (e *UnresolvableScopeError) Error() string {
	return fmt.Sprintf("%s hook (order %d) matches no registered command", e.Kind, e.Order)
}

func (e *UnresolvableScopeError) Unwrap() error { return ErrUnresolvableScope }

// BuildError aggregates every invariant violation found by Build. When
// Build returns a BuildError no Dispatcher is produced.
type BuildError struct {
	Problems []error
}

func (e *BuildError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("build failed with %d problem(s): %s", len(e.Problems), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual problems to errors.Is and errors.As.
func (e *BuildError) Unwrap() []error { return e.Problems }

// Stage names the pipeline stage that produced an ExecutionError.
type Stage string

const (
	StagePre     Stage = "pre"
	StageAround  Stage = "around"
	StageHandler Stage = "handler"
	StagePost    Stage = "post"
)

// ExecutionError wraps any failure raised while executing a command's
// composed pipeline: a pre hook, an around hook, the handler itself, or
// a post hook. The original error is reachable through Unwrap, so
// errors.Is and errors.As see through the wrapper.
type ExecutionError struct {
	Key   Key
	Stage Stage
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s stage failed for %s: %v", e.Stage, e.Key, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// HandlerFailure records one notification handler's failure during a
// fan-out.
type HandlerFailure struct {
	Handler string
	Err     error
}

// FanoutError aggregates the failures of a notification fan-out. Publish
// runs every handler to completion before returning it, so the caller
// sees each failing handler by name.
type FanoutError struct {
	Key      Key
	Failures []HandlerFailure
}

func (e *FanoutError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = fmt.Sprintf("%s: %v", f.Handler, f.Err)
	}
	return fmt.Sprintf("publish %s: %d handler(s) failed: %s", e.Key, len(e.Failures), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual handler errors to errors.Is and errors.As.
func (e *FanoutError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}
