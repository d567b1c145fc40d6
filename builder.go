package mediate

import (
	"context"
	"iter"
	"slices"
)

// Builder accumulates handler bindings and pipeline hooks, then freezes
// them into a Dispatcher with Build.
//
// Usage:
//  1. Create a builder with NewBuilder
//  2. Register handlers with RegisterCommand, RegisterNotification,
//     and RegisterStream (or install Modules)
//  3. Register hooks with Pre, Around, Post, and OnError
//  4. Freeze with Build
//
// A Builder is not safe for concurrent use. Registration problems such
// as duplicate bindings are recorded as they happen and reported
// together by Build.
type Builder struct {
	commands      map[Key]*commandBinding
	notifications map[Key][]notificationBinding
	streams       map[Key]*streamBinding
	hooks         []Hook
	seq           int
	problems      []error
}

// commandBinding is a type-erased command handler plus the profile its
// pipeline hooks are matched against.
type commandBinding struct {
	profile Profile
	name    string
	invoke  func(ctx context.Context, cmd any) (any, error)
}

type notificationBinding struct {
	name   string
	invoke func(ctx context.Context, n any) error
}

type streamBinding struct {
	name   string
	invoke func(ctx context.Context, req any) iter.Seq2[any, error]
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		commands:      make(map[Key]*commandBinding),
		notifications: make(map[Key][]notificationBinding),
		streams:       make(map[Key]*streamBinding),
	}
}

// RegisterCommand binds h as the single handler for command type C.
// Binding a second handler to the same command type is a build error.
//
// This is a package-level function (not a method) due to Go generics
// limitations: methods cannot have type parameters independent of the
// receiver.
//
// Example:
//
//	mediate.RegisterCommand(b, &CreateOrderHandler{orders: orders})
func RegisterCommand[C, R any](b *Builder, h CommandHandler[C, R]) {
	key := KeyOf[C]()
	if _, dup := b.commands[key]; dup {
		b.problems = append(b.problems, &DuplicateError{Kind: KindCommand, Key: key})
		return
	}
	b.commands[key] = &commandBinding{
		profile: Profile{key: key, kind: KindCommand},
		name:    handlerName(h),
		invoke: func(ctx context.Context, cmd any) (any, error) {
			return h.Handle(ctx, cmd.(C))
		},
	}
}

// RegisterCommandFunc is a convenience function for registering a
// command handler function.
func RegisterCommandFunc[C, R any](b *Builder, fn func(ctx context.Context, cmd C) (R, error)) {
	RegisterCommand(b, CommandHandlerFunc[C, R](fn))
}

// RegisterNotification appends h to the handlers for notification type
// N. Multiple handlers are permitted; Publish invokes them in
// registration order.
func RegisterNotification[N any](b *Builder, h NotificationHandler[N]) {
	key := KeyOf[N]()
	b.notifications[key] = append(b.notifications[key], notificationBinding{
		name: handlerName(h),
		invoke: func(ctx context.Context, n any) error {
			return h.Handle(ctx, n.(N))
		},
	})
}

// RegisterNotificationFunc is a convenience function for registering a
// notification handler function.
func RegisterNotificationFunc[N any](b *Builder, fn func(ctx context.Context, n N) error) {
	RegisterNotification(b, NotificationHandlerFunc[N](fn))
}

// RegisterStream binds h as the single handler for stream request type
// S. Binding a second handler to the same request type is a build
// error.
func RegisterStream[S, I any](b *Builder, h StreamHandler[S, I]) {
	key := KeyOf[S]()
	if _, dup := b.streams[key]; dup {
		b.problems = append(b.problems, &DuplicateError{Kind: KindStream, Key: key})
		return
	}
	b.streams[key] = &streamBinding{
		name: handlerName(h),
		invoke: func(ctx context.Context, req any) iter.Seq2[any, error] {
			src := h.Handle(ctx, req.(S))
			return func(yield func(any, error) bool) {
				for item, err := range src {
					if !yield(item, err) {
						return
					}
				}
			}
		},
	}
}

// RegisterStreamFunc is a convenience function for registering a stream
// handler function.
func RegisterStreamFunc[S, I any](b *Builder, fn func(ctx context.Context, req S) iter.Seq2[I, error]) {
	RegisterStream(b, StreamHandlerFunc[S, I](fn))
}

// RegisterHook records a hook of the given kind, applied to every
// command whose profile matches scope. fn must be the kind's function
// type: PreFunc, AroundFunc, PostFunc, or OnErrorFunc; a mismatch is a
// build error. Hooks of the same kind run in ascending order, with
// registration sequence breaking ties.
//
// The typed Pre, Around, Post, and OnError methods are usually more
// convenient.
func (b *Builder) RegisterHook(kind HookKind, scope Scope, order int, fn any) {
	b.hooks = append(b.hooks, Hook{Kind: kind, Scope: scope, Order: order, fn: fn, seq: b.seq})
	b.seq++
}

// Pre registers a hook that runs before matching commands' handlers.
func (b *Builder) Pre(scope Scope, order int, fn PreFunc) {
	b.RegisterHook(HookPre, scope, order, fn)
}

// Around registers a hook that wraps matching commands' handlers. The
// hook with the smallest order is outermost.
func (b *Builder) Around(scope Scope, order int, fn AroundFunc) {
	b.RegisterHook(HookAround, scope, order, fn)
}

// Post registers a hook that runs after matching commands' handlers
// return successfully.
func (b *Builder) Post(scope Scope, order int, fn PostFunc) {
	b.RegisterHook(HookPost, scope, order, fn)
}

// OnError registers a hook that observes matching commands' pipeline
// failures. It cannot suppress them.
func (b *Builder) OnError(scope Scope, order int, fn OnErrorFunc) {
	b.RegisterHook(HookOnError, scope, order, fn)
}

// Install invokes each module's RegisterInto so it can group related
// registrations.
func (b *Builder) Install(mods ...Module) {
	for _, m := range mods {
		m.RegisterInto(b)
	}
}

// Build validates every registration and freezes the accumulated state
// into an immutable Dispatcher. Violations are aggregated: a single
// *BuildError reports every duplicate binding, invalid hook signature,
// and unresolvable hook scope at once, and no Dispatcher is produced.
//
// Each command's pipeline is composed here, once; dispatch never
// re-evaluates scopes or re-sorts hooks.
func (b *Builder) Build() (*Dispatcher, error) {
	problems := slices.Clone(b.problems)

	hooks := make([]Hook, 0, len(b.hooks))
	for _, h := range b.hooks {
		nh, err := h.normalize()
		if err != nil {
			problems = append(problems, err)
			continue
		}
		if !b.scopeResolves(nh.Scope) {
			problems = append(problems, &UnresolvableScopeError{Kind: nh.Kind, Order: nh.Order})
			continue
		}
		hooks = append(hooks, nh)
	}

	if len(problems) > 0 {
		return nil, &BuildError{Problems: problems}
	}

	d := &Dispatcher{
		commands:      make(map[Key]*composedCommand, len(b.commands)),
		notifications: make(map[Key][]notificationBinding, len(b.notifications)),
		streams:       make(map[Key]*streamBinding, len(b.streams)),
	}
	for key, cb := range b.commands {
		d.commands[key] = &composedCommand{
			binding: cb,
			run:     composePipeline(cb, hooks),
		}
	}
	for key, list := range b.notifications {
		d.notifications[key] = slices.Clone(list)
	}
	for key, sb := range b.streams {
		d.streams[key] = sb
	}
	return d, nil
}

// scopeResolves reports whether the scope matches at least one
// registered command. A hook that matches nothing is a registration
// mistake: it would silently never run.
func (b *Builder) scopeResolves(s Scope) bool {
	if s == nil {
		return false
	}
	for _, cb := range b.commands {
		if s.Match(cb.profile) {
			return true
		}
	}
	return false
}
