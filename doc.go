// Package mediate provides an in-process message-dispatch engine for
// commands, notifications, and streams.
//
// The package routes three message shapes to typed handlers by type
// identity: commands (one handler, request/response), notifications
// (zero-or-more handlers, fan-out, no response), and stream requests
// (one handler, lazy sequence of items). Every command runs through a
// deterministically composed pipeline of cross-cutting hooks.
//
// # Quick Start
//
// Define a command and its handler:
//
//	type CreateOrder struct {
//	    CustomerID string
//	}
//
//	type CreateOrderHandler struct {
//	    orders OrderStore
//	}
//
//	func (h *CreateOrderHandler) Handle(ctx context.Context, cmd CreateOrder) (OrderID, error) {
//	    return h.orders.Create(ctx, cmd.CustomerID)
//	}
//
// Register it, build, and send:
//
//	b := mediate.NewBuilder()
//	mediate.RegisterCommand(b, &CreateOrderHandler{orders: orders})
//
//	d, err := b.Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	id, err := mediate.Send[CreateOrder, OrderID](ctx, d, CreateOrder{CustomerID: "c-42"})
//
// # Two-Phase Lifecycle
//
// The engine has a build phase and an execution phase:
//
//   - Build phase: a Builder accumulates handler bindings and hooks.
//     Modules can group related registrations via Install. Build
//     validates every invariant, composes each command's pipeline once,
//     and freezes the result.
//   - Execution phase: the Dispatcher is immutable. Its only operations
//     are Send, Publish, and Stream, and it is safe for concurrent use
//     without locking. No registration API is reachable.
//
// Build-time violations are aggregated: one *BuildError reports every
// duplicate command or stream binding, invalid hook signature, and hook
// scope that matches no registered command. No Dispatcher is produced
// on failure.
//
// # Message Shapes
//
// Commands have exactly one handler and return a response. Registering
// a second handler for the same command type fails Build. Sending a
// command with no handler fails with ErrHandlerNotFound.
//
// Notifications have zero or more handlers, invoked strictly in
// registration order on the calling goroutine. Publishing with zero
// handlers is a no-op. Delivery is continue-on-error: every handler
// runs, and failures are aggregated into one *FanoutError naming each
// failing handler. Callers wanting concurrent delivery fan out inside
// a handler explicitly.
//
// Stream requests have exactly one handler producing an
// iter.Seq2[I, error]. The sequence is lazy (nothing runs until the
// caller iterates) and single-use (each Stream call produces a fresh
// sequence).
//
// # Pipeline Hooks
//
// Hooks attach cross-cutting behavior to command execution. Each hook
// has a kind, an explicit order, and a scope selecting the commands it
// applies to:
//
//	b.Pre(mediate.AllCommands(), 0, func(ctx context.Context, cmd any) error {
//	    log.Printf("handling %T", cmd)
//	    return nil
//	})
//
//	b.Around(mediate.AllCommands(), 0, func(ctx context.Context, cmd any, next mediate.Next) (any, error) {
//	    start := time.Now()
//	    res, err := next(ctx)
//	    log.Printf("%T took %v", cmd, time.Since(start))
//	    return res, err
//	})
//
// For one command, the composed chain is:
//
//	pre hooks -> around hooks -> handler -> post hooks
//
// Pre and post hooks run sequentially in ascending (order, registration
// sequence). Around hooks nest so the hook with the smallest order is
// outermost: with A (order 0) and B (order 1) the trace is
//
//	A.before, B.before, handler, B.after, A.after
//
// On any failure the matching on-error hooks observe the error and the
// error then propagates to the caller; hooks cannot suppress it. A
// command with zero matching hooks is a direct pass-through to its
// handler.
//
// Pipelines are composed once, at build time. Two dispatchers built
// from identical registration scripts produce identical execution
// traces.
//
// Hooks apply to commands only. Notifications and streams dispatch
// without pipelines; this is a deliberate scoping decision, not a gap.
//
// # Scopes
//
// A Scope is a predicate over a command's Profile (its identity, kind,
// and name), matched once at build time. Composable scopes are
// provided:
//
//   - ForCommand[C]: exactly the command type C
//   - AllCommands: every registered command
//   - Named, NamePrefix: match by type name
//   - And, Or, Not: combinators
//   - ScopeFunc: custom predicates
//
// A hook whose scope matches no registered command fails Build; it
// would otherwise silently never run.
//
// # Cancellation
//
// Cancellation is cooperative. The context passed to Send, Publish, or
// Stream is threaded by reference through every hook and handler; the
// pipeline polls it between stages, Publish polls it between handlers,
// and Stream polls it at item boundaries. Nothing is preempted:
// handlers doing long work must poll ctx themselves. Cancellation does
// not undo effects a hook has already applied; cleanup on abort belongs
// to the hook, typically with defer around whatever it opened.
//
// # Error Handling
//
// Concrete errors wrap package sentinels, so callers branch with
// errors.Is and inspect with errors.As:
//
//	if errors.Is(err, mediate.ErrHandlerNotFound) { ... }
//
//	var fe *mediate.FanoutError
//	if errors.As(err, &fe) {
//	    for _, f := range fe.Failures {
//	        log.Printf("%s failed: %v", f.Handler, f.Err)
//	    }
//	}
//
// Pipeline failures are returned as *ExecutionError carrying the
// command identity and failing stage; the original error is reachable
// through Unwrap. The engine never retries: all failures surface to
// the immediate caller, and retry, backoff, or dead-lettering belong
// to a calling layer.
//
// # Observability
//
// The package takes no logging or metrics dependency. Attach
// observability as hooks instead:
//
//	b.Pre(mediate.AllCommands(), 0, func(ctx context.Context, cmd any) error {
//	    slog.InfoContext(ctx, "dispatch", "command", fmt.Sprintf("%T", cmd))
//	    return nil
//	})
//
//	b.OnError(mediate.AllCommands(), 0, func(ctx context.Context, cmd any, err error) {
//	    metrics.Incr("dispatch.failure")
//	})
//
// # Modules
//
// A Module groups related registrations from elsewhere in an
// application:
//
//	type BillingModule struct{ invoices InvoiceStore }
//
//	func (m *BillingModule) RegisterInto(b *mediate.Builder) {
//	    mediate.RegisterCommand(b, &ChargeHandler{invoices: m.invoices})
//	    mediate.RegisterNotification(b, &InvoicePaidNotifier{})
//	}
//
//	b.Install(&BillingModule{invoices: invoices})
//
// # Thread Safety
//
// Builder is not safe for concurrent use. Dispatcher is: after Build,
// all bindings and pipelines are immutable and any number of
// goroutines may call Send, Publish, and Stream. Handlers driven
// concurrently are responsible for their own synchronization.
package mediate
