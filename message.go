package mediate

import (
	"context"
	"iter"
)

// CommandHandler handles a command of type C and produces a response of
// type R. Exactly one command handler may be registered per command
// type.
//
// Example:
//
//	type CreateOrderHandler struct {
//	    orders OrderStore
//	}
//
//	func (h *CreateOrderHandler) Handle(ctx context.Context, cmd CreateOrder) (OrderID, error) {
//	    return h.orders.Create(ctx, cmd.CustomerID)
//	}
type CommandHandler[C, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// CommandHandlerFunc is a function adapter for CommandHandler. Use for
// simple handlers that don't need a struct:
//
//	mediate.RegisterCommandFunc(b, func(ctx context.Context, cmd Ping) (string, error) {
//	    return "pong", nil
//	})
type CommandHandlerFunc[C, R any] func(ctx context.Context, cmd C) (R, error)

// Handle implements the CommandHandler interface.
func (f CommandHandlerFunc[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	return f(ctx, cmd)
}

// NotificationHandler handles a notification of type N. Any number of
// handlers may be registered for the same notification type; Publish
// invokes them in registration order.
type NotificationHandler[N any] interface {
	Handle(ctx context.Context, n N) error
}

// NotificationHandlerFunc is a function adapter for NotificationHandler.
type NotificationHandlerFunc[N any] func(ctx context.Context, n N) error

// Handle implements the NotificationHandler interface.
func (f NotificationHandlerFunc[N]) Handle(ctx context.Context, n N) error {
	return f(ctx, n)
}

// StreamHandler handles a stream request of type S and produces a lazy
// sequence of items of type I. The returned sequence must not produce
// items until iterated, and should stop at the first failed yield.
//
// Handlers are expected to poll ctx at their own yield boundaries;
// Stream additionally aborts delivery once ctx is done.
type StreamHandler[S, I any] interface {
	Handle(ctx context.Context, req S) iter.Seq2[I, error]
}

// StreamHandlerFunc is a function adapter for StreamHandler.
type StreamHandlerFunc[S, I any] func(ctx context.Context, req S) iter.Seq2[I, error]

// Handle implements the StreamHandler interface.
func (f StreamHandlerFunc[S, I]) Handle(ctx context.Context, req S) iter.Seq2[I, error] {
	return f(ctx, req)
}

// Module groups related registrations so they can be installed into a
// Builder as one unit. Modules run only during the build phase; the
// frozen Dispatcher never sees them.
//
// Example:
//
//	type BillingModule struct {
//	    invoices InvoiceStore
//	}
//
//	func (m *BillingModule) RegisterInto(b *mediate.Builder) {
//	    mediate.RegisterCommand(b, &ChargeHandler{invoices: m.invoices})
//	    mediate.RegisterNotification(b, &InvoicePaidNotifier{})
//	}
type Module interface {
	RegisterInto(b *Builder)
}

// ModuleFunc is a function adapter for Module.
type ModuleFunc func(b *Builder)

// RegisterInto implements the Module interface.
func (f ModuleFunc) RegisterInto(b *Builder) { f(b) }
