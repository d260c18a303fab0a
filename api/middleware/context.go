package middleware

import (
	"context"

	"github.com/agrilinkhq/agrilink-backend/internal/orders"
)

type contextKey string

const ctxActor contextKey = "actor"

// ActorFromContext returns the authenticated party for the request, if any.
func ActorFromContext(ctx context.Context) (orders.Actor, bool) {
	if ctx == nil {
		return orders.Actor{}, false
	}
	if actor, ok := ctx.Value(ctxActor).(orders.Actor); ok {
		return actor, true
	}
	return orders.Actor{}, false
}

// WithActor injects the authenticated party into the context.
func WithActor(ctx context.Context, actor orders.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}
