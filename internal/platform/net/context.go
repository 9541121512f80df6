// Package net holds transport-neutral request context helpers and the response wire
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const keyContactID ctxKey = "contact_id"

// WithRequest stores the request id where chimw.GetReqID finds it
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// WithContact annotates ctx with the authenticated contact id; ids <= 0 are ignored
func WithContact(ctx context.Context, contactID int64) context.Context {
	if contactID <= 0 {
		return ctx
	}
	return context.WithValue(ctx, keyContactID, contactID)
}

// RequestID returns the request id on ctx or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// ContactID returns the authenticated contact id on ctx; ok is false when anonymous
func ContactID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(keyContactID).(int64)
	return id, ok && id > 0
}
