// internal/application/usecase/context.go
package usecase

import (
	"context"
	"strings"
)

// usecase 層で使う context key
type ctxKey string

const (
	ctxKeySessionID ctxKey = "sessionId"
	ctxKeyUID       ctxKey = "uid"
	ctxKeyEmail     ctxKey = "email"
)

// ミドルウェアなど外側から sessionId を注入するためのヘルパー
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKeySessionID, sid)
}

// usecase 内部で sessionId を取り出すためのヘルパー
func SessionIDFromContext(ctx context.Context) string {
	s, _ := ctx.Value(ctxKeySessionID).(string)
	return strings.TrimSpace(s)
}

// WithUID carries a verified Firebase uid.
func WithUID(ctx context.Context, uid string) context.Context {
	u := strings.TrimSpace(uid)
	if u == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyUID, u)
}

func UIDFromContext(ctx context.Context) string {
	s, _ := ctx.Value(ctxKeyUID).(string)
	return strings.TrimSpace(s)
}

// WithEmail carries the verified shopper email (Firebase "email" claim).
func WithEmail(ctx context.Context, email string) context.Context {
	e := strings.TrimSpace(email)
	if e == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyEmail, e)
}

func EmailFromContext(ctx context.Context) string {
	s, _ := ctx.Value(ctxKeyEmail).(string)
	return strings.TrimSpace(s)
}
