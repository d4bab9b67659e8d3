// internal/adapters/in/http/middleware/user_auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/sirupsen/logrus"

	usecase "storefront/internal/application/usecase"
)

// FirebaseAuthClient は firebase auth クライアントのエイリアス。
type FirebaseAuthClient = fbauth.Client

// TokenVerifier is the part of the Firebase Auth client the middleware needs.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

var _ TokenVerifier = (*FirebaseAuthClient)(nil)

// UserAuthMiddleware verifies an optional Firebase ID token and stores the uid in context.
// - no Authorization header: anonymous shopper, passes through
// - a bearer token that fails verification: 401
// - Verifier nil (Firebase not configured): every request is anonymous
type UserAuthMiddleware struct {
	Verifier TokenVerifier
	Log      logrus.FieldLogger
}

func (m *UserAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if m == nil || m.Verifier == nil || authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "unauthorized: missing bearer token", http.StatusUnauthorized)
			return
		}
		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		// Firebase ID token verification
		token, err := m.Verifier.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			if m.Log != nil {
				m.Log.WithError(err).Debug("[user_auth] token rejected")
			}
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		ctx := usecase.WithUID(r.Context(), uid)
		if email, ok := token.Claims["email"].(string); ok {
			ctx = usecase.WithEmail(ctx, email)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentUserUID returns the verified Firebase UID, if any.
func CurrentUserUID(r *http.Request) (string, bool) {
	uid := usecase.UIDFromContext(r.Context())
	return uid, uid != ""
}
