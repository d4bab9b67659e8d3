// internal/adapters/in/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"

	usecase "storefront/internal/application/usecase"
)

// SessionHeader carries the anonymous shopper session id both ways.
const SessionHeader = "X-Storefront-Session"

// SessionMiddleware resolves the shopper session for every request.
// The session key is the verified uid when present, else the header value;
// a new id is issued and echoed when neither exists.
type SessionMiddleware struct {
	Sessions *usecase.SessionUsecase
	Log      logrus.FieldLogger
}

func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil || m.Sessions == nil {
			http.Error(w, "session middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		ctx := r.Context()
		s, err := m.Sessions.Resolve(ctx, r.Header.Get(SessionHeader), usecase.UIDFromContext(ctx))
		if err != nil {
			if m.Log != nil {
				m.Log.WithError(err).Error("[session] resolve failed")
			}
			http.Error(w, "session unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set(SessionHeader, s.ID)
		next.ServeHTTP(w, r.WithContext(usecase.WithSessionID(ctx, s.ID)))
	})
}
