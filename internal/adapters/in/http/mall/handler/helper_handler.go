// internal/adapters/in/http/mall/handler/helper_handler.go
package mallHandler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	mallquery "storefront/internal/application/query/mall"
	usecase "storefront/internal/application/usecase"

	ct "storefront/internal/adapters/out/commercetools"
	cartdom "storefront/internal/domain/cart"
	orderdom "storefront/internal/domain/order"
	scdom "storefront/internal/domain/storecontext"
	vdom "storefront/internal/domain/variant"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// ============================================================
// HTTP helpers
// ============================================================

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": strings.TrimSpace(msg)})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeErr(w, http.StatusMethodNotAllowed, "method_not_allowed")
}

func notFound(w http.ResponseWriter) {
	writeErr(w, http.StatusNotFound, "not_found")
}

func badRequest(w http.ResponseWriter, msg string) {
	writeErr(w, http.StatusBadRequest, msg)
}

// decodeJSON reads a bounded JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// sessionID is set by the session middleware.
func sessionID(r *http.Request) string {
	return usecase.SessionIDFromContext(r.Context())
}

// pathTail returns the path after prefix split on "/", without empty segments.
func pathTail(path, prefix string) []string {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(rest, "/") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ============================================================
// Error mapping
// ============================================================

// statusFor maps usecase/domain/adapter errors onto HTTP status codes.
func statusFor(err error) int {
	var remote *ct.RemoteQueryError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, usecase.ErrSessionNotFound),
		errors.Is(err, usecase.ErrDetailNotOpen),
		errors.Is(err, usecase.ErrCartNotFound),
		errors.Is(err, vdom.ErrNotFound),
		errors.Is(err, cartdom.ErrNotFound),
		errors.Is(err, cartdom.ErrLineItemNotFound),
		errors.Is(err, orderdom.ErrNotFound),
		errors.Is(err, orderdom.ErrNoCart),
		errors.Is(err, orderdom.ErrNoOrder),
		errors.Is(err, mallquery.ErrUnknownOptionKind):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrSessionInvalidArgument),
		errors.Is(err, usecase.ErrDetailInvalidArgument),
		errors.Is(err, usecase.ErrCartInvalidArgument),
		errors.Is(err, usecase.ErrUnknownAxis),
		errors.Is(err, cartdom.ErrInvalidCart),
		errors.Is(err, cartdom.ErrInvalidQuantity),
		errors.Is(err, scdom.ErrInvalidCurrency),
		errors.Is(err, scdom.ErrInvalidCountry),
		errors.Is(err, vdom.ErrVariantNotInMatrix):
		return http.StatusBadRequest
	case errors.Is(err, orderdom.ErrConflict),
		errors.Is(err, vdom.ErrNoRecovery):
		return http.StatusConflict
	case errors.Is(err, cartdom.ErrCurrencyRequired),
		errors.Is(err, orderdom.ErrCartEmpty):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ct.ErrAuth):
		return http.StatusBadGateway
	case errors.As(err, &remote):
		if remote.Status == http.StatusConflict {
			return http.StatusConflict
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs server side failures and answers with the mapped status.
func writeError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError && log != nil {
		log.WithError(err).WithField("status", code).Error("request failed")
	}
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal_error"
	}
	writeErr(w, code, msg)
}
