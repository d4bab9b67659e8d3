// internal/adapters/in/http/mall/handler/context_handler.go
package mallHandler

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	mallquery "storefront/internal/application/query/mall"
	usecase "storefront/internal/application/usecase"
	scdom "storefront/internal/domain/storecontext"
)

// ContextHandler serves the store context pickers and the shopper's current context.
//
// Routes:
// - GET /mall/context/options/{stores|channels|customer-groups|currencies|countries}
// - GET /mall/me/context
// - PUT /mall/me/context   (absent fields are kept, "" clears)
type ContextHandler struct {
	sessions *usecase.SessionUsecase
	options  *mallquery.ContextOptionsQuery
	details  *usecase.ProductDetailUsecase
	log      logrus.FieldLogger
}

func NewContextHandler(
	sessions *usecase.SessionUsecase,
	options *mallquery.ContextOptionsQuery,
	details *usecase.ProductDetailUsecase,
	log logrus.FieldLogger,
) http.Handler {
	return &ContextHandler{sessions: sessions, options: options, details: details, log: log}
}

func (h *ContextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimRight(r.URL.Path, "/")

	switch {
	case strings.HasPrefix(path, "/mall/context/options"):
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		tail := pathTail(path, "/mall/context/options")
		if len(tail) != 1 {
			notFound(w)
			return
		}
		out, err := h.options.List(r.Context(), tail[0])
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, out)

	case path == "/mall/me/context":
		switch r.Method {
		case http.MethodGet:
			sc, err := h.sessions.Context(r.Context(), sessionID(r))
			if err != nil {
				writeError(w, h.log, err)
				return
			}
			writeJSON(w, http.StatusOK, sc)
		case http.MethodPut:
			var u scdom.Update
			if err := decodeJSON(r, &u); err != nil {
				badRequest(w, "invalid json")
				return
			}
			sid := sessionID(r)
			sc, err := h.sessions.UpdateContext(r.Context(), sid, u)
			if err != nil {
				writeError(w, h.log, err)
				return
			}
			// open pages were priced in the old context
			if h.details != nil {
				h.details.Close(sid)
			}
			writeJSON(w, http.StatusOK, sc)
		default:
			methodNotAllowed(w)
		}

	default:
		notFound(w)
	}
}
