// internal/adapters/in/http/mall/handler/catalog_handler.go
package mallHandler

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	mallquery "storefront/internal/application/query/mall"
	usecase "storefront/internal/application/usecase"
)

// CatalogHandler serves the home page listing.
//
// Routes:
// - GET /mall/catalog?q=
type CatalogHandler struct {
	Q        *mallquery.CatalogQuery
	sessions *usecase.SessionUsecase
	log      logrus.FieldLogger
}

func NewCatalogHandler(q *mallquery.CatalogQuery, sessions *usecase.SessionUsecase, log logrus.FieldLogger) http.Handler {
	return &CatalogHandler{Q: q, sessions: sessions, log: log}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Q == nil || h.sessions == nil {
		writeErr(w, http.StatusInternalServerError, "catalog handler is not ready")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if strings.TrimRight(r.URL.Path, "/") != "/mall/catalog" {
		notFound(w)
		return
	}

	sc, err := h.sessions.Context(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := h.Q.List(r.Context(), sc, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
