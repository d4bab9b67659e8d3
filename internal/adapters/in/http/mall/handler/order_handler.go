// internal/adapters/in/http/mall/handler/order_handler.go
package mallHandler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	dto "storefront/internal/application/query/mall/dto"
	usecase "storefront/internal/application/usecase"
)

// OrderHandler places the session's cart and shows the resulting order.
//
// Routes:
// - POST /mall/me/orders
// - GET  /mall/me/orders/current
type OrderHandler struct {
	uc  *usecase.OrderUsecase
	log logrus.FieldLogger
}

func NewOrderHandler(uc *usecase.OrderUsecase, log logrus.FieldLogger) http.Handler {
	return &OrderHandler{uc: uc, log: log}
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "order handler is not configured")
		return
	}

	tail := pathTail(r.URL.Path, "/mall/me/orders")
	switch {
	case len(tail) == 0:
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		o, err := h.uc.Place(r.Context(), sessionID(r))
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusCreated, dto.Order(o))

	case len(tail) == 1 && tail[0] == "current":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		o, err := h.uc.Current(r.Context(), sessionID(r))
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, dto.Order(o))

	default:
		notFound(w)
	}
}
