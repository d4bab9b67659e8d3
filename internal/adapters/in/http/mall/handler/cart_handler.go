// internal/adapters/in/http/mall/handler/cart_handler.go
package mallHandler

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	dto "storefront/internal/application/query/mall/dto"
	usecase "storefront/internal/application/usecase"
	cartdom "storefront/internal/domain/cart"
)

// CartHandler serves the session's cart.
//
// Routes:
// - GET    /mall/me/cart
// - POST   /mall/me/cart/items              {"productId","variantId","quantity","custom":{"typeKey","fields"}}
// - PATCH  /mall/me/cart/items/{lineItemId} {"delta": 1 | -1}
// - DELETE /mall/me/cart/items/{lineItemId}
type CartHandler struct {
	uc  *usecase.CartUsecase
	log logrus.FieldLogger
}

func NewCartHandler(uc *usecase.CartUsecase, log logrus.FieldLogger) http.Handler {
	return &CartHandler{uc: uc, log: log}
}

type addItemRequest struct {
	ProductID string                `json:"productId"`
	VariantID string                `json:"variantId"`
	Quantity  int64                 `json:"quantity"`
	Custom    *cartdom.CustomFields `json:"custom,omitempty"`
}

type changeQuantityRequest struct {
	Delta int64 `json:"delta"`
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}

	tail := pathTail(r.URL.Path, "/mall/me/cart")
	sid := sessionID(r)

	var (
		c   *cartdom.Cart
		err error
	)
	switch {
	case len(tail) == 0:
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		c, err = h.uc.Get(r.Context(), sid)

	case len(tail) == 1 && tail[0] == "items":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		var req addItemRequest
		if err := decodeJSON(r, &req); err != nil {
			badRequest(w, "invalid json")
			return
		}
		c, err = h.uc.AddItem(r.Context(), sid, req.ProductID, req.VariantID, req.Quantity, req.Custom)

	case len(tail) == 2 && tail[0] == "items":
		lineItemID := strings.TrimSpace(tail[1])
		switch r.Method {
		case http.MethodPatch:
			var req changeQuantityRequest
			if err := decodeJSON(r, &req); err != nil || req.Delta == 0 {
				badRequest(w, "delta is required")
				return
			}
			c, err = h.uc.ChangeQuantity(r.Context(), sid, lineItemID, req.Delta)
		case http.MethodDelete:
			c, err = h.uc.RemoveItem(r.Context(), sid, lineItemID)
		default:
			methodNotAllowed(w)
			return
		}

	default:
		notFound(w)
		return
	}

	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Cart(c))
}
