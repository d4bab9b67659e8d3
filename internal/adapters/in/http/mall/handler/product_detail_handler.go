// internal/adapters/in/http/mall/handler/product_detail_handler.go
package mallHandler

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	dto "storefront/internal/application/query/mall/dto"
	usecase "storefront/internal/application/usecase"
	scdom "storefront/internal/domain/storecontext"
	vdom "storefront/internal/domain/variant"
)

// ProductDetailHandler serves the product detail page state.
//
// Routes:
// - POST /mall/product-detail/{productId}?variant=   open (fallback: first variant)
// - GET  /mall/product-detail/{productId}            current state
// - POST /mall/product-detail/{productId}/select     {"axis":"color","value":"red"}
// - POST /mall/product-detail/{productId}/navigate   {"variantId":"3"}
// - POST /mall/product-detail/{productId}/recover
type ProductDetailHandler struct {
	uc       *usecase.ProductDetailUsecase
	sessions *usecase.SessionUsecase
	log      logrus.FieldLogger
}

func NewProductDetailHandler(uc *usecase.ProductDetailUsecase, sessions *usecase.SessionUsecase, log logrus.FieldLogger) http.Handler {
	return &ProductDetailHandler{uc: uc, sessions: sessions, log: log}
}

type selectRequest struct {
	Axis  string `json:"axis"`
	Value string `json:"value"`
}

type navigateRequest struct {
	VariantID string `json:"variantId"`
}

func (h *ProductDetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.uc == nil || h.sessions == nil {
		writeErr(w, http.StatusInternalServerError, "product detail handler is not ready")
		return
	}

	tail := pathTail(r.URL.Path, "/mall/product-detail")
	if len(tail) == 0 || len(tail) > 2 {
		notFound(w)
		return
	}
	sid, pid := sessionID(r), tail[0]
	action := ""
	if len(tail) == 2 {
		action = tail[1]
	}

	var (
		view usecase.ProductDetailView
		err  error
	)
	switch {
	case action == "" && r.Method == http.MethodGet:
		view, err = h.uc.View(sid, pid)

	case action == "" && r.Method == http.MethodPost:
		var sc scdom.Context
		if sc, err = h.sessions.Context(r.Context(), sid); err == nil {
			view, err = h.uc.Open(r.Context(), sid, sc, pid, r.URL.Query().Get("variant"))
		}

	case action == "select" && r.Method == http.MethodPost:
		var req selectRequest
		if decodeJSON(r, &req) != nil || strings.TrimSpace(req.Axis) == "" {
			badRequest(w, "axis is required")
			return
		}
		view, err = h.uc.SelectAttribute(r.Context(), sid, pid, vdom.Axis(strings.TrimSpace(req.Axis)), req.Value)

	case action == "navigate" && r.Method == http.MethodPost:
		var req navigateRequest
		if decodeJSON(r, &req) != nil {
			badRequest(w, "invalid json")
			return
		}
		view, err = h.uc.Navigate(r.Context(), sid, pid, req.VariantID)

	case action == "recover" && r.Method == http.MethodPost:
		view, err = h.uc.AcceptRecovery(sid, pid)

	case action == "" || action == "select" || action == "navigate" || action == "recover":
		methodNotAllowed(w)
		return

	default:
		notFound(w)
		return
	}

	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, productDetailResponse(view))
}

// ============================================================
// Response
// ============================================================

type axisOptionDTO struct {
	Value    dto.AxisValueDTO `json:"value"`
	Exists   bool             `json:"exists"`
	InStock  bool             `json:"inStock"`
	Selected bool             `json:"selected"`
}

type axisDTO struct {
	Name     string            `json:"name"`
	Kind     string            `json:"kind"`
	Selected *dto.AxisValueDTO `json:"selected,omitempty"`
	Options  []axisOptionDTO   `json:"options"`
}

type productDetailDTO struct {
	ProductID     string                      `json:"productId"`
	Seq           uint64                      `json:"seq"`
	Phase         string                      `json:"phase"`
	Displayed     dto.VariantDTO              `json:"displayed"`
	DisplayStale  bool                        `json:"displayStale"`
	Selection     map[string]dto.AxisValueDTO `json:"selection"`
	Axes          []axisDTO                   `json:"axes"`
	Recovery      *dto.VariantDTO             `json:"recovery,omitempty"`
	OtherVariants []dto.VariantDTO            `json:"otherVariants"`
	Context       scdom.Context               `json:"context"`
	CanAddToCart  bool                        `json:"canAddToCart"`
	Error         string                      `json:"error,omitempty"`
	Superseded    bool                        `json:"superseded,omitempty"`
}

func productDetailResponse(v usecase.ProductDetailView) productDetailDTO {
	out := productDetailDTO{
		ProductID:     v.ProductID,
		Seq:           v.Seq,
		Phase:         v.Phase.String(),
		Displayed:     dto.Variant(v.Displayed),
		DisplayStale:  v.DisplayStale,
		Selection:     map[string]dto.AxisValueDTO{},
		Axes:          make([]axisDTO, 0, len(v.Axes)),
		OtherVariants: dto.Variants(v.OtherVariants),
		Context:       v.Context,
		CanAddToCart:  v.CanAddToCart,
		Superseded:    v.Superseded,
	}
	for axis, val := range v.Selection {
		if !val.IsZero() {
			out.Selection[axis.String()] = dto.AxisValue(val)
		}
	}
	for _, a := range v.Axes {
		ad := axisDTO{
			Name:    a.Definition.Name.String(),
			Kind:    a.Definition.Kind.String(),
			Options: make([]axisOptionDTO, 0, len(a.Options)),
		}
		if !a.Selected.IsZero() {
			s := dto.AxisValue(a.Selected)
			ad.Selected = &s
		}
		for _, o := range a.Options {
			ad.Options = append(ad.Options, axisOptionDTO{
				Value:    dto.AxisValue(o.Value),
				Exists:   o.Exists,
				InStock:  o.InStock,
				Selected: o.Value.Equal(a.Selected),
			})
		}
		out.Axes = append(out.Axes, ad)
	}
	if v.Recovery != nil {
		r := dto.Variant(*v.Recovery)
		out.Recovery = &r
	}
	if v.Err != nil {
		out.Error = v.Err.Error()
	}
	return out
}
