// internal/adapters/in/http/mall/router.go
package mall

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// Deps is a buyer-facing (mall) handler set.
type Deps struct {
	Context       http.Handler
	Catalog       http.Handler
	ProductDetail http.Handler
	Cart          http.Handler
	Order         http.Handler

	Log logrus.FieldLogger
}

// handleSafe registers pattern with h.
// If h is nil, it logs and registers NotFoundHandler instead (so Cloud Run won't crash).
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string, log logrus.FieldLogger) {
	if h == nil {
		if log != nil {
			log.WithFields(logrus.Fields{"handler": name, "pattern": pattern}).
				Warn("[mall.router] nil handler, registering NotFoundHandler")
		}
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// Register registers buyer-facing routes onto mux (mall only).
func Register(mux *http.ServeMux, deps Deps) {
	if mux == nil {
		return
	}
	l := deps.Log

	// store context
	handleSafe(mux, "/mall/context/options/", deps.Context, "Context(options)", l)
	handleSafe(mux, "/mall/me/context", deps.Context, "Context(me)", l)

	// catalog
	handleSafe(mux, "/mall/catalog", deps.Catalog, "Catalog", l)

	// product detail
	handleSafe(mux, "/mall/product-detail/", deps.ProductDetail, "ProductDetail", l)

	// cart
	handleSafe(mux, "/mall/me/cart", deps.Cart, "Cart(me)", l)
	handleSafe(mux, "/mall/me/cart/", deps.Cart, "Cart(me)", l)

	// orders
	handleSafe(mux, "/mall/me/orders", deps.Order, "Order(me)", l)
	handleSafe(mux, "/mall/me/orders/", deps.Order, "Order(me)", l)
}
