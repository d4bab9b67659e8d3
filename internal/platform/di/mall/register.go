// internal/platform/di/mall/register.go
package mall

import (
	"net/http"

	mallhttp "storefront/internal/adapters/in/http/mall"
	mallhandler "storefront/internal/adapters/in/http/mall/handler"
	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/infra/logging"
)

// Register registers mall routes onto mux.
// Pure DI: construct handlers and pass into mall router.Register.
// - No method/path branching here
// - every mall route runs behind optional user auth + session resolution
func Register(mux *http.ServeMux, cont *Container) {
	if mux == nil || cont == nil {
		return
	}
	log := logging.Component(cont.Log, "mall")

	// ------------------------------------------------------------
	// Auth / session middleware (buyer side)
	// ------------------------------------------------------------
	userAuthMW := &middleware.UserAuthMiddleware{Log: log}
	if cont.Infra != nil && cont.Infra.FirebaseAuth != nil {
		userAuthMW.Verifier = cont.Infra.FirebaseAuth
	} else {
		log.Warn("[mall.register] Firebase Auth not configured: all shoppers are anonymous")
	}
	sessionMW := &middleware.SessionMiddleware{Sessions: cont.SessionUC, Log: log}

	withSession := func(h http.Handler) http.Handler {
		return userAuthMW.Handler(sessionMW.Handler(h))
	}

	// ----------------------------
	// Handlers (construct only)
	// ----------------------------
	deps := mallhttp.Deps{
		Context:       withSession(mallhandler.NewContextHandler(cont.SessionUC, cont.OptionsQ, cont.ProductDetailUC, log)),
		Catalog:       withSession(mallhandler.NewCatalogHandler(cont.CatalogQ, cont.SessionUC, log)),
		ProductDetail: withSession(mallhandler.NewProductDetailHandler(cont.ProductDetailUC, cont.SessionUC, log)),
		Cart:          withSession(mallhandler.NewCartHandler(cont.CartUC, log)),
		Order:         withSession(mallhandler.NewOrderHandler(cont.OrderUC, log)),
		Log:           log,
	}

	mallhttp.Register(mux, deps)
	log.Info("[mall.register] routes registered")
}
