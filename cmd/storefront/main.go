// cmd/storefront/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/infra/config"
	"storefront/internal/infra/logging"
	"storefront/internal/infra/metrics"
	mallDI "storefront/internal/platform/di/mall"
	shared "storefront/internal/platform/di/shared"
)

// atomicHandler allows swapping the underlying handler at runtime safely.
type atomicHandler struct {
	v atomic.Value // stores http.Handler
}

func newAtomicHandler(initial http.Handler) *atomicHandler {
	ah := &atomicHandler{}
	if initial == nil {
		initial = http.NotFoundHandler()
	}
	ah.v.Store(initial)
	return ah
}

func (h *atomicHandler) Store(next http.Handler) {
	if next == nil {
		return
	}
	h.v.Store(next)
}

func (h *atomicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cur := h.v.Load()
	if cur == nil {
		http.NotFound(w, r)
		return
	}
	cur.(http.Handler).ServeHTTP(w, r)
}

const sweepInterval = 5 * time.Minute

func baseMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func main() {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	boot := log.WithField("component", "boot")

	chain := func(h http.Handler) http.Handler {
		h = metrics.InstrumentHandler(h)
		h = middleware.RequestLog(log)(h)
		h = middleware.CORS(cfg.AllowedOrigin)(h)
		return middleware.Recover(log)(h)
	}

	// ─────────────────────────────────────────────────────────────
	// Start listening ASAP with lightweight mux (healthz + metrics only)
	// ─────────────────────────────────────────────────────────────
	switcher := newAtomicHandler(chain(baseMux()))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      switcher,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Commercetools.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─────────────────────────────────────────────────────────────
	// Lifetime management (infra/container)
	// ─────────────────────────────────────────────────────────────
	var infraHolder atomic.Pointer[shared.Infra]
	var mallHolder atomic.Pointer[mallDI.Container]

	shuttingDown := make(chan struct{})

	// ─────────────────────────────────────────────────────────────
	// Graceful shutdown
	// ─────────────────────────────────────────────────────────────
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		sig := <-c

		close(shuttingDown)
		stop()
		boot.WithField("signal", sig.String()).Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			boot.WithError(err).Warn("server shutdown error")
		}

		if cont := mallHolder.Swap(nil); cont != nil {
			if err := cont.Close(); err != nil {
				boot.WithError(err).Warn("mall container close error")
			}
		}
		if infra := infraHolder.Swap(nil); infra != nil {
			if err := infra.Close(); err != nil {
				boot.WithError(err).Warn("infra close error")
			}
		}

		close(idleConnsClosed)
	}()

	// Start server NOW (Cloud Run startup requirement)
	go func() {
		boot.WithField("port", cfg.Port).Info("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			boot.WithError(err).Fatal("server error")
		}
	}()

	// ─────────────────────────────────────────────────────────────
	// Heavy DI init in background; then swap handler to full app mux
	// ─────────────────────────────────────────────────────────────
	go func() {
		initCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()

		// 1) shared infra
		infra, err := shared.NewInfra(initCtx, cfg, log)
		if err != nil {
			boot.WithError(err).Warn("shared infra init failed (serving /healthz only)")
			return
		}
		infraHolder.Store(infra)

		// 2) mall container (required)
		cont, err := mallDI.NewContainer(initCtx, infra)
		if err != nil {
			if infraHolder.CompareAndSwap(infra, nil) {
				_ = infra.Close()
			}
			boot.WithError(err).Warn("mall di init failed (serving /healthz only)")
			return
		}
		mallHolder.Store(cont)

		select {
		case <-shuttingDown:
			// shutdown may have run before the holders were filled
			if c := mallHolder.Swap(nil); c != nil {
				_ = c.Close()
			}
			if i := infraHolder.Swap(nil); i != nil {
				_ = i.Close()
			}
			return
		default:
		}

		go cont.RunSweeper(ctx, sweepInterval)

		// 3) mall routes
		fullMux := baseMux()
		mallDI.Register(fullMux, cont)

		switcher.Store(chain(fullMux))
		boot.WithFields(logrus.Fields{
			"project": cfg.Commercetools.ProjectKey,
			"locale":  cfg.Locale,
		}).Info("handler switched to storefront router")
	}()

	<-idleConnsClosed
	boot.Info("server stopped")
}
