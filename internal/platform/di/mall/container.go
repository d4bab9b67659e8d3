// internal/platform/di/mall/container.go
package mall

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	// inbound (query + usecase types)
	mallquery "storefront/internal/application/query/mall"
	usecase "storefront/internal/application/usecase"

	// outbound
	ct "storefront/internal/adapters/out/commercetools"
	outdb "storefront/internal/adapters/out/db"
	outfs "storefront/internal/adapters/out/firestore"
	outgcs "storefront/internal/adapters/out/gcs"
	"storefront/internal/adapters/out/mail"
	"storefront/internal/adapters/out/memory"

	orderdom "storefront/internal/domain/order"
	sessiondom "storefront/internal/domain/session"
	appcfg "storefront/internal/infra/config"
	"storefront/internal/infra/logging"

	shared "storefront/internal/platform/di/shared"
)

// Container is Mall DI container.
// Pure DI: build deps only. No routing branching, no reflection tricks.
type Container struct {
	Infra  *shared.Infra
	Config *appcfg.Config
	Log    *logrus.Logger

	// outbound
	Commercetools *ct.Client
	SessionRepo   sessiondom.Repository

	// Usecases (mall-facing)
	SessionUC       *usecase.SessionUsecase
	ProductDetailUC *usecase.ProductDetailUsecase
	CartUC          *usecase.CartUsecase
	OrderUC         *usecase.OrderUsecase

	// Queries (mall-facing)
	CatalogQ *mallquery.CatalogQuery
	OptionsQ *mallquery.ContextOptionsQuery
}

func NewContainer(ctx context.Context, infra *shared.Infra) (*Container, error) {
	if infra == nil {
		return nil, errors.New("di.mall: shared infra is nil")
	}
	if infra.Config == nil || infra.Log == nil {
		return nil, errors.New("di.mall: shared infra config/log is nil")
	}
	log := infra.Log
	l := logging.Component(log, "di.mall")

	// ------------------------------------------------------------
	// Config: commercetools secret (env or Secret Manager)
	// ------------------------------------------------------------
	cfg := infra.Config
	if cfg.Commercetools.ClientSecret == "" && cfg.Commercetools.ClientSecretName != "" {
		p := &clientSecretProviderSM{projectID: infra.ProjectID}
		if infra.SecretManager != nil {
			p.sm = infra.SecretManager
		}
		secret, err := p.ClientSecret(ctx, cfg.Commercetools.ClientSecretName)
		if err != nil {
			return nil, fmt.Errorf("di.mall: resolve commercetools client secret: %w", err)
		}
		cfg = cfg.WithClientSecret(secret)
		l.Info("commercetools client secret resolved from Secret Manager")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// ------------------------------------------------------------
	// Outbound adapters
	// ------------------------------------------------------------
	client, err := ct.NewClient(cfg.Commercetools, ct.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("di.mall: commercetools client: %w", err)
	}
	catalog := ct.NewCatalogReader(client, cfg.Locale, cfg.SelectableAxes)
	options := ct.NewOptionsReader(client, cfg.Locale)
	carts := ct.NewCartRepository(client, cfg.Locale)
	orders := ct.NewOrderRepository(client, cfg.Locale)

	sessionRepo, err := newSessionRepository(ctx, infra, cfg, l)
	if err != nil {
		return nil, err
	}

	// order placed side effects (best-effort; each optional)
	var listeners []orderdom.PlacedListener
	if m, ok := mail.NewOrderMailerWithSendGrid(cfg.SendGridAPIKey, cfg.MailFrom, log); ok {
		listeners = append(listeners, m)
		l.Info("order confirmation mail: sendgrid")
	}
	if infra.Storage != nil && cfg.ReceiptBucket != "" {
		listeners = append(listeners, outgcs.NewReceiptArchiveGCS(infra.Storage, cfg.ReceiptBucket))
		l.WithField("bucket", cfg.ReceiptBucket).Info("order receipts: gcs")
	}

	// ------------------------------------------------------------
	// Application
	// ------------------------------------------------------------
	sessions := usecase.NewSessionUsecase(sessionRepo, cfg.SessionTTL, cfg.DefaultCurrency)

	return &Container{
		Infra:         infra,
		Config:        cfg,
		Log:           log,
		Commercetools: client,
		SessionRepo:   sessionRepo,

		SessionUC:       sessions,
		ProductDetailUC: usecase.NewProductDetailUsecase(catalog, log),
		CartUC:          usecase.NewCartUsecase(carts, sessions),
		OrderUC: usecase.NewOrderUsecase(carts, orders, sessions).
			WithListeners(logging.Component(log, "order"), listeners...),

		CatalogQ: mallquery.NewCatalogQuery(catalog),
		OptionsQ: mallquery.NewContextOptionsQuery(options),
	}, nil
}

// newSessionRepository picks the session store per STOREFRONT_SESSION_STORE.
// Auto mode ("") prefers Firestore, then PostgreSQL, then memory.
func newSessionRepository(ctx context.Context, infra *shared.Infra, cfg *appcfg.Config, l *logrus.Entry) (sessiondom.Repository, error) {
	hasFS := infra.Firestore != nil && infra.Firestore.Client != nil
	hasPG := infra.DB != nil && infra.DB.Client != nil

	switch cfg.SessionStore {
	case appcfg.SessionStoreFirestore:
		if !hasFS {
			return nil, errors.New("di.mall: firestore session store selected but no GCP project configured")
		}
	case appcfg.SessionStorePostgres:
		if !hasPG {
			return nil, errors.New("di.mall: postgres session store selected but database is not connected")
		}
		hasFS = false
	case appcfg.SessionStoreMemory:
		hasFS, hasPG = false, false
	}

	switch {
	case hasFS:
		l.Info("sessions: firestore")
		return outfs.NewSessionRepositoryFS(infra.Firestore.Client), nil
	case hasPG:
		repo := outdb.NewSessionRepositoryPG(infra.DB.Client)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("di.mall: session schema: %w", err)
		}
		l.Info("sessions: postgres")
		return repo, nil
	default:
		l.Warn("sessions: in-memory (not shared across instances)")
		return memory.NewSessionRepository(), nil
	}
}

// RunSweeper removes expired sessions and idle product pages every interval until ctx ends.
func (c *Container) RunSweeper(ctx context.Context, interval time.Duration) {
	if c == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	l := logging.Component(c.Log, "sweeper")
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := c.SessionUC.Sweep(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				l.WithError(err).Warn("session sweep failed")
			}
			pages := c.ProductDetailUC.Evict(now.Add(-c.Config.SessionTTL))
			if n > 0 || pages > 0 {
				l.WithFields(logrus.Fields{"sessions": n, "pages": pages}).Info("swept")
			}
		}
	}
}

// Close drops per-process state. Clients belong to Infra.
func (c *Container) Close() error {
	if c == nil || c.ProductDetailUC == nil {
		return nil
	}
	c.ProductDetailUC.Evict(time.Now().Add(time.Hour))
	return nil
}
