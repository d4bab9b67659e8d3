// internal/platform/di/shared/infra.go
package shared

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	appcfg "storefront/internal/infra/config"
	"storefront/internal/infra/database"
	firestoreinfra "storefront/internal/infra/firestore"
)

// Infra is shared runtime infrastructure for DI.
// - owns external clients (Firestore/FirebaseAuth/SecretManager/GCS/PostgreSQL)
// - owns the resolved config and the root logger
//
// IMPORTANT:
// Infra must NOT depend on mall routers, handlers, or queries.
type Infra struct {
	// Config
	Config    *appcfg.Config
	ProjectID string
	Log       *logrus.Logger

	// Clients (owned; Close-managed). Each may be nil when not configured.
	Firestore     *firestoreinfra.ClientWrapper
	FirebaseAuth  *firebaseauth.Client
	SecretManager *secretmanager.Client
	Storage       *storage.Client
	DB            *database.DB
}

// NewInfra initializes shared infra.
// Without a GCP project the storefront runs local-only (memory or postgres sessions, no auth).
// PostgreSQL and GCS are strict when configured.
// With a project, Firestore is strict (return error); Firebase Auth is best-effort (warn + continue).
// Secret Manager is strict only when CTP_CLIENT_SECRET_NAME asks for it.
func NewInfra(ctx context.Context, cfg *appcfg.Config, log *logrus.Logger) (*Infra, error) {
	if cfg == nil {
		return nil, errors.New("shared.infra: config is nil")
	}
	if log == nil {
		return nil, errors.New("shared.infra: logger is nil")
	}
	l := log.WithField("component", "shared.infra")

	inf := &Infra{
		Config:    cfg,
		ProjectID: resolveProjectID(cfg),
		Log:       log,
	}

	// Credentials file (optional; mainly for local dev)
	credFile := strings.TrimSpace(cfg.FirestoreCredentialsFile)
	if credFile == "" {
		credFile = strings.TrimSpace(cfg.GCPCreds) // GOOGLE_APPLICATION_CREDENTIALS
	}
	var clientOpts []option.ClientOption
	if credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		l.WithField("file", redactPath(credFile)).Info("using credentials file for GCP clients")
	}

	// 1) Secret Manager (only when the commercetools secret lives there)
	if strings.TrimSpace(cfg.Commercetools.ClientSecretName) != "" {
		if inf.ProjectID == "" {
			return nil, errors.New("shared.infra: CTP_CLIENT_SECRET_NAME set but no GCP project configured")
		}
		sm, err := secretmanager.NewClient(ctx, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("shared.infra: secretmanager.NewClient failed: %w", err)
		}
		inf.SecretManager = sm
	}

	// 2) PostgreSQL (strict when selected)
	if usePostgres(cfg, inf.ProjectID) {
		db, err := database.NewConnection(ctx, cfg.DatabaseURL, l)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: postgres init failed: %w", err)
		}
		inf.DB = db
	}

	// 3) GCS (only for the order receipt archive)
	if strings.TrimSpace(cfg.ReceiptBucket) != "" {
		sc, err := storage.NewClient(ctx, clientOpts...)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: storage.NewClient failed: %w", err)
		}
		inf.Storage = sc
	}

	if inf.ProjectID == "" {
		l.Warn("no GCP project configured: Firestore sessions and Firebase auth disabled")
		return inf, nil
	}
	if cfg.SessionStore != "" && cfg.SessionStore != appcfg.SessionStoreFirestore {
		l.WithField("sessionStore", cfg.SessionStore).Info("firestore skipped")
		inf.initFirebaseAuth(ctx, cfg, clientOpts, l)
		return inf, nil
	}

	// 4) Firestore (strict)
	fs, err := firestoreinfra.NewClient(ctx, inf.ProjectID, credFile, l)
	if err != nil {
		_ = inf.Close()
		return nil, fmt.Errorf("shared.infra: firestore init failed (project=%s): %w", inf.ProjectID, err)
	}
	inf.Firestore = fs

	// 5) Firebase App/Auth (best-effort)
	inf.initFirebaseAuth(ctx, cfg, clientOpts, l)
	return inf, nil
}

// initFirebaseAuth leaves FirebaseAuth nil on failure.
func (i *Infra) initFirebaseAuth(ctx context.Context, cfg *appcfg.Config, clientOpts []option.ClientOption, l *logrus.Entry) {
	fbProject := strings.TrimSpace(cfg.FirebaseProjectID)
	if fbProject == "" {
		fbProject = i.ProjectID
	}
	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: fbProject}, clientOpts...)
	if err != nil {
		l.WithError(err).Warn("firebase app init failed")
		return
	}
	authClient, err := fbApp.Auth(ctx)
	if err != nil {
		l.WithError(err).Warn("firebase auth init failed")
		return
	}
	i.FirebaseAuth = authClient
	l.Info("Firebase Auth initialized")
}

// usePostgres reports whether sessions go to PostgreSQL:
// explicitly selected, or auto mode without a GCP project but with DATABASE_URL.
func usePostgres(cfg *appcfg.Config, projectID string) bool {
	switch cfg.SessionStore {
	case appcfg.SessionStorePostgres:
		return true
	case "":
		return projectID == "" && strings.TrimSpace(cfg.DatabaseURL) != ""
	default:
		return false
	}
}

func (i *Infra) Close() error {
	if i == nil {
		return nil
	}
	if i.Firestore != nil {
		_ = i.Firestore.Close()
	}
	if i.SecretManager != nil {
		_ = i.SecretManager.Close()
	}
	if i.Storage != nil {
		_ = i.Storage.Close()
	}
	if i.DB != nil {
		_ = i.DB.Close()
	}
	return nil
}

func resolveProjectID(cfg *appcfg.Config) string {
	// Priority:
	// 1) cfg.FirestoreProjectID (resolved by config.Load)
	// 2) GOOGLE_CLOUD_PROJECT (often set in Cloud Run)
	// 3) FIREBASE_PROJECT_ID (fallback)
	if cfg != nil {
		if v := strings.TrimSpace(cfg.FirestoreProjectID); v != "" {
			return v
		}
	}
	for _, k := range []string{"GOOGLE_CLOUD_PROJECT", "FIREBASE_PROJECT_ID"} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func redactPath(p string) string {
	// Do not log full path (Windows/Unix compatible light masking)
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	// Keep only the last segment
	p = strings.ReplaceAll(p, "\\", "/")
	parts := strings.Split(p, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return "***"
	}
	return "***/" + last
}
