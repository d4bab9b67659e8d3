// internal/infra/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultScopes is the read scope set the storefront needs, plus cart/order management.
const DefaultScopes = "view_products view_standalone_variants view_standalone_prices view_stores view_channels view_customer_groups view_project_settings manage_orders"

// Commercetools holds API credentials and endpoints.
type Commercetools struct {
	ProjectKey string
	ClientID   string
	// ClientSecret may be empty when ClientSecretName points to Secret Manager.
	ClientSecret     string
	ClientSecretName string
	AuthURL          string
	APIURL           string
	Scopes           []string

	// RateLimit is outbound requests per second; 0 disables limiting.
	RateLimit float64
	Timeout   time.Duration
}

// Config はアプリケーション全体の環境変数設定を保持します。
// Load 後は読み取り専用として扱い、各コンポーネントへ明示的に渡す。
type Config struct {
	Port                     string
	GCPCreds                 string
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirebaseProjectID        string

	Commercetools Commercetools

	// Storefront behaviour
	Locale          string
	SelectableAxes  []string
	DefaultCurrency string
	SessionTTL      time.Duration
	AllowedOrigin   string

	// Sessions: "firestore", "postgres", "memory" or "" (auto: firestore, then postgres, then memory)
	SessionStore string
	DatabaseURL  string

	// Order placed side effects (each optional)
	SendGridAPIKey string
	MailFrom       string
	ReceiptBucket  string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load は環境変数を読み込み Config を返します。
func Load() *Config {
	defaultProject := os.Getenv("GCP_PROJECT_ID")

	cfg := &Config{
		Port:                     getenvDefault("PORT", "8080"),
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		Commercetools: Commercetools{
			ProjectKey:       strings.TrimSpace(os.Getenv("CTP_PROJECT_KEY")),
			ClientID:         strings.TrimSpace(os.Getenv("CTP_CLIENT_ID")),
			ClientSecret:     strings.TrimSpace(os.Getenv("CTP_CLIENT_SECRET")),
			ClientSecretName: strings.TrimSpace(os.Getenv("CTP_CLIENT_SECRET_NAME")),
			AuthURL:          strings.TrimRight(strings.TrimSpace(os.Getenv("CTP_AUTH_URL")), "/"),
			APIURL:           strings.TrimRight(strings.TrimSpace(os.Getenv("CTP_API_URL")), "/"),
			Scopes:           splitScopes(os.Getenv("CTP_SCOPES")),
			RateLimit:        getenvFloat("CTP_RATE_LIMIT", 0),
			Timeout:          getenvDuration("CTP_TIMEOUT", 30*time.Second),
		},

		Locale:          getenvDefault("STOREFRONT_LOCALE", "en"),
		SelectableAxes:  splitList(getenvDefault("STOREFRONT_SELECTABLE_AXES", "size,color,style")),
		DefaultCurrency: strings.ToUpper(getenvDefault("STOREFRONT_DEFAULT_CURRENCY", "EUR")),
		SessionTTL:      getenvDuration("STOREFRONT_SESSION_TTL", 24*time.Hour),
		AllowedOrigin:   getenvDefault("STOREFRONT_ALLOWED_ORIGIN", "*"),

		SessionStore: strings.ToLower(strings.TrimSpace(os.Getenv("STOREFRONT_SESSION_STORE"))),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),

		SendGridAPIKey: strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")),
		MailFrom:       strings.TrimSpace(os.Getenv("SENDGRID_FROM")),
		ReceiptBucket:  strings.TrimSpace(os.Getenv("ORDER_RECEIPT_BUCKET")),

		LogLevel:  getenvDefault("LOG_LEVEL", "info"),
		LogFormat: getenvDefault("LOG_FORMAT", "json"),
	}

	return cfg
}

// Session store selectors (STOREFRONT_SESSION_STORE).
const (
	SessionStoreFirestore = "firestore"
	SessionStorePostgres  = "postgres"
	SessionStoreMemory    = "memory"
)

var (
	ErrMissingProjectKey   = errors.New("config: CTP_PROJECT_KEY is required")
	ErrMissingClientID     = errors.New("config: CTP_CLIENT_ID is required")
	ErrMissingClientSecret = errors.New("config: CTP_CLIENT_SECRET or CTP_CLIENT_SECRET_NAME is required")
	ErrMissingAuthURL      = errors.New("config: CTP_AUTH_URL is required")
	ErrMissingAPIURL       = errors.New("config: CTP_API_URL is required")
	ErrUnknownSessionStore = errors.New("config: STOREFRONT_SESSION_STORE must be firestore, postgres or memory")
	ErrMissingDatabaseURL  = errors.New("config: DATABASE_URL is required for the postgres session store")
)

// Validate reports the first missing commercetools setting.
func (c *Config) Validate() error {
	ct := c.Commercetools
	switch {
	case ct.ProjectKey == "":
		return ErrMissingProjectKey
	case ct.ClientID == "":
		return ErrMissingClientID
	case ct.ClientSecret == "" && ct.ClientSecretName == "":
		return ErrMissingClientSecret
	case ct.AuthURL == "":
		return ErrMissingAuthURL
	case ct.APIURL == "":
		return ErrMissingAPIURL
	}
	switch c.SessionStore {
	case "", SessionStoreFirestore, SessionStoreMemory:
	case SessionStorePostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	default:
		return ErrUnknownSessionStore
	}
	return nil
}

// GetFirestoreProjectID は Firestore/GCP プロジェクト ID を返します。
func (c *Config) GetFirestoreProjectID() string {
	return c.FirestoreProjectID
}

// WithClientSecret returns a copy carrying secret (resolved from Secret Manager).
func (c *Config) WithClientSecret(secret string) *Config {
	out := *c
	out.Commercetools.ClientSecret = strings.TrimSpace(secret)
	out.Commercetools.Scopes = append([]string(nil), c.Commercetools.Scopes...)
	out.SelectableAxes = append([]string(nil), c.SelectableAxes...)
	return &out
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getenvFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return def
	}
	return f
}

func splitScopes(s string) []string {
	if strings.TrimSpace(s) == "" {
		s = DefaultScopes
	}
	return strings.Fields(s)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
