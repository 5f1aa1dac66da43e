package authclient

import (
	"context"
	"net/http"
)

// Client bundles the session core wired per Config: durable storage, the
// session store seeded from its mirror, the augmenting transport, the
// backend API, the Auther, and both guards sharing one Navigator.
type Client struct {
	Config    Config
	Storage   Storage
	Store     *SessionStore
	Transport *TokenTransport
	HTTP      *http.Client
	API       *HTTPAPI
	Auther    *Auther
	AuthGuard *AuthGuard
	RoleGuard *RoleGuard
}

// ClientOption customizes Client assembly.
type ClientOption func(*clientOptions)

type clientOptions struct {
	storage Storage
	logger  Logger
	debug   bool
}

// WithClientStorage overrides the SQLite-backed default Storage.
func WithClientStorage(storage Storage) ClientOption {
	return func(o *clientOptions) {
		if storage != nil {
			o.storage = storage
		}
	}
}

// WithClientLogger sets the logger shared by every component.
func WithClientLogger(logger Logger) ClientOption {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClientDebug enables payload logging.
func WithClientDebug(debug bool) ClientOption {
	return func(o *clientOptions) {
		o.debug = debug
	}
}

// New assembles the session core. The last-known profile is restored from
// storage without any network call; call Auther.FetchUser to refresh it.
func New(ctx context.Context, cfg Config, navigator Navigator, opts ...ClientOption) (*Client, error) {
	options := &clientOptions{logger: defLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	storage := options.storage
	if storage == nil {
		var err error
		if storage, err = OpenSQLiteStorage(ctx, cfg.GetStoragePath()); err != nil {
			return nil, err
		}
	}

	store := NewSessionStore(storage, WithSessionStoreLogger(options.logger))
	store.Load(ctx)

	transport := NewTokenTransport(nil, storage, navigator)
	transport.AuthScheme = cfg.GetAuthScheme()
	transport.LoginRoute = cfg.GetLoginRoute()
	transport.Logger = options.logger

	httpClient := &http.Client{Transport: transport}

	api := NewHTTPAPI(cfg.GetBaseURL(), httpClient, WithHTTPAPILogger(options.logger))

	auther := NewAuther(api, store, storage,
		WithLogger(options.logger),
		WithDebug(options.debug),
	)

	transport.OnReject = func(error) {
		auther.Invalidate(context.Background())
	}

	return &Client{
		Config:    cfg,
		Storage:   storage,
		Store:     store,
		Transport: transport,
		HTTP:      httpClient,
		API:       api,
		Auther:    auther,
		AuthGuard: NewAuthGuard(auther, navigator, cfg.GetLoginRoute()),
		RoleGuard: NewRoleGuard(auther, navigator, cfg.GetLoginRoute(), cfg.GetUnauthorizedRoute()),
	}, nil
}

// Close releases the storage handle when the Client owns one.
func (c *Client) Close() error {
	if closer, ok := c.Storage.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
