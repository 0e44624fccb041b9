// Package cli is the interactive terminal front end: it turns user intents
// into session and cart operations and renders the resulting state. It is
// the single place where errors become user-visible messages.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/gophstore/internal/client/api"
	"github.com/dmitrijs2005/gophstore/internal/client/cart"
	"github.com/dmitrijs2005/gophstore/internal/client/catalog"
	"github.com/dmitrijs2005/gophstore/internal/client/config"
	"github.com/dmitrijs2005/gophstore/internal/client/credstore"
	"github.com/dmitrijs2005/gophstore/internal/client/localdb"
	"github.com/dmitrijs2005/gophstore/internal/client/repositories/state"
	"github.com/dmitrijs2005/gophstore/internal/client/session"
	"github.com/dmitrijs2005/gophstore/internal/logging"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	db      io.Closer
	session *session.Manager
	cart    cart.Store
	catalog *catalog.Service
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp wires the whole client together: local database, credential store,
// API client, session manager, cart store (mode per config), and catalog
// service.
func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	mode := cart.Mode(cfg.CartMode)
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown cart mode %q (want %q or %q)", cfg.CartMode, cart.ModeServer, cart.ModeLocal)
	}

	db, err := localdb.Open(ctx, cfg.LocalDBPath)
	if err != nil {
		return nil, err
	}

	creds := credstore.New(state.NewSQLiteRepository(db))

	// The API client reads the bearer token from the session manager; the
	// manager in turn needs the API client, hence the late-bound closure.
	var mgr *session.Manager
	apiClient, err := api.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout, func() string {
		if mgr == nil {
			return ""
		}
		return mgr.Token()
	}, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	mgr = session.NewManager(apiClient, creds, logger, session.Options{
		AutoLoginAfterRegister: cfg.AutoLoginAfterRegister,
	})

	var store cart.Store
	switch mode {
	case cart.ModeServer:
		ss := cart.NewServerStore(apiClient, mgr, logger)
		// The server cart belongs to the account; drop it on logout.
		mgr.OnLogout(func(ctx context.Context) { ss.Reset() })
		store = ss
	case cart.ModeLocal:
		ls, err := cart.NewLocalStore(ctx, db, logger)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		store = ls
	}

	catalogSvc, err := catalog.NewService(apiClient, cfg.CatalogCacheSize, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:  cfg,
		log:     logger,
		db:      db,
		session: mgr,
		cart:    store,
		catalog: catalogSvc,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run restores the session from the credential cache and enters the command
// loop. The prompt is not shown until the startup verification settles.
func (a *App) Run(ctx context.Context) error {
	defer func() { _ = a.db.Close() }()

	fmt.Fprintln(a.out, "Restoring session...")
	if err := a.session.Bootstrap(ctx); err != nil {
		return err
	}

	if a.session.Authenticated() {
		a.printSuccess("Welcome back, %s!", a.session.Snapshot().User.Username)
		if err := a.cart.Refresh(ctx); err != nil {
			a.printError("Could not load your cart: %v", err)
		}
	}

	a.Root(ctx)
	return nil
}
