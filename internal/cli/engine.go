package cli

import (
	"context"
	"io"
	"log"
	"os"

	"storefront-cart/internal/config"
	"storefront-cart/internal/domain"
	"storefront-cart/internal/gateway"
	"storefront-cart/internal/guestcart"
	"storefront-cart/internal/reconcile"
	"storefront-cart/internal/session"
)

// engine bundles the wired cart components for one CLI invocation.
type engine struct {
	logger  *log.Logger
	store   *guestcart.Store
	gateway *gateway.Client
	rec     *reconcile.Reconciler
	bridge  *session.Bridge
}

// openEngine wires store, gateway, reconciler and bridge, restores any
// persisted session and runs the startup merge sweep.
func openEngine(ctx context.Context, opts *RootOptions) (*engine, error) {
	out := io.Discard
	if opts.Verbose {
		out = os.Stderr
	}
	logger := log.New(out, "[storefront] ", log.LstdFlags)

	store, err := guestcart.Open(opts.CartDBPath, logger)
	if err != nil {
		return nil, err
	}

	cfg := config.FromEnv()
	client := gateway.New(opts.APIBaseURL, cfg.RequestTimeout, logger)
	rec := reconcile.New(store, client, logger)
	bridge := session.New(rec, logger)

	sess, token := store.LoadSession()
	if auth, ok := sess.(domain.AuthenticatedSession); ok {
		rec.Restore(sess, token)
		bridge.Resume(ctx, auth.UserID)
	}

	return &engine{
		logger:  logger,
		store:   store,
		gateway: client,
		rec:     rec,
		bridge:  bridge,
	}, nil
}

func (e *engine) Close() error {
	return e.store.Close()
}
