package reconcile

import (
	"context"
	"errors"
	"log"
	"sync"

	"storefront-cart/internal/domain"
)

// ErrStorageFailed is returned when a guest-cart write is rejected by the
// storage layer.
var ErrStorageFailed = errors.New("guest cart storage failure")

// Store is the durable anonymous cart the reconciler routes to before login.
type Store interface {
	ID() string
	Lines() []domain.CartLine
	AddLine(productID string, snapshot domain.ProductSnapshot, quantity int) bool
	UpdateQuantity(productID string, quantity int) bool
	RemoveLine(productID string) bool
	Clear()
	Count() int
}

// Gateway is the authenticated-cart API the reconciler routes to after login.
type Gateway interface {
	FetchCount(ctx context.Context, token, userID string) (int, error)
	AddItem(ctx context.Context, token, userID, productID string, quantity int) error
	UpdateItem(ctx context.Context, token, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, token, userID, productID string) error
	MergeGuestCart(ctx context.Context, token, userID string, items []domain.MergeItem) error
}

// View is the UI-facing cart snapshot. Count is never negative; it may be
// briefly stale after a refresh failure but never reverts to zero on one.
type View struct {
	Count   int
	Loading bool
}

// Reconciler routes cart operations to the guest store or the remote gateway
// depending on the current session, and performs the one-time guest-cart
// merge when a login completes. It owns no cart data itself, only the cached
// count and the per-login merge flag.
type Reconciler struct {
	store   Store
	gateway Gateway
	logger  *log.Logger

	mu      sync.Mutex
	session domain.Session
	token   string
	count   int
	loading bool
	merged  bool
}

// New starts in the anonymous state with the count read from the guest store.
func New(store Store, gateway Gateway, logger *log.Logger) *Reconciler {
	return &Reconciler{
		store:   store,
		gateway: gateway,
		logger:  logger,
		session: domain.AnonymousSession{AnonymousID: store.ID()},
		count:   store.Count(),
	}
}

// Session returns the current session.
func (r *Reconciler) Session() domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// View returns the current UI snapshot.
func (r *Reconciler) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return View{Count: r.count, Loading: r.loading}
}

// GetCount returns the authoritative count for the current session kind.
// Anonymous counts are read synchronously from the store. Authenticated
// counts return the last-known value immediately and refresh in the
// background; a failed refresh keeps the stale value.
func (r *Reconciler) GetCount(ctx context.Context) int {
	r.mu.Lock()
	switch r.session.(type) {
	case domain.AnonymousSession:
		r.count = r.store.Count()
		count := r.count
		r.mu.Unlock()
		return count
	default:
		count := r.count
		r.mu.Unlock()
		go func() {
			if err := r.Refresh(context.WithoutCancel(ctx)); err != nil {
				r.logger.Printf("reconcile: background count refresh: %v", err)
			}
		}()
		return count
	}
}

// Refresh re-reads the count from the authoritative source for the current
// session. On gateway failure the previous count is kept and the error
// returned for logging; the UI never sees a destructive fallback to zero.
func (r *Reconciler) Refresh(ctx context.Context) error {
	r.mu.Lock()
	auth, ok := r.session.(domain.AuthenticatedSession)
	if !ok {
		r.count = r.store.Count()
		r.mu.Unlock()
		return nil
	}
	token := r.token
	r.loading = true
	r.mu.Unlock()

	count, err := r.gateway.FetchCount(ctx, token, auth.UserID)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
	if err != nil {
		return err
	}
	if count < 0 {
		count = 0
	}
	r.count = count
	return nil
}

// AddItem adds quantity of the product to whichever cart is authoritative,
// then refreshes the count from that source. The count is only refreshed
// after confirmed success; there is no optimistic update to roll back.
func (r *Reconciler) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	r.mu.Lock()
	auth, authenticated := r.session.(domain.AuthenticatedSession)
	token := r.token
	r.mu.Unlock()

	if !authenticated {
		if !r.store.AddLine(product.ID, domain.SnapshotOf(product), quantity) {
			return ErrStorageFailed
		}
		return r.Refresh(ctx)
	}
	if err := r.gateway.AddItem(ctx, token, auth.UserID, product.ID, quantity); err != nil {
		return err
	}
	return r.Refresh(ctx)
}

// UpdateQuantity sets the quantity of an existing line.
func (r *Reconciler) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	r.mu.Lock()
	auth, authenticated := r.session.(domain.AuthenticatedSession)
	token := r.token
	r.mu.Unlock()

	if !authenticated {
		if !r.store.UpdateQuantity(productID, quantity) {
			return ErrStorageFailed
		}
		return r.Refresh(ctx)
	}
	if err := r.gateway.UpdateItem(ctx, token, auth.UserID, productID, quantity); err != nil {
		return err
	}
	return r.Refresh(ctx)
}

// RemoveItem removes the product's line. Removing an absent product is not an
// error.
func (r *Reconciler) RemoveItem(ctx context.Context, productID string) error {
	r.mu.Lock()
	auth, authenticated := r.session.(domain.AuthenticatedSession)
	token := r.token
	r.mu.Unlock()

	if !authenticated {
		if !r.store.RemoveLine(productID) {
			return ErrStorageFailed
		}
		return r.Refresh(ctx)
	}
	if err := r.gateway.RemoveItem(ctx, token, auth.UserID, productID); err != nil {
		return err
	}
	return r.Refresh(ctx)
}

// Login transitions to the authenticated state and merges the guest cart into
// the user's server-side cart at most once per login. A failed merge keeps
// the guest lines for a later attempt and never loses items; the session
// still becomes authenticated because the user is in fact logged in.
// Calling Login again for the same user after a completed merge is a no-op.
func (r *Reconciler) Login(ctx context.Context, userID, role, token string) error {
	r.mu.Lock()
	if auth, ok := r.session.(domain.AuthenticatedSession); ok && auth.UserID == userID && r.merged {
		r.mu.Unlock()
		return nil
	}
	r.session = domain.AuthenticatedSession{UserID: userID, Role: role}
	r.token = token
	r.merged = false
	r.mu.Unlock()

	return r.mergeGuestLines(ctx, userID, token)
}

// RetryPendingMerge re-attempts the guest-cart merge left over from a failed
// login-time merge. Called on startup when the session resumed as
// authenticated; a no-op when nothing is pending.
func (r *Reconciler) RetryPendingMerge(ctx context.Context) error {
	r.mu.Lock()
	auth, ok := r.session.(domain.AuthenticatedSession)
	merged := r.merged
	token := r.token
	r.mu.Unlock()
	if !ok || merged {
		return nil
	}
	return r.mergeGuestLines(ctx, auth.UserID, token)
}

func (r *Reconciler) mergeGuestLines(ctx context.Context, userID, token string) error {
	lines := r.store.Lines()
	if len(lines) == 0 {
		r.mu.Lock()
		r.merged = true
		r.mu.Unlock()
		return r.Refresh(ctx)
	}

	if err := r.gateway.MergeGuestCart(ctx, token, userID, domain.MergeItems(lines)); err != nil {
		// Guest lines stay put; the next login or startup sweep retries.
		r.logger.Printf("reconcile: guest cart merge failed, keeping %d line(s): %v", len(lines), err)
		return r.Refresh(ctx)
	}

	r.store.Clear()
	r.mu.Lock()
	r.merged = true
	r.mu.Unlock()
	return r.Refresh(ctx)
}

// Restore puts the reconciler back into a previously persisted session
// without triggering a merge; callers follow up with RetryPendingMerge.
func (r *Reconciler) Restore(session domain.Session, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch session.(type) {
	case domain.AuthenticatedSession:
		r.session = session
		r.token = token
		r.merged = false
	default:
		r.session = domain.AnonymousSession{AnonymousID: r.store.ID()}
		r.token = ""
		r.merged = false
		r.count = r.store.Count()
	}
}

// Logout discards the in-memory authenticated state and re-consults the
// guest store, which is normally empty after a successful merge.
func (r *Reconciler) Logout() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = domain.AnonymousSession{AnonymousID: r.store.ID()}
	r.token = ""
	r.merged = false
	r.loading = false
	r.count = r.store.Count()
}
