package guestcart

import (
	"io"
	"log"
	"path/filepath"
	"testing"

	"storefront-cart/internal/domain"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cart.db")
	store := openStore(t, path)
	return store, path
}

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(path, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func snap(name string) domain.ProductSnapshot {
	return domain.ProductSnapshot{Name: name, PriceCents: 1000, Currency: "USD"}
}

func TestAddLine_SameProductIncrementsQuantity(t *testing.T) {
	store, _ := testStore(t)

	if !store.AddLine("sku-1", snap("One"), 2) {
		t.Fatalf("first AddLine failed")
	}
	if !store.AddLine("sku-1", snap("One"), 3) {
		t.Fatalf("second AddLine failed")
	}

	lines := store.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected a single line, got %d", len(lines))
	}
	if lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", lines[0].Quantity)
	}
	if store.Count() != 5 {
		t.Fatalf("expected count 5, got %d", store.Count())
	}
}

func TestAddLine_RejectsInvalidInput(t *testing.T) {
	store, _ := testStore(t)

	if store.AddLine("", snap("x"), 1) {
		t.Fatalf("expected AddLine with empty product id to fail")
	}
	if store.AddLine("sku-1", snap("x"), 0) {
		t.Fatalf("expected AddLine with zero quantity to fail")
	}
	if got := len(store.Lines()); got != 0 {
		t.Fatalf("expected empty cart, got %d lines", got)
	}
}

func TestUpdateQuantity_AbsentProductReturnsFalse(t *testing.T) {
	store, _ := testStore(t)

	if store.UpdateQuantity("missing", 3) {
		t.Fatalf("expected update of absent product to return false")
	}

	store.AddLine("sku-1", snap("One"), 1)
	if !store.UpdateQuantity("sku-1", 4) {
		t.Fatalf("update of existing product failed")
	}
	if store.Count() != 4 {
		t.Fatalf("expected count 4, got %d", store.Count())
	}
	if store.UpdateQuantity("sku-1", 0) {
		t.Fatalf("expected update below 1 to be rejected")
	}
}

func TestRemoveLine_IsIdempotent(t *testing.T) {
	store, _ := testStore(t)

	if !store.RemoveLine("never-added") {
		t.Fatalf("removing an absent product must not be an error")
	}

	store.AddLine("sku-1", snap("One"), 2)
	if !store.RemoveLine("sku-1") {
		t.Fatalf("remove failed")
	}
	if !store.RemoveLine("sku-1") {
		t.Fatalf("second remove must still succeed")
	}
	if store.Count() != 0 {
		t.Fatalf("expected count 0, got %d", store.Count())
	}
}

func TestCount_NeverNegative(t *testing.T) {
	store, _ := testStore(t)

	store.RemoveLine("a")
	store.RemoveLine("b")
	store.AddLine("sku-1", snap("One"), 1)
	store.RemoveLine("sku-1")
	store.RemoveLine("sku-1")

	if store.Count() < 0 {
		t.Fatalf("count must never be negative, got %d", store.Count())
	}
}

func TestID_StableAcrossReopen(t *testing.T) {
	store, path := testStore(t)
	first := store.ID()
	if first == "" {
		t.Fatalf("expected generated id")
	}
	if store.ID() != first {
		t.Fatalf("id changed between calls")
	}
	store.Close()

	reopened := openStore(t, path)
	if got := reopened.ID(); got != first {
		t.Fatalf("id changed across reopen: %q vs %q", got, first)
	}
}

func TestLines_SurviveReopen(t *testing.T) {
	store, path := testStore(t)
	store.AddLine("sku-1", snap("One"), 2)
	store.AddLine("sku-2", snap("Two"), 1)
	store.Close()

	reopened := openStore(t, path)
	if got := reopened.Count(); got != 3 {
		t.Fatalf("expected count 3 after reopen, got %d", got)
	}
}

func TestClear_EmptiesCartOnly(t *testing.T) {
	store, _ := testStore(t)
	id := store.ID()
	store.AddLine("sku-1", snap("One"), 2)

	store.Clear()

	if got := len(store.Lines()); got != 0 {
		t.Fatalf("expected no lines after clear, got %d", got)
	}
	if store.ID() != id {
		t.Fatalf("clear must not touch the anonymous id")
	}
}

func TestSession_RoundTrip(t *testing.T) {
	store, path := testStore(t)

	if sess, token := store.LoadSession(); token != "" {
		t.Fatalf("expected no token before save")
	} else if _, ok := sess.(domain.AnonymousSession); !ok {
		t.Fatalf("expected anonymous session before save, got %T", sess)
	}

	if !store.SaveSession("u1", "customer", "tok-123") {
		t.Fatalf("save session failed")
	}
	store.Close()

	reopened := openStore(t, path)
	sess, token := reopened.LoadSession()
	auth, ok := sess.(domain.AuthenticatedSession)
	if !ok {
		t.Fatalf("expected authenticated session, got %T", sess)
	}
	if auth.UserID != "u1" || auth.Role != "customer" || token != "tok-123" {
		t.Fatalf("unexpected session %+v token=%q", auth, token)
	}

	reopened.ClearSession()
	if _, token := reopened.LoadSession(); token != "" {
		t.Fatalf("expected cleared session")
	}
}
