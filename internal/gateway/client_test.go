package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-cart/internal/domain"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second, log.New(io.Discard, "", 0))
}

func TestFetchCount_UsesCountEndpoint(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/cart/u1/count" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		json.NewEncoder(w).Encode(map[string]int{"count": 4})
	}))

	count, err := client.FetchCount(context.Background(), "tok", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected count 4, got %d", count)
	}
}

func TestFetchCount_FallsBackToProfile(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cart/u1/count":
			w.WriteHeader(http.StatusInternalServerError)
		case "/users/u1":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id": "u1",
				"cart": []map[string]interface{}{
					{"productId": "p1", "quantity": 2},
					{"productId": "p2", "quantity": 3},
				},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	count, err := client.FetchCount(context.Background(), "tok", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected summed count 5, got %d", count)
	}
}

func TestFetchCount_BothPathsFailing(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	if _, err := client.FetchCount(context.Background(), "tok", "u1"); err == nil {
		t.Fatalf("expected error when both count paths fail")
	}
}

func TestAddItem_SendsProductAndQuantity(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/cart/u1/add" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.ProductID != "p1" || body.Quantity != 2 {
			t.Fatalf("unexpected body %+v", body)
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.AddItem(context.Background(), "tok", "u1", "p1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRemoveItem_UsesDeleteWithBody(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/cart/u1" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		var body struct {
			ProductID string `json:"productId"`
		}
		if err := json.Unmarshal(raw, &body); err != nil || body.ProductID != "p1" {
			t.Fatalf("unexpected body %s", raw)
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.RemoveItem(context.Background(), "tok", "u1", "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMergeGuestCart_SendsItems(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/cart/u1/merge" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Items []domain.MergeItem `json:"items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(body.Items) != 2 || body.Items[0].ProductID != "p1" || body.Items[1].Quantity != 3 {
			t.Fatalf("unexpected items %+v", body.Items)
		}
		w.WriteHeader(http.StatusOK)
	}))

	items := []domain.MergeItem{{ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 3}}
	if err := client.MergeGuestCart(context.Background(), "tok", "u1", items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLogin_DecodesResult(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email != "a@b.c" {
			t.Fatalf("unexpected body %+v err=%v", body, err)
		}
		json.NewEncoder(w).Encode(LoginResult{UserID: "u1", Role: "customer", Token: "tok"})
	}))

	res, err := client.Login(context.Background(), "a@b.c", "Password1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.UserID != "u1" || res.Token != "tok" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestLogin_RejectedCredentials(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	if _, err := client.Login(context.Background(), "a@b.c", "wrong"); err == nil {
		t.Fatalf("expected error on 401")
	}
}

func TestFetchProduct_DecodesProduct(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/p1" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(domain.Product{ID: "p1", Name: "One", PriceCents: 999, Currency: "USD"})
	}))

	product, err := client.FetchProduct(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.ID != "p1" || product.PriceCents != 999 {
		t.Fatalf("unexpected product %+v", product)
	}
}
