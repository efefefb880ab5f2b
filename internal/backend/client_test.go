package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, zap.NewNop()), srv
}

func TestFetchMenuNormalizesOptionMaps(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/menu" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"itemId": 1, "itemName": "Noodles", "itemPrice": 6.0, "soldout": false,
			 "options": {"Chicken": 8.99, "Beef": 9.99}, "notes": {"Spicy": 0}}
		]`))
	}))

	items, err := client.FetchMenu(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}

	opts := items[0].Options
	if len(opts) != 2 || opts[0].Name != "Chicken" || opts[1].Name != "Beef" {
		t.Fatalf("expected ordered options, got %v", opts)
	}
}

func TestListOrdersFiltersClientSide(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/all_orders" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"orderId": 1, "orderStatus": "NEW"},
			{"orderId": 2, "orderStatus": "ACCEPTED"},
			{"orderId": 3, "orderStatus": "NEW"}
		]`))
	}))

	orders, err := client.ListOrders(context.Background(), "NEW")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 || orders[0].OrderID != 1 || orders[1].OrderID != 3 {
		t.Fatalf("expected orders 1 and 3, got %v", orders)
	}

	all, err := client.ListOrders(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all orders with empty filter, got %d", len(all))
	}
}

func TestListOrdersWrapsHTTPFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.ListOrders(context.Background(), "NEW")
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestListOrdersKeepsCancellationVisible(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.ListOrders(ctx, "NEW")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled to stay visible, got %v", err)
	}
}

func TestCreateOrderCarriesServerMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "Menu item not found: 42"}`))
	}))

	_, err := client.CreateOrder(context.Background(), CreateOrderRequest{TableID: "A1"})

	var subErr *SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if subErr.Message != "Menu item not found: 42" {
		t.Fatalf("expected server message, got %q", subErr.Message)
	}
	if subErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", subErr.StatusCode)
	}
}

func TestCreateOrderSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/orders" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orderId": 55, "tableId": "A1", "totalPrice": 19.0, "orderStatus": "NEW"}`))
	}))

	created, err := client.CreateOrder(context.Background(), CreateOrderRequest{TableID: "A1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.OrderID != 55 || created.Status != "NEW" || created.Total != 19.0 {
		t.Fatalf("unexpected created order: %+v", created)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/all_orders/5" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orderId": 5, "orderStatus": "ACCEPTED"}`))
	}))

	updated, err := client.UpdateOrderStatus(context.Background(), 5, StatusAccepted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.OrderID != 5 || updated.Status != StatusAccepted {
		t.Fatalf("unexpected updated order: %+v", updated)
	}
}

func TestUpdateOrderStatusFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message": "illegal transition"}`))
	}))

	_, err := client.UpdateOrderStatus(context.Background(), 5, StatusReady)

	var trErr *TransitionError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if trErr.OrderID != 5 || trErr.Message != "illegal transition" {
		t.Fatalf("unexpected transition error: %+v", trErr)
	}
}
