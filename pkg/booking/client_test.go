package booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBookFoodSuccessPropagatesBookingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/book-food" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Errorf("missing API key header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "bookingId": "B1", "message": "ok"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	result := client.BookFood(context.Background(), FoodOrderRequest{
		ItemID: "f1", Quantity: 2, Address: "12 Main St",
	})

	if !result.Success {
		t.Fatalf("expected success, got failure: %s", result.Message)
	}
	if result.BookingID != "B1" {
		t.Errorf("bookingId not propagated: got %q", result.BookingID)
	}
	if result.TransportFailure {
		t.Errorf("successful call must not be marked as transport failure")
	}
}

func TestDispatchBusinessFailurePropagatesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success": false, "message": "Seats A1, A2 are already sold out"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	result := client.BookMovie(context.Background(), MovieBookingRequest{
		MovieID: "m1", Seats: []string{"A1", "A2"}, ShowTime: "19:00",
	})

	if result.Success {
		t.Fatalf("expected business failure")
	}
	if result.TransportFailure {
		t.Errorf("business failure must not be marked as transport failure")
	}
	if result.Message != "Seats A1, A2 are already sold out" {
		t.Errorf("server message not propagated verbatim: %q", result.Message)
	}
}

func TestDispatchFailureWithoutMessageGetsGenericText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`not even json`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	result := client.ListBookings(context.Background())

	if result.Success {
		t.Fatalf("expected failure")
	}
	if result.Message != GenericFailureMessage {
		t.Errorf("expected generic failure message, got %q", result.Message)
	}
}

func TestDispatchNetworkDownIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // server down before the call

	client := NewClient(srv.URL, "test-key")
	result := client.BookFood(context.Background(), FoodOrderRequest{
		ItemID: "f1", Quantity: 1, Address: "12 Main St",
	})

	if result.Success {
		t.Fatalf("expected failure")
	}
	if !result.TransportFailure {
		t.Errorf("network failure must be a transport failure, not a business one")
	}
	if result.Message != TransportFailureMessage {
		t.Errorf("expected connectivity message, got %q", result.Message)
	}
}

func TestGetAvailableParsesCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/available" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"success": true,
			"food_items": [{"id": "f1", "name": "Chicken Biryani", "price": 12.5}],
			"movies": [{"id": "m1", "title": "Dune", "show_times": ["19:00", "22:00"]}]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	catalog, err := client.GetAvailable(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(catalog.FoodItems) != 1 || catalog.FoodItems[0].ID != "f1" {
		t.Errorf("food items not parsed: %+v", catalog.FoodItems)
	}
	if len(catalog.Movies) != 1 || catalog.Movies[0].Title != "Dune" {
		t.Errorf("movies not parsed: %+v", catalog.Movies)
	}
}

func TestGetAvailableNetworkDownReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, "test-key")
	if _, err := client.GetAvailable(context.Background()); err == nil {
		t.Fatalf("expected error when the catalog endpoint is unreachable")
	}
}
