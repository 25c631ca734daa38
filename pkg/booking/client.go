package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TransportFailureMessage is surfaced when the service was never reached, so
// the user is not told their order failed when it was never attempted.
const TransportFailureMessage = "Could not connect to the booking service. Please try again later."

// GenericFailureMessage is used when the service declined without a message.
const GenericFailureMessage = "The booking service could not complete your request."

// CatalogItem is one orderable food item from the provider's catalog.
type CatalogItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CatalogMovie is one bookable movie from the provider's catalog.
type CatalogMovie struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	ShowTimes []string `json:"show_times"`
}

// Catalog is the provider's current list of bookable identifiers.
type Catalog struct {
	FoodItems []CatalogItem  `json:"food_items"`
	Movies    []CatalogMovie `json:"movies"`
}

// Booking is one previously placed booking as reported by the provider.
type Booking struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"` // "food" | "movie"
	Summary string `json:"summary"`
	Status  string `json:"status"`
}

// ActionResult is the uniform outcome of any dispatched action. Business
// failures and transport failures are both represented here, never as Go
// errors: TransportFailure distinguishes "the service was unreachable" from
// "the service said no".
type ActionResult struct {
	Success          bool      `json:"success"`
	Message          string    `json:"message"`
	TransportFailure bool      `json:"transport_failure,omitempty"`
	BookingID        string    `json:"booking_id,omitempty"`
	Bookings         []Booking `json:"bookings,omitempty"`
}

// FoodOrderRequest is the validated payload for POST /api/book-food.
type FoodOrderRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
	Address  string `json:"address"`
}

// MovieBookingRequest is the validated payload for POST /api/book-movie.
type MovieBookingRequest struct {
	MovieID  string   `json:"movieId"`
	Seats    []string `json:"seats"`
	ShowTime string   `json:"showTime"`
}

// Client talks to the external booking provider. The provider is a black
// box: every response body is JSON with at least {success, message}.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BookFood places a food order. Never returns an error for business or
// transport failures; both are normalized into the ActionResult.
func (c *Client) BookFood(ctx context.Context, order FoodOrderRequest) *ActionResult {
	return c.dispatch(ctx, "POST", "/api/book-food", order)
}

// BookMovie books movie tickets.
func (c *Client) BookMovie(ctx context.Context, req MovieBookingRequest) *ActionResult {
	return c.dispatch(ctx, "POST", "/api/book-movie", req)
}

// ListBookings fetches the user's existing bookings.
func (c *Client) ListBookings(ctx context.Context) *ActionResult {
	return c.dispatch(ctx, "GET", "/api/bookings", nil)
}

// GetAvailable fetches the current catalog of bookable identifiers. Unlike
// the dispatch calls this returns an error, because callers (the parameter
// extractor) cannot proceed without a catalog.
func (c *Client) GetAvailable(ctx context.Context) (*Catalog, error) {
	req, err := c.newRequest(ctx, "GET", "/api/available", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("booking service unreachable: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("catalog fetch failed: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var payload struct {
		Success   bool           `json:"success"`
		Message   string         `json:"message"`
		FoodItems []CatalogItem  `json:"food_items"`
		Movies    []CatalogMovie `json:"movies"`
	}
	if err := json.Unmarshal(bodyBytes, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}

	return &Catalog{FoodItems: payload.FoodItems, Movies: payload.Movies}, nil
}

// dispatch performs the canonical call shape: send the request, parse the
// body as JSON regardless of HTTP status, and map the outcome into a
// normalized ActionResult.
func (c *Client) dispatch(ctx context.Context, method, path string, body interface{}) *ActionResult {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return &ActionResult{
			Success:          false,
			Message:          TransportFailureMessage,
			TransportFailure: true,
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		// No HTTP response at all: connectivity failure, not a business one
		return &ActionResult{
			Success:          false,
			Message:          TransportFailureMessage,
			TransportFailure: true,
		}
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	var parsed struct {
		Success   bool      `json:"success"`
		Message   string    `json:"message"`
		Error     string    `json:"error"`
		BookingID string    `json:"bookingId"`
		Bookings  []Booking `json:"bookings"`
	}
	// Parsed on a best-effort basis: an unparseable body still yields a
	// normalized result from the HTTP status alone.
	_ = json.Unmarshal(bodyBytes, &parsed)

	success := resp.StatusCode >= 200 && resp.StatusCode < 300

	message := parsed.Message
	if message == "" {
		message = parsed.Error
	}
	if message == "" && !success {
		message = GenericFailureMessage
	}

	return &ActionResult{
		Success:   success,
		Message:   message,
		BookingID: parsed.BookingID,
		Bookings:  parsed.Bookings,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
