package dispatch

import (
	"context"
	"fmt"
	"log"

	"ai-concierge-be/pkg/agent/extract"
	"ai-concierge-be/pkg/agent/intent"
	"ai-concierge-be/pkg/booking"
)

// Dispatcher maps each validated (intent, parameters) pair to exactly one
// booking-service call. Ordinary business and transport failures come back
// inside the normalized ActionResult; the Go error return is reserved for
// programming-contract violations, which the extractor's validation must
// already have excluded.
type Dispatcher struct {
	client *booking.Client
	logger *log.Logger
}

// NewDispatcher creates a new action dispatcher
func NewDispatcher(client *booking.Client, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		client: client,
		logger: logger,
	}
}

// DispatchFoodOrder places a validated food order.
func (d *Dispatcher) DispatchFoodOrder(ctx context.Context, params *extract.FoodOrderParams) (*booking.ActionResult, error) {
	if params == nil || params.ItemID == "" || params.Address == "" {
		return nil, fmt.Errorf("dispatch contract violation: incomplete food order parameters")
	}

	result := d.client.BookFood(ctx, booking.FoodOrderRequest{
		ItemID:   params.ItemID,
		Quantity: params.Quantity,
		Address:  params.Address,
	})
	d.logResult(intent.FoodOrder, result)
	return result, nil
}

// DispatchMovieBooking books a validated movie request.
func (d *Dispatcher) DispatchMovieBooking(ctx context.Context, params *extract.MovieBookingParams) (*booking.ActionResult, error) {
	if params == nil || params.MovieID == "" || len(params.Seats) == 0 || params.ShowTime == "" {
		return nil, fmt.Errorf("dispatch contract violation: incomplete movie booking parameters")
	}

	result := d.client.BookMovie(ctx, booking.MovieBookingRequest{
		MovieID:  params.MovieID,
		Seats:    params.Seats,
		ShowTime: params.ShowTime,
	})
	d.logResult(intent.MovieBooking, result)
	return result, nil
}

// DispatchListBookings fetches the booking history.
func (d *Dispatcher) DispatchListBookings(ctx context.Context) *booking.ActionResult {
	result := d.client.ListBookings(ctx)
	d.logResult(intent.ListBookings, result)
	return result
}

func (d *Dispatcher) logResult(it intent.Intent, result *booking.ActionResult) {
	d.logger.Printf("[DISPATCH] %s: success=%t transport_failure=%t message=%q",
		it, result.Success, result.TransportFailure, result.Message)
}
