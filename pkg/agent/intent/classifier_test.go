package intent

import "testing"

func TestClassifyBooking(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      Intent
	}{
		{name: "plain menu request", utterance: "show me the menu", want: ListMenu},
		{name: "menu wins over food keywords", utterance: "show menu of biryani items", want: ListMenu},
		{name: "menu wins over order keywords", utterance: "show me the menu for my order", want: ListMenu},
		{name: "bookings history", utterance: "list my bookings please", want: ListBookings},
		{name: "bookings wins over movie keywords", utterance: "show my bookings for the movie", want: ListBookings},
		{name: "movie booking", utterance: "book two tickets for the evening film", want: MovieBooking},
		{name: "movie wins over food keywords", utterance: "I want a movie ticket and maybe food later", want: MovieBooking},
		{name: "food order", utterance: "I am hungry, get me a pizza", want: FoodOrder},
		{name: "uppercase input", utterance: "SHOW ME THE MENU", want: ListMenu},
		{name: "no match", utterance: "what is the capital of France", want: None},
		{name: "empty", utterance: "", want: None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyBooking(tt.utterance); got != tt.want {
				t.Errorf("ClassifyBooking(%q) = %s, want %s", tt.utterance, got, tt.want)
			}
		})
	}
}

func TestClassifyGeneral(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      LegacyIntent
	}{
		{name: "image generation", utterance: "please draw a sunset over mountains", want: LegacyImageGeneration},
		{name: "image phrasing", utterance: "can you generate an image of a cat", want: LegacyImageGeneration},
		{name: "generic ticket", utterance: "I want to book a ticket", want: LegacyTicketBooking},
		{name: "generic food", utterance: "can you order food for me", want: LegacyFoodOrder},
		{name: "open question falls through", utterance: "explain quantum entanglement", want: LegacyNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyGeneral(tt.utterance); got != tt.want {
				t.Errorf("ClassifyGeneral(%q) = %s, want %s", tt.utterance, got, tt.want)
			}
		})
	}
}
