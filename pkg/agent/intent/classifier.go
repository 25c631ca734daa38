package intent

import "strings"

// Intent is the tagged result of classifying one utterance in agent mode.
type Intent int

const (
	None Intent = iota
	ListMenu
	ListBookings
	MovieBooking
	FoodOrder
)

func (i Intent) String() string {
	switch i {
	case ListMenu:
		return "LIST_MENU"
	case ListBookings:
		return "LIST_BOOKINGS"
	case MovieBooking:
		return "MOVIE_BOOKING"
	case FoodOrder:
		return "FOOD_ORDER"
	default:
		return "NONE"
	}
}

// LegacyIntent covers the general-mode intent set kept from the pre-agent
// assistant: image generation and the loose booking phrasings.
type LegacyIntent int

const (
	LegacyNone LegacyIntent = iota
	LegacyImageGeneration
	LegacyTicketBooking
	LegacyFoodOrder
)

func (i LegacyIntent) String() string {
	switch i {
	case LegacyImageGeneration:
		return "IMAGE_GENERATION"
	case LegacyTicketBooking:
		return "GENERIC_TICKET_BOOKING"
	case LegacyFoodOrder:
		return "GENERIC_FOOD_ORDER"
	default:
		return "NONE"
	}
}

// Keyword sets overlap, so the check order below is a design commitment:
// menu before bookings before movie before food. Reordering changes the
// classification of ambiguous utterances ("show me the menu for my order"
// must resolve to the menu, not the bookings history).
var (
	menuKeywords     = []string{"menu", "what can i order", "what's available", "whats available", "available items", "food list"}
	bookingsKeywords = []string{"my bookings", "my orders", "booking history", "order history", "list bookings", "show bookings", "past orders"}
	movieKeywords    = []string{"movie", "film", "ticket", "seat", "cinema", "showtime", "show time"}
	foodKeywords     = []string{"food", "order", "eat", "hungry", "biryani", "pizza", "burger", "deliver", "meal"}
)

var (
	imageKeywords        = []string{"generate an image", "generate image", "draw", "create a picture", "make an image"}
	legacyTicketKeywords = []string{"book a ticket", "book ticket", "movie ticket", "reserve a seat"}
	legacyFoodKeywords   = []string{"order food", "food delivery", "order something to eat"}
)

// ClassifyBooking maps an agent-mode utterance to a booking intent. Pure
// function: lowercase the utterance, test each keyword set in priority
// order, first match wins, no match yields None.
func ClassifyBooking(utterance string) Intent {
	lower := strings.ToLower(utterance)

	switch {
	case containsAny(lower, menuKeywords):
		return ListMenu
	case containsAny(lower, bookingsKeywords):
		return ListBookings
	case containsAny(lower, movieKeywords):
		return MovieBooking
	case containsAny(lower, foodKeywords):
		return FoodOrder
	default:
		return None
	}
}

// ClassifyGeneral checks the legacy intent set used in general mode, before
// the utterance falls through to the conversational responder.
func ClassifyGeneral(utterance string) LegacyIntent {
	lower := strings.ToLower(utterance)

	switch {
	case containsAny(lower, imageKeywords):
		return LegacyImageGeneration
	case containsAny(lower, legacyTicketKeywords):
		return LegacyTicketBooking
	case containsAny(lower, legacyFoodKeywords):
		return LegacyFoodOrder
	default:
		return LegacyNone
	}
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
