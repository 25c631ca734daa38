package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"ai-concierge-be/pkg/booking"
	"ai-concierge-be/pkg/llm"
)

// NullSentinel is the literal value the model must emit for fields it cannot
// determine from the utterance.
const NullSentinel = "null"

// FoodOrderParams is the candidate decoded from a constrained generation
// response for a food order. Discarded after one dispatch attempt.
type FoodOrderParams struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
	Address  string `json:"address"`
}

// MovieBookingParams is the candidate for a movie booking.
type MovieBookingParams struct {
	MovieID  string   `json:"movieId"`
	Seats    []string `json:"seats"`
	ShowTime string   `json:"showTime"`
}

// Extractor turns an utterance plus the current catalog into validated
// action parameters via a single constrained LLM call.
type Extractor struct {
	llmProvider llm.LLMProvider
	catalog     *CatalogCache
	logger      *log.Logger
}

// NewExtractor creates a new parameter extractor
func NewExtractor(llmProvider llm.LLMProvider, catalog *CatalogCache, logger *log.Logger) *Extractor {
	return &Extractor{
		llmProvider: llmProvider,
		catalog:     catalog,
		logger:      logger,
	}
}

// ExtractFoodOrder runs the constrained call for a food order and validates
// the result against the catalog. Returns MissingFieldError for absent
// required fields (item checked before address) and ErrExtractionParse when
// the model output is not JSON.
func (e *Extractor) ExtractFoodOrder(ctx context.Context, utterance string) (*FoodOrderParams, error) {
	catalog, err := e.catalog.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	prompt := buildFoodOrderPrompt(utterance, catalog)
	response, err := e.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		return nil, fmt.Errorf("extraction call: %w", err)
	}

	var params FoodOrderParams
	if err := parseConstrainedJSON(response, &params); err != nil {
		e.logger.Printf("[EXTRACT] Food order parse failed: %v (raw: %s)", err, truncate(response, 200))
		return nil, err
	}

	if err := validateFoodOrder(&params, catalog); err != nil {
		return nil, err
	}

	e.logger.Printf("[EXTRACT] Food order extracted: item=%s qty=%d", params.ItemID, params.Quantity)
	return &params, nil
}

// ExtractMovieBooking runs the constrained call for a movie booking.
// Required fields are checked movie first, then seats, then show time.
func (e *Extractor) ExtractMovieBooking(ctx context.Context, utterance string) (*MovieBookingParams, error) {
	catalog, err := e.catalog.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	prompt := buildMovieBookingPrompt(utterance, catalog)
	response, err := e.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		return nil, fmt.Errorf("extraction call: %w", err)
	}

	var params MovieBookingParams
	if err := parseConstrainedJSON(response, &params); err != nil {
		e.logger.Printf("[EXTRACT] Movie booking parse failed: %v (raw: %s)", err, truncate(response, 200))
		return nil, err
	}

	if err := validateMovieBooking(&params, catalog); err != nil {
		return nil, err
	}

	e.logger.Printf("[EXTRACT] Movie booking extracted: movie=%s seats=%v time=%s",
		params.MovieID, params.Seats, params.ShowTime)
	return &params, nil
}

// --- Prompt construction ---

func buildFoodOrderPrompt(utterance string, catalog *booking.Catalog) string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("Extract the food order details from the user's message.\n")
	prompt.WriteString("Respond with ONLY a single valid JSON object. No explanations, no markdown.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<valid_items>\n")
	prompt.WriteString("The itemId MUST be one of these identifiers:\n")
	for _, item := range catalog.FoodItems {
		prompt.WriteString(fmt.Sprintf("  %s: %s (%.2f)\n", item.ID, item.Name, item.Price))
	}
	prompt.WriteString("</valid_items>\n\n")

	prompt.WriteString("<user_message>\n")
	prompt.WriteString(utterance)
	prompt.WriteString("\n</user_message>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"itemId\": \"identifier from the list, or \\\"null\\\" if the user did not name a valid item\",\n")
	prompt.WriteString("  \"quantity\": 1,\n")
	prompt.WriteString("  \"address\": \"delivery address, or \\\"null\\\" if not stated\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("Defaults: quantity is 1 when unstated.\n")
	prompt.WriteString("Use the literal string \"null\" for anything you cannot determine.\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func buildMovieBookingPrompt(utterance string, catalog *booking.Catalog) string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("Extract the movie booking details from the user's message.\n")
	prompt.WriteString("Respond with ONLY a single valid JSON object. No explanations, no markdown.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<valid_movies>\n")
	prompt.WriteString("The movieId MUST be one of these identifiers:\n")
	for _, movie := range catalog.Movies {
		prompt.WriteString(fmt.Sprintf("  %s: %s (show times: %s)\n",
			movie.ID, movie.Title, strings.Join(movie.ShowTimes, ", ")))
	}
	prompt.WriteString("</valid_movies>\n\n")

	prompt.WriteString("<user_message>\n")
	prompt.WriteString(utterance)
	prompt.WriteString("\n</user_message>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"movieId\": \"identifier from the list, or \\\"null\\\" if the user did not name a valid movie\",\n")
	prompt.WriteString("  \"seats\": [\"A1\", \"A2\"],\n")
	prompt.WriteString("  \"showTime\": \"one of the listed show times, or \\\"null\\\" if not stated\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("Use an empty array for seats if the user did not specify any.\n")
	prompt.WriteString("Use the literal string \"null\" for anything you cannot determine.\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

// --- Parsing & validation ---

// parseConstrainedJSON strips code fences, isolates the JSON object and makes
// exactly one parse attempt. Failure is the first-class ErrExtractionParse.
func parseConstrainedJSON(response string, out interface{}) error {
	cleaned := stripFences(response)
	jsonContent := extractObject(cleaned)
	if jsonContent == "" {
		return fmt.Errorf("%w: no object found", ErrExtractionParse)
	}
	if err := json.Unmarshal([]byte(jsonContent), out); err != nil {
		return fmt.Errorf("%w: %v", ErrExtractionParse, err)
	}
	return nil
}

func stripFences(response string) string {
	s := strings.TrimSpace(response)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func extractObject(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}

func isUnset(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || strings.EqualFold(trimmed, NullSentinel)
}

// validateFoodOrder checks required fields in fixed order: item first, then
// address. The first missing field wins so follow-up questions arrive one at
// a time.
func validateFoodOrder(params *FoodOrderParams, catalog *booking.Catalog) error {
	if isUnset(params.ItemID) {
		return &MissingFieldError{
			Field:  "item",
			Prompt: "Which item would you like to order? Say \"show menu\" to see what's available.",
		}
	}
	if !foodItemExists(params.ItemID, catalog) {
		return &MissingFieldError{
			Field:  "item",
			Prompt: fmt.Sprintf("I couldn't find %q on the current menu. Say \"show menu\" to see what's available.", params.ItemID),
		}
	}
	if isUnset(params.Address) {
		return &MissingFieldError{
			Field:  "address",
			Prompt: "Where should the order be delivered? Please share a delivery address.",
		}
	}
	if params.Quantity <= 0 {
		params.Quantity = 1
	}
	return nil
}

// validateMovieBooking checks movie, then seats, then show time.
func validateMovieBooking(params *MovieBookingParams, catalog *booking.Catalog) error {
	if isUnset(params.MovieID) {
		return &MissingFieldError{
			Field:  "movie",
			Prompt: "Which movie would you like to book? Say \"show menu\" to see what's playing.",
		}
	}
	movie := findMovie(params.MovieID, catalog)
	if movie == nil {
		return &MissingFieldError{
			Field:  "movie",
			Prompt: fmt.Sprintf("I couldn't find %q among the movies currently playing.", params.MovieID),
		}
	}
	if len(params.Seats) == 0 {
		return &MissingFieldError{
			Field:  "seats",
			Prompt: "Which seats would you like? For example: A1, A2.",
		}
	}
	if isUnset(params.ShowTime) {
		return &MissingFieldError{
			Field:  "showTime",
			Prompt: fmt.Sprintf("Which show time would you like? Available: %s.", strings.Join(movie.ShowTimes, ", ")),
		}
	}
	return nil
}

func foodItemExists(id string, catalog *booking.Catalog) bool {
	for _, item := range catalog.FoodItems {
		if strings.EqualFold(item.ID, id) {
			return true
		}
	}
	return false
}

func findMovie(id string, catalog *booking.Catalog) *booking.CatalogMovie {
	for i := range catalog.Movies {
		if strings.EqualFold(catalog.Movies[i].ID, id) {
			return &catalog.Movies[i]
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
