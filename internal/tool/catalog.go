package tool

import (
	"bytes"
	"context"
	"encoding/json"

	"go.uber.org/zap"

	apperrors "github.com/travel-discovery-mcp/internal/pkg/errors"
	"github.com/travel-discovery-mcp/internal/pkg/validator"
	"github.com/travel-discovery-mcp/internal/usecase/dto"
)

// Имена инструментов
const (
	NamePositionsAutocomplete = "positions_autocomplete"
	NameResolvePositions      = "resolve_positions"
	NameSearchDayResults      = "search_day_results"
	NameSearchCalendarPrices  = "search_calendar_prices"
	NameSearchCheapestSummary = "search_cheapest_summary"
	NameSearchFastestSummary  = "search_fastest_summary"
)

// LocationService - автодополнение и разрешение позиций
type LocationService interface {
	Autocomplete(ctx context.Context, params dto.AutocompleteParams) (*dto.AutocompleteResponse, error)
	ResolvePositions(ctx context.Context, params dto.ResolvePositionsParams) (*dto.ResolvePositionsResponse, error)
}

// SearchService - поисковые инструменты
type SearchService interface {
	SearchDayResults(ctx context.Context, params dto.SearchDayResultsParams) (*dto.SearchDayResultsResponse, error)
	SearchCalendarPrices(ctx context.Context, params dto.SearchCalendarPricesParams) (*dto.SearchCalendarPricesResponse, error)
	SearchCheapestSummary(ctx context.Context, params dto.SearchSummaryParams) (*dto.SearchCheapestSummaryResponse, error)
	SearchFastestSummary(ctx context.Context, params dto.SearchSummaryParams) (*dto.SearchFastestSummaryResponse, error)
}

// NewCatalog регистрирует все инструменты, каждый обёрнут в Trace
func NewCatalog(locations LocationService, search SearchService, sink MetricsSink, logger *zap.Logger) (*Registry, error) {
	registry := NewRegistry()

	tools := []Tool{
		{
			Name:        NamePositionsAutocomplete,
			Description: "Suggest travel positions (cities, stations, airports) for a free-text term. Returns the best guess, preferring positions of type \"location\", plus ranked alternatives. Errors: bad_input for terms shorter than 2 characters, upstream_unavailable when the discovery API fails.",
			InputSchema: objectSchema(map[string]interface{}{
				"term":   stringProp("Free-text location name, at least 2 characters."),
				"locale": stringProp("Search locale (default \"en\")."),
				"limit":  integerProp("Maximum number of candidates (default 20).", 1, 100),
			}, "term"),
			Handler: handle(func(ctx context.Context, p dto.AutocompleteParams) (interface{}, error) {
				return locations.Autocomplete(ctx, p)
			}),
		},
		{
			Name:        NameResolvePositions,
			Description: "Resolve free-text origin and destination terms into position ids {from_id, to_id} required by the search tools. Returns the best match and ranked candidates for both sides. Errors: bad_input when a term is missing, upstream_unavailable when the discovery API fails.",
			InputSchema: objectSchema(map[string]interface{}{
				"from_term":  stringProp("Origin location name."),
				"to_term":    stringProp("Destination location name."),
				"locale":     stringProp("Search locale (default \"en\")."),
				"limit_each": integerProp("Candidates fetched per term (default 20).", 1, 100),
			}, "from_term", "to_term"),
			Handler: handle(func(ctx context.Context, p dto.ResolvePositionsParams) (interface{}, error) {
				return locations.ResolvePositions(ctx, p)
			}),
		},
		{
			Name:        NameSearchDayResults,
			Description: "Retrieve normalized single-day travel schedules for an outbound date with an optional return date. Accepts either position ids (from_id, to_id) or free-text names (from_term, to_term); ids take precedence. Errors: bad_input, resolution_failed, upstream_unavailable.",
			InputSchema: objectSchema(withBaseProps(map[string]interface{}{
				"date_out":               dateProp("Departure date."),
				"date_return":            dateProp("Optional return date."),
				"outboundId":             stringProp("Outbound itinerary id when searching the return leg."),
				"journeyType":            enumProp("Journey type.", "ONE_WAY", "ROUND_TRIP"),
				"allowCombinedSchedules": stringProp("Return combined schedules. Works only for round trips."),
			}), "date_out"),
			Handler: handle(func(ctx context.Context, p dto.SearchDayResultsParams) (interface{}, error) {
				return search.SearchDayResults(ctx, p)
			}),
		},
		{
			Name:        NameSearchCalendarPrices,
			Description: "Fetch the lowest fare for each day of a date window (at most 31 days) for a price calendar view. Errors: bad_input, range_exceeded, resolution_failed, upstream_unavailable.",
			InputSchema: objectSchema(withBaseProps(map[string]interface{}{
				"date_start":             dateProp("Start of the date window."),
				"date_end":               dateProp("End of the date window."),
				"journey_type":           enumProp("Journey type (default ONE_WAY).", "ONE_WAY", "ROUND_TRIP"),
				"allowCombinedSchedules": stringProp("Return combined schedules. Works only for round trips."),
			}), "date_start", "date_end"),
			Handler: handle(func(ctx context.Context, p dto.SearchCalendarPricesParams) (interface{}, error) {
				return search.SearchCalendarPrices(ctx, p)
			}),
		},
		{
			Name:        NameSearchCheapestSummary,
			Description: "Summarize the lowest fare per travel mode for each date of a window (at most 30 days) and point out the best deal. Errors: bad_input, range_exceeded, resolution_failed, upstream_unavailable.",
			InputSchema: objectSchema(withBaseProps(map[string]interface{}{
				"date_start": dateProp("Start of the date window."),
				"date_end":   dateProp("End of the date window."),
			}), "date_start", "date_end"),
			Handler: handle(func(ctx context.Context, p dto.SearchSummaryParams) (interface{}, error) {
				return search.SearchCheapestSummary(ctx, p)
			}),
		},
		{
			Name:        NameSearchFastestSummary,
			Description: "Compare the fastest and the cheapest option per travel mode for each date of a window (at most 30 days). Use when duration matters more than price. Errors: bad_input, range_exceeded, resolution_failed, upstream_unavailable.",
			InputSchema: objectSchema(withBaseProps(map[string]interface{}{
				"date_start": dateProp("Start of the date window."),
				"date_end":   dateProp("End of the date window."),
			}), "date_start", "date_end"),
			Handler: handle(func(ctx context.Context, p dto.SearchSummaryParams) (interface{}, error) {
				return search.SearchFastestSummary(ctx, p)
			}),
		},
	}

	for _, t := range tools {
		t.Handler = Trace(t.Name, sink, logger)(t.Handler)
		if err := registry.Register(t); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// handle декодирует аргументы в параметры P, проверяет их и вызывает fn
func handle[P any](fn func(ctx context.Context, params P) (interface{}, error)) Handler {
	return func(ctx context.Context, args json.RawMessage) (interface{}, error) {
		var params P
		if err := decodeArgs(args, &params); err != nil {
			return nil, err
		}
		if err := validator.Validate(params); err != nil {
			return nil, err
		}
		return fn(ctx, params)
	}
}

// decodeArgs принимает аргументы как есть или обёрнутыми в {"params": {...}}
func decodeArgs(args json.RawMessage, dst interface{}) error {
	args = bytes.TrimSpace(args)
	if len(args) == 0 || bytes.Equal(args, []byte("null")) {
		args = []byte("{}")
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(args, &wrapper); err != nil {
		return apperrors.NewBadInput("Tool arguments must be a JSON object.", "")
	}
	if inner, ok := wrapper["params"]; ok && len(wrapper) == 1 {
		args = inner
	}

	if err := json.Unmarshal(args, dst); err != nil {
		return apperrors.NewBadInput("Invalid tool arguments: "+err.Error(), "Check the tool input schema for the expected parameter formats.")
	}
	return nil
}

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func withBaseProps(props map[string]interface{}) map[string]interface{} {
	base := map[string]interface{}{
		"from_id":   integerProp("Origin position id.", 0, 0),
		"to_id":     integerProp("Destination position id.", 0, 0),
		"from_term": stringProp("Origin name, used when ids are not given."),
		"to_term":   stringProp("Destination name, used when ids are not given."),
		"adults":    stringProp("Number of adults (default \"1\")."),
		"children":  stringProp("Number of children (default \"0\")."),
		"infants":   stringProp("Number of infants (default \"0\")."),
		"travelModes": map[string]interface{}{
			"description": "Transport modes: an array or a comma-separated string (default bus, train, flight).",
			"anyOf": []interface{}{
				map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
				map[string]interface{}{"type": "string"},
			},
		},
		"locale":   stringProp("Locale (default \"en\")."),
		"currency": stringProp("Currency code (default \"EUR\")."),
	}
	for k, v := range props {
		base[k] = v
	}
	return base
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func dateProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "format": "date", "description": description + " Format YYYY-MM-DD."}
}

func enumProp(description string, values ...string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "enum": values, "description": description}
}

// integerProp - целочисленное поле; max 0 означает отсутствие верхней границы
func integerProp(description string, lo, hi int) map[string]interface{} {
	prop := map[string]interface{}{"type": "integer", "description": description, "minimum": lo}
	if hi > 0 {
		prop["maximum"] = hi
	}
	return prop
}
