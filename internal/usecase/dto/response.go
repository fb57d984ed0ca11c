package dto

import (
	"github.com/travel-discovery-mcp/internal/domain"
)

// AutocompleteResponse - результат автодополнения
type AutocompleteResponse struct {
	BestGuess    *domain.Position  `json:"best_guess"`
	Alternatives []domain.Position `json:"alternatives"`
}

// ResultCount - количество найденных кандидатов
func (r *AutocompleteResponse) ResultCount() int {
	n := len(r.Alternatives)
	if r.BestGuess != nil {
		n++
	}
	return n
}

// Candidates возвращает best_guess и альтернативы одним списком
func (r *AutocompleteResponse) Candidates() []domain.Position {
	candidates := make([]domain.Position, 0, r.ResultCount())
	if r.BestGuess != nil {
		candidates = append(candidates, *r.BestGuess)
	}
	return append(candidates, r.Alternatives...)
}

// ResolvePositionsResponse - результат разрешения пары позиций
type ResolvePositionsResponse struct {
	Origin      domain.ResolvedPositionInfo `json:"origin"`
	Destination domain.ResolvedPositionInfo `json:"destination"`
	Suggestion  domain.ResolutionSuggestion `json:"suggestion"`
}

// ResultCount - сколько сторон маршрута удалось разрешить
func (r *ResolvePositionsResponse) ResultCount() int {
	n := 0
	if r.Suggestion.FromID != nil {
		n++
	}
	if r.Suggestion.ToID != nil {
		n++
	}
	return n
}

// SearchResponseBase - идентификаторы, использованные в поиске
type SearchResponseBase struct {
	ResolvedFromID int64 `json:"resolved_from_id"`
	ResolvedToID   int64 `json:"resolved_to_id"`
}

// SearchDayResultsResponse - варианты поездки на день
type SearchDayResultsResponse struct {
	SearchResponseBase
	Results []domain.Itinerary `json:"results"`
	Note    string             `json:"note"`
}

func (r *SearchDayResultsResponse) ResultCount() int {
	return len(r.Results)
}

// SearchCalendarPricesResponse - календарь цен
type SearchCalendarPricesResponse struct {
	SearchResponseBase
	Calendar []domain.CalendarDay `json:"calendar"`
	Note     string               `json:"note"`
}

func (r *SearchCalendarPricesResponse) ResultCount() int {
	return len(r.Calendar)
}

// SearchCheapestSummaryResponse - сводка минимальных цен
type SearchCheapestSummaryResponse struct {
	SearchResponseBase
	Summary domain.CheapestSummary `json:"summary"`
	Insight string                 `json:"insight"`
}

// ResultCount - количество дат в сводке
func (r *SearchCheapestSummaryResponse) ResultCount() int {
	return len(r.Summary.Summary)
}

// SearchFastestSummaryResponse - сравнение скорости и цены
type SearchFastestSummaryResponse struct {
	SearchResponseBase
	Summary domain.FastestSummary `json:"summary"`
	Note    string                `json:"note"`
}

func (r *SearchFastestSummaryResponse) ResultCount() int {
	return len(r.Summary.Summary)
}
