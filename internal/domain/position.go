package domain

// PositionTypeLocation - тип позиции, которому отдаётся предпочтение при выборе лучшего совпадения
const PositionTypeLocation = "location"

// Position - точка, которую можно использовать в поиске (город, станция, аэропорт, регион)
type Position struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	CountryCode *string `json:"country_code"`
}

// ResolvedPositionInfo - результат разрешения одной стороны маршрута
type ResolvedPositionInfo struct {
	UserTerm         string     `json:"user_term"`
	BestMatch        *Position  `json:"best_match"`
	RankedCandidates []Position `json:"ranked_candidates"`
}

// ResolutionSuggestion - идентификаторы для последующих поисковых вызовов
type ResolutionSuggestion struct {
	FromID *int64 `json:"from_id"`
	ToID   *int64 `json:"to_id"`
}

// SelectBestPosition возвращает первую позицию с типом location, иначе первую позицию.
// Для пустого списка возвращает nil.
func SelectBestPosition(candidates []Position) *Position {
	if len(candidates) == 0 {
		return nil
	}
	for i := range candidates {
		if candidates[i].Type == PositionTypeLocation {
			best := candidates[i]
			return &best
		}
	}
	best := candidates[0]
	return &best
}
