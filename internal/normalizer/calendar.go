package normalizer

import (
	"github.com/travel-discovery-mcp/internal/domain"
)

// CalendarStats - статистика по календарю цен
type CalendarStats struct {
	MinPriceCents float64
	MaxPriceCents float64
	// MinPrice и MaxPrice в основной валюте; nil, если значение в центах нулевое
	MinPrice  *float64
	MaxPrice  *float64
	TotalDays int
}

// CalendarResult - нормализованный календарь цен
type CalendarResult struct {
	RequestID string
	FromPosID string
	ToPosID   string
	Currency  string
	Days      []domain.CalendarDay
	Stats     CalendarStats
}

// NormalizeCalendar разбирает ответ price-calendar. Записи без даты или цены
// пропускаются; пустой список цен даёт пустой календарь.
func NormalizeCalendar(raw interface{}) CalendarResult {
	data := asObject(raw)

	result := CalendarResult{
		RequestID: text(data["requestId"]),
		FromPosID: text(data["fromPosId"]),
		ToPosID:   text(data["toPosId"]),
		Currency:  domain.DefaultCurrency,
		Days:      make([]domain.CalendarDay, 0),
	}
	if cur, ok := data["currency"].(string); ok {
		result.Currency = cur
	}

	first := true
	for _, item := range asList(data["prices"]) {
		day := asObject(item)
		if day == nil {
			continue
		}

		date, ok := day["date"].(string)
		if !ok {
			continue
		}
		cents, ok := number(day["priceCents"])
		if !ok {
			continue
		}

		if first || cents < result.Stats.MinPriceCents {
			result.Stats.MinPriceCents = cents
		}
		if first || cents > result.Stats.MaxPriceCents {
			result.Stats.MaxPriceCents = cents
		}
		first = false

		priceCents := cents
		currency := result.Currency
		result.Days = append(result.Days, domain.CalendarDay{
			Date:       date,
			PriceCents: &priceCents,
			Currency:   &currency,
		})
	}

	result.Stats.TotalDays = len(result.Days)
	result.Stats.MinPrice = majorUnits(result.Stats.MinPriceCents)
	result.Stats.MaxPrice = majorUnits(result.Stats.MaxPriceCents)

	return result
}

// majorUnits переводит центы в основную валюту; ноль считается отсутствием цены
func majorUnits(cents float64) *float64 {
	if cents == 0 {
		return nil
	}
	v := cents / 100
	return &v
}
