package domain

// CalendarDay - минимальная цена на дату
type CalendarDay struct {
	Date       string   `json:"date"`
	PriceCents *float64 `json:"priceCents"`
	Currency   *string  `json:"currency"`
}

// CheapestPriceInfo - минимальная цена для пары (дата, вид транспорта)
type CheapestPriceInfo struct {
	MinPrice float64 `json:"min_price"`
	Currency string  `json:"currency"`
}

// FastestVsCheapestInfo - сравнение самого быстрого и самого дешёвого варианта.
// CheapestPrice отсутствует при неположительной цене, FastestPrice в этом случае 0.
type FastestVsCheapestInfo struct {
	FastestDuration string   `json:"fastest_duration"`
	FastestPrice    float64  `json:"fastest_price"`
	CheapestPrice   *float64 `json:"cheapest_price"`
	Currency        string   `json:"currency"`
}

// CheapestSummary - дата -> вид транспорта -> минимальная цена
type CheapestSummary struct {
	Summary map[string]map[string]CheapestPriceInfo `json:"summary"`
}

// FastestSummary - дата -> вид транспорта -> сравнение скорости и цены
type FastestSummary struct {
	Summary map[string]map[string]FastestVsCheapestInfo `json:"summary"`
}
