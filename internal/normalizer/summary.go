package normalizer

import (
	"sort"

	"github.com/travel-discovery-mcp/internal/domain"
)

// ModeStats - статистика по виду транспорта в сводке минимальных цен
type ModeStats struct {
	Count        int
	TotalResults int64
	MinPrice     float64
	MaxPrice     float64
}

// CheapestStats - статистика сводки минимальных цен
type CheapestStats struct {
	TotalDates   int
	TotalModes   int
	TotalResults int64

	ByMode    map[string]*ModeStats
	ModeOrder []string

	MinPriceOverall *float64
	MaxPriceOverall *float64
	CheapestDate    string
	CheapestMode    string

	// Errors - поле errors из ответа API, если оно не пустое
	Errors interface{}
}

// HasCheapest сообщает, найдена ли самая дешёвая пара (дата, вид транспорта)
func (s CheapestStats) HasCheapest() bool {
	return s.CheapestDate != "" && s.CheapestMode != ""
}

// NormalizeCheapestSummary разбирает сводку минимальных цен
// data: {date: {mode: {priceCents, numberOfResults, lastUpdatedAt}}}.
// Записи с нулевой ценой или без результатов пропускаются. Даты и виды
// транспорта обходятся в лексическом порядке, поэтому при равных ценах
// самой дешёвой считается более ранняя дата.
func NormalizeCheapestSummary(raw interface{}, currency string) (map[string]map[string]domain.CheapestPriceInfo, CheapestStats) {
	data := asObject(raw)
	summary := make(map[string]map[string]domain.CheapestPriceInfo)
	stats := CheapestStats{ByMode: make(map[string]*ModeStats)}

	if errs := data["errors"]; truthy(errs) {
		stats.Errors = errs
	}

	byDate := asObject(data["data"])
	for _, date := range sortedKeys(byDate) {
		modes := asObject(byDate[date])
		if modes == nil {
			continue
		}

		datePrices := make(map[string]domain.CheapestPriceInfo)
		for _, mode := range sortedKeys(modes) {
			info := asObject(modes[mode])
			if info == nil {
				continue
			}

			cents, ok := number(info["priceCents"])
			if !ok || cents == 0 {
				continue
			}
			results, ok := integer(info["numberOfResults"])
			if !ok || results == 0 {
				continue
			}

			price := cents / 100
			stats.TotalModes++
			stats.TotalResults += results

			ms, ok := stats.ByMode[mode]
			if !ok {
				ms = &ModeStats{MinPrice: price, MaxPrice: price}
				stats.ByMode[mode] = ms
				stats.ModeOrder = append(stats.ModeOrder, mode)
			}
			ms.Count++
			ms.TotalResults += results
			if price < ms.MinPrice {
				ms.MinPrice = price
			}
			if price > ms.MaxPrice {
				ms.MaxPrice = price
			}

			if stats.MinPriceOverall == nil || price < *stats.MinPriceOverall {
				p := price
				stats.MinPriceOverall = &p
				stats.CheapestDate = date
				stats.CheapestMode = mode
			}
			if stats.MaxPriceOverall == nil || price > *stats.MaxPriceOverall {
				p := price
				stats.MaxPriceOverall = &p
			}

			datePrices[mode] = domain.CheapestPriceInfo{
				MinPrice: price,
				Currency: currency,
			}
		}

		if len(datePrices) > 0 {
			summary[date] = datePrices
			stats.TotalDates++
		}
	}

	sort.Strings(stats.ModeOrder)
	return summary, stats
}

// NormalizeFastestSummary разбирает сводку "самый быстрый против самого дешёвого".
// cheapest_price отсутствует при неположительной цене, fastest_price в этом случае 0.
func NormalizeFastestSummary(raw interface{}, currency string) map[string]map[string]domain.FastestVsCheapestInfo {
	data := asObject(raw)
	summary := make(map[string]map[string]domain.FastestVsCheapestInfo)

	byDate := asObject(data["data"])
	for _, date := range sortedKeys(byDate) {
		modes := asObject(byDate[date])
		if modes == nil {
			continue
		}

		dateSummary := make(map[string]domain.FastestVsCheapestInfo)
		for _, mode := range sortedKeys(modes) {
			info := asObject(modes[mode])
			if info == nil {
				continue
			}

			results, ok := integer(info["numberOfResults"])
			if !ok || results == 0 {
				continue
			}

			cheapest := asObject(info["cheapest"])
			fastest := asObject(info["fastest"])

			cheapestCents, _ := number(cheapest["priceCents"])
			fastestCents, _ := number(fastest["priceCents"])
			if cheapestCents == 0 && fastestCents == 0 {
				continue
			}

			entry := domain.FastestVsCheapestInfo{
				FastestDuration: text(fastest["durationMinutes"]),
				Currency:        currency,
			}
			if entry.FastestDuration == "" {
				entry.FastestDuration = "0"
			}
			if fastestCents > 0 {
				entry.FastestPrice = fastestCents / 100
			}
			if cheapestCents > 0 {
				p := cheapestCents / 100
				entry.CheapestPrice = &p
			}

			dateSummary[mode] = entry
		}

		if len(dateSummary) > 0 {
			summary[date] = dateSummary
		}
	}

	return summary
}

func sortedKeys(obj map[string]interface{}) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
