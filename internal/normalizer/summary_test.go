package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cheapestPayload = `{
	"data": {
		"2024-06-02": {
			"train": {"priceCents": 3000, "numberOfResults": 4, "lastUpdatedAt": "2024-05-01T00:00:00Z"},
			"bus": {"priceCents": 1500, "numberOfResults": 10}
		},
		"2024-06-01": {
			"bus": {"priceCents": 1500, "numberOfResults": 2},
			"flight": {"priceCents": 0, "numberOfResults": 3}
		},
		"2024-06-03": {
			"flight": {"priceCents": 9000, "numberOfResults": 0}
		},
		"2024-06-04": "broken"
	},
	"errors": [{"mode": "ferry", "message": "timeout"}]
}`

func TestNormalizeCheapestSummary(t *testing.T) {
	summary, stats := NormalizeCheapestSummary(decode(t, cheapestPayload), "EUR")

	require.Len(t, summary, 2)
	assert.Equal(t, 15.0, summary["2024-06-01"]["bus"].MinPrice)
	assert.Equal(t, "EUR", summary["2024-06-01"]["bus"].Currency)
	assert.NotContains(t, summary["2024-06-01"], "flight")
	assert.Equal(t, 30.0, summary["2024-06-02"]["train"].MinPrice)
	assert.NotContains(t, summary, "2024-06-03")

	assert.Equal(t, 2, stats.TotalDates)
	assert.Equal(t, 3, stats.TotalModes)
	assert.Equal(t, int64(16), stats.TotalResults)

	require.NotNil(t, stats.MinPriceOverall)
	require.NotNil(t, stats.MaxPriceOverall)
	assert.Equal(t, 15.0, *stats.MinPriceOverall)
	assert.Equal(t, 30.0, *stats.MaxPriceOverall)
	assert.True(t, stats.HasCheapest())
	assert.Equal(t, "2024-06-01", stats.CheapestDate, "ties resolve to the earliest date")
	assert.Equal(t, "bus", stats.CheapestMode)

	assert.Equal(t, []string{"bus", "train"}, stats.ModeOrder)
	assert.Equal(t, 2, stats.ByMode["bus"].Count)
	assert.Equal(t, int64(12), stats.ByMode["bus"].TotalResults)
	assert.Equal(t, 15.0, stats.ByMode["bus"].MinPrice)
	assert.Equal(t, 15.0, stats.ByMode["bus"].MaxPrice)
	assert.Equal(t, 1, stats.ByMode["train"].Count)

	assert.NotNil(t, stats.Errors)
}

func TestNormalizeCheapestSummary_NoData(t *testing.T) {
	summary, stats := NormalizeCheapestSummary(decode(t, `{"data": {}}`), "EUR")

	assert.Empty(t, summary)
	assert.False(t, stats.HasCheapest())
	assert.Nil(t, stats.MinPriceOverall)
	assert.Equal(t, 0, stats.TotalDates)
	assert.Nil(t, stats.Errors)
}

func TestNormalizeCheapestSummary_Idempotent(t *testing.T) {
	raw := decode(t, cheapestPayload)

	firstSummary, firstStats := NormalizeCheapestSummary(raw, "EUR")
	secondSummary, secondStats := NormalizeCheapestSummary(raw, "EUR")

	assert.Equal(t, firstSummary, secondSummary)
	assert.Equal(t, firstStats, secondStats)
}

func TestNormalizeFastestSummary(t *testing.T) {
	raw := decode(t, `{
		"data": {
			"2024-06-01": {
				"train": {"numberOfResults": 5,
					"cheapest": {"priceCents": 2000, "durationMinutes": 300},
					"fastest": {"priceCents": 4500, "durationMinutes": 180}},
				"bus": {"numberOfResults": 3,
					"cheapest": {"priceCents": 0},
					"fastest": {"priceCents": 1200, "durationMinutes": 400}},
				"flight": {"numberOfResults": 2,
					"cheapest": {"priceCents": 9900},
					"fastest": {"priceCents": 0}},
				"ferry": {"numberOfResults": 0,
					"cheapest": {"priceCents": 100}, "fastest": {"priceCents": 100}},
				"car": {"numberOfResults": 1,
					"cheapest": {"priceCents": 0}, "fastest": {"priceCents": 0}}
			},
			"2024-06-02": {
				"bus": {"numberOfResults": 0}
			}
		}
	}`)

	summary := NormalizeFastestSummary(raw, "EUR")

	require.Len(t, summary, 1)
	day := summary["2024-06-01"]
	require.Len(t, day, 3)

	train := day["train"]
	assert.Equal(t, "180", train.FastestDuration)
	assert.Equal(t, 45.0, train.FastestPrice)
	require.NotNil(t, train.CheapestPrice)
	assert.Equal(t, 20.0, *train.CheapestPrice)
	assert.Equal(t, "EUR", train.Currency)

	bus := day["bus"]
	assert.Nil(t, bus.CheapestPrice, "non-positive cheapest price is absent")
	assert.Equal(t, 12.0, bus.FastestPrice)

	flight := day["flight"]
	assert.Equal(t, 0.0, flight.FastestPrice, "non-positive fastest price is zero")
	assert.Equal(t, "0", flight.FastestDuration)
	require.NotNil(t, flight.CheapestPrice)
	assert.Equal(t, 99.0, *flight.CheapestPrice)
}

func TestNormalizeFastestSummary_Empty(t *testing.T) {
	assert.Empty(t, NormalizeFastestSummary(decode(t, `{}`), "EUR"))
	assert.Empty(t, NormalizeFastestSummary(nil, "EUR"))
}
