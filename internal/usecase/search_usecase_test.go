package usecase_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/travel-discovery-mcp/internal/domain"
	apperrors "github.com/travel-discovery-mcp/internal/pkg/errors"
	"github.com/travel-discovery-mcp/internal/usecase"
	"github.com/travel-discovery-mcp/internal/usecase/dto"
)

// MockPositionResolver is a mock of PositionResolver
type MockPositionResolver struct {
	mock.Mock
}

func (m *MockPositionResolver) ResolvePositions(ctx context.Context, params dto.ResolvePositionsParams) (*dto.ResolvePositionsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ResolvePositionsResponse), args.Error(1)
}

var testEndpoints = usecase.Endpoints{
	Positions:       "/nemo/position/suggest",
	DayResults:      "/v2/discovery/results",
	CalendarPrices:  "/v2/discovery/price-calendar",
	CheapestSummary: "/v2/discovery/results/summary/cheapest",
	FastestSummary:  "/v2/discovery/results/summary/fastest",
}

func int64Ptr(v int64) *int64 {
	return &v
}

func newSearchUseCase(repo *MockDiscoveryRepository, resolver *MockPositionResolver) *usecase.SearchUseCase {
	return usecase.NewSearchUseCase(repo, resolver, testEndpoints, dto.DefaultValues(), zap.NewNop())
}

func resolved(fromID, toID *int64) *dto.ResolvePositionsResponse {
	return &dto.ResolvePositionsResponse{
		Suggestion: domain.ResolutionSuggestion{FromID: fromID, ToID: toID},
	}
}

func TestSearchUseCase_EnsurePositionIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("ids take precedence over terms", func(t *testing.T) {
		repo := &MockDiscoveryRepository{}
		resolver := &MockPositionResolver{}
		uc := newSearchUseCase(repo, resolver)

		repo.On("Get", ctx, testEndpoints.DayResults, mock.MatchedBy(func(q url.Values) bool {
			return q.Get("fromId") == "1" && q.Get("toId") == "2"
		})).Return(rawJSON(t, `{}`), nil).Once()

		resp, err := uc.SearchDayResults(ctx, dto.SearchDayResultsParams{
			BaseSearchParams: dto.BaseSearchParams{
				FromID:   int64Ptr(1),
				ToID:     int64Ptr(2),
				FromTerm: "Paris",
				ToTerm:   "Berlin",
			},
			DateOut: "2024-06-01",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ResolvedFromID)
		assert.Equal(t, int64(2), resp.ResolvedToID)
		resolver.AssertNotCalled(t, "ResolvePositions", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("zero id is a valid id", func(t *testing.T) {
		repo := &MockDiscoveryRepository{}
		resolver := &MockPositionResolver{}
		uc := newSearchUseCase(repo, resolver)

		repo.On("Get", ctx, testEndpoints.DayResults, mock.Anything).Return(rawJSON(t, `{}`), nil).Once()

		resp, err := uc.SearchDayResults(ctx, dto.SearchDayResultsParams{
			BaseSearchParams: dto.BaseSearchParams{FromID: int64Ptr(0), ToID: int64Ptr(5)},
			DateOut:          "2024-06-01",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.ResolvedFromID)
		resolver.AssertNotCalled(t, "ResolvePositions", mock.Anything, mock.Anything)
	})

	t.Run("resolves terms when ids are incomplete", func(t *testing.T) {
		repo := &MockDiscoveryRepository{}
		resolver := &MockPositionResolver{}
		uc := newSearchUseCase(repo, resolver)

		resolver.On("ResolvePositions", ctx, dto.ResolvePositionsParams{
			FromTerm: "Paris", ToTerm: "Berlin", Locale: "de",
		}).Return(resolved(int64Ptr(1001), int64Ptr(2002)), nil).Once()
		repo.On("Get", ctx, testEndpoints.DayResults, mock.MatchedBy(func(q url.Values) bool {
			return q.Get("fromId") == "1001" && q.Get("toId") == "2002" && q.Get("locale") == "de"
		})).Return(rawJSON(t, `{}`), nil).Once()

		resp, err := uc.SearchDayResults(ctx, dto.SearchDayResultsParams{
			BaseSearchParams: dto.BaseSearchParams{
				FromID:   int64Ptr(1),
				FromTerm: "Paris",
				ToTerm:   "Berlin",
				Locale:   "de",
			},
			DateOut: "2024-06-01",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1001), resp.ResolvedFromID)
		assert.Equal(t, int64(2002), resp.ResolvedToID)
		resolver.AssertExpectations(t)
	})

	t.Run("missing ids and terms", func(t *testing.T) {
		uc := newSearchUseCase(&MockDiscoveryRepository{}, &MockPositionResolver{})

		_, err := uc.SearchDayResults(ctx, dto.SearchDayResultsParams{
			BaseSearchParams: dto.BaseSearchParams{FromTerm: "Paris"},
			DateOut:          "2024-06-01",
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrResolutionFailed))
		assert.Contains(t, err.Error(), "Must provide either (from_id, to_id) or (from_term, to_term)")
	})

	t.Run("unresolved side", func(t *testing.T) {
		resolver := &MockPositionResolver{}
		uc := newSearchUseCase(&MockDiscoveryRepository{}, resolver)

		resolver.On("ResolvePositions", ctx, mock.Anything).Return(resolved(int64Ptr(1), nil), nil).Once()

		_, err := uc.SearchDayResults(ctx, dto.SearchDayResultsParams{
			BaseSearchParams: dto.BaseSearchParams{FromTerm: "Paris", ToTerm: "Xyzzy"},
			DateOut:          "2024-06-01",
		})

		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.TypeResolutionFailed, appErr.Type)
		assert.Equal(t, "Could not resolve locations for 'Paris' → 'Xyzzy'", appErr.Message)
	})

	t.Run("resolver error is wrapped with cause", func(t *testing.T) {
		resolver := &MockPositionResolver{}
		uc := newSearchUseCase(&MockDiscoveryRepository{}, resolver)

		upstream := apperrors.NewUpstreamUnavailable("timeout", nil)
		resolver.On("ResolvePositions", ctx, mock.Anything).Return(nil, upstream).Once()

		_, err := uc.SearchDayResults(ctx, dto.SearchDayResultsParams{
			BaseSearchParams: dto.BaseSearchParams{FromTerm: "Paris", ToTerm: "Berlin"},
			DateOut:          "2024-06-01",
		})

		assert.True(t, errors.Is(err, apperrors.ErrResolutionFailed))
		assert.True(t, errors.Is(err, apperrors.ErrUpstreamUnavailable))
	})
}

func TestSearchUseCase_SearchDayResults(t *testing.T) {
	ctx := context.Background()
	repo := &MockDiscoveryRepository{}
	uc := newSearchUseCase(repo, &MockPositionResolver{})

	repo.On("Get", ctx, testEndpoints.DayResults, mock.MatchedBy(func(q url.Values) bool {
		return q.Get("outboundDate") == "2024-06-01" &&
			q.Get("inboundDate") == "2024-06-08" &&
			q.Get("journeyType") == "ROUND_TRIP" &&
			q.Get("travelModes") == "train" &&
			q.Get("adults") == "2" &&
			q.Get("currency") == "PLN"
	})).Return(rawJSON(t, `{
		"segments": [{"id": "s1", "departureDateTime": "2024-06-01T08:00:00", "arrivalDateTime": "2024-06-01T12:00:00", "travelMode": "train", "durationMinutes": 240}],
		"outboundSchedules": [{"id": "x", "segmentIDs": ["s1"], "priceCents": 4200, "currency": "PLN"}]
	}`), nil).Once()

	resp, err := uc.SearchDayResults(ctx, dto.SearchDayResultsParams{
		BaseSearchParams: dto.BaseSearchParams{
			FromID:   int64Ptr(10),
			ToID:     int64Ptr(20),
			Adults:   "2",
			Modes:    dto.TravelModes{"train"},
			Currency: "PLN",
		},
		DateOut:     "2024-06-01",
		DateReturn:  "2024-06-08",
		JourneyType: domain.JourneyRoundTrip,
	})

	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 42.0, resp.Results[0].PriceFrom)
	assert.Equal(t, "240", resp.Results[0].Duration)
	assert.Equal(t, "Prices are estimates and subject to change. Times are local to departure/arrival cities.", resp.Note)
	assert.Equal(t, 1, resp.ResultCount())
	repo.AssertExpectations(t)
}

func TestSearchUseCase_SearchCalendarPrices(t *testing.T) {
	ctx := context.Background()
	base := dto.BaseSearchParams{FromID: int64Ptr(1), ToID: int64Ptr(2)}

	t.Run("note with price range", func(t *testing.T) {
		repo := &MockDiscoveryRepository{}
		uc := newSearchUseCase(repo, &MockPositionResolver{})

		repo.On("Get", ctx, testEndpoints.CalendarPrices, mock.MatchedBy(func(q url.Values) bool {
			return q.Get("calendarDateStart") == "2024-06-01" &&
				q.Get("calendarDateEnd") == "2024-06-20" &&
				q.Get("journeyType") == "ONE_WAY"
		})).Return(rawJSON(t, `{"prices": [{"date":"2024-06-01","priceCents":1000},{"date":"2024-06-02","priceCents":2000}]}`), nil).Once()

		resp, err := uc.SearchCalendarPrices(ctx, dto.SearchCalendarPricesParams{
			BaseSearchParams: base,
			DateStart:        "2024-06-01",
			DateEnd:          "2024-06-20",
		})

		require.NoError(t, err)
		assert.Len(t, resp.Calendar, 2)
		assert.Equal(t, "Prices represent the lowest available fares within selected period. Range: 10.00 - 20.00 EUR", resp.Note)
	})

	t.Run("generic note without prices", func(t *testing.T) {
		repo := &MockDiscoveryRepository{}
		uc := newSearchUseCase(repo, &MockPositionResolver{})

		repo.On("Get", ctx, testEndpoints.CalendarPrices, mock.Anything).Return(rawJSON(t, `{"prices": []}`), nil).Once()

		resp, err := uc.SearchCalendarPrices(ctx, dto.SearchCalendarPricesParams{
			BaseSearchParams: base,
			DateStart:        "2024-06-01",
			DateEnd:          "2024-06-20",
		})

		require.NoError(t, err)
		assert.Empty(t, resp.Calendar)
		assert.Equal(t, "Prices represent the lowest available fares within selected period.", resp.Note)
	})

	t.Run("range exceeded before any upstream call", func(t *testing.T) {
		repo := &MockDiscoveryRepository{}
		resolver := &MockPositionResolver{}
		uc := newSearchUseCase(repo, resolver)

		_, err := uc.SearchCalendarPrices(ctx, dto.SearchCalendarPricesParams{
			BaseSearchParams: dto.BaseSearchParams{FromTerm: "Paris", ToTerm: "Berlin"},
			DateStart:        "2024-06-01",
			DateEnd:          "2024-07-05",
		})

		assert.True(t, errors.Is(err, apperrors.ErrRangeExceeded))
		repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
		resolver.AssertNotCalled(t, "ResolvePositions", mock.Anything, mock.Anything)
	})
}

func TestSearchUseCase_SearchCheapestSummary(t *testing.T) {
	ctx := context.Background()
	base := dto.BaseSearchParams{FromID: int64Ptr(1), ToID: int64Ptr(2)}

	t.Run("insight with breakdown", func(t *testing.T) {
		repo := &MockDiscoveryRepository{}
		uc := newSearchUseCase(repo, &MockPositionResolver{})

		repo.On("Get", ctx, testEndpoints.CheapestSummary, mock.MatchedBy(func(q url.Values) bool {
			return q.Get("outboundDateStart") == "2024-06-01" && q.Get("inboundDateEnd") == "2024-06-10"
		})).Return(rawJSON(t, `{"data": {
			"2024-06-01": {"bus": {"priceCents": 1500, "numberOfResults": 2}, "train": {"priceCents": 3000, "numberOfResults": 1}},
			"2024-06-02": {"bus": {"priceCents": 2500, "numberOfResults": 3}}
		}}`), nil).Once()

		resp, err := uc.SearchCheapestSummary(ctx, dto.SearchSummaryParams{
			BaseSearchParams: base,
			DateStart:        "2024-06-01",
			DateEnd:          "2024-06-10",
		})

		require.NoError(t, err)
		assert.Equal(t, 2, resp.ResultCount())
		assert.Equal(t, 15.0, resp.Summary.Summary["2024-06-01"]["bus"].MinPrice)
		assert.Equal(t,
			"Best deal: 2024-06-01 via bus at 15.00 EUR. Price range: 15.00 - 30.00 EUR. "+
				"Total 6 options across 2 dates. Breakdown: bus: 2 dates, 15.00-25.00 EUR; train: 1 dates, 30.00-30.00 EUR.",
			resp.Insight)
	})

	t.Run("no data insight", func(t *testing.T) {
		repo := &MockDiscoveryRepository{}
		uc := newSearchUseCase(repo, &MockPositionResolver{})

		repo.On("Get", ctx, testEndpoints.CheapestSummary, mock.Anything).Return(rawJSON(t, `{"data": {}}`), nil).Once()

		resp, err := uc.SearchCheapestSummary(ctx, dto.SearchSummaryParams{
			BaseSearchParams: base,
			DateStart:        "2024-06-01",
			DateEnd:          "2024-06-10",
		})

		require.NoError(t, err)
		assert.Equal(t, "No pricing data available for the selected date range and routes.", resp.Insight)
	})

	t.Run("thirty day limit", func(t *testing.T) {
		uc := newSearchUseCase(&MockDiscoveryRepository{}, &MockPositionResolver{})

		_, err := uc.SearchCheapestSummary(ctx, dto.SearchSummaryParams{
			BaseSearchParams: base,
			DateStart:        "2024-06-01",
			DateEnd:          "2024-07-02",
		})

		assert.True(t, errors.Is(err, apperrors.ErrRangeExceeded))
	})
}

func TestSearchUseCase_SearchFastestSummary(t *testing.T) {
	ctx := context.Background()
	repo := &MockDiscoveryRepository{}
	uc := newSearchUseCase(repo, &MockPositionResolver{})

	repo.On("Get", ctx, testEndpoints.FastestSummary, mock.Anything).Return(rawJSON(t, `{"data": {
		"2024-06-01": {"train": {"numberOfResults": 3, "cheapest": {"priceCents": 2000}, "fastest": {"priceCents": 5000, "durationMinutes": 95}}}
	}}`), nil).Once()

	resp, err := uc.SearchFastestSummary(ctx, dto.SearchSummaryParams{
		BaseSearchParams: dto.BaseSearchParams{FromID: int64Ptr(1), ToID: int64Ptr(2), Currency: "USD"},
		DateStart:        "2024-06-01",
		DateEnd:          "2024-06-05",
	})

	require.NoError(t, err)
	info := resp.Summary.Summary["2024-06-01"]["train"]
	assert.Equal(t, "95", info.FastestDuration)
	assert.Equal(t, 50.0, info.FastestPrice)
	assert.Equal(t, "USD", info.Currency)
	assert.True(t, strings.HasPrefix(resp.Note, "This summary helps compare"))
}

func TestSearchUseCase_UpstreamFailure(t *testing.T) {
	ctx := context.Background()
	repo := &MockDiscoveryRepository{}
	uc := newSearchUseCase(repo, &MockPositionResolver{})

	repo.On("Get", ctx, testEndpoints.FastestSummary, mock.Anything).
		Return(nil, apperrors.NewUpstreamUnavailable("status 500", nil)).Once()

	resp, err := uc.SearchFastestSummary(ctx, dto.SearchSummaryParams{
		BaseSearchParams: dto.BaseSearchParams{FromID: int64Ptr(1), ToID: int64Ptr(2)},
		DateStart:        "2024-06-01",
		DateEnd:          "2024-06-05",
	})

	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, apperrors.ErrUpstreamUnavailable))
}
