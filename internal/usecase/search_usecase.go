package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/travel-discovery-mcp/internal/domain"
	"github.com/travel-discovery-mcp/internal/domain/repository"
	"github.com/travel-discovery-mcp/internal/normalizer"
	apperrors "github.com/travel-discovery-mcp/internal/pkg/errors"
	"github.com/travel-discovery-mcp/internal/pkg/validator"
	"github.com/travel-discovery-mcp/internal/usecase/dto"
)

const (
	dayResultsNote     = "Prices are estimates and subject to change. Times are local to departure/arrival cities."
	calendarNote       = "Prices represent the lowest available fares within selected period."
	fastestSummaryNote = "This summary helps compare the trade-offs between speed and cost for different modes of transport."
	noPricingInsight   = "No pricing data available for the selected date range and routes."
)

// Endpoints - пути upstream API для поисковых инструментов
type Endpoints struct {
	Positions       string
	DayResults      string
	CalendarPrices  string
	CheapestSummary string
	FastestSummary  string
}

// PositionResolver разрешает текстовые названия в идентификаторы позиций
type PositionResolver interface {
	ResolvePositions(ctx context.Context, params dto.ResolvePositionsParams) (*dto.ResolvePositionsResponse, error)
}

// SearchUseCase - поиск поездок, календарь цен и сводки
type SearchUseCase struct {
	discoveryRepo repository.DiscoveryRepository
	resolver      PositionResolver
	endpoints     Endpoints
	defaults      dto.Defaults
	logger        *zap.Logger
}

// NewSearchUseCase - создание нового SearchUseCase
func NewSearchUseCase(
	discoveryRepo repository.DiscoveryRepository,
	resolver PositionResolver,
	endpoints Endpoints,
	defaults dto.Defaults,
	logger *zap.Logger,
) *SearchUseCase {
	return &SearchUseCase{
		discoveryRepo: discoveryRepo,
		resolver:      resolver,
		endpoints:     endpoints,
		defaults:      defaults,
		logger:        logger,
	}
}

// SearchDayResults - варианты поездки на конкретную дату
func (uc *SearchUseCase) SearchDayResults(ctx context.Context, params dto.SearchDayResultsParams) (*dto.SearchDayResultsResponse, error) {
	params.ApplyDefaults(uc.defaults)

	fromID, toID, err := uc.ensurePositionIDs(ctx, &params.BaseSearchParams)
	if err != nil {
		return nil, err
	}

	query := normalizer.CommonParams(params.BaseSearchParams, fromID, toID)
	query.Set("outboundDate", params.DateOut)
	if params.DateReturn != "" {
		query.Set("inboundDate", params.DateReturn)
	}
	if params.OutboundID != "" {
		query.Set("outboundId", string(params.OutboundID))
	}
	if params.JourneyType != "" {
		query.Set("journeyType", string(params.JourneyType))
	}
	if params.AllowCombinedSchedules != "" {
		query.Set("allowCombinedSchedules", string(params.AllowCombinedSchedules))
	}

	raw, err := uc.call(ctx, uc.endpoints.DayResults, query)
	if err != nil {
		return nil, err
	}

	results, errCount := normalizer.ShapeDayResults(raw)
	if errCount > 0 {
		uc.logger.Warn("Some schedules could not be shaped",
			zap.Int("errors", errCount),
			zap.Int("shaped", len(results)))
	}
	uc.logger.Info("Day results retrieved",
		zap.Int64("from_id", fromID),
		zap.Int64("to_id", toID),
		zap.String("date_out", params.DateOut),
		zap.Int("results", len(results)))

	return &dto.SearchDayResultsResponse{
		SearchResponseBase: dto.SearchResponseBase{ResolvedFromID: fromID, ResolvedToID: toID},
		Results:            results,
		Note:               dayResultsNote,
	}, nil
}

// SearchCalendarPrices - минимальные цены по дням (не более 31 дня)
func (uc *SearchUseCase) SearchCalendarPrices(ctx context.Context, params dto.SearchCalendarPricesParams) (*dto.SearchCalendarPricesResponse, error) {
	params.ApplyDefaults(uc.defaults)

	if err := validator.ValidateDateRange(params.DateStart, params.DateEnd, domain.CalendarMaxDays); err != nil {
		return nil, err
	}

	journeyType := params.JourneyType
	if journeyType == "" {
		journeyType = domain.JourneyOneWay
	}

	fromID, toID, err := uc.ensurePositionIDs(ctx, &params.BaseSearchParams)
	if err != nil {
		return nil, err
	}

	query := normalizer.CommonParams(params.BaseSearchParams, fromID, toID)
	query.Set("calendarDateStart", params.DateStart)
	query.Set("calendarDateEnd", params.DateEnd)
	query.Set("journeyType", string(journeyType))
	if params.AllowCombinedSchedules != "" {
		query.Set("allowCombinedSchedules", string(params.AllowCombinedSchedules))
	}

	raw, err := uc.call(ctx, uc.endpoints.CalendarPrices, query)
	if err != nil {
		return nil, err
	}

	calendar := normalizer.NormalizeCalendar(raw)
	uc.logger.Info("Calendar prices retrieved",
		zap.String("request_id", calendar.RequestID),
		zap.Int64("from_id", fromID),
		zap.Int64("to_id", toID),
		zap.Int("days", calendar.Stats.TotalDays))

	note := calendarNote
	if calendar.Stats.MinPrice != nil && calendar.Stats.MaxPrice != nil {
		note = fmt.Sprintf("%s Range: %.2f - %.2f %s",
			calendarNote, *calendar.Stats.MinPrice, *calendar.Stats.MaxPrice, calendar.Currency)
	}

	return &dto.SearchCalendarPricesResponse{
		SearchResponseBase: dto.SearchResponseBase{ResolvedFromID: fromID, ResolvedToID: toID},
		Calendar:           calendar.Days,
		Note:               note,
	}, nil
}

// SearchCheapestSummary - минимальные цены по датам и видам транспорта (не более 30 дней)
func (uc *SearchUseCase) SearchCheapestSummary(ctx context.Context, params dto.SearchSummaryParams) (*dto.SearchCheapestSummaryResponse, error) {
	params.ApplyDefaults(uc.defaults)

	fromID, toID, raw, err := uc.summary(ctx, &params, uc.endpoints.CheapestSummary)
	if err != nil {
		return nil, err
	}

	summary, stats := normalizer.NormalizeCheapestSummary(raw, params.Currency)
	if stats.Errors != nil {
		uc.logger.Warn("Cheapest summary returned upstream errors", zap.Any("errors", stats.Errors))
	}
	uc.logger.Info("Cheapest summary retrieved",
		zap.Int("dates", stats.TotalDates),
		zap.Int("options", stats.TotalModes))

	return &dto.SearchCheapestSummaryResponse{
		SearchResponseBase: dto.SearchResponseBase{ResolvedFromID: fromID, ResolvedToID: toID},
		Summary:            domain.CheapestSummary{Summary: summary},
		Insight:            cheapestInsight(stats, params.Currency),
	}, nil
}

// SearchFastestSummary - самый быстрый и самый дешёвый вариант по датам (не более 30 дней)
func (uc *SearchUseCase) SearchFastestSummary(ctx context.Context, params dto.SearchSummaryParams) (*dto.SearchFastestSummaryResponse, error) {
	params.ApplyDefaults(uc.defaults)

	fromID, toID, raw, err := uc.summary(ctx, &params, uc.endpoints.FastestSummary)
	if err != nil {
		return nil, err
	}

	summary := normalizer.NormalizeFastestSummary(raw, params.Currency)
	uc.logger.Info("Fastest summary retrieved", zap.Int("dates", len(summary)))

	return &dto.SearchFastestSummaryResponse{
		SearchResponseBase: dto.SearchResponseBase{ResolvedFromID: fromID, ResolvedToID: toID},
		Summary:            domain.FastestSummary{Summary: summary},
		Note:               fastestSummaryNote,
	}, nil
}

// summary - общая часть cheapest и fastest сводок
func (uc *SearchUseCase) summary(ctx context.Context, params *dto.SearchSummaryParams, endpoint string) (int64, int64, interface{}, error) {
	if err := validator.ValidateDateRange(params.DateStart, params.DateEnd, domain.SummaryMaxDays); err != nil {
		return 0, 0, nil, err
	}

	fromID, toID, err := uc.ensurePositionIDs(ctx, &params.BaseSearchParams)
	if err != nil {
		return 0, 0, nil, err
	}

	query := normalizer.CommonParams(params.BaseSearchParams, fromID, toID)
	query.Set("outboundDateStart", params.DateStart)
	query.Set("inboundDateEnd", params.DateEnd)

	raw, err := uc.call(ctx, endpoint, query)
	if err != nil {
		return 0, 0, nil, err
	}
	return fromID, toID, raw, nil
}

func (uc *SearchUseCase) call(ctx context.Context, endpoint string, query url.Values) (interface{}, error) {
	raw, err := uc.discoveryRepo.Get(ctx, endpoint, query)
	if err != nil {
		uc.logger.Error("Upstream request failed",
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return nil, err
	}
	return raw, nil
}

// ensurePositionIDs возвращает идентификаторы позиций. Заданные id имеют
// приоритет, иначе оба названия разрешаются через resolver.
func (uc *SearchUseCase) ensurePositionIDs(ctx context.Context, params *dto.BaseSearchParams) (int64, int64, error) {
	if params.FromID != nil && params.ToID != nil {
		uc.logger.Debug("Using provided position ids",
			zap.Int64("from_id", *params.FromID),
			zap.Int64("to_id", *params.ToID))
		return *params.FromID, *params.ToID, nil
	}

	if strings.TrimSpace(params.FromTerm) == "" || strings.TrimSpace(params.ToTerm) == "" {
		return 0, 0, apperrors.NewResolutionFailed("Must provide either (from_id, to_id) or (from_term, to_term)", nil)
	}

	failed := fmt.Sprintf("Could not resolve locations for '%s' → '%s'", params.FromTerm, params.ToTerm)

	resolved, err := uc.resolver.ResolvePositions(ctx, dto.ResolvePositionsParams{
		FromTerm: params.FromTerm,
		ToTerm:   params.ToTerm,
		Locale:   params.Locale,
	})
	if err != nil {
		uc.logger.Error("Failed to resolve positions",
			zap.String("from_term", params.FromTerm),
			zap.String("to_term", params.ToTerm),
			zap.Error(err))
		return 0, 0, apperrors.NewResolutionFailed(failed, err)
	}

	if resolved.Suggestion.FromID == nil || resolved.Suggestion.ToID == nil {
		uc.logger.Warn("Positions could not be resolved",
			zap.String("from_term", params.FromTerm),
			zap.String("to_term", params.ToTerm))
		return 0, 0, apperrors.NewResolutionFailed(failed, nil)
	}

	return *resolved.Suggestion.FromID, *resolved.Suggestion.ToID, nil
}

func cheapestInsight(stats normalizer.CheapestStats, currency string) string {
	if !stats.HasCheapest() {
		return noPricingInsight
	}

	minPrice := *stats.MinPriceOverall
	maxPrice := *stats.MaxPriceOverall

	var b strings.Builder
	fmt.Fprintf(&b, "Best deal: %s via %s at %.2f %s. ", stats.CheapestDate, stats.CheapestMode, minPrice, currency)
	fmt.Fprintf(&b, "Price range: %.2f - %.2f %s. ", minPrice, maxPrice, currency)
	fmt.Fprintf(&b, "Total %d options across %d dates.", stats.TotalResults, stats.TotalDates)

	breakdown := make([]string, 0, len(stats.ModeOrder))
	for _, mode := range stats.ModeOrder {
		ms := stats.ByMode[mode]
		breakdown = append(breakdown, fmt.Sprintf("%s: %d dates, %.2f-%.2f %s",
			mode, ms.Count, ms.MinPrice, ms.MaxPrice, currency))
	}
	if len(breakdown) > 0 {
		fmt.Fprintf(&b, " Breakdown: %s.", strings.Join(breakdown, "; "))
	}

	return b.String()
}
