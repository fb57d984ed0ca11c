package usecase

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/travel-discovery-mcp/internal/domain"
	"github.com/travel-discovery-mcp/internal/domain/repository"
	"github.com/travel-discovery-mcp/internal/normalizer"
	"github.com/travel-discovery-mcp/internal/pkg/validator"
	"github.com/travel-discovery-mcp/internal/usecase/dto"
)

// LocationUseCase - автодополнение и разрешение позиций
type LocationUseCase struct {
	discoveryRepo repository.DiscoveryRepository
	endpoint      string
	defaults      dto.Defaults
	logger        *zap.Logger
}

// NewLocationUseCase - создание нового LocationUseCase
func NewLocationUseCase(
	discoveryRepo repository.DiscoveryRepository,
	positionsEndpoint string,
	defaults dto.Defaults,
	logger *zap.Logger,
) *LocationUseCase {
	return &LocationUseCase{
		discoveryRepo: discoveryRepo,
		endpoint:      positionsEndpoint,
		defaults:      defaults,
		logger:        logger,
	}
}

// Autocomplete - подсказки позиций по введённому термину
func (uc *LocationUseCase) Autocomplete(ctx context.Context, params dto.AutocompleteParams) (*dto.AutocompleteResponse, error) {
	params.ApplyDefaults(uc.defaults)

	if err := validator.ValidateAutocompleteTerm(params.Term); err != nil {
		uc.logger.Warn("Autocomplete validation failed",
			zap.String("term", params.Term),
			zap.Error(err))
		return nil, err
	}

	query := url.Values{}
	query.Set("term", params.Term)
	query.Set("locale", params.Locale)
	query.Set("limit", strconv.Itoa(params.Limit))

	raw, err := uc.discoveryRepo.Get(ctx, uc.endpoint, query)
	if err != nil {
		uc.logger.Error("Autocomplete request failed",
			zap.String("term", params.Term),
			zap.Error(err))
		return nil, err
	}

	list := normalizer.ExtractPositionList(raw)
	if len(list) == 0 {
		uc.logger.Warn("No positions found in response", zap.String("term", params.Term))
	}

	candidates, skipped := normalizer.NormalizePositions(list)
	if skipped > 0 {
		uc.logger.Debug("Skipped invalid positions",
			zap.String("term", params.Term),
			zap.Int("skipped", skipped))
	}

	best := domain.SelectBestPosition(candidates)
	alternatives := make([]domain.Position, 0, len(candidates))
	for _, p := range candidates {
		if best != nil && p.ID == best.ID {
			continue
		}
		alternatives = append(alternatives, p)
	}

	if best != nil {
		uc.logger.Info("Autocomplete best match",
			zap.String("term", params.Term),
			zap.Int64("id", best.ID),
			zap.String("name", best.Name),
			zap.String("type", best.Type),
			zap.Int("candidates", len(candidates)))
	} else {
		uc.logger.Warn("No valid match found", zap.String("term", params.Term))
	}

	return &dto.AutocompleteResponse{
		BestGuess:    best,
		Alternatives: alternatives,
	}, nil
}

// ResolvePositions - разрешение пары отправление/прибытие.
// Стороны разрешаются последовательно, ошибка любой из них прерывает вызов.
func (uc *LocationUseCase) ResolvePositions(ctx context.Context, params dto.ResolvePositionsParams) (*dto.ResolvePositionsResponse, error) {
	params.ApplyDefaults(uc.defaults)

	if err := validator.ValidateResolveTerms(params.FromTerm, params.ToTerm); err != nil {
		return nil, err
	}

	origin, err := uc.resolveSide(ctx, params.FromTerm, params.Locale, params.LimitEach)
	if err != nil {
		uc.logger.Error("Failed to resolve origin", zap.String("term", params.FromTerm), zap.Error(err))
		return nil, err
	}

	destination, err := uc.resolveSide(ctx, params.ToTerm, params.Locale, params.LimitEach)
	if err != nil {
		uc.logger.Error("Failed to resolve destination", zap.String("term", params.ToTerm), zap.Error(err))
		return nil, err
	}

	resp := &dto.ResolvePositionsResponse{
		Origin:      origin,
		Destination: destination,
	}
	if origin.BestMatch != nil {
		id := origin.BestMatch.ID
		resp.Suggestion.FromID = &id
	}
	if destination.BestMatch != nil {
		id := destination.BestMatch.ID
		resp.Suggestion.ToID = &id
	}

	if resp.Suggestion.FromID != nil && resp.Suggestion.ToID != nil {
		uc.logger.Info("Positions resolved",
			zap.String("from_term", params.FromTerm),
			zap.Int64("from_id", *resp.Suggestion.FromID),
			zap.String("to_term", params.ToTerm),
			zap.Int64("to_id", *resp.Suggestion.ToID))
	} else {
		uc.logger.Warn("Position resolution incomplete",
			zap.String("from_term", params.FromTerm),
			zap.Bool("origin_found", resp.Suggestion.FromID != nil),
			zap.String("to_term", params.ToTerm),
			zap.Bool("destination_found", resp.Suggestion.ToID != nil))
	}

	return resp, nil
}

func (uc *LocationUseCase) resolveSide(ctx context.Context, term, locale string, limit int) (domain.ResolvedPositionInfo, error) {
	ac, err := uc.Autocomplete(ctx, dto.AutocompleteParams{
		Term:   term,
		Locale: locale,
		Limit:  limit,
	})
	if err != nil {
		return domain.ResolvedPositionInfo{}, err
	}

	candidates := ac.Candidates()
	return domain.ResolvedPositionInfo{
		UserTerm:         term,
		BestMatch:        domain.SelectBestPosition(candidates),
		RankedCandidates: candidates,
	}, nil
}
