package normalizer

import (
	"github.com/travel-discovery-mcp/internal/domain"
)

const defaultPositionType = "unknown"

// NormalizePositions преобразует ответ автодополнения в список позиций.
// Записи без positionId, без имени или с некорректным id пропускаются.
// Порядок сохраняется, len(positions)+skipped == len(raw).
func NormalizePositions(raw []interface{}) (positions []domain.Position, skipped int) {
	positions = make([]domain.Position, 0, len(raw))

	for _, item := range raw {
		obj := asObject(item)
		if len(obj) == 0 {
			skipped++
			continue
		}

		rawID, ok := obj["positionId"]
		if !ok {
			skipped++
			continue
		}

		name := text(firstTruthy(obj, "displayName", "defaultName", "name"))
		if name == "" {
			skipped++
			continue
		}

		id, ok := integer(rawID)
		if !ok || id < 0 {
			skipped++
			continue
		}

		posType := defaultPositionType
		if t, ok := obj["type"]; ok && t != nil {
			posType = text(t)
		}

		var countryCode *string
		if cc, ok := obj["countryCode"]; ok && cc != nil {
			s := text(cc)
			countryCode = &s
		}

		positions = append(positions, domain.Position{
			ID:          id,
			Name:        name,
			Type:        posType,
			CountryCode: countryCode,
		})
	}

	return positions, skipped
}

// ExtractPositionList достаёт список позиций из ответа: либо массив верхнего
// уровня, либо первый непустой список под известными ключами.
func ExtractPositionList(raw interface{}) []interface{} {
	if list, ok := raw.([]interface{}); ok {
		return list
	}

	obj := asObject(raw)
	for _, key := range []string{"positions", "results", "data", "items", "locations"} {
		if list := asList(obj[key]); len(list) > 0 {
			return list
		}
	}
	return []interface{}{}
}
