package normalizer

import (
	"net/url"
	"strconv"

	"github.com/travel-discovery-mcp/internal/usecase/dto"
)

// CommonParams собирает общие параметры поисковых запросов к API
func CommonParams(p dto.BaseSearchParams, fromID, toID int64) url.Values {
	q := url.Values{}
	q.Set("fromId", strconv.FormatInt(fromID, 10))
	q.Set("toId", strconv.FormatInt(toID, 10))
	q.Set("adults", string(p.Adults))
	q.Set("children", string(p.Children))
	q.Set("infants", string(p.Infants))
	q.Set("travelModes", p.Modes.Join())
	q.Set("locale", p.Locale)
	q.Set("currency", p.Currency)
	return q
}
