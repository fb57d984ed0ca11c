package repository

import (
	"context"
	"net/url"
)

// DiscoveryRepository - интерфейс для работы с upstream travel-discovery API
type DiscoveryRepository interface {
	// Get выполняет GET запрос к эндпоинту и возвращает декодированный JSON
	Get(ctx context.Context, endpoint string, params url.Values) (interface{}, error)
}
