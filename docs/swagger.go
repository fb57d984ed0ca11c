// Package docs Travel Discovery MCP API.
//
// Сервер инструментов поиска поездок поверх travel-discovery API.
// Инструменты доступны через REST и JSON-RPC 2.0, а также через stdio.
//
// Основные возможности:
// - Автодополнение и разрешение позиций (города, станции, аэропорты)
// - Поиск вариантов поездки на дату
// - Календарь минимальных цен за период до 31 дня
// - Сводки самых дешёвых и самых быстрых вариантов по видам транспорта
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//	- text/plain
//
// swagger:meta
package docs
