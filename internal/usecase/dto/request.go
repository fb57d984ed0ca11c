package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/travel-discovery-mcp/internal/domain"
)

// Defaults - значения по умолчанию из конфигурации
type Defaults struct {
	Locale   string
	Currency string
	Limit    int
}

// DefaultValues возвращает встроенные значения по умолчанию
func DefaultValues() Defaults {
	return Defaults{
		Locale:   domain.DefaultLocale,
		Currency: domain.DefaultCurrency,
		Limit:    domain.DefaultLimit,
	}
}

// FlexString - строковый параметр, который клиенты иногда передают числом
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = FlexString(num.String())
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*s = FlexString(fmt.Sprint(b))
		return nil
	}

	return fmt.Errorf("expected string or number, got %s", string(data))
}

// TravelModes - список видов транспорта; принимает массив или уже склеенную строку
type TravelModes []string

func (m *TravelModes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*m = TravelModes{str}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("travelModes must be a string or an array of strings: %w", err)
	}
	*m = list
	return nil
}

// Join склеивает виды транспорта через запятую
func (m TravelModes) Join() string {
	return strings.Join(m, ",")
}

// AutocompleteParams - параметры автодополнения позиций
type AutocompleteParams struct {
	Term   string `json:"term"`
	Locale string `json:"locale,omitempty"`
	Limit  int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

// ApplyDefaults заполняет незаданные поля
func (p *AutocompleteParams) ApplyDefaults(d Defaults) {
	if p.Locale == "" {
		p.Locale = d.Locale
	}
	if p.Limit == 0 {
		p.Limit = d.Limit
	}
}

// ResolvePositionsParams - параметры разрешения пары позиций
type ResolvePositionsParams struct {
	FromTerm  string `json:"from_term"`
	ToTerm    string `json:"to_term"`
	Locale    string `json:"locale,omitempty"`
	LimitEach int    `json:"limit_each,omitempty" validate:"omitempty,min=1,max=100"`
}

func (p *ResolvePositionsParams) ApplyDefaults(d Defaults) {
	if p.Locale == "" {
		p.Locale = d.Locale
	}
	if p.LimitEach == 0 {
		p.LimitEach = d.Limit
	}
}

// BaseSearchParams - общие параметры поисковых инструментов.
// Идентификаторы имеют приоритет над текстовыми названиями.
type BaseSearchParams struct {
	FromID   *int64      `json:"from_id,omitempty" validate:"omitempty,min=0"`
	ToID     *int64      `json:"to_id,omitempty" validate:"omitempty,min=0"`
	FromTerm string      `json:"from_term,omitempty"`
	ToTerm   string      `json:"to_term,omitempty"`
	Adults   FlexString  `json:"adults,omitempty"`
	Children FlexString  `json:"children,omitempty"`
	Infants  FlexString  `json:"infants,omitempty"`
	Modes    TravelModes `json:"travelModes,omitempty"`
	Locale   string      `json:"locale,omitempty"`
	Currency string      `json:"currency,omitempty"`
}

func (p *BaseSearchParams) ApplyDefaults(d Defaults) {
	if p.Adults == "" {
		p.Adults = domain.DefaultAdults
	}
	if p.Children == "" {
		p.Children = domain.DefaultChildren
	}
	if p.Infants == "" {
		p.Infants = domain.DefaultInfants
	}
	if len(p.Modes) == 0 {
		p.Modes = domain.DefaultTravelModes()
	}
	if p.Locale == "" {
		p.Locale = d.Locale
	}
	if p.Currency == "" {
		p.Currency = d.Currency
	}
}

// SearchDayResultsParams - поиск вариантов поездки на конкретный день
type SearchDayResultsParams struct {
	BaseSearchParams
	DateOut                string             `json:"date_out" validate:"required,datetime=2006-01-02"`
	DateReturn             string             `json:"date_return,omitempty" validate:"omitempty,datetime=2006-01-02"`
	OutboundID             FlexString         `json:"outboundId,omitempty"`
	JourneyType            domain.JourneyType `json:"journeyType,omitempty" validate:"omitempty,oneof=ONE_WAY ROUND_TRIP"`
	AllowCombinedSchedules FlexString         `json:"allowCombinedSchedules,omitempty"`
}

// SearchCalendarPricesParams - календарь минимальных цен
type SearchCalendarPricesParams struct {
	BaseSearchParams
	DateStart              string             `json:"date_start" validate:"required"`
	DateEnd                string             `json:"date_end" validate:"required"`
	JourneyType            domain.JourneyType `json:"journey_type,omitempty" validate:"omitempty,oneof=ONE_WAY ROUND_TRIP"`
	AllowCombinedSchedules FlexString         `json:"allowCombinedSchedules,omitempty"`
}

// SearchSummaryParams - сводка по диапазону дат (cheapest и fastest)
type SearchSummaryParams struct {
	BaseSearchParams
	DateStart string `json:"date_start" validate:"required"`
	DateEnd   string `json:"date_end" validate:"required"`
}
