package domain

// JourneyType - тип поездки
type JourneyType string

const (
	JourneyOneWay    JourneyType = "ONE_WAY"
	JourneyRoundTrip JourneyType = "ROUND_TRIP"
)

// Значения по умолчанию для поисковых параметров
const (
	DefaultLocale   = "en"
	DefaultCurrency = "EUR"
	DefaultLimit    = 20
	DefaultAdults   = "1"
	DefaultChildren = "0"
	DefaultInfants  = "0"
)

// DefaultTravelModes возвращает виды транспорта по умолчанию
func DefaultTravelModes() []string {
	return []string{"bus", "train", "flight"}
}

// Максимальная длина диапазона дат в днях
const (
	CalendarMaxDays = 31
	SummaryMaxDays  = 30
)
