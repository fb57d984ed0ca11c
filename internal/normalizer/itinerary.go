package normalizer

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/travel-discovery-mcp/internal/domain"
)

const (
	defaultTimeZone   = "UTC"
	defaultTravelMode = "unknown"
)

var scheduleKeys = []string{"combinedSchedules", "outboundSchedules", "inboundSchedules"}

var (
	errScheduleNotObject = errors.New("schedule is not an object")
	errMissingDatetime   = errors.New("missing departure or arrival datetime")
)

// lookupTables - справочники ответа, ключ - строковый id
type lookupTables struct {
	carriers  map[string]string
	positions map[string]string
	segments  map[string]map[string]interface{}
}

func buildLookupTables(raw map[string]interface{}) lookupTables {
	t := lookupTables{
		carriers:  make(map[string]string),
		positions: make(map[string]string),
		segments:  make(map[string]map[string]interface{}),
	}

	for _, item := range asList(raw["carriers"]) {
		c := asObject(item)
		if c == nil {
			continue
		}
		id, ok := refKey(c["id"])
		if !ok {
			continue
		}
		name := text(firstTruthy(c, "name", "code"))
		if name == "" {
			name = id
		}
		t.carriers[id] = name
	}

	for _, item := range asList(raw["positions"]) {
		p := asObject(item)
		if p == nil {
			continue
		}
		id, ok := refKey(p["id"])
		if !ok {
			continue
		}
		name := text(firstTruthy(p, "name"))
		if name == "" {
			name = id
		}
		t.positions[id] = name
	}

	for _, item := range asList(raw["segments"]) {
		s := asObject(item)
		if s == nil {
			continue
		}
		id, ok := refKey(s["id"])
		if !ok {
			continue
		}
		t.segments[id] = s
	}

	return t
}

// refKey - ключ справочника для id или ссылки на него. Пустые id и null не
// участвуют в сопоставлении.
func refKey(v interface{}) (string, bool) {
	key := strings.TrimSpace(text(v))
	return key, key != ""
}

// ShapeDayResults собирает варианты поездки из расписаний ответа.
// Ошибочные расписания пропускаются и учитываются в errCount, остальные
// обрабатываются независимо.
func ShapeDayResults(raw interface{}) (itineraries []domain.Itinerary, errCount int) {
	data := asObject(raw)
	itineraries = make([]domain.Itinerary, 0)
	if data == nil {
		return itineraries, 0
	}

	tables := buildLookupTables(data)

	var schedules []interface{}
	for _, key := range scheduleKeys {
		schedules = append(schedules, asList(data[key])...)
	}

	for _, sched := range schedules {
		it, err := shapeSchedule(sched, data, tables)
		if err != nil {
			errCount++
			continue
		}
		itineraries = append(itineraries, it)
	}

	return itineraries, errCount
}

func shapeSchedule(raw interface{}, data map[string]interface{}, tables lookupTables) (domain.Itinerary, error) {
	sched, ok := raw.(map[string]interface{})
	if !ok {
		return domain.Itinerary{}, errScheduleNotObject
	}

	segments := make([]map[string]interface{}, 0)
	for _, sid := range asList(sched["segmentIDs"]) {
		key, ok := refKey(sid)
		if !ok {
			continue
		}
		if seg, ok := tables.segments[key]; ok {
			segments = append(segments, seg)
		}
	}
	sort.SliceStable(segments, func(i, j int) bool {
		return text(segments[i]["departureDateTime"]) < text(segments[j]["departureDateTime"])
	})

	first := map[string]interface{}{}
	if len(segments) > 0 {
		first = segments[0]
	}

	depTime, err := requiredString(firstTruthy(first, "departureDateTime"), sched["departureAt"])
	if err != nil {
		return domain.Itinerary{}, err
	}
	arrTime, err := requiredString(firstTruthy(first, "arrivalDateTime"), sched["arrivalAt"])
	if err != nil {
		return domain.Itinerary{}, err
	}

	depTZ, err := stringOr(firstTruthy(first, "departureTimeZone"), defaultTimeZone)
	if err != nil {
		return domain.Itinerary{}, err
	}
	arrTZ, err := stringOr(firstTruthy(first, "arrivalTimeZone"), defaultTimeZone)
	if err != nil {
		return domain.Itinerary{}, err
	}

	mode, err := stringOr(firstNonEmpty(first["travelMode"], sched["travelMode"]), defaultTravelMode)
	if err != nil {
		return domain.Itinerary{}, err
	}

	currency, err := stringOr(firstTruthy(sched, "currency"), domain.DefaultCurrency)
	if err != nil {
		return domain.Itinerary{}, err
	}

	price := 0.0
	if rawPrice, ok := sched["priceCents"]; ok {
		cents, ok := number(rawPrice)
		if !ok {
			return domain.Itinerary{}, fmt.Errorf("invalid priceCents %v", rawPrice)
		}
		price = cents / 100
	}

	fromPosID, _ := refKey(firstNonEmpty(first["departurePositionId"], data["fromPosId"]))
	toPosID, _ := refKey(firstNonEmpty(first["arrivalPositionId"], data["toPosId"]))

	duration := text(firstNonEmpty(first["durationMinutes"], sched["duration"]))
	if duration == "" {
		duration = "0"
	}

	var carrier *string
	if carrierID := first["carrierId"]; truthy(carrierID) {
		if name, ok := tables.carriers[strings.TrimSpace(text(carrierID))]; ok {
			carrier = &name
		}
	}

	return domain.Itinerary{
		FromTerm:  tables.positions[fromPosID],
		ToTerm:    tables.positions[toPosID],
		Mode:      mode,
		StableID:  text(firstNonEmpty(sched["id"], first["id"])),
		PriceFrom: price,
		Currency:  currency,
		Duration:  duration,
		Departure: domain.TimeInfo{Datetime: depTime, TZ: depTZ},
		Arrival:   domain.TimeInfo{Datetime: arrTime, TZ: arrTZ},
		Carrier:   carrier,
	}, nil
}

// firstNonEmpty возвращает первое заданное значение из списка
func firstNonEmpty(values ...interface{}) interface{} {
	for _, v := range values {
		if truthy(v) {
			return v
		}
	}
	return nil
}

// requiredString - первое заданное значение, которое обязано быть строкой
func requiredString(values ...interface{}) (string, error) {
	v := firstNonEmpty(values...)
	if v == nil {
		return "", errMissingDatetime
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected text, got %T", v)
	}
	return s, nil
}

func stringOr(v interface{}, fallback string) (string, error) {
	if v == nil {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected text, got %T", v)
	}
	return s, nil
}
