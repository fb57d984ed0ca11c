package domain

// TimeInfo - локальное время и часовой пояс
type TimeInfo struct {
	Datetime string `json:"datetime"`
	TZ       string `json:"tz"`
}

// Itinerary - один вариант поездки на конкретный день
type Itinerary struct {
	FromTerm  string   `json:"from_term"`
	ToTerm    string   `json:"to_term"`
	Mode      string   `json:"mode"`
	StableID  string   `json:"stableId"`
	PriceFrom float64  `json:"priceFrom"`
	Currency  string   `json:"currency"`
	Duration  string   `json:"duration"`
	Departure TimeInfo `json:"departure"`
	Arrival   TimeInfo `json:"arrival"`
	Carrier   *string  `json:"carrier"`
}
