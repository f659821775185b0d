package models

// Availability levels for a train offer. Computed from the stored seat
// count, never copied verbatim from input.
const (
	AvailabilityAvailable = "available"
	AvailabilityFewSeats  = "few-seats"
	AvailabilitySoldOut   = "sold-out"
)

// Price trend of an offer relative to its previously recorded price.
const (
	PriceTrendRising  = "rising"
	PriceTrendFalling = "falling"
	PriceTrendStable  = "stable"
)

// TrainOffer is the normalized representation of one purchasable train
// trip. It is derived from a stored record or from AI provider output and
// is never persisted.
type TrainOffer struct {
	Company       string   `json:"company"`
	DepartureDate string   `json:"departureDate"`
	DepartureTime string   `json:"departureTime"`
	ArrivalTime   string   `json:"arrivalTime"`
	Duration      string   `json:"duration"`
	Price         float64  `json:"price"`
	TrainType     string   `json:"trainType"`
	Changes       int      `json:"changes"`
	Availability  string   `json:"availability"`
	Link          string   `json:"link,omitempty"`
	Departure     string   `json:"departure"`
	Arrival       string   `json:"arrival"`
	PreviousPrice *float64 `json:"previousPrice,omitempty"`
	PriceTrend    string   `json:"priceTrend,omitempty"`
}

// Recommendation is the advice attached to a search result. Produced
// fresh per search, either by the AI provider or by the heuristic ranker.
type Recommendation struct {
	BestOffer     TrainOffer   `json:"bestOffer"`
	Reasoning     string       `json:"reasoning"`
	Alternatives  []TrainOffer `json:"alternatives"`
	PriceAnalysis string       `json:"priceAnalysis"`
	Suggestion    string       `json:"suggestion"`
}
