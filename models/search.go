package models

import "time"

// SearchParams represents a train search query from user input.
// Date is accepted in ISO (YYYY-MM-DD) or day-first (DD/MM/YYYY) form.
type SearchParams struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Date       string `json:"date"`
	Passengers int    `json:"passengers"`
}

// SearchResult is the payload returned by the search endpoints.
type SearchResult struct {
	Source         string          `json:"source"`
	Offers         []TrainOffer    `json:"offers"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
	SearchedAt     time.Time       `json:"searchedAt"`
}
