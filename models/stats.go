package models

// RouteCount is one entry of the most-frequent-routes aggregation.
type RouteCount struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count int64  `json:"count"`
}

// TrainSample is a trimmed stored record shown in the diagnostics output.
type TrainSample struct {
	Origin        string      `json:"origin"`
	Destination   string      `json:"destination"`
	DepartureTime interface{} `json:"departureTime"`
	Company       string      `json:"company"`
	Price         float64     `json:"price"`
}

// CollectionStats summarizes the train collection for diagnostics.
type CollectionStats struct {
	TotalTrains  int64         `json:"totalTrains"`
	TopRoutes    []RouteCount  `json:"topRoutes"`
	SampleTrains []TrainSample `json:"sampleTrains"`
}

// TrainPage is one page of raw stored train records.
type TrainPage struct {
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
	Total      int64                    `json:"total"`
	TotalPages int64                    `json:"totalPages"`
	Trains     []map[string]interface{} `json:"trains"`
}
