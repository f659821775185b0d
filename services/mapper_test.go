package services

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"smartfare-backend/models"
)

func TestMapTrainRecordCanonicalFields(t *testing.T) {
	doc := bson.M{
		"company":        "Trenitalia",
		"origin":         "Torino",
		"destination":    "Milano",
		"departureTime":  "2026-03-01T08:30:00",
		"arrivalTime":    "2026-03-01T09:45:00",
		"duration":       "1h 15min",
		"priceEUR":       45.0,
		"trainType":      "Frecciarossa",
		"changes":        int32(0),
		"seatsAvailable": int32(3),
		"link":           "https://example.test/offerta",
	}

	offer := MapTrainRecord(doc)

	if offer.Departure != "Torino" || offer.Arrival != "Milano" {
		t.Errorf("route = %s -> %s", offer.Departure, offer.Arrival)
	}
	if offer.DepartureDate != "2026-03-01" || offer.DepartureTime != "08:30" {
		t.Errorf("departure = %q %q", offer.DepartureDate, offer.DepartureTime)
	}
	if offer.ArrivalTime != "09:45" {
		t.Errorf("arrival = %q", offer.ArrivalTime)
	}
	if offer.Price != 45 {
		t.Errorf("price = %v, want 45", offer.Price)
	}
	if offer.Availability != models.AvailabilityFewSeats {
		t.Errorf("availability = %q, want few-seats", offer.Availability)
	}
	if offer.Duration != "1h 15min" {
		t.Errorf("duration = %q", offer.Duration)
	}
}

func TestMapTrainRecordLegacyAliases(t *testing.T) {
	doc := bson.M{
		"departure":     "Roma",
		"arrival":       "Napoli",
		"departureDate": "2026-03-04",
		"price":         "19.90",
	}

	offer := MapTrainRecord(doc)

	if offer.Departure != "Roma" {
		t.Errorf("departure = %q, want alias value Roma", offer.Departure)
	}
	if offer.Arrival != "Napoli" {
		t.Errorf("arrival = %q, want alias value Napoli", offer.Arrival)
	}
	if offer.DepartureDate != "2026-03-04" || offer.DepartureTime != "" {
		t.Errorf("departure parts = %q %q", offer.DepartureDate, offer.DepartureTime)
	}
	if offer.Price != 19.90 {
		t.Errorf("price = %v, want 19.90 from legacy string field", offer.Price)
	}
}

func TestMapTrainRecordCanonicalWinsOverAlias(t *testing.T) {
	doc := bson.M{
		"origin":    "Torino",
		"departure": "Cesena",
		"priceEUR":  30.0,
		"price":     99.0,
	}

	offer := MapTrainRecord(doc)

	if offer.Departure != "Torino" {
		t.Errorf("departure = %q, canonical origin should win", offer.Departure)
	}
	if offer.Price != 30 {
		t.Errorf("price = %v, canonical priceEUR should win", offer.Price)
	}
}

func TestMapAvailabilityBoundaries(t *testing.T) {
	tests := []struct {
		seats interface{}
		want  string
	}{
		{nil, models.AvailabilityAvailable},
		{int32(-2), models.AvailabilitySoldOut},
		{int32(0), models.AvailabilitySoldOut},
		{int32(1), models.AvailabilityFewSeats},
		{int32(10), models.AvailabilityFewSeats},
		{int32(11), models.AvailabilityAvailable},
		{int32(250), models.AvailabilityAvailable},
	}

	for _, tt := range tests {
		doc := bson.M{}
		if tt.seats != nil {
			doc["seatsAvailable"] = tt.seats
		}
		if got := MapTrainRecord(doc).Availability; got != tt.want {
			t.Errorf("seats %v: availability = %q, want %q", tt.seats, got, tt.want)
		}
	}
}

func TestExtractDateTimeParts(t *testing.T) {
	native := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		value    interface{}
		wantDate string
		wantTime string
	}{
		{"iso datetime", "2026-03-01T08:30:00.000Z", "2026-03-01", "08:30"},
		{"iso datetime short", "2026-03-01T08:30", "2026-03-01", "08:30"},
		{"bare date", "2026-03-01", "2026-03-01", ""},
		{"native time", native, "2026-03-01", "08:30"},
		{"bson datetime", primitive.NewDateTimeFromTime(native), "2026-03-01", "08:30"},
		{"unusable", "8 e mezza", "", ""},
		{"nil", nil, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, clock := extractDateTimeParts(tt.value)
			if date != tt.wantDate || clock != tt.wantTime {
				t.Errorf("got (%q, %q), want (%q, %q)", date, clock, tt.wantDate, tt.wantTime)
			}
		})
	}
}

func TestFormatDurationFromMinutes(t *testing.T) {
	offer := MapTrainRecord(bson.M{"durationMin": int32(135)})
	if offer.Duration != "2h 15min" {
		t.Errorf("duration = %q, want 2h 15min", offer.Duration)
	}

	offer = MapTrainRecord(bson.M{"duration": "3h 5min", "durationMin": int32(90)})
	if offer.Duration != "3h 5min" {
		t.Errorf("duration = %q, human string should win", offer.Duration)
	}

	offer = MapTrainRecord(bson.M{})
	if offer.Duration != "" {
		t.Errorf("duration = %q, want empty", offer.Duration)
	}
}

func TestPriceDefaultsToZero(t *testing.T) {
	if got := MapTrainRecord(bson.M{}).Price; got != 0 {
		t.Errorf("price = %v, want 0 for absent fields", got)
	}
	if got := MapTrainRecord(bson.M{"priceEUR": "non un numero"}).Price; got != 0 {
		t.Errorf("price = %v, want 0 for unparseable value", got)
	}
	if got := MapTrainRecord(bson.M{"priceEUR": -12.0}).Price; got != 0 {
		t.Errorf("price = %v, want 0 for negative value", got)
	}
}

func TestPriceTrend(t *testing.T) {
	tests := []struct {
		name string
		doc  bson.M
		want string
	}{
		{"rising", bson.M{"price": 80.0, "previousPrice": 60.0}, models.PriceTrendRising},
		{"falling", bson.M{"price": 60.0, "previousPrice": 80.0}, models.PriceTrendFalling},
		{"stable", bson.M{"price": 60.0, "previousPrice": 60.0}, models.PriceTrendStable},
		{"no previous", bson.M{"price": 60.0}, ""},
		{"unparseable previous", bson.M{"price": 60.0, "previousPrice": "boh"}, ""},
		{"unparseable current", bson.M{"price": "boh", "previousPrice": 60.0}, ""},
		{"alias previous", bson.M{"priceEUR": 50.0, "previousPriceEUR": 40.0}, models.PriceTrendRising},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := MapTrainRecord(tt.doc)
			if offer.PriceTrend != tt.want {
				t.Errorf("trend = %q, want %q", offer.PriceTrend, tt.want)
			}
			if tt.want != "" && offer.PreviousPrice == nil {
				t.Error("previousPrice not carried alongside trend")
			}
		})
	}
}
