package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"smartfare-backend/models"
)

// Ordered field-name candidates per logical attribute. Two historical
// schema conventions coexist in the collection (origin/destination vs
// departure/arrival); the canonical name is tried first.
var (
	originFields        = []string{"origin", "departure"}
	destinationFields   = []string{"destination", "arrival"}
	departureFields     = []string{"departureTime", "departureDate"}
	arrivalFields       = []string{"arrivalTime", "arrivalDate"}
	priceFields         = []string{"priceEUR", "price"}
	previousPriceFields = []string{"previousPrice", "previousPriceEUR"}
)

var isoDateTimeRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})T(\d{2}:\d{2})`)
var isoDateOnlyRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})$`)

// MapTrainRecord shapes one raw stored document into a TrainOffer,
// tolerating missing and heterogeneously-named fields.
func MapTrainRecord(doc bson.M) models.TrainOffer {
	depDate, depTime := extractDateTimeParts(firstValue(doc, departureFields))
	_, arrTime := extractDateTimeParts(firstValue(doc, arrivalFields))

	offer := models.TrainOffer{
		Company:       stringField(doc, "company"),
		DepartureDate: depDate,
		DepartureTime: depTime,
		ArrivalTime:   arrTime,
		Duration:      formatDuration(doc),
		Price:         resolvePrice(doc),
		TrainType:     stringField(doc, "trainType"),
		Changes:       intField(doc, "changes"),
		Availability:  mapAvailability(doc["seatsAvailable"]),
		Link:          stringField(doc, "link"),
		Departure:     firstString(doc, originFields),
		Arrival:       firstString(doc, destinationFields),
	}

	if prev, ok := firstNumber(doc, previousPriceFields); ok {
		if cur, ok := firstNumber(doc, priceFields); ok {
			offer.PreviousPrice = &prev
			offer.PriceTrend = priceTrend(cur, prev)
		}
	}

	return offer
}

func priceTrend(current, previous float64) string {
	switch {
	case current > previous:
		return models.PriceTrendRising
	case current < previous:
		return models.PriceTrendFalling
	default:
		return models.PriceTrendStable
	}
}

// resolvePrice coerces the price aliases into a finite non-negative
// number, defaulting to 0.
func resolvePrice(doc bson.M) float64 {
	price, ok := firstNumber(doc, priceFields)
	if !ok || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0
	}
	return price
}

// extractDateTimeParts splits a stored departure/arrival value into its
// date and time components. Handles ISO datetime strings, bare ISO dates
// and native datetime values; anything else yields empty parts.
func extractDateTimeParts(value interface{}) (date, clock string) {
	switch v := value.(type) {
	case string:
		if m := isoDateTimeRe.FindStringSubmatch(v); m != nil {
			return m[1], m[2]
		}
		if m := isoDateOnlyRe.FindStringSubmatch(v); m != nil {
			return m[1], ""
		}
	case time.Time:
		return v.UTC().Format("2006-01-02"), v.UTC().Format("15:04")
	case primitive.DateTime:
		t := v.Time().UTC()
		return t.Format("2006-01-02"), t.Format("15:04")
	}
	return "", ""
}

// formatDuration prefers an existing human-readable duration string, then
// derives one from a minute count, then gives up.
func formatDuration(doc bson.M) string {
	if s := stringField(doc, "duration"); s != "" {
		return s
	}
	if mins, ok := numberValue(doc["durationMin"]); ok {
		total := int(mins)
		return fmt.Sprintf("%dh %dmin", total/60, total%60)
	}
	return ""
}

// mapAvailability computes the availability tier from the seat count.
func mapAvailability(value interface{}) string {
	seats, ok := numberValue(value)
	if !ok {
		return models.AvailabilityAvailable
	}
	switch {
	case seats <= 0:
		return models.AvailabilitySoldOut
	case seats <= 10:
		return models.AvailabilityFewSeats
	default:
		return models.AvailabilityAvailable
	}
}

func firstValue(doc bson.M, keys []string) interface{} {
	for _, key := range keys {
		if v, ok := doc[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(doc bson.M, keys []string) string {
	for _, key := range keys {
		if s, ok := doc[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstNumber(doc bson.M, keys []string) (float64, bool) {
	for _, key := range keys {
		if v, ok := doc[key]; ok {
			if n, ok := numberValue(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func stringField(doc bson.M, key string) string {
	s, _ := doc[key].(string)
	return s
}

func intField(doc bson.M, key string) int {
	n, _ := numberValue(doc[key])
	return int(n)
}

// numberValue coerces the numeric representations the driver can hand
// back, plus numeric strings from the legacy schema.
func numberValue(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case primitive.Decimal128:
		if n, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return n, true
		}
	case string:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
