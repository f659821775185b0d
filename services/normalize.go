package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidDate is returned when a date string matches none of the
// accepted formats and cannot be parsed generically.
var ErrInvalidDate = errors.New("invalid date")

// DateFilter is the canonical day window derived from a query date.
// Start and End delimit a half-open 24h window at UTC midnight; Prefix is
// the ISO form used for string-prefix matching against stored records.
type DateFilter struct {
	Prefix string
	Start  time.Time
	End    time.Time
}

var (
	isoDateRe      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dayFirstDateRe = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
)

// Layouts tried when the input matches neither accepted query format.
var genericDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// NormalizeDate converts a free-form date string into a DateFilter.
// Accepts YYYY-MM-DD and DD/MM/YYYY; anything else goes through a
// best-effort generic parse before failing with ErrInvalidDate.
func NormalizeDate(input string) (DateFilter, error) {
	var prefix string

	if m := isoDateRe.FindStringSubmatch(input); m != nil {
		prefix = fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
	} else if m := dayFirstDateRe.FindStringSubmatch(input); m != nil {
		prefix = fmt.Sprintf("%s-%s-%s", m[3], m[2], m[1])
	} else {
		for _, layout := range genericDateLayouts {
			if t, err := time.Parse(layout, input); err == nil {
				prefix = t.UTC().Format("2006-01-02")
				break
			}
		}
	}

	if prefix == "" {
		return DateFilter{}, fmt.Errorf("%w: %q", ErrInvalidDate, input)
	}

	start, err := time.Parse("2006-01-02", prefix)
	if err != nil {
		return DateFilter{}, fmt.Errorf("%w: %q", ErrInvalidDate, input)
	}

	return DateFilter{
		Prefix: prefix,
		Start:  start.UTC(),
		End:    start.UTC().Add(24 * time.Hour),
	}, nil
}

// exactMatchRegex builds an anchored case-insensitive pattern for a route
// name. The input is escaped in full so it is matched as an opaque
// literal, never interpreted as a pattern.
func exactMatchRegex(value string) primitive.Regex {
	return primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(value) + "$",
		Options: "i",
	}
}

// datePrefixRegex matches a stored date string that is either exactly the
// ISO day or an ISO datetime starting on that day.
func datePrefixRegex(prefix string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix) + "(?:$|T)"}
}

// RouteDateFilter builds the document filter for a route on a given day.
// Route names match either historical field convention; the date clause
// covers native datetime values as well as both string representations.
func RouteDateFilter(from, to string, df DateFilter) bson.M {
	originRx := exactMatchRegex(from)
	destinationRx := exactMatchRegex(to)
	dateRx := datePrefixRegex(df.Prefix)

	return bson.M{
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"origin": originRx},
				bson.M{"departure": originRx},
			}},
			bson.M{"$or": bson.A{
				bson.M{"destination": destinationRx},
				bson.M{"arrival": destinationRx},
			}},
			bson.M{"$or": bson.A{
				bson.M{"departureTime": bson.M{"$gte": df.Start, "$lt": df.End}},
				bson.M{"departureTime": dateRx},
				bson.M{"departureDate": dateRx},
			}},
		},
	}
}
