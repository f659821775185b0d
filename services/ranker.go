package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"smartfare-backend/models"
)

// Scoring weights of the heuristic fallback ranker.
const (
	baseScore            = 100.0
	pricePenalty         = 0.5
	changePenalty        = 10.0
	durationHourPenalty  = 5.0
	availabilityBonus    = 20.0
	maxAlternativeOffers = 2
)

const (
	fallbackReasoning  = "Selezione euristica: migliore rapporto qualità/prezzo considerando tempo di viaggio e costi"
	fallbackSuggestion = "Confronta le alternative in base alle tue preferenze di viaggio"
)

var durationHoursRe = regexp.MustCompile(`(\d+)h`)

// OfferScore computes the deterministic value score of one offer. Higher
// is better. The duration penalty counts only the whole-hour token.
func OfferScore(offer models.TrainOffer) float64 {
	score := baseScore
	score -= offer.Price * pricePenalty
	score -= float64(offer.Changes) * changePenalty
	if m := durationHoursRe.FindStringSubmatch(offer.Duration); m != nil {
		if hours, err := strconv.Atoi(m[1]); err == nil {
			score -= float64(hours) * durationHourPenalty
		}
	}
	if offer.Availability == models.AvailabilityAvailable {
		score += availabilityBonus
	}
	return score
}

// FallbackRecommendation deterministically ranks offers when the AI
// recommendation path is unavailable. Callers must not pass an empty
// list.
func FallbackRecommendation(offers []models.TrainOffer) *models.Recommendation {
	ranked := make([]models.TrainOffer, len(offers))
	copy(ranked, offers)

	// Stable: ties keep their original input order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return OfferScore(ranked[i]) > OfferScore(ranked[j])
	})

	alternatives := ranked[1:]
	if len(alternatives) > maxAlternativeOffers {
		alternatives = alternatives[:maxAlternativeOffers]
	}

	return &models.Recommendation{
		BestOffer:     ranked[0],
		Reasoning:     fallbackReasoning,
		Alternatives:  alternatives,
		PriceAnalysis: priceAnalysis(offers),
		Suggestion:    fallbackSuggestion,
	}
}

// priceAnalysis summarizes the price range over the full offer list.
func priceAnalysis(offers []models.TrainOffer) string {
	min, max := offers[0].Price, offers[0].Price
	for _, o := range offers[1:] {
		if o.Price < min {
			min = o.Price
		}
		if o.Price > max {
			max = o.Price
		}
	}
	return fmt.Sprintf("Prezzi da %s€ a %s€", formatPrice(min), formatPrice(max))
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
