package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"smartfare-backend/models"
)

// ErrStorageUnavailable wraps document-store failures so handlers can
// report them without exposing driver internals.
var ErrStorageUnavailable = errors.New("storage unavailable")

// TrainStore is the document-store collaborator consumed by the search
// service. Implemented by database.TrainCollection; faked in tests.
type TrainStore interface {
	Find(ctx context.Context, filter interface{}, skip, limit int64) ([]bson.M, error)
	Count(ctx context.Context, filter interface{}) (int64, error)
	EstimatedCount(ctx context.Context) (int64, error)
	Aggregate(ctx context.Context, pipeline interface{}) ([]bson.M, error)
}

// Recommender produces a recommendation for a list of offers and, when no
// store is configured, discovers offers on its own.
type Recommender interface {
	Recommend(ctx context.Context, offers []models.TrainOffer) *models.Recommendation
	SearchOffers(ctx context.Context, params models.SearchParams) []models.TrainOffer
}

// SearchService composes date normalization, the document-store lookup,
// record mapping and the recommendation step.
type SearchService struct {
	store       TrainStore
	recommender Recommender
}

// NewSearchService wires the search pipeline. A nil store switches the
// service to live AI offer discovery.
func NewSearchService(store TrainStore, recommender Recommender) *SearchService {
	return &SearchService{store: store, recommender: recommender}
}

// Search runs one train-fare search. Date validation happens before any
// I/O; storage failures come back wrapped in ErrStorageUnavailable.
func (s *SearchService) Search(ctx context.Context, params models.SearchParams) (*models.SearchResult, error) {
	df, err := NormalizeDate(params.Date)
	if err != nil {
		return nil, err
	}

	log.Printf("Ricerca nuova: %s -> %s (%s)", params.From, params.To, df.Prefix)

	var offers []models.TrainOffer
	if s.store == nil {
		offers = s.recommender.SearchOffers(ctx, params)
	} else {
		docs, err := s.store.Find(ctx, RouteDateFilter(params.From, params.To, df), 0, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		log.Printf("Treni trovati per %s: %d", df.Prefix, len(docs))

		offers = make([]models.TrainOffer, 0, len(docs))
		for _, doc := range docs {
			offers = append(offers, MapTrainRecord(doc))
		}
	}

	return &models.SearchResult{
		Source:         "live",
		Offers:         offers,
		Recommendation: s.recommender.Recommend(ctx, offers),
		SearchedAt:     time.Now().UTC(),
	}, nil
}

// Stats gathers collection diagnostics for the health endpoint.
func (s *SearchService) Stats(ctx context.Context) (*models.CollectionStats, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: no database configured", ErrStorageUnavailable)
	}

	total, err := s.store.EstimatedCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	pipeline := bson.A{
		bson.M{"$group": bson.M{
			"_id":   bson.M{"origin": "$origin", "destination": "$destination"},
			"count": bson.M{"$sum": 1},
		}},
		bson.M{"$sort": bson.M{"count": -1}},
		bson.M{"$limit": 10},
	}
	grouped, err := s.store.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	topRoutes := make([]models.RouteCount, 0, len(grouped))
	for _, doc := range grouped {
		route, _ := doc["_id"].(bson.M)
		count, _ := numberValue(doc["count"])
		topRoutes = append(topRoutes, models.RouteCount{
			From:  stringField(route, "origin"),
			To:    stringField(route, "destination"),
			Count: int64(count),
		})
	}

	samples, err := s.store.Find(ctx, bson.M{}, 0, 5)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	sampleTrains := make([]models.TrainSample, 0, len(samples))
	for _, doc := range samples {
		sampleTrains = append(sampleTrains, models.TrainSample{
			Origin:        firstString(doc, originFields),
			Destination:   firstString(doc, destinationFields),
			DepartureTime: firstValue(doc, departureFields),
			Company:       stringField(doc, "company"),
			Price:         resolvePrice(doc),
		})
	}

	return &models.CollectionStats{
		TotalTrains:  total,
		TopRoutes:    topRoutes,
		SampleTrains: sampleTrains,
	}, nil
}

// Trains returns one page of raw stored records. Page is floored at 1;
// limit is clamped to 1..100.
func (s *SearchService) Trains(ctx context.Context, page, limit int) (*models.TrainPage, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: no database configured", ErrStorageUnavailable)
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	total, err := s.store.Count(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	skip := int64(page-1) * int64(limit)
	docs, err := s.store.Find(ctx, bson.M{}, skip, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	trains := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		trains = append(trains, doc)
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	return &models.TrainPage{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		Trains:     trains,
	}, nil
}
