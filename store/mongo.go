package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mgnrega_api/models"
)

// MongoStore implements Store on a MongoDB database. It exists so the
// cache can run against either backend; selection happens at startup
// via STORE_BACKEND.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(dbName)}
}

func (s *MongoStore) data() *mongo.Collection   { return s.db.Collection("district_data") }
func (s *MongoStore) stats() *mongo.Collection  { return s.db.Collection("district_stats") }
func (s *MongoStore) status() *mongo.Collection { return s.db.Collection("cache_status") }

// CreateIndexes sets up the unique upsert keys and lookup indexes.
func (s *MongoStore) CreateIndexes(ctx context.Context) error {
	dataIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "district_code", Value: 1}, {Key: "year", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("district_code_year_idx"),
		},
		{
			Keys:    bson.D{{Key: "district_code", Value: 1}},
			Options: options.Index().SetName("district_code_idx"),
		},
	}
	if _, err := s.data().Indexes().CreateMany(ctx, dataIndexes); err != nil {
		return fmt.Errorf("error creating district_data indexes: %v", err)
	}

	statsIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "district_code", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("stats_district_code_idx"),
	}
	if _, err := s.stats().Indexes().CreateOne(ctx, statsIndex); err != nil {
		return fmt.Errorf("error creating district_stats index: %v", err)
	}

	statusIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "data_type", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("data_type_idx"),
	}
	if _, err := s.status().Indexes().CreateOne(ctx, statusIndex); err != nil {
		return fmt.Errorf("error creating cache_status index: %v", err)
	}

	log.Printf("Successfully created district cache indexes")
	return nil
}

func (s *MongoStore) GetDistrictData(ctx context.Context, districtCode string, year int) (*models.DistrictData, error) {
	var d models.DistrictData
	err := s.data().FindOne(ctx, bson.M{"district_code": districtCode, "year": year}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching district data: %v", err)
	}
	return &d, nil
}

func (s *MongoStore) UpsertDistrictData(ctx context.Context, data *models.DistrictData) (*models.DistrictData, error) {
	stored := *data
	stored.LastUpdated = time.Now()

	filter := bson.M{"district_code": data.DistrictCode, "year": data.Year}
	_, err := s.data().ReplaceOne(ctx, filter, &stored, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("error saving district data: %v", err)
	}
	return &stored, nil
}

func (s *MongoStore) GetRecentDistrictData(ctx context.Context, districtCode string, limit int) ([]*models.DistrictData, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "year", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.data().Find(ctx, bson.M{"district_code": districtCode}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching recent district data: %v", err)
	}
	defer cursor.Close(ctx)

	var result []*models.DistrictData
	for cursor.Next(ctx) {
		var d models.DistrictData
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("error decoding district data: %v", err)
		}
		result = append(result, &d)
	}
	return result, cursor.Err()
}

func (s *MongoStore) GetDistrictStats(ctx context.Context, districtCode string) (*models.DistrictStats, error) {
	var st models.DistrictStats
	err := s.stats().FindOne(ctx, bson.M{"district_code": districtCode}).Decode(&st)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching district stats: %v", err)
	}
	return &st, nil
}

func (s *MongoStore) UpsertDistrictStats(ctx context.Context, stats *models.DistrictStats) (*models.DistrictStats, error) {
	stored := *stats
	stored.LastUpdated = time.Now()

	filter := bson.M{"district_code": stats.DistrictCode}
	_, err := s.stats().ReplaceOne(ctx, filter, &stored, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("error saving district stats: %v", err)
	}
	return &stored, nil
}

func (s *MongoStore) ListDistrictCodes(ctx context.Context) ([]string, error) {
	values, err := s.data().Distinct(ctx, "district_code", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing district codes: %v", err)
	}

	codes := make([]string, 0, len(values))
	for _, v := range values {
		if code, ok := v.(string); ok {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

func (s *MongoStore) GetCacheStatus(ctx context.Context, dataType string) (*models.CacheStatus, error) {
	var cs models.CacheStatus
	err := s.status().FindOne(ctx, bson.M{"data_type": dataType}).Decode(&cs)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching cache status: %v", err)
	}
	return &cs, nil
}

func (s *MongoStore) UpsertCacheStatus(ctx context.Context, status *models.CacheStatus) error {
	stored := *status
	stored.UpdatedAt = time.Now()

	filter := bson.M{"data_type": status.DataType}
	_, err := s.status().ReplaceOne(ctx, filter, &stored, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error saving cache status: %v", err)
	}
	return nil
}

func (s *MongoStore) DeleteDistrictDataBefore(ctx context.Context, cutoff time.Time, keepYears int) (int64, error) {
	// Collect the keepYears most recent years per district; those rows
	// stay regardless of age.
	codes, err := s.ListDistrictCodes(ctx)
	if err != nil {
		return 0, err
	}

	var deleted int64
	for _, code := range codes {
		recent, err := s.GetRecentDistrictData(ctx, code, keepYears)
		if err != nil {
			return deleted, err
		}
		keep := make([]int, 0, len(recent))
		for _, d := range recent {
			keep = append(keep, d.Year)
		}

		res, err := s.data().DeleteMany(ctx, bson.M{
			"district_code": code,
			"last_updated":  bson.M{"$lt": cutoff},
			"year":          bson.M{"$nin": keep},
		})
		if err != nil {
			return deleted, fmt.Errorf("error cleaning up district data: %v", err)
		}
		deleted += res.DeletedCount
	}
	return deleted, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
