package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/extraction-service/internal/entity"
	"github.com/user/extraction-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const extractedDataCollection = "extracted_data"

// ExtractedDataRepoImpl stores extracted company data as one document per URL.
type ExtractedDataRepoImpl struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewExtractedDataRepo connects to MongoDB and makes sure the url index exists.
func NewExtractedDataRepo(ctx context.Context, uri, database string) (*ExtractedDataRepoImpl, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	r := &ExtractedDataRepoImpl{
		client:     client,
		collection: client.Database(database).Collection(extractedDataCollection),
	}

	_, err = r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "url", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create url index: %w", err)
	}
	return r, nil
}

// Save upserts the document keyed by URL.
func (r *ExtractedDataRepoImpl) Save(ctx context.Context, data *entity.ExtractedData) error {
	filter := bson.M{"url": data.URL}
	update := bson.M{"$set": data}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save extracted data for %s: %w", data.URL, err)
	}
	return nil
}

func (r *ExtractedDataRepoImpl) FindByURL(ctx context.Context, url string) (*entity.ExtractedData, error) {
	var data entity.ExtractedData
	err := r.collection.FindOne(ctx, bson.M{"url": url}).Decode(&data)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find extracted data for %s: %w", url, err)
	}
	return &data, nil
}

func (r *ExtractedDataRepoImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func (r *ExtractedDataRepoImpl) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
