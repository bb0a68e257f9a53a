package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"media-vault/internal/models"
)

// MediaPatch carries the fields a metadata update may change. Nil means
// the field is left untouched.
type MediaPatch struct {
	Description *string
	Tags        []string
	UpdatedAt   time.Time
}

type ListQuery struct {
	MediaType models.MediaType // empty matches all types
	Skip      int64
	Limit     int64
}

type SearchQuery struct {
	Text  string
	Skip  int64
	Limit int64
}

type MediaStore interface {
	CreateMedia(ctx context.Context, m *models.Media) error
	GetMediaByID(ctx context.Context, id string) (*models.Media, error)
	UpdateMedia(ctx context.Context, id, userID string, patch MediaPatch) (*models.Media, error)
	DeleteMedia(ctx context.Context, id, userID string) error
	ListByUser(ctx context.Context, userID string, q ListQuery) ([]*models.Media, int64, error)
	SearchByUser(ctx context.Context, userID string, q SearchQuery) ([]*models.Media, int64, error)
}

type MongoMediaRepo struct {
	col *mongo.Collection
}

var _ MediaStore = (*MongoMediaRepo)(nil)

func NewMongoMediaRepo(db *mongo.Database, collection string) *MongoMediaRepo {
	col := db.Collection(collection)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "uploadedAt", Value: -1}},
	})
	return &MongoMediaRepo{col: col}
}

func (r *MongoMediaRepo) CreateMedia(ctx context.Context, m *models.Media) error {
	_, err := r.col.InsertOne(ctx, m)
	return err
}

// GetMediaByID looks up by id alone so callers can tell "does not exist"
// apart from "exists but owned by someone else".
func (r *MongoMediaRepo) GetMediaByID(ctx context.Context, id string) (*models.Media, error) {
	var m models.Media
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MongoMediaRepo) UpdateMedia(ctx context.Context, id, userID string, patch MediaPatch) (*models.Media, error) {
	var m models.Media
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": patchSet(patch)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MongoMediaRepo) DeleteMedia(ctx context.Context, id, userID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoMediaRepo) ListByUser(ctx context.Context, userID string, q ListQuery) ([]*models.Media, int64, error) {
	return r.page(ctx, listFilter(userID, q.MediaType), q.Skip, q.Limit)
}

func (r *MongoMediaRepo) SearchByUser(ctx context.Context, userID string, q SearchQuery) ([]*models.Media, int64, error) {
	return r.page(ctx, searchFilter(userID, q.Text), q.Skip, q.Limit)
}

// page returns one window of documents newest-first plus the total match
// count for the filter.
func (r *MongoMediaRepo) page(ctx context.Context, filter bson.M, skip, limit int64) ([]*models.Media, int64, error) {
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "uploadedAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	items := make([]*models.Media, 0)
	for cur.Next(ctx) {
		var m models.Media
		if err := cur.Decode(&m); err != nil {
			return nil, 0, err
		}
		items = append(items, &m)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func patchSet(patch MediaPatch) bson.M {
	set := bson.M{"updatedAt": patch.UpdatedAt}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Tags != nil {
		set["tags"] = patch.Tags
	}
	return set
}

func listFilter(userID string, mediaType models.MediaType) bson.M {
	filter := bson.M{"userId": userID}
	if mediaType != "" {
		filter["mediaType"] = mediaType
	}
	return filter
}

// searchFilter matches the query case-insensitively against the original
// filename, the description and any tag. The query text is quoted so
// regex metacharacters search literally.
func searchFilter(userID, query string) bson.M {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	return bson.M{
		"userId": userID,
		"$or": bson.A{
			bson.M{"originalFileName": re},
			bson.M{"description": re},
			bson.M{"tags": re},
		},
	}
}
