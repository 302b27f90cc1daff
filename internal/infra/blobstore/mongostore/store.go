// Package mongostore хранит blob-объекты документами {_id, data, etag, updatedAt} в одной коллекции.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore"
)

// DefaultCollection коллекция для blob-объектов
const DefaultCollection = "availability_blobs"

type document struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	ETag      string    `bson:"etag"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// Collection подмножество *mongo.Collection, которое использует хранилище
type Collection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
}

// Store blob-хранилище поверх MongoDB
type Store struct {
	collection Collection
}

// NewStore создает хранилище; пустое имя коллекции заменяется на DefaultCollection
func NewStore(db *mongo.Database, collection string) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	return NewStoreWithCollection(db.Collection(collection))
}

// NewStoreWithCollection создает хранилище поверх готовой коллекции
func NewStoreWithCollection(collection Collection) *Store {
	return &Store{collection: collection}
}

func (s *Store) Get(ctx context.Context, key string) (*blobstore.Object, error) {
	var doc document
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, blobstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - find one: %v", blobstore.ErrUnavailable, err)
	}

	return &blobstore.Object{
		Key:       key,
		Data:      doc.Data,
		ETag:      doc.ETag,
		UpdatedAt: doc.UpdatedAt.UTC(),
	}, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) (string, error) {
	if key == "" {
		return "", blobstore.ErrInvalidKey
	}

	doc := newDocument(key, data)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("%w: Put - replace one: %v", blobstore.ErrUnavailable, err)
	}
	return doc.ETag, nil
}

func (s *Store) PutIfMatch(ctx context.Context, key string, data []byte, etag string) (string, error) {
	if key == "" {
		return "", blobstore.ErrInvalidKey
	}

	doc := newDocument(key, data)

	if etag == "" {
		_, err := s.collection.InsertOne(ctx, doc)
		if mongo.IsDuplicateKeyError(err) {
			return "", blobstore.ErrPreconditionFailed
		}
		if err != nil {
			return "", fmt.Errorf("%w: PutIfMatch - insert one: %v", blobstore.ErrUnavailable, err)
		}
		return doc.ETag, nil
	}

	res, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key, "etag": etag}, doc)
	if err != nil {
		return "", fmt.Errorf("%w: PutIfMatch - replace one: %v", blobstore.ErrUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return "", blobstore.ErrPreconditionFailed
	}
	return doc.ETag, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	filter := bson.M{}
	if prefix != "" {
		filter["_id"] = bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}
	}

	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: List - find: %v", blobstore.ErrUnavailable, err)
	}
	defer cursor.Close(ctx)

	keys := make([]string, 0)
	for cursor.Next(ctx) {
		var row struct {
			Key string `bson:"_id"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("%w: List - decode: %v", blobstore.ErrUnavailable, err)
		}
		keys = append(keys, row.Key)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - cursor: %v", blobstore.ErrUnavailable, err)
	}

	return keys, nil
}

func newDocument(key string, data []byte) document {
	return document{
		Key:       key,
		Data:      data,
		ETag:      uuid.NewString(),
		UpdatedAt: time.Now().UTC(),
	}
}
