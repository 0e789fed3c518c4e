package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coursestack/resource-catalog/pkg/catalog"
)

// Repository implements catalog.Repository using MongoDB. Identifiers are
// ObjectID hex strings.
type Repository struct {
	collection *mongo.Collection
}

// New creates a new MongoDB repository on the given collection
func New(collection *mongo.Collection) *Repository {
	return &Repository{collection: collection}
}

// Connect dials a MongoDB deployment and returns a repository on the
// "resources" collection of the named database.
func Connect(ctx context.Context, uri, database string) (*Repository, *mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return New(client.Database(database).Collection("resources")), client, nil
}

// resourceDoc is the persisted shape of a resource. The domain type carries
// string ids; the ObjectID conversion stays inside this package.
type resourceDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Title            string             `bson:"title"`
	FileURL          string             `bson:"file_url"`
	FileType         string             `bson:"file_type"`
	Level            string             `bson:"level"`
	Department       string             `bson:"department"`
	Category         string             `bson:"category"`
	OriginalFilename string             `bson:"original_filename"`
	StorageRef       string             `bson:"storage_ref,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
}

func toDoc(r *catalog.Resource) *resourceDoc {
	return &resourceDoc{
		Title:            r.Title,
		FileURL:          r.FileURL,
		FileType:         string(r.FileType),
		Level:            r.Level,
		Department:       r.Department,
		Category:         r.Category,
		OriginalFilename: r.OriginalFilename,
		StorageRef:       r.StorageRef,
		CreatedAt:        r.CreatedAt,
	}
}

func (d *resourceDoc) toResource() *catalog.Resource {
	return &catalog.Resource{
		ID:               d.ID.Hex(),
		Title:            d.Title,
		FileURL:          d.FileURL,
		FileType:         catalog.FileType(d.FileType),
		Level:            d.Level,
		Department:       d.Department,
		Category:         d.Category,
		OriginalFilename: d.OriginalFilename,
		StorageRef:       d.StorageRef,
		CreatedAt:        d.CreatedAt,
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, catalog.ErrMalformedID
	}
	return oid, nil
}

func (r *Repository) Insert(ctx context.Context, resource *catalog.Resource) (string, error) {
	result, err := r.collection.InsertOne(ctx, toDoc(resource))
	if err != nil {
		return "", fmt.Errorf("%w: insert: %v", catalog.ErrRepository, err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("%w: unexpected inserted id type %T", catalog.ErrRepository, result.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*catalog.Resource, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc resourceDoc
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalog.ErrResourceNotFound
		}
		return nil, fmt.Errorf("%w: find: %v", catalog.ErrRepository, err)
	}
	return doc.toResource(), nil
}

func (r *Repository) Update(ctx context.Context, id string, update catalog.ResourceUpdate) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Level != nil {
		set["level"] = *update.Level
	}
	if update.Department != nil {
		set["department"] = *update.Department
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.FileType != nil {
		set["file_type"] = string(*update.FileType)
	}
	if update.FileURL != nil {
		set["file_url"] = *update.FileURL
	}
	if update.StorageRef != nil {
		set["storage_ref"] = *update.StorageRef
	}
	if update.OriginalFilename != nil {
		set["original_filename"] = *update.OriginalFilename
	}
	if len(set) == 0 {
		return nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("%w: update: %v", catalog.ErrRepository, err)
	}
	if result.MatchedCount == 0 {
		return catalog.ErrResourceNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("%w: delete: %v", catalog.ErrRepository, err)
	}
	if result.DeletedCount == 0 {
		return catalog.ErrResourceNotFound
	}
	return nil
}

func (r *Repository) Query(ctx context.Context, filter catalog.ResourceFilter, skip, limit int) ([]*catalog.Resource, error) {
	query := bson.M{}
	if filter.Department != "" {
		query["department"] = filter.Department
	}
	if filter.Level != "" {
		query["level"] = filter.Level
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.FileType != "" {
		query["file_type"] = filter.FileType
	}
	if filter.Title != "" {
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Title), Options: "i"}
	}

	// created_at descending with _id as tie-breaker keeps paging stable.
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", catalog.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	resources := []*catalog.Resource{}
	for cursor.Next(ctx) {
		var doc resourceDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", catalog.ErrRepository, err)
		}
		resources = append(resources, doc.toResource())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: cursor: %v", catalog.ErrRepository, err)
	}
	return resources, nil
}
