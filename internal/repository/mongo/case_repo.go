package mongo

import (
	"advokit/case-app/internal/domain"
	"advokit/case-app/internal/repository"
	"context"
	"errors"
	"log"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const caseCollectionName = "cases"

// mongoCaseRepository implements repository.CaseRepository using MongoDB.
type mongoCaseRepository struct {
	collection *mongo.Collection
}

// NewMongoCaseRepository creates a new instance of mongoCaseRepository.
// It expects a connected *mongo.Database instance.
func NewMongoCaseRepository(db *mongo.Database) repository.CaseRepository {
	return &mongoCaseRepository{
		collection: db.Collection(caseCollectionName),
	}
}

// Create inserts a new case. The compound unique index on (userId, caseNo)
// backs the per-owner case-number invariant; a duplicate key error is
// surfaced as ErrConflict.
func (r *mongoCaseRepository) Create(ctx context.Context, c *domain.Case) (primitive.ObjectID, error) {
	if c.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("case owner is required")
	}

	c.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.EnsureSections()

	result, err := r.collection.InsertOne(ctx, c)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByIDAndOwner retrieves a case scoped by owner. A case belonging to a
// different user yields ErrNotFound, never the document.
func (r *mongoCaseRepository) GetByIDAndOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.Case, error) {
	var c domain.Case
	filter := bson.M{"_id": id, "userId": ownerID}

	err := r.collection.FindOne(ctx, filter).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	c.EnsureSections()
	return &c, nil
}

// ListByOwner returns a page of the owner's cases, newest first, plus the
// total count for pagination metadata.
func (r *mongoCaseRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID, page, limit int64) ([]domain.Case, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	filter := bson.M{"userId": ownerID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cases, err := r.findCases(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return cases, total, nil
}

// Update replaces the stored document with c, scoped by (_id, userId), and
// refreshes updatedAt.
func (r *mongoCaseRepository) Update(ctx context.Context, c *domain.Case) error {
	c.UpdatedAt = time.Now().UTC()
	filter := bson.M{"_id": c.ID, "userId": c.UserID}

	result, err := r.collection.ReplaceOne(ctx, filter, c)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the case document. Cascade cleanup of files and note rows
// is the service's responsibility and must happen before this call.
func (r *mongoCaseRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Search performs a case-insensitive substring match against title, caseNo
// and partyName, newest first.
func (r *mongoCaseRepository) Search(ctx context.Context, ownerID primitive.ObjectID, query string) ([]domain.Case, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"userId": ownerID,
		"$or": []bson.M{
			{"title": pattern},
			{"caseNo": pattern},
			{"partyName": pattern},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findCases(ctx, filter, opts)
}

// ExistsByCaseNo reports whether the owner already uses caseNo on a case
// other than excludeID.
func (r *mongoCaseRepository) ExistsByCaseNo(ctx context.Context, ownerID primitive.ObjectID, caseNo string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"userId": ownerID, "caseNo": caseNo}
	if excludeID != primitive.NilObjectID {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// --- Dashboard queries ---

func (r *mongoCaseRepository) CountByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": ownerID})
}

func (r *mongoCaseRepository) CountByStatus(ctx context.Context, ownerID primitive.ObjectID, statuses ...domain.Status) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"userId": ownerID,
		"status": bson.M{"$in": statuses},
	})
}

func (r *mongoCaseRepository) CountCreatedSince(ctx context.Context, ownerID primitive.ObjectID, since time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"userId":    ownerID,
		"createdAt": bson.M{"$gte": since},
	})
}

func (r *mongoCaseRepository) CountCompletedSince(ctx context.Context, ownerID primitive.ObjectID, since time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"userId":    ownerID,
		"status":    domain.StatusCompleted,
		"updatedAt": bson.M{"$gte": since},
	})
}

func (r *mongoCaseRepository) CountHearingsSince(ctx context.Context, ownerID primitive.ObjectID, since time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"userId":      ownerID,
		"nextHearing": bson.M{"$gte": since},
	})
}

func (r *mongoCaseRepository) FindUpcomingHearings(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time, limit int64) ([]domain.Case, error) {
	filter := bson.M{
		"userId":      ownerID,
		"nextHearing": bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "nextHearing", Value: 1}}).
		SetLimit(limit)
	return r.findCases(ctx, filter, opts)
}

func (r *mongoCaseRepository) FindRecentlyUpdated(ctx context.Context, ownerID primitive.ObjectID, limit int64) ([]domain.Case, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetLimit(limit)
	return r.findCases(ctx, bson.M{"userId": ownerID}, opts)
}

// findCases runs a Find and decodes the cursor, normalising section maps.
func (r *mongoCaseRepository) findCases(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Case, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cases []domain.Case
	if err = cursor.All(ctx, &cases); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	for i := range cases {
		cases[i].EnsureSections()
	}
	return cases, nil
}

// EnsureCaseIndexes creates necessary indexes for the cases collection.
// Call this once during application startup.
func EnsureCaseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Per-owner case-number uniqueness. Cross-user collisions are fine.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "caseNo", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "nextHearing", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}

	// Not fatal; uniqueness is still pre-checked at the service layer.
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: failed to create indexes for %s: %v", collection.Name(), err)
	}
}
