package mongo

import (
	"advokit/case-app/internal/domain"
	"advokit/case-app/internal/repository"
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const noteCollectionName = "notes"

// mongoNoteRepository implements repository.NoteRepository using MongoDB.
type mongoNoteRepository struct {
	collection *mongo.Collection
}

// NewMongoNoteRepository creates a new instance of mongoNoteRepository.
func NewMongoNoteRepository(db *mongo.Database) repository.NoteRepository {
	return &mongoNoteRepository{
		collection: db.Collection(noteCollectionName),
	}
}

// Create inserts a new note row. Content may be empty; the title must be
// present (checked by the service).
func (r *mongoNoteRepository) Create(ctx context.Context, note *domain.Note) (primitive.ObjectID, error) {
	if note.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("note owner is required")
	}

	note.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, note)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByIDAndOwner retrieves a note scoped by owner.
func (r *mongoNoteRepository) GetByIDAndOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.Note, error) {
	var note domain.Note
	filter := bson.M{"_id": id, "userId": ownerID}

	err := r.collection.FindOne(ctx, filter).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

// ListByOwner returns all notes for the owner, newest first.
func (r *mongoNoteRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notes []domain.Note
	if err = cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}

// Update rewrites title and content, scoped by (_id, userId).
func (r *mongoNoteRepository) Update(ctx context.Context, note *domain.Note) error {
	filter := bson.M{"_id": note.ID, "userId": note.UserID}
	update := bson.M{
		"$set": bson.M{
			"title":     note.Title,
			"content":   note.Content,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a note row, scoped by owner.
func (r *mongoNoteRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureNoteIndexes creates necessary indexes for the notes collection.
func EnsureNoteIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}

	// Non-fatal; queries still work without the index.
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: failed to create indexes for %s: %v", collection.Name(), err)
	}
}
