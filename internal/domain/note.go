package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is a standalone title+content record. It is either created directly
// through the notes API or as a side effect of attaching a note to a case
// section. Content may be empty in the latter flow until the user edits it.
type Note struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
