package domain

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttachmentType discriminates the two attachment variants.
type AttachmentType string

const (
	AttachmentFile AttachmentType = "file"
	AttachmentNote AttachmentType = "note"
)

var ErrInvalidAttachment = errors.New("attachment must carry exactly one payload matching its type")

// FileRef describes an uploaded binary. The actual bytes live in the file
// store under StorageKey; URL is the retrievable location handed to clients.
type FileRef struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Name       string             `bson:"name" json:"name"`
	StorageKey string             `bson:"storageKey" json:"-"`
	URL        string             `bson:"url" json:"url"`
	MimeType   string             `bson:"mimetype" json:"mimetype"`
	Size       int64              `bson:"size" json:"size"`
	UploadedAt time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}

// Attachment is a tagged variant embedded in a case section: either an
// uploaded file (File set) or a reference to a note row (NoteID set).
// Exactly one payload is populated, consistent with Type; Validate
// enforces this since Go cannot express the union structurally.
type Attachment struct {
	Name    string              `bson:"name" json:"name"`
	Type    AttachmentType      `bson:"type" json:"type"`
	File    *FileRef            `bson:"fileId,omitempty" json:"fileId,omitempty"`
	NoteID  *primitive.ObjectID `bson:"noteId,omitempty" json:"noteId,omitempty"`
	AddedAt time.Time           `bson:"addedAt" json:"addedAt"`
}

// NewFileAttachment builds a file-variant attachment.
func NewFileAttachment(ref FileRef, addedAt time.Time) Attachment {
	return Attachment{
		Name:    ref.Name,
		Type:    AttachmentFile,
		File:    &ref,
		AddedAt: addedAt,
	}
}

// NewNoteAttachment builds a note-variant attachment pointing at a note row.
func NewNoteAttachment(title string, noteID primitive.ObjectID, addedAt time.Time) Attachment {
	return Attachment{
		Name:    title,
		Type:    AttachmentNote,
		NoteID:  &noteID,
		AddedAt: addedAt,
	}
}

// Validate enforces the variant invariant.
func (a Attachment) Validate() error {
	switch a.Type {
	case AttachmentFile:
		if a.File == nil || a.NoteID != nil {
			return ErrInvalidAttachment
		}
	case AttachmentNote:
		if a.NoteID == nil || a.File != nil {
			return ErrInvalidAttachment
		}
	default:
		return ErrInvalidAttachment
	}
	return nil
}

// Matches reports whether ref identifies this attachment: the file id,
// a substring of the file URL (clients sometimes only know the stored
// filename), or the note id.
func (a Attachment) Matches(ref string) bool {
	if ref == "" {
		return false
	}
	switch a.Type {
	case AttachmentFile:
		if a.File == nil {
			return false
		}
		if a.File.ID.Hex() == ref {
			return true
		}
		return a.File.URL != "" && strings.Contains(a.File.URL, ref)
	case AttachmentNote:
		return a.NoteID != nil && a.NoteID.Hex() == ref
	}
	return false
}
