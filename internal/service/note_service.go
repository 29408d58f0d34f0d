package service

import (
	"advokit/case-app/internal/domain"
	"advokit/case-app/internal/repository"
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrNoteNotFound   = errors.New("note not found")
	ErrNoteValidation = errors.New("note title and content are required")
)

// NoteService is the standalone notes API. Notes created through a case
// section live in the same collection and are equally reachable here.
type NoteService interface {
	CreateNote(ctx context.Context, ownerID primitive.ObjectID, title, content string) (*domain.Note, error)
	GetNote(ctx context.Context, ownerID, noteID primitive.ObjectID) (*domain.Note, error)
	ListNotes(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Note, error)
	UpdateNote(ctx context.Context, ownerID, noteID primitive.ObjectID, title, content string) (*domain.Note, error)
	DeleteNote(ctx context.Context, ownerID, noteID primitive.ObjectID) error
}

// noteService implements the NoteService interface.
type noteService struct {
	noteRepo repository.NoteRepository
}

// NewNoteService creates a new instance of noteService.
func NewNoteService(noteRepo repository.NoteRepository) NoteService {
	return &noteService{noteRepo: noteRepo}
}

// CreateNote persists a directly created note. Unlike the
// attachment-initiated flow, the direct API requires non-empty content.
func (s *noteService) CreateNote(ctx context.Context, ownerID primitive.ObjectID, title, content string) (*domain.Note, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, ErrNoteValidation
	}

	note := &domain.Note{
		Title:   title,
		Content: content,
		UserID:  ownerID,
	}
	noteID, err := s.noteRepo.Create(ctx, note)
	if err != nil {
		return nil, err
	}
	note.ID = noteID
	return note, nil
}

// GetNote returns the owner's note or ErrNoteNotFound.
func (s *noteService) GetNote(ctx context.Context, ownerID, noteID primitive.ObjectID) (*domain.Note, error) {
	note, err := s.noteRepo.GetByIDAndOwner(ctx, noteID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

// ListNotes returns all of the owner's notes, newest first.
func (s *noteService) ListNotes(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Note, error) {
	return s.noteRepo.ListByOwner(ctx, ownerID)
}

// UpdateNote rewrites title and content. This is also how the content of a
// section note attachment gets edited; the attachment record itself never
// changes.
func (s *noteService) UpdateNote(ctx context.Context, ownerID, noteID primitive.ObjectID, title, content string) (*domain.Note, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrNoteValidation
	}

	note, err := s.GetNote(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}
	note.Title = title
	note.Content = content

	if err := s.noteRepo.Update(ctx, note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

// DeleteNote removes a note row. An attachment still referencing it will
// list unpopulated afterwards; the direct API does not scan cases.
func (s *noteService) DeleteNote(ctx context.Context, ownerID, noteID primitive.ObjectID) error {
	err := s.noteRepo.Delete(ctx, noteID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoteNotFound
		}
		return err
	}
	return nil
}
