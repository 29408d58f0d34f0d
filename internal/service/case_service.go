package service

import (
	"advokit/case-app/internal/domain"
	"advokit/case-app/internal/repository"
	"advokit/case-app/internal/storage"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrCaseNotFound        = errors.New("case not found")
	ErrCaseNumberTaken     = errors.New("case number already exists")
	ErrCaseValidation      = errors.New("case validation failed")
	ErrInvalidSection      = errors.New("invalid section name")
	ErrInvalidStatus       = errors.New("invalid case status")
	ErrNoFilesProvided     = errors.New("no files uploaded")
	ErrFileTooLarge        = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedFileType = errors.New("only images and PDFs are allowed")
	ErrAttachmentNotFound  = errors.New("attachment not found in case")
	ErrNoteTitleRequired   = errors.New("note title is required")
)

// MaxUploadFileSize caps a single uploaded file at 10MB.
const MaxUploadFileSize = 10 << 20

var allowedUploadExtensions = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".gif": true, ".webp": true, ".pdf": true,
}

var allowedUploadMimeTypes = map[string]bool{
	"image/jpeg": true, "image/jpg": true, "image/png": true,
	"image/gif": true, "image/webp": true, "application/pdf": true,
}

// FileUpload is one file of an upload batch, decoupled from the transport.
// Open defers reading the body until the whole batch has been validated.
type FileUpload struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// Pagination carries list metadata back to the client.
type Pagination struct {
	Current int64 `json:"current"`
	Pages   int64 `json:"pages"`
	Total   int64 `json:"total"`
}

// CaseInput is the full field set for creating a case.
type CaseInput struct {
	Title                    string
	CaseNo                   string
	Type                     string
	Status                   domain.Status
	CourtName                string
	NextHearing              time.Time
	PartyName                string
	Respondent               string
	Lawyer                   string
	ContactNumber            string
	AdvocateContactNumber    string
	AdversePartyAdvocateName string
	CaseYear                 int
	OnBehalfOf               string
	Description              string
}

// CaseUpdate is a partial patch; nil fields are left untouched.
type CaseUpdate struct {
	Title                    *string
	CaseNo                   *string
	Type                     *string
	Status                   *domain.Status
	CourtName                *string
	NextHearing              *time.Time
	PartyName                *string
	Respondent               *string
	Lawyer                   *string
	ContactNumber            *string
	AdvocateContactNumber    *string
	AdversePartyAdvocateName *string
	CaseYear                 *int
	OnBehalfOf               *string
	Description              *string
}

// AttachmentView is an attachment with its note row joined in, for
// populated section listings.
type AttachmentView struct {
	domain.Attachment
	Note *domain.Note `json:"note,omitempty"`
}

// CaseService is the operation layer over case aggregates and their
// attachment lifecycle. Every operation is scoped to the owning user; a
// case belonging to someone else behaves exactly like a missing one.
type CaseService interface {
	CreateCase(ctx context.Context, ownerID primitive.ObjectID, input CaseInput) (*domain.Case, error)
	GetCase(ctx context.Context, ownerID, caseID primitive.ObjectID) (*domain.Case, error)
	ListCases(ctx context.Context, ownerID primitive.ObjectID, page, limit int64) ([]domain.Case, *Pagination, error)
	UpdateCase(ctx context.Context, ownerID, caseID primitive.ObjectID, patch CaseUpdate) (*domain.Case, error)
	UpdateStatus(ctx context.Context, ownerID, caseID primitive.ObjectID, status domain.Status) (*domain.Case, error)
	DeleteCase(ctx context.Context, ownerID, caseID primitive.ObjectID) error
	SearchCases(ctx context.Context, ownerID primitive.ObjectID, query string) ([]domain.Case, error)

	UploadFiles(ctx context.Context, ownerID, caseID primitive.ObjectID, section domain.Section, files []FileUpload) (*domain.Case, error)
	CreateSectionNote(ctx context.Context, ownerID, caseID primitive.ObjectID, section domain.Section, title, content string) (*domain.Case, error)
	DeleteAttachment(ctx context.Context, ownerID, caseID primitive.ObjectID, ref string) (*domain.Case, error)
	GetSection(ctx context.Context, ownerID, caseID primitive.ObjectID, section domain.Section) ([]AttachmentView, error)
	GetAllSections(ctx context.Context, ownerID, caseID primitive.ObjectID) (map[domain.Section][]domain.Attachment, error)
}

// caseService implements the CaseService interface.
type caseService struct {
	caseRepo    repository.CaseRepository
	noteRepo    repository.NoteRepository
	fileStorage storage.FileStorage
}

// NewCaseService creates a new instance of caseService.
func NewCaseService(
	caseRepo repository.CaseRepository,
	noteRepo repository.NoteRepository,
	fileStorage storage.FileStorage,
) CaseService {
	return &caseService{
		caseRepo:    caseRepo,
		noteRepo:    noteRepo,
		fileStorage: fileStorage,
	}
}

// === Case CRUD ===

// CreateCase validates the input and persists a new case. The case number
// must be unused by this owner; other owners may reuse it freely.
func (s *caseService) CreateCase(ctx context.Context, ownerID primitive.ObjectID, input CaseInput) (*domain.Case, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required")
	}

	c := &domain.Case{
		Title:                    strings.TrimSpace(input.Title),
		CaseNo:                   input.CaseNo,
		Type:                     input.Type,
		Status:                   input.Status,
		CourtName:                input.CourtName,
		NextHearing:              input.NextHearing,
		PartyName:                input.PartyName,
		Respondent:               input.Respondent,
		Lawyer:                   input.Lawyer,
		ContactNumber:            input.ContactNumber,
		AdvocateContactNumber:    input.AdvocateContactNumber,
		AdversePartyAdvocateName: input.AdversePartyAdvocateName,
		CaseYear:                 input.CaseYear,
		OnBehalfOf:               input.OnBehalfOf,
		Description:              input.Description,
		UserID:                   ownerID,
	}
	if c.Status == "" {
		c.Status = domain.StatusPending
	}
	c.EnsureSections()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaseValidation, err)
	}

	taken, err := s.caseRepo.ExistsByCaseNo(ctx, ownerID, c.CaseNo, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCaseNumberTaken
	}

	caseID, err := s.caseRepo.Create(ctx, c)
	if err != nil {
		// The unique (userId, caseNo) index closes the race between the
		// existence check and the insert.
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrCaseNumberTaken
		}
		return nil, err
	}
	c.ID = caseID
	return c, nil
}

// GetCase returns the owner's case or ErrCaseNotFound.
func (s *caseService) GetCase(ctx context.Context, ownerID, caseID primitive.ObjectID) (*domain.Case, error) {
	c, err := s.loadCase(ctx, ownerID, caseID)
	if err != nil {
		return nil, err
	}
	return s.presentCase(ctx, c), nil
}

// ListCases returns a page of the owner's cases, newest first.
func (s *caseService) ListCases(ctx context.Context, ownerID primitive.ObjectID, page, limit int64) ([]domain.Case, *Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	cases, total, err := s.caseRepo.ListByOwner(ctx, ownerID, page, limit)
	if err != nil {
		return nil, nil, err
	}
	for i := range cases {
		s.presentCase(ctx, &cases[i])
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return cases, &Pagination{Current: page, Pages: pages, Total: total}, nil
}

// UpdateCase merges the non-nil patch fields into the stored case. A patch
// that changes the case number is re-checked against the per-owner
// uniqueness invariant.
func (s *caseService) UpdateCase(ctx context.Context, ownerID, caseID primitive.ObjectID, patch CaseUpdate) (*domain.Case, error) {
	c, err := s.loadCase(ctx, ownerID, caseID)
	if err != nil {
		return nil, err
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&c.Title, patch.Title)
	applyString(&c.CaseNo, patch.CaseNo)
	applyString(&c.Type, patch.Type)
	applyString(&c.CourtName, patch.CourtName)
	applyString(&c.PartyName, patch.PartyName)
	applyString(&c.Respondent, patch.Respondent)
	applyString(&c.Lawyer, patch.Lawyer)
	applyString(&c.ContactNumber, patch.ContactNumber)
	applyString(&c.AdvocateContactNumber, patch.AdvocateContactNumber)
	applyString(&c.AdversePartyAdvocateName, patch.AdversePartyAdvocateName)
	applyString(&c.OnBehalfOf, patch.OnBehalfOf)
	applyString(&c.Description, patch.Description)
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		c.Status = *patch.Status
	}
	if patch.NextHearing != nil {
		c.NextHearing = *patch.NextHearing
	}
	if patch.CaseYear != nil {
		c.CaseYear = *patch.CaseYear
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaseValidation, err)
	}

	if patch.CaseNo != nil {
		taken, err := s.caseRepo.ExistsByCaseNo(ctx, ownerID, c.CaseNo, caseID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrCaseNumberTaken
		}
	}

	if err := s.persistCase(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateStatus sets the case status. Any status may transition to any
// other; completed cases can be reopened.
func (s *caseService) UpdateStatus(ctx context.Context, ownerID, caseID primitive.ObjectID, status domain.Status) (*domain.Case, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	c, err := s.loadCase(ctx, ownerID, caseID)
	if err != nil {
		return nil, err
	}
	c.Status = status
	if err := s.persistCase(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCase removes a case and cascades to every attachment: stored files
// are deleted best-effort, note rows are removed, then the document goes.
// Dependents are cleaned up before the parent so a crash mid-way leaves a
// shrinking, not growing, set of orphans.
func (s *caseService) DeleteCase(ctx context.Context, ownerID, caseID primitive.ObjectID) error {
	c, err := s.loadCase(ctx, ownerID, caseID)
	if err != nil {
		return err
	}

	for _, section := range domain.SectionOrder {
		for _, att := range c.Sections[section] {
			s.cleanupAttachment(ctx, ownerID, att)
		}
	}

	err = s.caseRepo.Delete(ctx, caseID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCaseNotFound
		}
		return err
	}
	return nil
}

// SearchCases matches the query as a case-insensitive substring of title,
// case number or party name.
func (s *caseService) SearchCases(ctx context.Context, ownerID primitive.ObjectID, query string) ([]domain.Case, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("search query is required")
	}
	cases, err := s.caseRepo.Search(ctx, ownerID, query)
	if err != nil {
		return nil, err
	}
	for i := range cases {
		s.presentCase(ctx, &cases[i])
	}
	return cases, nil
}

// === Attachment lifecycle ===

// UploadFiles appends one file attachment per uploaded file to the given
// section. The whole batch is validated (size, type) before the first byte
// is stored, so an invalid file rejects the batch with nothing written.
// A storage failure mid-batch aborts the request; objects already stored
// for earlier files of the batch are not rolled back.
func (s *caseService) UploadFiles(ctx context.Context, ownerID, caseID primitive.ObjectID, section domain.Section, files []FileUpload) (*domain.Case, error) {
	if !section.IsValid() {
		return nil, ErrInvalidSection
	}
	if len(files) == 0 {
		return nil, ErrNoFilesProvided
	}

	c, err := s.loadCase(ctx, ownerID, caseID)
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		if f.Size > MaxUploadFileSize {
			return nil, fmt.Errorf("%s: %w", f.Name, ErrFileTooLarge)
		}
		if !allowedUploadType(f.Name, f.ContentType) {
			return nil, fmt.Errorf("%s: %w", f.Name, ErrUnsupportedFileType)
		}
	}

	// Sequential stores keep addedAt ordering deterministic within the batch.
	var prev time.Time
	for _, f := range files {
		stored, err := s.storeFile(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", f.Name, err)
		}

		ts := time.Now().UTC()
		if !ts.After(prev) {
			ts = prev.Add(time.Microsecond)
		}
		prev = ts

		ref := domain.FileRef{
			ID:         primitive.NewObjectID(),
			Name:       f.Name,
			StorageKey: stored.Key,
			URL:        stored.URL,
			MimeType:   f.ContentType,
			Size:       stored.Size,
			UploadedAt: ts,
		}
		c.Sections[section] = append(c.Sections[section], domain.NewFileAttachment(ref, ts))
	}

	if err := s.persistCase(ctx, c); err != nil {
		return nil, err
	}
	return s.presentCase(ctx, c), nil
}

// CreateSectionNote creates a note row and appends a note attachment
// referencing it. Content may be empty; the user fills it in later.
func (s *caseService) CreateSectionNote(ctx context.Context, ownerID, caseID primitive.ObjectID, section domain.Section, title, content string) (*domain.Case, error) {
	if !section.IsValid() {
		return nil, ErrInvalidSection
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrNoteTitleRequired
	}

	c, err := s.loadCase(ctx, ownerID, caseID)
	if err != nil {
		return nil, err
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

	c.Sections[section] = append(c.Sections[section], domain.NewNoteAttachment(title, noteID, time.Now().UTC()))

	if err := s.persistCase(ctx, c); err != nil {
		// Compensate: the note row is unreachable without the attachment.
		if delErr := s.noteRepo.Delete(ctx, noteID, ownerID); delErr != nil {
			log.Printf("WARN: failed to delete orphaned note %s: %v", noteID.Hex(), delErr)
		}
		return nil, err
	}
	return s.presentCase(ctx, c), nil
}

// DeleteAttachment finds ref in the fixed section order and removes the
// first match, cascading to the stored file or note row. A file-store
// delete failure is logged and swallowed so stale storage never blocks
// the metadata removal.
func (s *caseService) DeleteAttachment(ctx context.Context, ownerID, caseID primitive.ObjectID, ref string) (*domain.Case, error) {
	c, err := s.loadCase(ctx, ownerID, caseID)
	if err != nil {
		return nil, err
	}

	found := false
	for _, section := range domain.SectionOrder {
		items := c.Sections[section]
		for i, att := range items {
			if !att.Matches(ref) {
				continue
			}
			c.Sections[section] = append(items[:i:i], items[i+1:]...)
			s.cleanupAttachment(ctx, ownerID, att)
			found = true
			break
		}
		if found {
			break
		}
	}
	if !found {
		return nil, ErrAttachmentNotFound
	}

	if err := s.persistCase(ctx, c); err != nil {
		return nil, err
	}
	return s.presentCase(ctx, c), nil
}

// GetSection returns one section with note content populated.
func (s *caseService) GetSection(ctx context.Context, ownerID, caseID primitive.ObjectID, section domain.Section) ([]AttachmentView, error) {
	if !section.IsValid() {
		return nil, ErrInvalidSection
	}
	c, err := s.loadCase(ctx, ownerID, caseID)
	if err != nil {
		return nil, err
	}
	s.presentCase(ctx, c)

	items := c.Sections[section]
	views := make([]AttachmentView, 0, len(items))
	for _, att := range items {
		view := AttachmentView{Attachment: att}
		if att.Type == domain.AttachmentNote && att.NoteID != nil {
			note, err := s.noteRepo.GetByIDAndOwner(ctx, *att.NoteID, ownerID)
			if err == nil {
				view.Note = note
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			// A missing note row leaves the view unpopulated rather than
			// failing the whole listing.
		}
		views = append(views, view)
	}
	return views, nil
}

// GetAllSections returns the raw section map. File descriptors are already
// inline; note content is not joined here.
func (s *caseService) GetAllSections(ctx context.Context, ownerID, caseID primitive.ObjectID) (map[domain.Section][]domain.Attachment, error) {
	c, err := s.loadCase(ctx, ownerID, caseID)
	if err != nil {
		return nil, err
	}
	return s.presentCase(ctx, c).Sections, nil
}

// === Helpers ===

func (s *caseService) loadCase(ctx context.Context, ownerID, caseID primitive.ObjectID) (*domain.Case, error) {
	c, err := s.caseRepo.GetByIDAndOwner(ctx, caseID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	return c, nil
}

// presentCase refreshes every file attachment's URL from the file store
// before the case leaves the service. The persisted URL is the stable
// key-derived path; drivers like S3 hand out short-lived presigned links
// at read time, which must never be written back. A resolve failure keeps
// the stored URL rather than failing the read.
func (s *caseService) presentCase(ctx context.Context, c *domain.Case) *domain.Case {
	for _, section := range domain.SectionOrder {
		items := c.Sections[section]
		for i := range items {
			att := items[i]
			if att.Type != domain.AttachmentFile || att.File == nil || att.File.StorageKey == "" {
				continue
			}
			url, err := s.fileStorage.ResolveURL(ctx, att.File.StorageKey)
			if err != nil {
				log.Printf("WARN: failed to resolve URL for %s: %v", att.File.StorageKey, err)
				continue
			}
			att.File.URL = url
		}
	}
	return c
}

func (s *caseService) persistCase(ctx context.Context, c *domain.Case) error {
	err := s.caseRepo.Update(ctx, c)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCaseNotFound
		}
		if errors.Is(err, repository.ErrConflict) {
			return ErrCaseNumberTaken
		}
		return err
	}
	return nil
}

func (s *caseService) storeFile(ctx context.Context, f FileUpload) (*storage.StoredFile, error) {
	body, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return s.fileStorage.Save(ctx, body, f.Name, f.ContentType)
}

// cleanupAttachment removes whatever an attachment points at: the stored
// object (best-effort) or the note row.
func (s *caseService) cleanupAttachment(ctx context.Context, ownerID primitive.ObjectID, att domain.Attachment) {
	switch att.Type {
	case domain.AttachmentFile:
		if att.File == nil || att.File.StorageKey == "" {
			return
		}
		if err := s.fileStorage.Delete(ctx, att.File.StorageKey); err != nil {
			log.Printf("WARN: failed to delete stored file %s: %v", att.File.StorageKey, err)
		}
	case domain.AttachmentNote:
		if att.NoteID == nil {
			return
		}
		if err := s.noteRepo.Delete(ctx, *att.NoteID, ownerID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			log.Printf("WARN: failed to delete note %s: %v", att.NoteID.Hex(), err)
		}
	}
}

// allowedUploadType checks both the filename extension and the declared
// MIME type against the image/PDF allow-list.
func allowedUploadType(name, contentType string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return allowedUploadExtensions[ext] && allowedUploadMimeTypes[strings.ToLower(contentType)]
}
