package service

import (
	"advokit/case-app/internal/domain"
	"advokit/case-app/internal/repository"
	"advokit/case-app/internal/storage"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes implementing the repository and storage interfaces.
// They reproduce the contracts the mongo implementations honor: owner
// scoping via ErrNotFound, the (userId, caseNo) unique index via
// ErrConflict, and whole-document replacement on update.

// --- fakeCaseRepo ---

type fakeCaseRepo struct {
	mu    sync.Mutex
	cases map[primitive.ObjectID]*domain.Case
}

func newFakeCaseRepo() *fakeCaseRepo {
	return &fakeCaseRepo{cases: make(map[primitive.ObjectID]*domain.Case)}
}

// cloneCase deep-copies a case the way a fresh bson decode would: new
// slices and new attachment payload pointers.
func cloneCase(c *domain.Case) *domain.Case {
	cp := *c
	cp.Sections = make(map[domain.Section][]domain.Attachment, len(c.Sections))
	for k, v := range c.Sections {
		items := make([]domain.Attachment, len(v))
		copy(items, v)
		for i := range items {
			if items[i].File != nil {
				ref := *items[i].File
				items[i].File = &ref
			}
			if items[i].NoteID != nil {
				id := *items[i].NoteID
				items[i].NoteID = &id
			}
		}
		cp.Sections[k] = items
	}
	return &cp
}

func (r *fakeCaseRepo) Create(ctx context.Context, c *domain.Case) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.cases {
		if existing.UserID == c.UserID && existing.CaseNo == c.CaseNo {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	c.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.EnsureSections()
	r.cases[c.ID] = cloneCase(c)
	return c.ID, nil
}

func (r *fakeCaseRepo) GetByIDAndOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[id]
	if !ok || c.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	return cloneCase(c), nil
}

func (r *fakeCaseRepo) ListByOwner(ctx context.Context, ownerID primitive.ObjectID, page, limit int64) ([]domain.Case, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := r.ownedLocked(ownerID)
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	total := int64(len(owned))
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	out := make([]domain.Case, 0, end-start)
	for _, c := range owned[start:end] {
		out = append(out, *cloneCase(c))
	}
	return out, total, nil
}

func (r *fakeCaseRepo) Update(ctx context.Context, c *domain.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.cases[c.ID]
	if !ok || existing.UserID != c.UserID {
		return repository.ErrNotFound
	}
	for id, other := range r.cases {
		if id != c.ID && other.UserID == c.UserID && other.CaseNo == c.CaseNo {
			return repository.ErrConflict
		}
	}
	c.UpdatedAt = time.Now().UTC()
	r.cases[c.ID] = cloneCase(c)
	return nil
}

func (r *fakeCaseRepo) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[id]
	if !ok || c.UserID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.cases, id)
	return nil
}

func (r *fakeCaseRepo) Search(ctx context.Context, ownerID primitive.ObjectID, query string) ([]domain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var out []domain.Case
	for _, c := range r.ownedLocked(ownerID) {
		if strings.Contains(strings.ToLower(c.Title), q) ||
			strings.Contains(strings.ToLower(c.CaseNo), q) ||
			strings.Contains(strings.ToLower(c.PartyName), q) {
			out = append(out, *cloneCase(c))
		}
	}
	return out, nil
}

func (r *fakeCaseRepo) ExistsByCaseNo(ctx context.Context, ownerID primitive.ObjectID, caseNo string, excludeID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.cases {
		if c.UserID == ownerID && c.CaseNo == caseNo && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCaseRepo) CountByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.ownedLocked(ownerID))), nil
}

func (r *fakeCaseRepo) CountByStatus(ctx context.Context, ownerID primitive.ObjectID, statuses ...domain.Status) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.ownedLocked(ownerID) {
		for _, st := range statuses {
			if c.Status == st {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *fakeCaseRepo) CountCreatedSince(ctx context.Context, ownerID primitive.ObjectID, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.ownedLocked(ownerID) {
		if !c.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeCaseRepo) CountCompletedSince(ctx context.Context, ownerID primitive.ObjectID, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.ownedLocked(ownerID) {
		if c.Status == domain.StatusCompleted && !c.UpdatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeCaseRepo) CountHearingsSince(ctx context.Context, ownerID primitive.ObjectID, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.ownedLocked(ownerID) {
		if !c.NextHearing.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeCaseRepo) FindUpcomingHearings(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time, limit int64) ([]domain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Case
	for _, c := range r.ownedLocked(ownerID) {
		if !c.NextHearing.Before(from) && !c.NextHearing.After(to) {
			out = append(out, *cloneCase(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NextHearing.Before(out[j].NextHearing) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCaseRepo) FindRecentlyUpdated(ctx context.Context, ownerID primitive.ObjectID, limit int64) ([]domain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Case
	for _, c := range r.ownedLocked(ownerID) {
		out = append(out, *cloneCase(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ownedLocked returns pointers into the store; callers hold the mutex.
func (r *fakeCaseRepo) ownedLocked(ownerID primitive.ObjectID) []*domain.Case {
	var out []*domain.Case
	for _, c := range r.cases {
		if c.UserID == ownerID {
			out = append(out, c)
		}
	}
	return out
}

// --- fakeNoteRepo ---

type fakeNoteRepo struct {
	mu    sync.Mutex
	notes map[primitive.ObjectID]*domain.Note
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: make(map[primitive.ObjectID]*domain.Note)}
}

func (r *fakeNoteRepo) Create(ctx context.Context, note *domain.Note) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	note.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now
	cp := *note
	r.notes[note.ID] = &cp
	return note.ID, nil
}

func (r *fakeNoteRepo) GetByIDAndOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok || n.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *fakeNoteRepo) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Note
	for _, n := range r.notes {
		if n.UserID == ownerID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeNoteRepo) Update(ctx context.Context, note *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.notes[note.ID]
	if !ok || existing.UserID != note.UserID {
		return repository.ErrNotFound
	}
	note.UpdatedAt = time.Now().UTC()
	cp := *note
	r.notes[note.ID] = &cp
	return nil
}

func (r *fakeNoteRepo) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok || n.UserID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.notes, id)
	return nil
}

func (r *fakeNoteRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notes)
}

// --- fakeStorage ---

type fakeStorage struct {
	mu            sync.Mutex
	objects       map[string][]byte
	deleted       []string
	failOn        int    // Save call number that starts failing, 0 = never
	resolveSuffix string // appended by ResolveURL, models read-time presigning
	seq           int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Save(ctx context.Context, r io.Reader, originalName, contentType string) (*storage.StoredFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if f.failOn != 0 && f.seq >= f.failOn {
		return nil, errors.New("storage unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("obj-%d-%s", f.seq, originalName)
	f.objects[key] = data
	return &storage.StoredFile{Key: key, URL: "/uploads/" + key, Size: int64(len(data))}, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) ResolveURL(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return "/uploads/" + key + f.resolveSuffix, nil
}

func (f *fakeStorage) objectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}
