package service

import (
	"advokit/case-app/internal/domain"
	"advokit/case-app/internal/repository"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), "test-secret", time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Asha Verma", "Asha@Example.com ", "s3cret-pass")
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Register(ctx, "Someone Else", "asha@example.com", "other-pass")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	token, logged, err := svc.Login(ctx, "asha@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)
	assert.Empty(t, logged.PasswordHash)

	_, _, err = svc.Login(ctx, "asha@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthService_TokenCarriesUserID(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), "test-secret", time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Asha Verma", "asha@example.com", "s3cret-pass")
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, "asha@example.com", "s3cret-pass")
	require.NoError(t, err)

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, "case-app", claims.Issuer)
}

func TestAuthService_Profile(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), "test-secret", time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Asha Verma", "asha@example.com", "s3cret-pass")
	require.NoError(t, err)

	got, err := svc.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", got.Name)

	_, err = svc.Profile(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
