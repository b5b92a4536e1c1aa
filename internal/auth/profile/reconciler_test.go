package profile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RockySheoran/supabase-login-demo/internal/auth"
)

// memStore is an in-memory Store with optional fault injection.
type memStore struct {
	mu       sync.Mutex
	rows     map[string]*Profile
	creates  int
	failWith error // returned by Create when set
	missGets int   // number of initial GetByID calls that report not-found
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]*Profile{}}
}

func (s *memStore) GetByID(_ context.Context, id string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.missGets > 0 {
		s.missGets--
		return nil, ErrNotFound
	}
	p, ok := s.rows[id]
	if !ok || p.DeletedAt != nil {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *memStore) Create(_ context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.failWith != nil {
		return s.failWith
	}
	if _, ok := s.rows[p.ID]; ok {
		return ErrDuplicate
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	copied := *p
	s.rows[p.ID] = &copied
	return nil
}

func (s *memStore) Update(_ context.Context, id string, upd Update) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok || p.DeletedAt != nil {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.AvatarURL != nil {
		p.AvatarURL = upd.AvatarURL
	}
	p.UpdatedAt = time.Now()
	copied := *p
	return &copied, nil
}

func (s *memStore) SoftDelete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok || p.DeletedAt != nil {
		return ErrNotFound
	}
	now := time.Now()
	p.DeletedAt = &now
	return nil
}

func testClaim() *auth.IdentityClaim {
	return &auth.IdentityClaim{
		SubjectID: "sub-1",
		Email:     "jane.doe@example.com",
		Provider:  "google",
	}
}

func TestResolveCreatesMissingProfile(t *testing.T) {
	store := newMemStore()
	r := NewReconciler(store, time.Second, zap.NewNop())

	p, err := r.Resolve(context.Background(), testClaim())
	require.NoError(t, err)

	assert.Equal(t, "sub-1", p.ID)
	assert.Equal(t, "jane.doe@example.com", p.Email)
	assert.Equal(t, "jane.doe", p.Name, "name defaults to the email local-part")
	assert.Equal(t, "google", p.Provider)
	assert.Nil(t, p.AvatarURL)
}

func TestResolveIsIdempotent(t *testing.T) {
	store := newMemStore()
	r := NewReconciler(store, time.Second, zap.NewNop())

	first, err := r.Resolve(context.Background(), testClaim())
	require.NoError(t, err)

	second, err := r.Resolve(context.Background(), testClaim())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.creates, "second resolve must not insert a second row")
}

func TestResolveDefaults(t *testing.T) {
	tests := []struct {
		name         string
		claim        *auth.IdentityClaim
		wantName     string
		wantProvider string
	}{
		{
			name: "claim name wins",
			claim: &auth.IdentityClaim{
				SubjectID: "s1", Email: "a@b.com", Name: "Jane", Provider: "github",
			},
			wantName:     "Jane",
			wantProvider: "github",
		},
		{
			name: "local part fallback",
			claim: &auth.IdentityClaim{
				SubjectID: "s2", Email: "a@b.com",
			},
			wantName:     "a",
			wantProvider: "oauth",
		},
		{
			name: "literal fallback when no email",
			claim: &auth.IdentityClaim{
				SubjectID: "s3",
			},
			wantName:     "User",
			wantProvider: "oauth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			r := NewReconciler(store, time.Second, zap.NewNop())

			p, err := r.Resolve(context.Background(), tt.claim)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name)
			assert.Equal(t, tt.wantProvider, p.Provider)
		})
	}
}

func TestResolveDuplicateRaceFallsBackToLookup(t *testing.T) {
	store := newMemStore()
	// Another request wins the creation race between our lookup and insert:
	// the first lookup misses, the insert conflicts, the re-lookup hits.
	winner := FromClaim(testClaim())
	require.NoError(t, store.Create(context.Background(), &winner))
	store.failWith = ErrDuplicate
	store.missGets = 1

	r := NewReconciler(store, time.Second, zap.NewNop())
	p, err := r.Resolve(context.Background(), &auth.IdentityClaim{
		SubjectID: "sub-1",
		Email:     "jane.doe@example.com",
	})

	// The winner's row must be returned, never a duplicate-entry error.
	require.NoError(t, err)
	assert.Equal(t, winner.ID, p.ID)
}

func TestResolveCreateFailureIsFatal(t *testing.T) {
	store := newMemStore()
	store.failWith = errors.New("connection refused")

	r := NewReconciler(store, time.Second, zap.NewNop())
	_, err := r.Resolve(context.Background(), testClaim())

	assert.ErrorIs(t, err, auth.ErrProfileCreationFailed)
}

func TestResolveRejectsEmptyClaim(t *testing.T) {
	r := NewReconciler(newMemStore(), time.Second, zap.NewNop())

	_, err := r.Resolve(context.Background(), nil)
	assert.ErrorIs(t, err, auth.ErrInvalidInput)

	_, err = r.Resolve(context.Background(), &auth.IdentityClaim{})
	assert.ErrorIs(t, err, auth.ErrInvalidInput)
}
