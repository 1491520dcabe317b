// Package memory provides a process-local Store for tests and local runs.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/notes-be/internal/models"
	"github.com/hongminglow/notes-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps users and notes in maps guarded by a single RWMutex.
type Store struct {
	mu      sync.RWMutex
	users   map[string]models.User
	byEmail map[string]string
	notes   map[string]models.Note
	now     func() time.Time
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
		notes:   make(map[string]models.Note),
		now:     time.Now,
	}
}

// Close is a no-op.
func (s *Store) Close() {}

// CreateUser inserts user, failing with storage.ErrAlreadyExists when the
// email is taken.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	key := emailKey(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[key]; taken {
		return models.User{}, storage.ErrAlreadyExists
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := s.now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = user
	s.byEmail[key] = user.ID
	return user, nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[emailKey(email)]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return s.users[id], nil
}

// FindByID fetches a user by id.
func (s *Store) FindByID(ctx context.Context, id string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

// DeleteUser removes a user and its email index entry. Notes are kept.
func (s *Store) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[id]; ok {
		delete(s.byEmail, emailKey(user.Email))
		delete(s.users, id)
	}
}

// CreateNote inserts a note.
func (s *Store) CreateNote(ctx context.Context, note models.Note) (models.Note, error) {
	if err := ctx.Err(); err != nil {
		return models.Note{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	now := s.now().UTC()
	note.CreatedAt, note.UpdatedAt = now, now
	s.notes[note.ID] = note
	return note, nil
}

// ListNotes returns userID's notes, newest first.
func (s *Store) ListNotes(ctx context.Context, userID string) ([]models.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Note, 0)
	for _, n := range s.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b models.Note) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// FindNote fetches a note owned by userID.
func (s *Store) FindNote(ctx context.Context, userID, id string) (models.Note, error) {
	if err := ctx.Err(); err != nil {
		return models.Note{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notes[id]
	if !ok || n.UserID != userID {
		return models.Note{}, storage.ErrNotFound
	}
	return n, nil
}

// UpdateNote applies patch to a note owned by userID.
func (s *Store) UpdateNote(ctx context.Context, userID, id string, patch models.NotePatch) (models.Note, error) {
	if err := ctx.Err(); err != nil {
		return models.Note{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok || n.UserID != userID {
		return models.Note{}, storage.ErrNotFound
	}
	patch.Apply(&n)
	n.UpdatedAt = s.now().UTC()
	s.notes[id] = n
	return n, nil
}

// DeleteNote removes a note owned by userID and returns it.
func (s *Store) DeleteNote(ctx context.Context, userID, id string) (models.Note, error) {
	if err := ctx.Err(); err != nil {
		return models.Note{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok || n.UserID != userID {
		return models.Note{}, storage.ErrNotFound
	}
	delete(s.notes, id)
	return n, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
