// Package storagetest holds behaviour checks shared by every storage.Store
// backend.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/notes-be/internal/models"
	"github.com/hongminglow/notes-be/internal/storage"
)

// Run exercises store against the storage.Store contract. Emails are
// randomized so the suite can run against a shared database.
func Run(t *testing.T, store storage.Store) {
	t.Helper()

	t.Run("users", func(t *testing.T) { testUsers(t, store) })
	t.Run("notes", func(t *testing.T) { testNotes(t, store) })
}

func uniqueEmail() string {
	return fmt.Sprintf("user_%s@example.com", uuid.NewString()[:8])
}

func testUsers(t *testing.T, store storage.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	email := uniqueEmail()
	created, err := store.CreateUser(ctx, models.User{Name: "Contract", Email: email, PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, email, created.Email)
	assert.Equal(t, "hash", created.PasswordHash)

	byEmail, err := store.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, email, byID.Email)

	_, err = store.CreateUser(ctx, models.User{Name: "Dup", Email: email, PasswordHash: "hash"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	_, err = store.FindByEmail(ctx, uniqueEmail())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testNotes(t *testing.T, store storage.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	owner, err := store.CreateUser(ctx, models.User{Name: "Owner", Email: uniqueEmail(), PasswordHash: "hash"})
	require.NoError(t, err)
	other, err := store.CreateUser(ctx, models.User{Name: "Other", Email: uniqueEmail(), PasswordHash: "hash"})
	require.NoError(t, err)

	note, err := store.CreateNote(ctx, models.Note{UserID: owner.ID, Title: "shopping", Description: "eggs", Tag: "home"})
	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, owner.ID, note.UserID)

	listed, err := store.ListNotes(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, note.ID, listed[0].ID)

	othersList, err := store.ListNotes(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, othersList)

	_, err = store.FindNote(ctx, other.ID, note.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	title := "errands"
	updated, err := store.UpdateNote(ctx, owner.ID, note.ID, models.NotePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "errands", updated.Title)
	assert.Equal(t, "eggs", updated.Description)

	_, err = store.UpdateNote(ctx, other.ID, note.ID, models.NotePatch{Title: &title})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.DeleteNote(ctx, other.ID, note.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	deleted, err := store.DeleteNote(ctx, owner.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.ID, deleted.ID)

	_, err = store.FindNote(ctx, owner.ID, note.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
