package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/notes-be/internal/storage/storagetest"
)

// TestStoreIntegration runs the storage contract against a live Postgres.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_STORE_INTEGRATION") != "true" {
		t.Skip("set RUN_STORE_INTEGRATION=true to run this integration test")
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	store, err := NewStore(context.Background(), dbURL)
	require.NoError(t, err)
	defer store.Close()

	storagetest.Run(t, store)
}
