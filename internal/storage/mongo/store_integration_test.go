package mongo

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/notes-be/internal/storage/storagetest"
)

// TestStoreIntegration runs the storage contract against a live MongoDB.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_STORE_INTEGRATION") != "true" {
		t.Skip("set RUN_STORE_INTEGRATION=true to run this integration test")
	}
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Fatal("MONGO_URI is required")
	}
	database := os.Getenv("MONGO_DATABASE")
	if database == "" {
		database = "notes_test"
	}

	store, err := NewStore(context.Background(), uri, database)
	require.NoError(t, err)
	defer store.Close()

	storagetest.Run(t, store)
}
