// Package testutil provides shared test helpers for setting up inboxes and databases.
package testutil

import (
	"os"
	"testing"

	"github.com/fernwood/gedbase/internal/storage"
	"github.com/fernwood/gedbase/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "gedbase-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestInbox creates a temporary inbox directory with a storage.Provider.
func TestInbox(t *testing.T) (string, storage.Provider) {
	t.Helper()
	inboxDir := t.TempDir()
	prov, err := storage.NewFS(inboxDir)
	if err != nil {
		t.Fatal(err)
	}
	return inboxDir, prov
}
