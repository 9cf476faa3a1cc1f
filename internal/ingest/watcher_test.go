package ingest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fernwood/gedbase/internal/importer"
	"github.com/fernwood/gedbase/internal/storage"
	"github.com/fernwood/gedbase/internal/store"
	"github.com/fernwood/gedbase/internal/testutil"
)

// watcherTestEnv sets up an inbox dir, storage, db, and importer for watcher tests.
func watcherTestEnv(t *testing.T) (string, storage.Provider, *store.DB, *importer.Importer) {
	t.Helper()
	inboxDir, prov := testutil.TestInbox(t)
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return inboxDir, prov, db, importer.New(db, logger)
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_NewFileImported(t *testing.T) {
	inboxDir, prov, db, imp := watcherTestEnv(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var events []string

	go Watch(ctx, db, imp, prov, inboxDir, logger, func(kind, tree string) {
		mu.Lock()
		events = append(events, kind+":"+tree)
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	ged := "0 @I1@ INDI\n1 NAME River /Song/\n"
	_ = os.WriteFile(filepath.Join(inboxDir, "song.ged"), []byte(ged), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.FileChecksum("song.ged")
		return cs != ""
	}, "new file not imported by watcher")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e == "imported:song" {
				return true
			}
		}
		return false
	}, "expected imported:song callback")

	treeID, _ := db.Tree("song")
	if _, err := db.GetRecord(treeID, "I1"); err != nil {
		t.Errorf("record missing after watcher import: %v", err)
	}
}

func TestWatcher_NewDirWatched(t *testing.T) {
	inboxDir, prov, db, imp := watcherTestEnv(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, db, imp, prov, inboxDir, logger, nil)

	time.Sleep(100 * time.Millisecond)

	subDir := filepath.Join(inboxDir, "subdir")
	_ = os.MkdirAll(subDir, 0o755)
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(subDir, "deep.ged"), []byte("0 @I1@ INDI\n1 NAME D //\n"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.FileChecksum(filepath.Join("subdir", "deep.ged"))
		return cs != ""
	}, "file in new subdir not imported by watcher")
}

func TestWatcher_RemoveForgetsChecksum(t *testing.T) {
	inboxDir, prov, db, imp := watcherTestEnv(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	_ = os.WriteFile(filepath.Join(inboxDir, "del.ged"), []byte("0 @I1@ INDI\n1 NAME A //\n"), 0o644)
	Sync(db, imp, prov, logger)

	cs, _ := db.FileChecksum("del.ged")
	if cs == "" {
		t.Fatal("precondition: file should be ingested")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, db, imp, prov, inboxDir, logger, nil)
	time.Sleep(100 * time.Millisecond)

	_ = os.Remove(filepath.Join(inboxDir, "del.ged"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.FileChecksum("del.ged")
		return cs == ""
	}, "removed file still has a checksum entry")
}

func TestWatcher_RenameReconciles(t *testing.T) {
	inboxDir, prov, db, imp := watcherTestEnv(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	_ = os.WriteFile(filepath.Join(inboxDir, "old.ged"), []byte("0 @I1@ INDI\n1 NAME R //\n"), 0o644)
	Sync(db, imp, prov, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, db, imp, prov, inboxDir, logger, nil)
	time.Sleep(100 * time.Millisecond)

	_ = os.Rename(filepath.Join(inboxDir, "old.ged"), filepath.Join(inboxDir, "renamed.ged"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		oldCS, _ := db.FileChecksum("old.ged")
		newCS, _ := db.FileChecksum("renamed.ged")
		return oldCS == "" && newCS != ""
	}, "rename reconciliation failed: old path should be forgotten and new path imported")
}
