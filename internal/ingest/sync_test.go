package ingest

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/fernwood/gedbase/internal/importer"
	"github.com/fernwood/gedbase/internal/store"
	"github.com/fernwood/gedbase/internal/testutil"
)

func testEnv(t *testing.T) (*store.DB, *importer.Importer, *slog.Logger) {
	t.Helper()
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return db, importer.New(db, logger), logger
}

func TestTreeName(t *testing.T) {
	cases := map[string]string{
		"smith.ged":       "smith",
		"sub/jones.GED":   "jones",
		"family.tree.ged": "family.tree",
		"no-extension":    "no-extension",
	}
	for path, want := range cases {
		if got := TreeName(path); got != want {
			t.Errorf("TreeName(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestSyncImportsNewFiles(t *testing.T) {
	db, imp, logger := testEnv(t)
	_, prov := testutil.TestInbox(t)

	ged := "0 HEAD\n1 SOUR test\n0 @I1@ INDI\n1 NAME Amy /Pond/\n0 TRLR\n"
	if err := prov.Write("pond.ged", []byte(ged)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := Sync(db, imp, prov, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	treeID, err := db.Tree("pond")
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if _, err := db.GetRecord(treeID, "I1"); err != nil {
		t.Errorf("record not imported: %v", err)
	}

	cs, err := db.FileChecksum("pond.ged")
	if err != nil || cs == "" {
		t.Errorf("checksum not recorded: %q, %v", cs, err)
	}
}

func TestSyncSkipsUnchangedFiles(t *testing.T) {
	db, imp, logger := testEnv(t)
	_, prov := testutil.TestInbox(t)

	_ = prov.Write("a.ged", []byte("0 @I1@ INDI\n1 NAME A //\n"))
	if err := Sync(db, imp, prov, logger); err != nil {
		t.Fatalf("first Sync: %v", err)
	}
	// A second pass over the same content must be a no-op, not a failure.
	if err := Sync(db, imp, prov, logger); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
}

func TestSyncReingestsChangedFile(t *testing.T) {
	db, imp, logger := testEnv(t)
	_, prov := testutil.TestInbox(t)

	_ = prov.Write("a.ged", []byte("0 @I1@ INDI\n1 NAME Old /Name/\n"))
	if err := Sync(db, imp, prov, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	_ = prov.Write("a.ged", []byte("0 @I1@ INDI\n1 NAME New /Name/\n"))
	if err := Sync(db, imp, prov, logger); err != nil {
		t.Fatalf("re-Sync: %v", err)
	}

	treeID, _ := db.Tree("a")
	rec, err := db.GetRecord(treeID, "I1")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if want := "1 NAME New /Name/"; !strings.Contains(rec.Gedcom, want) {
		t.Errorf("record not reconciled:\n%s", rec.Gedcom)
	}
}

func TestSyncForgetsRemovedFiles(t *testing.T) {
	db, imp, logger := testEnv(t)
	_, prov := testutil.TestInbox(t)

	_ = prov.Write("gone.ged", []byte("0 @I1@ INDI\n1 NAME A //\n"))
	if err := Sync(db, imp, prov, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := prov.Delete("gone.ged"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := Sync(db, imp, prov, logger); err != nil {
		t.Fatalf("re-Sync: %v", err)
	}

	cs, err := db.FileChecksum("gone.ged")
	if err != nil {
		t.Fatalf("FileChecksum: %v", err)
	}
	if cs != "" {
		t.Errorf("checksum for removed file should be dropped, got %q", cs)
	}
}
