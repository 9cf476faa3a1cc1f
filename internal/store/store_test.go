package store_test

import (
	"errors"
	"testing"

	"github.com/fernwood/gedbase/internal/apperr"
	"github.com/fernwood/gedbase/internal/models"
	"github.com/fernwood/gedbase/internal/testutil"
)

func TestTreeGetOrCreate(t *testing.T) {
	db := testutil.TestDB(t)

	id1, err := db.Tree("smith")
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	id2, err := db.Tree("smith")
	if err != nil {
		t.Fatalf("Tree (second): %v", err)
	}
	if id1 != id2 {
		t.Errorf("tree ids differ: %d vs %d", id1, id2)
	}

	id3, err := db.Tree("jones")
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if id3 == id1 {
		t.Error("distinct trees share an id")
	}

	names, err := db.TreeNames()
	if err != nil {
		t.Fatalf("TreeNames: %v", err)
	}
	if len(names) != 2 || names[0] != "jones" || names[1] != "smith" {
		t.Errorf("names = %v", names)
	}
}

func TestPreferences(t *testing.T) {
	db := testutil.TestDB(t)
	tree, _ := db.Tree("test")

	v, err := db.Preference(tree, "GENERATE_UIDS")
	if err != nil || v != "" {
		t.Fatalf("unset preference = %q, %v", v, err)
	}

	if err := db.SetPreference(tree, "GENERATE_UIDS", "1"); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}
	if err := db.SetPreference(tree, "GEDCOM_MEDIA_PATH", `C:\media\`); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}

	prefs, err := db.Prefs(tree)
	if err != nil {
		t.Fatalf("Prefs: %v", err)
	}
	if !prefs.GenerateUIDs || prefs.KeepMedia || prefs.MediaPath != `C:\media\` {
		t.Errorf("prefs = %+v", prefs)
	}

	// Overwrite works.
	if err := db.SetPreference(tree, "GENERATE_UIDS", "0"); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}
	prefs, _ = db.Prefs(tree)
	if prefs.GenerateUIDs {
		t.Error("preference overwrite did not take")
	}
}

func TestFileChecksums(t *testing.T) {
	db := testutil.TestDB(t)

	cs, err := db.FileChecksum("smith.ged")
	if err != nil || cs != "" {
		t.Fatalf("unseen file = %q, %v", cs, err)
	}

	if err := db.SetFileChecksum("smith.ged", "abc"); err != nil {
		t.Fatalf("SetFileChecksum: %v", err)
	}
	if err := db.SetFileChecksum("smith.ged", "def"); err != nil {
		t.Fatalf("SetFileChecksum (update): %v", err)
	}

	all, err := db.AllFileChecksums()
	if err != nil {
		t.Fatalf("AllFileChecksums: %v", err)
	}
	if all["smith.ged"] != "def" {
		t.Errorf("checksums = %v", all)
	}

	if err := db.ForgetFile("smith.ged"); err != nil {
		t.Fatalf("ForgetFile: %v", err)
	}
	all, _ = db.AllFileChecksums()
	if len(all) != 0 {
		t.Errorf("checksums after forget = %v", all)
	}
}

func TestGetRecordProbesAllTables(t *testing.T) {
	db := testutil.TestDB(t)
	tree, _ := db.Tree("test")

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tx.InsertIndividual(tree, "I1", "", "M", "0 @I1@ INDI\n1 SEX M"); err != nil {
		t.Fatalf("InsertIndividual: %v", err)
	}
	if err := tx.InsertFamily(tree, "F1", "I1", "", 0, "0 @F1@ FAM"); err != nil {
		t.Fatalf("InsertFamily: %v", err)
	}
	if err := tx.InsertOther(tree, "R1", "REPO", "0 @R1@ REPO"); err != nil {
		t.Fatalf("InsertOther: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	for xref, rtype := range map[string]models.RecordType{
		"I1": models.TypeIndividual,
		"F1": models.TypeFamily,
		"R1": models.TypeRepository,
	} {
		rec, err := db.GetRecord(tree, xref)
		if err != nil {
			t.Fatalf("GetRecord(%s): %v", xref, err)
		}
		if rec.Type != rtype {
			t.Errorf("GetRecord(%s).Type = %s, want %s", xref, rec.Type, rtype)
		}
	}

	_, err = db.GetRecord(tree, "I99")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing record err = %v, want ErrNotFound", err)
	}
}

func TestNextMediaXrefSkipsTaken(t *testing.T) {
	db := testutil.TestDB(t)
	tree, _ := db.Tree("test")

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer tx.Rollback()

	// M1 is already taken by an existing media record.
	if err := tx.InsertMedia(tree, "M1", "0 @M1@ OBJE"); err != nil {
		t.Fatalf("InsertMedia: %v", err)
	}

	xref, err := tx.NextMediaXref(tree)
	if err != nil {
		t.Fatalf("NextMediaXref: %v", err)
	}
	if xref != "M2" {
		t.Errorf("xref = %q, want M2", xref)
	}

	// The counter advances across calls.
	xref, err = tx.NextMediaXref(tree)
	if err != nil {
		t.Fatalf("NextMediaXref: %v", err)
	}
	if xref != "M3" {
		t.Errorf("xref = %q, want M3", xref)
	}
}

func TestNextMediaXrefCorruptCounter(t *testing.T) {
	db := testutil.TestDB(t)
	tree, _ := db.Tree("test")

	// A mangled counter value falls back to probing from M1.
	if err := db.SetPreference(tree, "next_media_xref", "garbage"); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer tx.Rollback()

	if err := tx.InsertMedia(tree, "M1", "0 @M1@ OBJE"); err != nil {
		t.Fatalf("InsertMedia: %v", err)
	}

	xref, err := tx.NextMediaXref(tree)
	if err != nil {
		t.Fatalf("NextMediaXref: %v", err)
	}
	if xref != "M2" {
		t.Errorf("xref = %q, want M2", xref)
	}
}

func TestFindMediaXref(t *testing.T) {
	db := testutil.TestDB(t)
	tree, _ := db.Tree("test")

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer tx.Rollback()

	ref := models.MediaReference{Filename: "photo.jpg", Title: "Portrait"}
	if err := tx.InsertMedia(tree, "M1", "0 @M1@ OBJE"); err != nil {
		t.Fatalf("InsertMedia: %v", err)
	}
	if err := tx.InsertMediaFile(tree, "M1", ref); err != nil {
		t.Fatalf("InsertMediaFile: %v", err)
	}

	xref, err := tx.FindMediaXref(tree, "Portrait", "photo.jpg")
	if err != nil {
		t.Fatalf("FindMediaXref: %v", err)
	}
	if xref != "M1" {
		t.Errorf("xref = %q, want M1", xref)
	}

	xref, err = tx.FindMediaXref(tree, "Other", "photo.jpg")
	if err != nil {
		t.Fatalf("FindMediaXref: %v", err)
	}
	if xref != "" {
		t.Errorf("xref = %q, want no match", xref)
	}
}

func TestLinkDeduplication(t *testing.T) {
	db := testutil.TestDB(t)
	tree, _ := db.Tree("test")

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tx.InsertLink(tree, "I1", "F1", "FAMS"); err != nil {
		t.Fatalf("InsertLink: %v", err)
	}
	// Duplicate insert is swallowed.
	if err := tx.InsertLink(tree, "I1", "F1", "FAMS"); err != nil {
		t.Fatalf("InsertLink (dup): %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	out, err := db.LinksFrom(tree, "I1")
	if err != nil {
		t.Fatalf("LinksFrom: %v", err)
	}
	if len(out) != 1 || out[0].To != "F1" || out[0].Tag != "FAMS" {
		t.Errorf("links = %+v", out)
	}

	in, err := db.LinksTo(tree, "F1")
	if err != nil {
		t.Fatalf("LinksTo: %v", err)
	}
	if len(in) != 1 || in[0].From != "I1" {
		t.Errorf("referrers = %+v", in)
	}
}

func TestPlaceChainAndSweep(t *testing.T) {
	db := testutil.TestDB(t)
	tree, _ := db.Tree("test")

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// England > London, rooted at parent 0.
	england, err := tx.PlaceID(tree, "England", 0)
	if err != nil {
		t.Fatalf("PlaceID: %v", err)
	}
	london, err := tx.PlaceID(tree, "London", england)
	if err != nil {
		t.Fatalf("PlaceID: %v", err)
	}

	// Same name under the same parent resolves to the same row.
	again, err := tx.PlaceID(tree, "London", england)
	if err != nil {
		t.Fatalf("PlaceID: %v", err)
	}
	if again != london {
		t.Errorf("place ids differ: %d vs %d", london, again)
	}

	inserted, err := tx.LinkPlace(tree, london, "I1")
	if err != nil {
		t.Fatalf("LinkPlace: %v", err)
	}
	if !inserted {
		t.Error("first LinkPlace reported no insert")
	}
	inserted, err = tx.LinkPlace(tree, london, "I1")
	if err != nil {
		t.Fatalf("LinkPlace (dup): %v", err)
	}
	if inserted {
		t.Error("duplicate LinkPlace reported an insert")
	}

	// Unlink I1 and sweep: London goes first, then orphaned England.
	if err := tx.DeletePlaceLinks(tree, "I1"); err != nil {
		t.Fatalf("DeletePlaceLinks: %v", err)
	}
	total := int64(0)
	for {
		n, err := tx.SweepOrphanPlaces(tree)
		if err != nil {
			t.Fatalf("SweepOrphanPlaces: %v", err)
		}
		if n == 0 {
			break
		}
		total += n
	}
	if total != 2 {
		t.Errorf("swept %d places, want 2", total)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func TestListRecords(t *testing.T) {
	db := testutil.TestDB(t)
	tree, _ := db.Tree("test")

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	_ = tx.InsertIndividual(tree, "I1", "", "M", "0 @I1@ INDI")
	_ = tx.InsertIndividual(tree, "I2", "", "F", "0 @I2@ INDI")
	_ = tx.InsertFamily(tree, "F1", "I1", "I2", 0, "0 @F1@ FAM")
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	all, err := db.ListRecords(tree, "", 100, 0)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}

	indis, err := db.ListRecords(tree, models.TypeIndividual, 100, 0)
	if err != nil {
		t.Fatalf("ListRecords(INDI): %v", err)
	}
	if len(indis) != 2 {
		t.Errorf("len(indis) = %d, want 2", len(indis))
	}

	page, err := db.ListRecords(tree, models.TypeIndividual, 1, 1)
	if err != nil {
		t.Fatalf("ListRecords paged: %v", err)
	}
	if len(page) != 1 || page[0].Xref != "I2" {
		t.Errorf("page = %+v", page)
	}
}
