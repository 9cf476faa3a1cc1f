package names

import (
	"testing"

	"github.com/fernwood/gedbase/internal/models"
)

func TestExtractIndividual(t *testing.T) {
	rec := "0 @I1@ INDI\n1 NAME John /Smith/\n2 TYPE birth\n1 SEX M"
	got := Extract(models.TypeIndividual, "I1", rec)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	n := got[0]
	if n.Givn != "John" || n.Surn != "Smith" {
		t.Errorf("givn/surn = %q/%q", n.Givn, n.Surn)
	}
	if n.Type != "birth" {
		t.Errorf("type = %q", n.Type)
	}
	if n.Sort != "Smith,John" || n.Full != "John Smith" {
		t.Errorf("sort/full = %q/%q", n.Sort, n.Full)
	}
}

func TestExtractIndividualMultipleNames(t *testing.T) {
	rec := "0 @I1@ INDI\n1 NAME John /Smith/\n1 NAME Jack /Smith/\n2 TYPE aka"
	got := Extract(models.TypeIndividual, "I1", rec)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[1].Givn != "Jack" || got[1].Type != "aka" {
		t.Errorf("second name = %+v", got[1])
	}
}

func TestExtractIndividualExplicitSubfields(t *testing.T) {
	rec := "0 @I1@ INDI\n1 NAME Jan /Kowalski/\n2 GIVN Johannes\n2 SURN Kowalski"
	got := Extract(models.TypeIndividual, "I1", rec)
	if got[0].Givn != "Johannes" {
		t.Errorf("givn = %q, want explicit GIVN to win", got[0].Givn)
	}
}

func TestExtractIndividualPlaceholders(t *testing.T) {
	rec := "0 @I1@ INDI\n1 NAME //\n1 SEX U"
	got := Extract(models.TypeIndividual, "I1", rec)
	if got[0].Givn != UnknownGiven || got[0].Surn != UnknownSurname {
		t.Errorf("placeholders = %q/%q", got[0].Givn, got[0].Surn)
	}
}

func TestExtractSourceTitleFallsBackToAbbr(t *testing.T) {
	rec := "0 @S1@ SOUR\n1 ABBR PR"
	got := Extract(models.TypeSource, "S1", rec)
	if len(got) != 1 || got[0].Full != "PR" {
		t.Errorf("got %+v", got)
	}

	rec = "0 @S2@ SOUR\n1 AUTH someone"
	got = Extract(models.TypeSource, "S2", rec)
	if got[0].Full != "S2" {
		t.Errorf("xref fallback = %q", got[0].Full)
	}
}

func TestExtractMediaTitle(t *testing.T) {
	rec := "0 @M1@ OBJE\n1 FILE photo.jpg\n2 TITL Portrait"
	got := Extract(models.TypeMedia, "M1", rec)
	if got[0].Full != "Portrait" {
		t.Errorf("title = %q", got[0].Full)
	}

	rec = "0 @M2@ OBJE\n1 FILE photo.jpg"
	got = Extract(models.TypeMedia, "M2", rec)
	if got[0].Full != "photo.jpg" {
		t.Errorf("file fallback = %q", got[0].Full)
	}
}

func TestExtractNoteTitle(t *testing.T) {
	rec := "0 @N1@ NOTE A note about things\n1 CONT more text"
	got := Extract(models.TypeNote, "N1", rec)
	if got[0].Full != "A note about things" {
		t.Errorf("title = %q", got[0].Full)
	}
}

func TestExtractFamilyHasNoNames(t *testing.T) {
	if got := Extract(models.TypeFamily, "F1", "0 @F1@ FAM"); got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}
