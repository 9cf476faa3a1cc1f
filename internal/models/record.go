// Package models defines the domain types for gedbase.
package models

// RecordType classifies a GEDCOM record by its level-0 tag. The set of
// well-known types is closed; anything else is a custom type stored in the
// "other" table under its own tag.
type RecordType string

// Well-known record types.
const (
	TypeIndividual RecordType = "INDI"
	TypeFamily     RecordType = "FAM"
	TypeSource     RecordType = "SOUR"
	TypeRepository RecordType = "REPO"
	TypeNote       RecordType = "NOTE"
	TypeMedia      RecordType = "OBJE"
	TypeHeader     RecordType = "HEAD"
	TypeTrailer    RecordType = "TRLR"
)

// Record is a normalized GEDCOM record together with its classification.
type Record struct {
	Xref   string     `json:"xref"`
	Type   RecordType `json:"type"`
	Gedcom string     `json:"gedcom"`
	TreeID int64      `json:"-"`
}

// MediaReference describes one media file block inside an OBJE record.
type MediaReference struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Format   string `json:"format"`
	Type     string `json:"type"`
}

// DateIndexEntry is one row in the dates index. A DATE line produces one
// entry for its minimum endpoint and, when the maximum endpoint differs,
// a second entry for the maximum.
type DateIndexEntry struct {
	Day        int
	Month      string
	MonthNum   int
	Year       int
	JulianDay1 int
	JulianDay2 int
	Fact       string
	Kind       string
}

// LinkIndexEntry is one row in the link index: a pointer from one record
// to another, tagged with the pointing line's tag.
type LinkIndexEntry struct {
	From string `json:"from"`
	To   string `json:"to"`
	Tag  string `json:"tag"`
}

// NameIndexEntry is one row in the name index. Individuals may expose
// several name variants; other record types expose a single derived title.
// The soundex fields are nil when the name is an "unknown" placeholder.
type NameIndexEntry struct {
	Num            int
	Type           string
	Sort           string
	Full           string
	Surname        string
	Surn           string
	Givn           string
	SoundexGivnStd *string
	SoundexSurnStd *string
	SoundexGivnDM  *string
	SoundexSurnDM  *string
}

// FileMetadata describes a GEDCOM file in the inbox directory.
type FileMetadata struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
}
