package store

import (
	"fmt"

	"github.com/fernwood/gedbase/internal/models"
)

// InsertDate writes one row in the dates index.
func (t *Tx) InsertDate(treeID int64, xref string, e models.DateIndexEntry) error {
	_, err := t.tx.Exec(`
		INSERT INTO dates (d_day, d_month, d_mon, d_year, d_julianday1, d_julianday2, d_fact, d_gid, d_file, d_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.Day, e.Month, e.MonthNum, e.Year, e.JulianDay1, e.JulianDay2, e.Fact, xref, treeID, e.Kind)
	if err != nil {
		return fmt.Errorf("store: insert date for %s: %w", xref, err)
	}
	return nil
}

// InsertName writes one row in the name index.
func (t *Tx) InsertName(treeID int64, xref string, e models.NameIndexEntry) error {
	_, err := t.tx.Exec(`
		INSERT INTO name (n_file, n_id, n_num, n_type, n_sort, n_full, n_surname, n_surn, n_givn,
			n_soundex_givn_std, n_soundex_surn_std, n_soundex_givn_dm, n_soundex_surn_dm)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, treeID, xref, e.Num, e.Type, e.Sort, e.Full, e.Surname, e.Surn, e.Givn,
		e.SoundexGivnStd, e.SoundexSurnStd, e.SoundexGivnDM, e.SoundexSurnDM)
	if err != nil {
		return fmt.Errorf("store: insert name for %s: %w", xref, err)
	}
	return nil
}

// InsertLink writes one row in the link index. Duplicates under the
// relaxed (case-insensitive) collation are silently skipped, e.g. "S1"
// and "s1" pointing from the same record.
func (t *Tx) InsertLink(treeID int64, from, to, tag string) error {
	_, err := t.tx.Exec(`
		INSERT OR IGNORE INTO link (l_from, l_to, l_type, l_file)
		VALUES (?, ?, ?, ?)
	`, from, to, tag, treeID)
	if err != nil {
		return fmt.Errorf("store: insert link %s->%s: %w", from, to, err)
	}
	return nil
}

// PlaceID resolves (creating if necessary) the place with the given name
// under the given parent.
func (t *Tx) PlaceID(treeID int64, name string, parentID int64) (int64, error) {
	var id int64
	err := t.tx.QueryRow(`
		SELECT p_id FROM places WHERE p_place = ? AND p_parent_id = ? AND p_file = ?
	`, name, parentID, treeID).Scan(&id)
	if err == nil {
		return id, nil
	}
	res, err := t.tx.Exec(`
		INSERT INTO places (p_place, p_parent_id, p_file) VALUES (?, ?, ?)
	`, name, parentID, treeID)
	if err != nil {
		return 0, fmt.Errorf("store: create place %q: %w", name, err)
	}
	return res.LastInsertId()
}

// LinkPlace links a record to a place. Returns false when the link
// already existed, which callers treat as evidence the rest of the chain
// is linked too.
func (t *Tx) LinkPlace(treeID int64, placeID int64, xref string) (bool, error) {
	res, err := t.tx.Exec(`
		INSERT OR IGNORE INTO placelinks (pl_p_id, pl_gid, pl_file) VALUES (?, ?, ?)
	`, placeID, xref, treeID)
	if err != nil {
		return false, fmt.Errorf("store: link place %d to %s: %w", placeID, xref, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LinkedMedia returns the xrefs of media records the given record linked
// to, used to restore media links an external editor dropped.
func (t *Tx) LinkedMedia(treeID int64, xref string) ([]string, error) {
	rows, err := t.tx.Query(`
		SELECT l_to FROM link WHERE l_from = ? AND l_file = ? AND l_type = 'OBJE'
	`, xref, treeID)
	if err != nil {
		return nil, fmt.Errorf("store: linked media for %s: %w", xref, err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var to string
		if err := rows.Scan(&to); err != nil {
			return nil, err
		}
		out = append(out, to)
	}
	return out, rows.Err()
}

// DeleteIndexRows tears down a record's date, name, and link index rows.
func (t *Tx) DeleteIndexRows(treeID int64, xref string) error {
	for _, q := range []string{
		`DELETE FROM dates WHERE d_gid = ? AND d_file = ?`,
		`DELETE FROM name WHERE n_id = ? AND n_file = ?`,
		`DELETE FROM link WHERE l_from = ? AND l_file = ?`,
	} {
		if _, err := t.tx.Exec(q, xref, treeID); err != nil {
			return fmt.Errorf("store: delete index rows for %s: %w", xref, err)
		}
	}
	return nil
}

// DeletePlaceLinks removes every place-link for a record.
func (t *Tx) DeletePlaceLinks(treeID int64, xref string) error {
	if _, err := t.tx.Exec(`DELETE FROM placelinks WHERE pl_gid = ? AND pl_file = ?`, xref, treeID); err != nil {
		return fmt.Errorf("store: delete place links for %s: %w", xref, err)
	}
	return nil
}

// SweepOrphanPlaces deletes leaf places with no remaining links and
// returns the number of rows removed. Callers loop until a pass deletes
// nothing: deleting "Westminster, London, England" may orphan
// "London, England" and then "England".
func (t *Tx) SweepOrphanPlaces(treeID int64) (int64, error) {
	res, err := t.tx.Exec(`
		DELETE FROM places
		WHERE p_file = ?
		  AND NOT EXISTS (SELECT 1 FROM placelinks WHERE pl_p_id = p_id AND pl_file = p_file)
		  AND NOT EXISTS (SELECT 1 FROM places child WHERE child.p_parent_id = places.p_id AND child.p_file = places.p_file)
	`, treeID)
	if err != nil {
		return 0, fmt.Errorf("store: sweep orphan places: %w", err)
	}
	return res.RowsAffected()
}

// LinksFrom returns the outgoing link index rows of a record.
func (db *DB) LinksFrom(treeID int64, xref string) ([]models.LinkIndexEntry, error) {
	return db.queryLinks(`SELECT l_from, l_to, l_type FROM link WHERE l_from = ? AND l_file = ?`, xref, treeID)
}

// LinksTo returns the incoming link index rows of a record.
func (db *DB) LinksTo(treeID int64, xref string) ([]models.LinkIndexEntry, error) {
	return db.queryLinks(`SELECT l_from, l_to, l_type FROM link WHERE l_to = ? AND l_file = ?`, xref, treeID)
}

func (db *DB) queryLinks(query string, args ...any) ([]models.LinkIndexEntry, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query links: %w", err)
	}
	defer rows.Close()
	var out []models.LinkIndexEntry
	for rows.Next() {
		var e models.LinkIndexEntry
		if err := rows.Scan(&e.From, &e.To, &e.Tag); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DatesFor returns the date index rows of one record.
func (db *DB) DatesFor(treeID int64, xref string) ([]models.DateIndexEntry, error) {
	rows, err := db.conn.Query(`SELECT d_day, d_month, d_mon, d_year, d_julianday1, d_julianday2, d_fact, d_type
		FROM dates WHERE d_file = ? AND d_gid = ? ORDER BY d_julianday1, d_year, d_mon, d_day`, treeID, xref)
	if err != nil {
		return nil, fmt.Errorf("store: query dates: %w", err)
	}
	defer rows.Close()
	var out []models.DateIndexEntry
	for rows.Next() {
		var e models.DateIndexEntry
		if err := rows.Scan(&e.Day, &e.Month, &e.MonthNum, &e.Year, &e.JulianDay1, &e.JulianDay2, &e.Fact, &e.Kind); err != nil {
			return nil, fmt.Errorf("store: scan date: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// NamesFor returns the name index rows of one record.
func (db *DB) NamesFor(treeID int64, xref string) ([]models.NameIndexEntry, error) {
	rows, err := db.conn.Query(`SELECT n_num, n_type, n_sort, n_full, n_surname, n_surn, n_givn,
		n_soundex_givn_std, n_soundex_surn_std, n_soundex_givn_dm, n_soundex_surn_dm
		FROM name WHERE n_file = ? AND n_id = ? ORDER BY n_num`, treeID, xref)
	if err != nil {
		return nil, fmt.Errorf("store: query names: %w", err)
	}
	defer rows.Close()
	var out []models.NameIndexEntry
	for rows.Next() {
		var e models.NameIndexEntry
		if err := rows.Scan(&e.Num, &e.Type, &e.Sort, &e.Full, &e.Surname, &e.Surn, &e.Givn,
			&e.SoundexGivnStd, &e.SoundexSurnStd, &e.SoundexGivnDM, &e.SoundexSurnDM); err != nil {
			return nil, fmt.Errorf("store: scan name: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// PlaceNames returns every place name of a tree, leaf and parent levels alike.
func (db *DB) PlaceNames(treeID int64) ([]string, error) {
	rows, err := db.conn.Query(`SELECT p_place FROM places WHERE p_file = ? ORDER BY p_place`, treeID)
	if err != nil {
		return nil, fmt.Errorf("store: query places: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("store: scan place: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
