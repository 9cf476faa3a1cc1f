package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/fernwood/gedbase/internal/apperr"
	"github.com/fernwood/gedbase/internal/models"
)

// InsertIndividual writes the primary row for an INDI record.
func (t *Tx) InsertIndividual(treeID int64, xref, rin, sex, gedcom string) error {
	_, err := t.tx.Exec(`
		INSERT INTO individuals (i_id, i_file, i_rin, i_sex, i_gedcom)
		VALUES (?, ?, ?, ?, ?)
	`, xref, treeID, rin, sex, gedcom)
	if err != nil {
		return fmt.Errorf("store: insert individual %s: %w", xref, err)
	}
	return nil
}

// InsertFamily writes the primary row for a FAM record.
func (t *Tx) InsertFamily(treeID int64, xref, husb, wife string, numChil int, gedcom string) error {
	_, err := t.tx.Exec(`
		INSERT INTO families (f_id, f_file, f_husb, f_wife, f_numchil, f_gedcom)
		VALUES (?, ?, ?, ?, ?, ?)
	`, xref, treeID, husb, wife, numChil, gedcom)
	if err != nil {
		return fmt.Errorf("store: insert family %s: %w", xref, err)
	}
	return nil
}

// InsertSource writes the primary row for a SOUR record.
func (t *Tx) InsertSource(treeID int64, xref, name, gedcom string) error {
	_, err := t.tx.Exec(`
		INSERT INTO sources (s_id, s_file, s_name, s_gedcom)
		VALUES (?, ?, ?, ?)
	`, xref, treeID, name, gedcom)
	if err != nil {
		return fmt.Errorf("store: insert source %s: %w", xref, err)
	}
	return nil
}

// InsertMedia writes the primary row for an OBJE record.
func (t *Tx) InsertMedia(treeID int64, xref, gedcom string) error {
	_, err := t.tx.Exec(`
		INSERT INTO media (m_id, m_file, m_gedcom)
		VALUES (?, ?, ?)
	`, xref, treeID, gedcom)
	if err != nil {
		return fmt.Errorf("store: insert media %s: %w", xref, err)
	}
	return nil
}

// InsertMediaFile writes one media-file metadata row for an OBJE record.
func (t *Tx) InsertMediaFile(treeID int64, xref string, ref models.MediaReference) error {
	_, err := t.tx.Exec(`
		INSERT INTO media_file (m_id, m_file, multimedia_file_refn, multimedia_format, source_media_type, descriptive_title)
		VALUES (?, ?, ?, ?, ?, ?)
	`, xref, treeID, ref.Filename, ref.Format, ref.Type, ref.Title)
	if err != nil {
		return fmt.Errorf("store: insert media file for %s: %w", xref, err)
	}
	return nil
}

// InsertOther writes the primary row for HEAD, TRLR, NOTE, REPO, and
// custom record types.
func (t *Tx) InsertOther(treeID int64, xref, otype, gedcom string) error {
	_, err := t.tx.Exec(`
		INSERT INTO other (o_id, o_file, o_type, o_gedcom)
		VALUES (?, ?, ?, ?)
	`, xref, treeID, otype, gedcom)
	if err != nil {
		return fmt.Errorf("store: insert other %s: %w", xref, err)
	}
	return nil
}

// FindMediaXref returns the xref of an existing media record in the tree
// whose descriptive title and filename both match, or "" if none does.
func (t *Tx) FindMediaXref(treeID int64, title, filename string) (string, error) {
	var xref string
	err := t.tx.QueryRow(`
		SELECT m_id FROM media_file
		WHERE m_file = ? AND descriptive_title = ? AND multimedia_file_refn = ?
	`, treeID, title, filename).Scan(&xref)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: find media xref: %w", err)
	}
	return xref, nil
}

// NextMediaXref mints a fresh media xref (M1, M2, ...) for the tree,
// skipping identifiers already taken by existing records.
func (t *Tx) NextMediaXref(treeID int64) (string, error) {
	next := int64(1)
	var stored sql.NullString
	err := t.tx.QueryRow(`
		SELECT tp_value FROM tree_preferences WHERE tp_tree = ? AND tp_name = 'next_media_xref'
	`, treeID).Scan(&stored)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("store: read xref counter: %w", err)
	}
	if stored.Valid {
		if n, err := strconv.ParseInt(stored.String, 10, 64); err == nil && n > 0 {
			next = n
		}
	}

	var xref string
	for {
		xref = fmt.Sprintf("M%d", next)
		next++
		var n int
		if err := t.tx.QueryRow(`
			SELECT (SELECT COUNT(*) FROM media WHERE m_id = ? AND m_file = ?)
			     + (SELECT COUNT(*) FROM other WHERE o_id = ? AND o_file = ?)
		`, xref, treeID, xref, treeID).Scan(&n); err != nil {
			return "", fmt.Errorf("store: probe xref %s: %w", xref, err)
		}
		if n == 0 {
			break
		}
	}

	if _, err := t.tx.Exec(`
		INSERT INTO tree_preferences (tp_tree, tp_name, tp_value) VALUES (?, 'next_media_xref', ?)
		ON CONFLICT(tp_tree, tp_name) DO UPDATE SET tp_value = excluded.tp_value
	`, treeID, fmt.Sprint(next)); err != nil {
		return "", fmt.Errorf("store: bump xref counter: %w", err)
	}
	return xref, nil
}

// DeletePrimary removes the primary row for a record of the given type.
// OBJE records also drop their media-file metadata rows.
func (t *Tx) DeletePrimary(treeID int64, xref string, rtype models.RecordType) error {
	var err error
	switch rtype {
	case models.TypeIndividual:
		_, err = t.tx.Exec(`DELETE FROM individuals WHERE i_id = ? AND i_file = ?`, xref, treeID)
	case models.TypeFamily:
		_, err = t.tx.Exec(`DELETE FROM families WHERE f_id = ? AND f_file = ?`, xref, treeID)
	case models.TypeSource:
		_, err = t.tx.Exec(`DELETE FROM sources WHERE s_id = ? AND s_file = ?`, xref, treeID)
	case models.TypeMedia:
		if _, err = t.tx.Exec(`DELETE FROM media_file WHERE m_id = ? AND m_file = ?`, xref, treeID); err == nil {
			_, err = t.tx.Exec(`DELETE FROM media WHERE m_id = ? AND m_file = ?`, xref, treeID)
		}
	default:
		_, err = t.tx.Exec(`DELETE FROM other WHERE o_id = ? AND o_file = ?`, xref, treeID)
	}
	if err != nil {
		return fmt.Errorf("store: delete %s %s: %w", rtype, xref, err)
	}
	return nil
}

// GetRecord returns a record's canonical text by probing each primary
// table in turn.
func (db *DB) GetRecord(treeID int64, xref string) (*models.Record, error) {
	probes := []struct {
		query string
		rtype models.RecordType
	}{
		{`SELECT i_gedcom FROM individuals WHERE i_id = ? AND i_file = ?`, models.TypeIndividual},
		{`SELECT f_gedcom FROM families WHERE f_id = ? AND f_file = ?`, models.TypeFamily},
		{`SELECT s_gedcom FROM sources WHERE s_id = ? AND s_file = ?`, models.TypeSource},
		{`SELECT m_gedcom FROM media WHERE m_id = ? AND m_file = ?`, models.TypeMedia},
	}
	for _, p := range probes {
		var gedcom string
		err := db.conn.QueryRow(p.query, xref, treeID).Scan(&gedcom)
		if err == nil {
			return &models.Record{Xref: xref, Type: p.rtype, Gedcom: gedcom, TreeID: treeID}, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("store: get record %s: %w", xref, err)
		}
	}

	var otype, gedcom string
	err := db.conn.QueryRow(`SELECT o_type, o_gedcom FROM other WHERE o_id = ? AND o_file = ?`, xref, treeID).Scan(&otype, &gedcom)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get record %s: %w", xref, err)
	}
	return &models.Record{Xref: xref, Type: models.RecordType(otype), Gedcom: gedcom, TreeID: treeID}, nil
}

// ListRecords returns the records of one type in a tree, ordered by xref.
// An empty type lists every record in the tree.
func (db *DB) ListRecords(treeID int64, rtype models.RecordType, limit, offset int) ([]models.Record, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if rtype == "" {
		return db.listAllRecords(treeID, limit, offset)
	}
	var query string
	args := []any{treeID, limit, offset}
	switch rtype {
	case models.TypeIndividual:
		query = `SELECT i_id, i_gedcom FROM individuals WHERE i_file = ? ORDER BY i_id LIMIT ? OFFSET ?`
	case models.TypeFamily:
		query = `SELECT f_id, f_gedcom FROM families WHERE f_file = ? ORDER BY f_id LIMIT ? OFFSET ?`
	case models.TypeSource:
		query = `SELECT s_id, s_gedcom FROM sources WHERE s_file = ? ORDER BY s_id LIMIT ? OFFSET ?`
	case models.TypeMedia:
		query = `SELECT m_id, m_gedcom FROM media WHERE m_file = ? ORDER BY m_id LIMIT ? OFFSET ?`
	default:
		query = `SELECT o_id, o_gedcom FROM other WHERE o_file = ? AND o_type = ? ORDER BY o_id LIMIT ? OFFSET ?`
		args = []any{treeID, string(rtype), limit, offset}
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list records: %w", err)
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		rec := models.Record{Type: rtype, TreeID: treeID}
		if err := rows.Scan(&rec.Xref, &rec.Gedcom); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (db *DB) listAllRecords(treeID int64, limit, offset int) ([]models.Record, error) {
	rows, err := db.conn.Query(`
		SELECT i_id, 'INDI', i_gedcom FROM individuals WHERE i_file = ?1
		UNION ALL SELECT f_id, 'FAM', f_gedcom FROM families WHERE f_file = ?1
		UNION ALL SELECT s_id, 'SOUR', s_gedcom FROM sources WHERE s_file = ?1
		UNION ALL SELECT m_id, 'OBJE', m_gedcom FROM media WHERE m_file = ?1
		UNION ALL SELECT o_id, o_type, o_gedcom FROM other WHERE o_file = ?1
		ORDER BY 1 LIMIT ?2 OFFSET ?3
	`, treeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("store: list records: %w", err)
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		rec := models.Record{TreeID: treeID}
		var rtype string
		if err := rows.Scan(&rec.Xref, &rtype, &rec.Gedcom); err != nil {
			return nil, err
		}
		rec.Type = models.RecordType(rtype)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// IndividualSex returns the indexed sex of an individual.
func (db *DB) IndividualSex(treeID int64, xref string) (string, error) {
	var sex string
	err := db.conn.QueryRow(`SELECT i_sex FROM individuals WHERE i_file = ? AND i_id = ?`, treeID, xref).Scan(&sex)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("store: individual %s: %w", xref, apperr.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("store: query sex: %w", err)
	}
	return sex, nil
}

// FamilySummary returns the indexed spouse pointers and child count of a family.
func (db *DB) FamilySummary(treeID int64, xref string) (husb, wife string, numChil int, err error) {
	err = db.conn.QueryRow(`SELECT f_husb, f_wife, f_numchil FROM families WHERE f_file = ? AND f_id = ?`, treeID, xref).
		Scan(&husb, &wife, &numChil)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", 0, fmt.Errorf("store: family %s: %w", xref, apperr.ErrNotFound)
	}
	if err != nil {
		return "", "", 0, fmt.Errorf("store: query family: %w", err)
	}
	return husb, wife, numChil, nil
}

// SourceName returns the indexed display name of a source.
func (db *DB) SourceName(treeID int64, xref string) (string, error) {
	var name string
	err := db.conn.QueryRow(`SELECT s_name FROM sources WHERE s_file = ? AND s_id = ?`, treeID, xref).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("store: source %s: %w", xref, apperr.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("store: query source: %w", err)
	}
	return name, nil
}

// MediaFiles returns the indexed file references of a media record.
func (db *DB) MediaFiles(treeID int64, xref string) ([]models.MediaReference, error) {
	rows, err := db.conn.Query(`SELECT multimedia_file_refn, multimedia_format, source_media_type, descriptive_title
		FROM media_file WHERE m_file = ? AND m_id = ?`, treeID, xref)
	if err != nil {
		return nil, fmt.Errorf("store: query media files: %w", err)
	}
	defer rows.Close()
	var out []models.MediaReference
	for rows.Next() {
		var ref models.MediaReference
		if err := rows.Scan(&ref.Filename, &ref.Format, &ref.Type, &ref.Title); err != nil {
			return nil, fmt.Errorf("store: scan media file: %w", err)
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}
