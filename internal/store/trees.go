package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// Preference names consumed by the import pipeline.
const (
	PrefMediaPath        = "GEDCOM_MEDIA_PATH"
	PrefWordWrappedNotes = "WORD_WRAPPED_NOTES"
	PrefGenerateUIDs     = "GENERATE_UIDS"
	PrefKeepMedia        = "keep_media"
)

// TreePrefs is the snapshot of preferences one record import needs.
type TreePrefs struct {
	MediaPath        string
	WordWrappedNotes bool
	GenerateUIDs     bool
	KeepMedia        bool
}

// Tree resolves a tree by name, creating it on first use.
func (db *DB) Tree(name string) (int64, error) {
	var id int64
	err := db.conn.QueryRow(`SELECT t_id FROM trees WHERE t_name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("store: lookup tree %q: %w", name, err)
	}
	res, err := db.conn.Exec(`INSERT INTO trees (t_name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("store: create tree %q: %w", name, err)
	}
	return res.LastInsertId()
}

// TreeNames returns all known tree names.
func (db *DB) TreeNames() ([]string, error) {
	rows, err := db.conn.Query(`SELECT t_name FROM trees ORDER BY t_name`)
	if err != nil {
		return nil, fmt.Errorf("store: list trees: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Preference returns a tree preference value, or "" when unset.
func (db *DB) Preference(treeID int64, name string) (string, error) {
	var value string
	err := db.conn.QueryRow(`
		SELECT tp_value FROM tree_preferences WHERE tp_tree = ? AND tp_name = ?
	`, treeID, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: read preference %s: %w", name, err)
	}
	return value, nil
}

// SetPreference stores a tree preference.
func (db *DB) SetPreference(treeID int64, name, value string) error {
	_, err := db.conn.Exec(`
		INSERT INTO tree_preferences (tp_tree, tp_name, tp_value) VALUES (?, ?, ?)
		ON CONFLICT(tp_tree, tp_name) DO UPDATE SET tp_value = excluded.tp_value
	`, treeID, name, value)
	if err != nil {
		return fmt.Errorf("store: set preference %s: %w", name, err)
	}
	return nil
}

// Prefs loads the import-relevant preference snapshot for a tree.
func (db *DB) Prefs(treeID int64) (TreePrefs, error) {
	var prefs TreePrefs
	var err error
	if prefs.MediaPath, err = db.Preference(treeID, PrefMediaPath); err != nil {
		return prefs, err
	}
	for _, p := range []struct {
		name string
		dst  *bool
	}{
		{PrefWordWrappedNotes, &prefs.WordWrappedNotes},
		{PrefGenerateUIDs, &prefs.GenerateUIDs},
		{PrefKeepMedia, &prefs.KeepMedia},
	} {
		v, err := db.Preference(treeID, p.name)
		if err != nil {
			return prefs, err
		}
		*p.dst = v == "1" || v == "true" || v == "yes"
	}
	return prefs, nil
}

// FileChecksum returns the stored checksum for an ingested GEDCOM file,
// or "" if the file has not been seen.
func (db *DB) FileChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM gedcom_files WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: file checksum %s: %w", path, err)
	}
	return cs, nil
}

// SetFileChecksum records the checksum of an ingested GEDCOM file.
func (db *DB) SetFileChecksum(path, checksum string) error {
	_, err := db.conn.Exec(`
		INSERT INTO gedcom_files (path, checksum) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET checksum = excluded.checksum
	`, path, checksum)
	if err != nil {
		return fmt.Errorf("store: set file checksum %s: %w", path, err)
	}
	return nil
}

// ForgetFile drops the checksum entry for a removed GEDCOM file.
func (db *DB) ForgetFile(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM gedcom_files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("store: forget file %s: %w", path, err)
	}
	return nil
}

// AllFileChecksums returns every stored file checksum keyed by path.
func (db *DB) AllFileChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM gedcom_files`)
	if err != nil {
		return nil, fmt.Errorf("store: all file checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
