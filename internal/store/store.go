// Package store provides the SQLite storage collaborator: primary record
// tables (one per record type), the four derived index tables, and tree
// preferences. One record's import is one transaction.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS trees (
	t_id   INTEGER PRIMARY KEY AUTOINCREMENT,
	t_name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS tree_preferences (
	tp_tree  INTEGER NOT NULL,
	tp_name  TEXT NOT NULL,
	tp_value TEXT NOT NULL DEFAULT '',
	UNIQUE(tp_tree, tp_name)
);

CREATE TABLE IF NOT EXISTS individuals (
	i_id     TEXT NOT NULL,
	i_file   INTEGER NOT NULL,
	i_rin    TEXT NOT NULL DEFAULT '',
	i_sex    TEXT NOT NULL DEFAULT 'U',
	i_gedcom TEXT NOT NULL,
	PRIMARY KEY(i_id, i_file)
);

CREATE TABLE IF NOT EXISTS families (
	f_id      TEXT NOT NULL,
	f_file    INTEGER NOT NULL,
	f_husb    TEXT NOT NULL DEFAULT '',
	f_wife    TEXT NOT NULL DEFAULT '',
	f_numchil INTEGER NOT NULL DEFAULT 0,
	f_gedcom  TEXT NOT NULL,
	PRIMARY KEY(f_id, f_file)
);

CREATE TABLE IF NOT EXISTS sources (
	s_id     TEXT NOT NULL,
	s_file   INTEGER NOT NULL,
	s_name   TEXT NOT NULL DEFAULT '',
	s_gedcom TEXT NOT NULL,
	PRIMARY KEY(s_id, s_file)
);

CREATE TABLE IF NOT EXISTS media (
	m_id     TEXT NOT NULL,
	m_file   INTEGER NOT NULL,
	m_gedcom TEXT NOT NULL,
	PRIMARY KEY(m_id, m_file)
);

CREATE TABLE IF NOT EXISTS media_file (
	mf_id                INTEGER PRIMARY KEY AUTOINCREMENT,
	m_id                 TEXT NOT NULL,
	m_file               INTEGER NOT NULL,
	multimedia_file_refn TEXT NOT NULL DEFAULT '',
	multimedia_format    TEXT NOT NULL DEFAULT '',
	source_media_type    TEXT NOT NULL DEFAULT '',
	descriptive_title    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_media_file_id ON media_file(m_id, m_file);
CREATE INDEX IF NOT EXISTS idx_media_file_lookup ON media_file(m_file, descriptive_title, multimedia_file_refn);

CREATE TABLE IF NOT EXISTS other (
	o_id     TEXT NOT NULL,
	o_file   INTEGER NOT NULL,
	o_type   TEXT NOT NULL,
	o_gedcom TEXT NOT NULL,
	PRIMARY KEY(o_id, o_file)
);

CREATE TABLE IF NOT EXISTS dates (
	d_day        INTEGER NOT NULL DEFAULT 0,
	d_month      TEXT NOT NULL DEFAULT '',
	d_mon        INTEGER NOT NULL DEFAULT 0,
	d_year       INTEGER NOT NULL DEFAULT 0,
	d_julianday1 INTEGER NOT NULL DEFAULT 0,
	d_julianday2 INTEGER NOT NULL DEFAULT 0,
	d_fact       TEXT NOT NULL,
	d_gid        TEXT NOT NULL,
	d_file       INTEGER NOT NULL,
	d_type       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_dates_gid ON dates(d_gid, d_file);

CREATE TABLE IF NOT EXISTS name (
	n_file             INTEGER NOT NULL,
	n_id               TEXT NOT NULL,
	n_num              INTEGER NOT NULL,
	n_type             TEXT NOT NULL DEFAULT '',
	n_sort             TEXT NOT NULL DEFAULT '',
	n_full             TEXT NOT NULL DEFAULT '',
	n_surname          TEXT,
	n_surn             TEXT,
	n_givn             TEXT,
	n_soundex_givn_std TEXT,
	n_soundex_surn_std TEXT,
	n_soundex_givn_dm  TEXT,
	n_soundex_surn_dm  TEXT,
	PRIMARY KEY(n_id, n_file, n_num)
);

CREATE TABLE IF NOT EXISTS link (
	l_from TEXT NOT NULL,
	l_to   TEXT NOT NULL,
	l_type TEXT NOT NULL,
	l_file INTEGER NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS ux_link
	ON link(l_from, l_type, l_to COLLATE NOCASE, l_file);
CREATE INDEX IF NOT EXISTS idx_link_to ON link(l_to, l_file);

CREATE TABLE IF NOT EXISTS places (
	p_id        INTEGER PRIMARY KEY AUTOINCREMENT,
	p_place     TEXT NOT NULL,
	p_parent_id INTEGER NOT NULL DEFAULT 0,
	p_file      INTEGER NOT NULL,
	UNIQUE(p_place, p_parent_id, p_file)
);

CREATE TABLE IF NOT EXISTS placelinks (
	pl_p_id INTEGER NOT NULL,
	pl_gid  TEXT NOT NULL,
	pl_file INTEGER NOT NULL,
	UNIQUE(pl_p_id, pl_gid, pl_file)
);
CREATE INDEX IF NOT EXISTS idx_placelinks_gid ON placelinks(pl_gid, pl_file);

CREATE TABLE IF NOT EXISTS gedcom_files (
	path     TEXT PRIMARY KEY,
	checksum TEXT NOT NULL DEFAULT ''
);
`

// DB wraps a sql.DB with genealogy-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Begin starts a transaction covering one record's import or teardown.
func (db *DB) Begin() (*Tx, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("store: begin tx: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Tx is a single-record unit of work.
type Tx struct {
	tx *sql.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction. Safe to call after Commit.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
