// Package db stores lexicon packs in a sqlite file.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS categories (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    label TEXT,
    color TEXT,
    weight REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS terms (
    category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    term TEXT NOT NULL,
    PRIMARY KEY (category_id, position)
);

CREATE TABLE IF NOT EXISTS pack_meta (
    key TEXT PRIMARY KEY,
    value TEXT
);
`

func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(SchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
