package db

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/kasheena/code-for-good/internal/lexicon"
)

const metaAllowNegative = "allow_negative_weights"

// SaveLexicon replaces the pack stored at dbPath with cfg in one transaction.
// The config is stored as given; validation happens when it is loaded.
func SaveLexicon(dbPath string, cfg lexicon.Config) error {
	conn, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"terms", "categories", "pack_meta"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, c := range cfg.Categories {
		if _, err := tx.Exec(
			`INSERT INTO categories(id, position, label, color, weight) VALUES(?,?,?,?,?)`,
			c.ID,
			i,
			c.Label,
			c.Color,
			c.Weight,
		); err != nil {
			return fmt.Errorf("insert category %q: %w", c.ID, err)
		}
		for j, term := range c.Terms {
			if _, err := tx.Exec(`INSERT INTO terms(category_id, position, term) VALUES(?,?,?)`, c.ID, j, term); err != nil {
				return fmt.Errorf("insert term %q: %w", term, err)
			}
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO pack_meta(key, value) VALUES(?,?)`,
		metaAllowNegative,
		strconv.FormatBool(cfg.AllowNegativeWeights),
	); err != nil {
		return fmt.Errorf("insert pack meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// LoadLexicon rebuilds the config stored at dbPath, preserving category and
// term order. Pass the result to lexicon.Load to validate it.
func LoadLexicon(dbPath string) (lexicon.Config, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return lexicon.Config{}, err
	}
	defer conn.Close()

	var cfg lexicon.Config
	rows, err := conn.Query(`SELECT id, label, color, weight FROM categories ORDER BY position`)
	if err != nil {
		return lexicon.Config{}, fmt.Errorf("query categories: %w", err)
	}
	for rows.Next() {
		var c lexicon.Category
		var label, color sql.NullString
		if err := rows.Scan(&c.ID, &label, &color, &c.Weight); err != nil {
			rows.Close()
			return lexicon.Config{}, fmt.Errorf("scan category: %w", err)
		}
		c.Label, c.Color = label.String, color.String
		cfg.Categories = append(cfg.Categories, c)
	}
	if err := rows.Close(); err != nil {
		return lexicon.Config{}, fmt.Errorf("close categories: %w", err)
	}
	if err := rows.Err(); err != nil {
		return lexicon.Config{}, fmt.Errorf("iterate categories: %w", err)
	}

	for i := range cfg.Categories {
		terms, err := loadTerms(conn, cfg.Categories[i].ID)
		if err != nil {
			return lexicon.Config{}, err
		}
		cfg.Categories[i].Terms = terms
	}

	var allow sql.NullString
	err = conn.QueryRow(`SELECT value FROM pack_meta WHERE key = ?`, metaAllowNegative).Scan(&allow)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return lexicon.Config{}, fmt.Errorf("read pack meta: %w", err)
	default:
		cfg.AllowNegativeWeights, _ = strconv.ParseBool(allow.String)
	}
	return cfg, nil
}

func loadTerms(conn *sql.DB, categoryID string) ([]string, error) {
	rows, err := conn.Query(`SELECT term FROM terms WHERE category_id = ? ORDER BY position`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("query terms of %q: %w", categoryID, err)
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		terms = append(terms, term)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate terms: %w", err)
	}
	return terms, nil
}

func CountRows(dbPath, table string) (int, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	return countRowsConn(conn, table)
}

func countRowsConn(conn *sql.DB, table string) (int, error) {
	row := conn.QueryRow(`SELECT COUNT(*) FROM ` + table)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}
