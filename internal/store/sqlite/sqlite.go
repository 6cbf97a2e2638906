// Package sqlite implements store.Store over a SQLite database file
// using the schema produced by the dataset reload pipeline.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"cpiq/internal/model"
	"cpiq/internal/store"
)

type Store struct {
	db *sqlx.DB
}

// New opens the database at path and ensures the schema exists.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	st := &Store{db: db}
	if err := st.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return st, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type catalogRow struct {
	ID   string `db:"id"`
	Code string `db:"code"`
	Name string `db:"name"`
}

type periodRow struct {
	ID           string `db:"id"`
	Code         string `db:"code"`
	Abbreviation string `db:"abbreviation"`
	Name         string `db:"name"`
}

type seriesRow struct {
	ID                 string `db:"id"`
	Title              string `db:"title"`
	Survey             string `db:"survey"`
	SeasonallyAdjusted int    `db:"seasonally_adjusted"`
	Periodicity        string `db:"periodicity"`
	Area               string `db:"area"`
	Item               string `db:"items"`
}

type indexRow struct {
	Series string  `db:"series"`
	Year   int     `db:"year"`
	Period string  `db:"period"`
	Value  float64 `db:"value"`
}

func (s *Store) ListAreas(ctx context.Context) ([]model.Area, error) {
	var rows []catalogRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, code, name FROM areas`); err != nil {
		return nil, err
	}
	out := make([]model.Area, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Area{ID: r.ID, Code: r.Code, Name: r.Name})
	}
	return out, nil
}

func (s *Store) ListItems(ctx context.Context) ([]model.Item, error) {
	var rows []catalogRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, code, name FROM items`); err != nil {
		return nil, err
	}
	out := make([]model.Item, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Item{ID: r.ID, Code: r.Code, Name: r.Name})
	}
	return out, nil
}

func (s *Store) ListPeriods(ctx context.Context) ([]model.Period, error) {
	var rows []periodRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, code, abbreviation, name FROM periods`); err != nil {
		return nil, err
	}
	out := make([]model.Period, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Period{ID: r.ID, Code: r.Code, Abbreviation: r.Abbreviation, Name: r.Name})
	}
	return out, nil
}

func (s *Store) ListPeriodicities(ctx context.Context) ([]model.Periodicity, error) {
	var rows []catalogRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, code, name FROM periodicities`); err != nil {
		return nil, err
	}
	out := make([]model.Periodicity, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Periodicity{ID: r.ID, Code: r.Code, Name: r.Name})
	}
	return out, nil
}

func (s *Store) GetSeriesRow(ctx context.Context, id string) (store.SeriesRow, error) {
	var row seriesRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, title, survey, seasonally_adjusted, periodicity, area, items
		FROM series WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.SeriesRow{}, fmt.Errorf("series: no row with id %q: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return store.SeriesRow{}, err
	}
	return store.SeriesRow{
		ID:                 row.ID,
		Title:              row.Title,
		Survey:             row.Survey,
		SeasonallyAdjusted: row.SeasonallyAdjusted != 0,
		Periodicity:        row.Periodicity,
		Area:               row.Area,
		Item:               row.Item,
	}, nil
}

func (s *Store) ListSeriesIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, `SELECT id FROM series`); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) ListIndexRows(ctx context.Context, seriesID string) ([]store.IndexRow, error) {
	var rows []indexRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT series, year, period, value FROM indexes WHERE series = ?
	`, seriesID)
	if err != nil {
		return nil, err
	}
	out := make([]store.IndexRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, store.IndexRow{Series: r.Series, Year: r.Year, Period: r.Period, Value: r.Value})
	}
	return out, nil
}

// ReplaceAll drops every table's contents and reloads them from the
// snapshot in a single transaction. This is the store side of the
// reload operation; readers holding an in-memory cache across a
// replace must discard it.
func (s *Store) ReplaceAll(ctx context.Context, snap store.Snapshot) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"areas", "items", "periods", "periodicities", "series", "indexes"} {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}

	for _, a := range snap.Areas {
		if _, err = tx.ExecContext(ctx, `INSERT INTO areas (id, code, name) VALUES (?, ?, ?)`,
			a.ID, a.Code, a.Name); err != nil {
			return err
		}
	}
	for _, i := range snap.Items {
		if _, err = tx.ExecContext(ctx, `INSERT INTO items (id, code, name) VALUES (?, ?, ?)`,
			i.ID, i.Code, i.Name); err != nil {
			return err
		}
	}
	for _, p := range snap.Periods {
		if _, err = tx.ExecContext(ctx, `INSERT INTO periods (id, code, abbreviation, name) VALUES (?, ?, ?, ?)`,
			p.ID, p.Code, p.Abbreviation, p.Name); err != nil {
			return err
		}
	}
	for _, p := range snap.Periodicities {
		if _, err = tx.ExecContext(ctx, `INSERT INTO periodicities (id, code, name) VALUES (?, ?, ?)`,
			p.ID, p.Code, p.Name); err != nil {
			return err
		}
	}

	var stmt *sqlx.Stmt
	stmt, err = tx.PreparexContext(ctx, `
		INSERT INTO series (id, title, survey, seasonally_adjusted, periodicity, area, items)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	for _, row := range snap.Series {
		adjusted := 0
		if row.SeasonallyAdjusted {
			adjusted = 1
		}
		if _, err = stmt.ExecContext(ctx, row.ID, row.Title, row.Survey, adjusted,
			row.Periodicity, row.Area, row.Item); err != nil {
			_ = stmt.Close()
			return err
		}
	}
	_ = stmt.Close()

	stmt, err = tx.PreparexContext(ctx, `
		INSERT INTO indexes (series, year, period, value) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	for _, row := range snap.Indexes {
		if _, err = stmt.ExecContext(ctx, row.Series, row.Year, row.Period, row.Value); err != nil {
			_ = stmt.Close()
			return err
		}
	}
	_ = stmt.Close()

	err = tx.Commit()
	return err
}

// Vacuum compacts the database file after a replace.
func (s *Store) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `VACUUM`)
	return err
}

func (s *Store) migrate() error {
	statements := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS areas (
			id TEXT NOT NULL PRIMARY KEY,
			code TEXT NOT NULL,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT NOT NULL PRIMARY KEY,
			code TEXT NOT NULL,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS periods (
			id TEXT NOT NULL PRIMARY KEY,
			code TEXT NOT NULL,
			abbreviation TEXT NOT NULL,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS periodicities (
			id TEXT NOT NULL PRIMARY KEY,
			code TEXT NOT NULL,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS series (
			id TEXT NOT NULL PRIMARY KEY,
			title TEXT NOT NULL,
			survey TEXT NOT NULL,
			seasonally_adjusted INTEGER NOT NULL,
			periodicity TEXT NOT NULL,
			area TEXT NOT NULL,
			items TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS indexes (
			series TEXT NOT NULL,
			year INTEGER NOT NULL,
			period TEXT NOT NULL,
			value REAL NOT NULL,
			PRIMARY KEY (series, year, period)
		);`,
	}

	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return err
		}
	}

	return nil
}
