// Package navdb persists the explored world model (canvas set + portal
// graph) in SQLite so a host can carry it across restarts. The nav core
// itself never touches this; it only exports and re-imports snapshots.
package navdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"wayfinder.ai/internal/nav"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS areas (
			seq INTEGER PRIMARY KEY,
			area_id TEXT NOT NULL UNIQUE,
			origin_x INTEGER NOT NULL,
			origin_y INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tiles (
			area_id TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			class TEXT NOT NULL,
			PRIMARY KEY (area_id, x, y)
		);`,
		`CREATE TABLE IF NOT EXISTS portals (
			portal_id TEXT PRIMARY KEY,
			from_area TEXT NOT NULL,
			from_x INTEGER NOT NULL,
			from_y INTEGER NOT NULL,
			to_area TEXT NOT NULL,
			to_x INTEGER NOT NULL,
			to_y INTEGER NOT NULL,
			kind TEXT NOT NULL,
			cost REAL NOT NULL
		);`,
	}
	for _, q := range stmts {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Save replaces the stored snapshot wholesale. One transaction: a
// half-written snapshot is worse than a stale one.
func (s *Store) Save(snap *nav.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{"DELETE FROM tiles;", "DELETE FROM areas;", "DELETE FROM portals;"} {
		if _, err := tx.Exec(q); err != nil {
			return err
		}
	}

	for seq, a := range snap.Areas {
		if _, err := tx.Exec(
			"INSERT INTO areas (seq, area_id, origin_x, origin_y) VALUES (?, ?, ?, ?)",
			seq, a.ID, a.Origin.X, a.Origin.Y,
		); err != nil {
			return err
		}
		for _, t := range a.Tiles {
			if _, err := tx.Exec(
				"INSERT INTO tiles (area_id, x, y, class) VALUES (?, ?, ?, ?)",
				a.ID, t.X, t.Y, t.Class,
			); err != nil {
				return err
			}
		}
	}
	for _, p := range snap.Portals {
		if _, err := tx.Exec(
			`INSERT INTO portals (portal_id, from_area, from_x, from_y, to_area, to_x, to_y, kind, cost)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.FromArea, p.From.X, p.From.Y, p.ToArea, p.To.X, p.To.Y, p.Kind, p.Cost,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Load reads the stored snapshot. An empty database yields an empty
// snapshot, not an error.
func (s *Store) Load() (*nav.Snapshot, error) {
	snap := &nav.Snapshot{}

	rows, err := s.db.Query("SELECT area_id, origin_x, origin_y FROM areas ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var a nav.AreaSnapshot
		if err := rows.Scan(&a.ID, &a.Origin.X, &a.Origin.Y); err != nil {
			return nil, err
		}
		snap.Areas = append(snap.Areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range snap.Areas {
		trs, err := s.db.Query(
			"SELECT x, y, class FROM tiles WHERE area_id = ? ORDER BY y, x",
			snap.Areas[i].ID,
		)
		if err != nil {
			return nil, err
		}
		for trs.Next() {
			var t nav.TileSnapshot
			if err := trs.Scan(&t.X, &t.Y, &t.Class); err != nil {
				trs.Close()
				return nil, err
			}
			snap.Areas[i].Tiles = append(snap.Areas[i].Tiles, t)
		}
		if err := trs.Err(); err != nil {
			trs.Close()
			return nil, err
		}
		trs.Close()
	}

	prs, err := s.db.Query(
		"SELECT portal_id, from_area, from_x, from_y, to_area, to_x, to_y, kind, cost FROM portals ORDER BY portal_id",
	)
	if err != nil {
		return nil, err
	}
	defer prs.Close()
	for prs.Next() {
		var p nav.Portal
		if err := prs.Scan(&p.ID, &p.FromArea, &p.From.X, &p.From.Y, &p.ToArea, &p.To.X, &p.To.Y, &p.Kind, &p.Cost); err != nil {
			return nil, err
		}
		snap.Portals = append(snap.Portals, p)
	}
	return snap, prs.Err()
}
