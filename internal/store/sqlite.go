package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/kouan/internal/board"
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS files (
    file_id   TEXT PRIMARY KEY,
    position  INTEGER NOT NULL,
    file_name TEXT NOT NULL,
    saved_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS layers (
    file_id       TEXT NOT NULL,
    position      INTEGER NOT NULL,
    name          TEXT NOT NULL,
    scene_counter INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (file_id, position)
);

CREATE TABLE IF NOT EXISTS elements (
    file_id   TEXT NOT NULL,
    layer_pos INTEGER NOT NULL,
    position  INTEGER NOT NULL,
    type      TEXT NOT NULL,
    record    TEXT NOT NULL,
    PRIMARY KEY (file_id, layer_pos, position)
);
`

// SQLiteStore keeps the state in a local SQLite database in WAL mode. Each
// element row holds its record as JSON so optional fields survive as absent.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, enables WAL
// mode and busy timeout, and creates the schema tables if they do not exist.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// SQLite supports a single writer; one pooled connection keeps the
	// PRAGMAs below in effect for every statement.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &SQLiteStore{db: db, path: dbPath}, nil
}

// Location returns the database path.
func (s *SQLiteStore) Location() string { return s.path }

// Save replaces every row with st in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, st board.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin save: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for _, table := range []string{"elements", "layers", "files"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("store: clear %s: %w", table, err)
		}
	}

	const setVersion = `
		INSERT INTO meta (key, value) VALUES ('version', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.ExecContext(ctx, setVersion, strconv.Itoa(st.Version)); err != nil {
		return fmt.Errorf("store: set version: %w", err)
	}

	insFile, err := tx.PrepareContext(ctx, "INSERT INTO files (file_id, position, file_name) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("store: prepare file insert: %w", err)
	}
	defer insFile.Close()
	insLayer, err := tx.PrepareContext(ctx, "INSERT INTO layers (file_id, position, name, scene_counter) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("store: prepare layer insert: %w", err)
	}
	defer insLayer.Close()
	insElem, err := tx.PrepareContext(ctx, "INSERT INTO elements (file_id, layer_pos, position, type, record) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("store: prepare element insert: %w", err)
	}
	defer insElem.Close()

	for fi, f := range st.Files {
		if _, err := insFile.ExecContext(ctx, f.FileID, fi, f.FileName); err != nil {
			return fmt.Errorf("store: save file %q: %w", f.FileName, err)
		}
		for li, l := range f.Layers {
			if _, err := insLayer.ExecContext(ctx, f.FileID, li, l.Name, l.SceneCounter); err != nil {
				return fmt.Errorf("store: save layer %q/%q: %w", f.FileName, l.Name, err)
			}
			for ei, e := range l.Elements {
				rec, err := json.Marshal(e)
				if err != nil {
					return fmt.Errorf("store: encode element: %w", err)
				}
				if _, err := insElem.ExecContext(ctx, f.FileID, li, ei, e.Type, string(rec)); err != nil {
					return fmt.Errorf("store: save element %q/%q #%d: %w", f.FileName, l.Name, ei, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit save: %w", err)
	}
	return nil
}

// Load rebuilds the state from the tables. A database that was never saved
// to reports ErrNotFound.
func (s *SQLiteStore) Load(ctx context.Context) (board.State, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'version'").Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return board.State{}, ErrNotFound
	}
	if err != nil {
		return board.State{}, fmt.Errorf("store: read version: %w", err)
	}
	version, err := strconv.Atoi(raw)
	if err != nil {
		return board.State{}, fmt.Errorf("%w: version %q", ErrCorrupt, raw)
	}
	if err := checkVersion(version); err != nil {
		return board.State{}, err
	}

	st := board.State{Version: version}
	index := map[string]int{}
	err = s.query(ctx, "SELECT file_id, file_name FROM files ORDER BY position", func(rows *sql.Rows) error {
		var f board.FileRecord
		if err := rows.Scan(&f.FileID, &f.FileName); err != nil {
			return err
		}
		f.Layers = []board.LayerRecord{}
		index[f.FileID] = len(st.Files)
		st.Files = append(st.Files, f)
		return nil
	})
	if err != nil {
		return board.State{}, err
	}

	err = s.query(ctx, "SELECT file_id, name, scene_counter FROM layers ORDER BY file_id, position", func(rows *sql.Rows) error {
		var id string
		l := board.LayerRecord{Elements: []board.ElementRecord{}}
		if err := rows.Scan(&id, &l.Name, &l.SceneCounter); err != nil {
			return err
		}
		fi, ok := index[id]
		if !ok {
			return fmt.Errorf("%w: layer of unknown file %q", ErrCorrupt, id)
		}
		st.Files[fi].Layers = append(st.Files[fi].Layers, l)
		return nil
	})
	if err != nil {
		return board.State{}, err
	}

	err = s.query(ctx, "SELECT file_id, layer_pos, record FROM elements ORDER BY file_id, layer_pos, position", func(rows *sql.Rows) error {
		var (
			id  string
			li  int
			rec string
		)
		if err := rows.Scan(&id, &li, &rec); err != nil {
			return err
		}
		fi, ok := index[id]
		if !ok || li < 0 || li >= len(st.Files[fi].Layers) {
			return fmt.Errorf("%w: element of unknown layer %q/%d", ErrCorrupt, id, li)
		}
		var e board.ElementRecord
		if err := json.Unmarshal([]byte(rec), &e); err != nil {
			return fmt.Errorf("%w: element %q/%d: %v", ErrCorrupt, id, li, err)
		}
		layers := st.Files[fi].Layers
		layers[li].Elements = append(layers[li].Elements, e)
		return nil
	})
	if err != nil {
		return board.State{}, err
	}
	return st, nil
}

// query runs q and calls scan for every row.
func (s *SQLiteStore) query(ctx context.Context, q string, scan func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("store: query: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			if errors.Is(err, ErrCorrupt) {
				return err
			}
			return fmt.Errorf("store: scan: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: iterate: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
