// Package store persists a built connectivity graph to SQLite so later
// pipeline stages (and later process runs) can reuse it without re-reading
// the RTL.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/waveeye/sigmap/internal/extractor"
	"github.com/waveeye/sigmap/internal/graph"
)

// Store handles persistence of the connectivity graph to SQLite.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open creates or opens a graph database at .sigmap/graph.db under the
// given directory.
func Open(dir string) (*Store, error) {
	sigmapDir := filepath.Join(dir, ".sigmap")
	if err := os.MkdirAll(sigmapDir, 0755); err != nil {
		return nil, fmt.Errorf("creating .sigmap directory: %w", err)
	}

	dbPath := filepath.Join(sigmapDir, "graph.db")
	return OpenPath(dbPath)
}

// OpenPath opens a graph database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DBPath returns the path to the database file.
func (s *Store) DBPath() string {
	return s.dbPath
}

// Clear removes all data (for re-building the graph).
func (s *Store) Clear() error {
	tables := []string{"modules", "connections", "flattened", "issues", "metadata"}
	for _, table := range tables {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing table %s: %w", table, err)
		}
	}
	return nil
}

// SaveSystem replaces the stored graph with the given one.
func (s *Store) SaveSystem(sys *graph.System) error {
	if err := s.Clear(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for name, info := range sys.Modules {
		ports, err := json.Marshal(info.Ports)
		if err != nil {
			return fmt.Errorf("marshaling ports of %s: %w", name, err)
		}
		signals, err := json.Marshal(info.Signals)
		if err != nil {
			return fmt.Errorf("marshaling signals of %s: %w", name, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO modules (name, ports, signals) VALUES (?, ?, ?)",
			name, string(ports), string(signals),
		); err != nil {
			return fmt.Errorf("inserting module %s: %w", name, err)
		}
	}

	for _, c := range sys.Connections {
		if _, err := tx.Exec(
			"INSERT INTO connections (parent_module, child_module, instance, child_port, parent_signal) VALUES (?, ?, ?, ?, ?)",
			c.ParentModule, c.ChildModule, c.Instance, c.ChildPort, c.ParentSignal,
		); err != nil {
			return fmt.Errorf("inserting connection: %w", err)
		}
	}

	for _, f := range sys.Flattened {
		if _, err := tx.Exec(
			"INSERT INTO flattened (from_module, from_signal_expr, to_module, to_signal, via_instance, via_module, inner_expr) VALUES (?, ?, ?, ?, ?, ?, ?)",
			f.FromModule, f.FromSignalExpr, f.ToModule, f.ToSignal, f.ViaInstance, f.ViaModule, f.InnerExpr,
		); err != nil {
			return fmt.Errorf("inserting flattened connection: %w", err)
		}
	}

	if err := saveIssues(tx, "missing_port", sys.MissingPorts); err != nil {
		return err
	}
	if err := saveIssues(tx, "width_mismatch", sys.WidthMismatches); err != nil {
		return err
	}
	if err := saveIssues(tx, "redefinition", sys.Redefinitions); err != nil {
		return err
	}
	if err := saveIssues(tx, "unterminated", sys.Unterminated); err != nil {
		return err
	}

	if _, err := tx.Exec(
		"INSERT INTO metadata (key, value) VALUES ('built_at', ?)",
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("recording build time: %w", err)
	}

	return tx.Commit()
}

func saveIssues[T any](tx *sql.Tx, kind string, issues []T) error {
	for _, issue := range issues {
		payload, err := json.Marshal(issue)
		if err != nil {
			return fmt.Errorf("marshaling %s issue: %w", kind, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO issues (kind, payload) VALUES (?, ?)", kind, string(payload),
		); err != nil {
			return fmt.Errorf("inserting %s issue: %w", kind, err)
		}
	}
	return nil
}

// LoadSystem reconstructs the stored connectivity graph.
func (s *Store) LoadSystem() (*graph.System, error) {
	sys := &graph.System{
		Modules:         map[string]graph.ModuleInfo{},
		Connections:     []graph.Connection{},
		Flattened:       []graph.FlattenedConnection{},
		MissingPorts:    []graph.MissingPortIssue{},
		WidthMismatches: []extractor.WidthMismatch{},
		Redefinitions:   []graph.Redefinition{},
		Unterminated:    []graph.UnterminatedInstance{},
	}

	rows, err := s.db.Query("SELECT name, ports, signals FROM modules")
	if err != nil {
		return nil, fmt.Errorf("querying modules: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name, portsJSON, signalsJSON string
		if err := rows.Scan(&name, &portsJSON, &signalsJSON); err != nil {
			return nil, fmt.Errorf("scanning module: %w", err)
		}
		var info graph.ModuleInfo
		if err := json.Unmarshal([]byte(portsJSON), &info.Ports); err != nil {
			return nil, fmt.Errorf("unmarshaling ports of %s: %w", name, err)
		}
		if err := json.Unmarshal([]byte(signalsJSON), &info.Signals); err != nil {
			return nil, fmt.Errorf("unmarshaling signals of %s: %w", name, err)
		}
		sys.Modules[name] = info
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating modules: %w", err)
	}

	connRows, err := s.db.Query(
		"SELECT parent_module, child_module, instance, child_port, parent_signal FROM connections ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying connections: %w", err)
	}
	defer connRows.Close()
	for connRows.Next() {
		var c graph.Connection
		if err := connRows.Scan(&c.ParentModule, &c.ChildModule, &c.Instance, &c.ChildPort, &c.ParentSignal); err != nil {
			return nil, fmt.Errorf("scanning connection: %w", err)
		}
		sys.Connections = append(sys.Connections, c)
	}
	if err := connRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating connections: %w", err)
	}

	flatRows, err := s.db.Query(
		"SELECT from_module, from_signal_expr, to_module, to_signal, via_instance, via_module, inner_expr FROM flattened ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying flattened connections: %w", err)
	}
	defer flatRows.Close()
	for flatRows.Next() {
		var f graph.FlattenedConnection
		if err := flatRows.Scan(&f.FromModule, &f.FromSignalExpr, &f.ToModule, &f.ToSignal, &f.ViaInstance, &f.ViaModule, &f.InnerExpr); err != nil {
			return nil, fmt.Errorf("scanning flattened connection: %w", err)
		}
		sys.Flattened = append(sys.Flattened, f)
	}
	if err := flatRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating flattened connections: %w", err)
	}

	issueRows, err := s.db.Query("SELECT kind, payload FROM issues ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying issues: %w", err)
	}
	defer issueRows.Close()
	for issueRows.Next() {
		var kind, payload string
		if err := issueRows.Scan(&kind, &payload); err != nil {
			return nil, fmt.Errorf("scanning issue: %w", err)
		}
		switch kind {
		case "missing_port":
			var issue graph.MissingPortIssue
			if err := json.Unmarshal([]byte(payload), &issue); err != nil {
				return nil, fmt.Errorf("unmarshaling %s issue: %w", kind, err)
			}
			sys.MissingPorts = append(sys.MissingPorts, issue)
		case "width_mismatch":
			var issue extractor.WidthMismatch
			if err := json.Unmarshal([]byte(payload), &issue); err != nil {
				return nil, fmt.Errorf("unmarshaling %s issue: %w", kind, err)
			}
			sys.WidthMismatches = append(sys.WidthMismatches, issue)
		case "redefinition":
			var issue graph.Redefinition
			if err := json.Unmarshal([]byte(payload), &issue); err != nil {
				return nil, fmt.Errorf("unmarshaling %s issue: %w", kind, err)
			}
			sys.Redefinitions = append(sys.Redefinitions, issue)
		case "unterminated":
			var issue graph.UnterminatedInstance
			if err := json.Unmarshal([]byte(payload), &issue); err != nil {
				return nil, fmt.Errorf("unmarshaling %s issue: %w", kind, err)
			}
			sys.Unterminated = append(sys.Unterminated, issue)
		}
	}
	if err := issueRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating issues: %w", err)
	}

	return sys, nil
}
