// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/termbuf/archive.go
// Summary: SQLite store for rows trimmed off the scrollback.
//
// Trimmed rows keep their stable row numbers. Each row is stored as plain
// text for searching and as a CBOR encoded line for restoring its cells.

package termbuf

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fxamacker/cbor/v2"
	_ "modernc.org/sqlite"

	"github.com/pragmatrix/massive-terminal/apps/massterm/engine"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS lines (
	row   INTEGER PRIMARY KEY,
	text  TEXT NOT NULL,
	cells BLOB NOT NULL
);
`

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic("termbuf: CBOR encoder initialization failed: " + err.Error())
	}
	if decMode, err = (cbor.DecOptions{}).DecMode(); err != nil {
		panic("termbuf: CBOR decoder initialization failed: " + err.Error())
	}
}

// ErrNotArchived is returned by Archive.Line for unknown rows.
var ErrNotArchived = errors.New("termbuf: row not archived")

// Archive persists trimmed scrollback rows.
type Archive struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenArchive opens or creates the archive database at path.
func OpenArchive(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=temp_store(MEMORY)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to archive: %w", err)
	}
	if _, err := db.Exec(archiveSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// Store writes lines in one transaction, replacing rows already present.
func (a *Archive) Store(lines []ArchivedLine) error {
	if len(lines) == 0 {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare("INSERT OR REPLACE INTO lines (row, text, cells) VALUES (?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, al := range lines {
		l := al.Line
		l.Version = 0
		blob, err := encMode.Marshal(l)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encode row %d: %w", al.Row, err)
		}
		if _, err := stmt.Exec(al.Row, l.Text(), blob); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert row %d: %w", al.Row, err)
		}
	}
	return tx.Commit()
}

// Line returns the archived line of row.
func (a *Archive) Line(row int64) (engine.Line, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var blob []byte
	err := a.db.QueryRow("SELECT cells FROM lines WHERE row = ?", row).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Line{}, ErrNotArchived
	}
	if err != nil {
		return engine.Line{}, err
	}
	var l engine.Line
	if err := decMode.Unmarshal(blob, &l); err != nil {
		return engine.Line{}, fmt.Errorf("decode row %d: %w", row, err)
	}
	return l, nil
}

// Match is a search hit.
type Match struct {
	Row  int64
	Text string
}

// Search returns up to limit rows containing substr, newest first.
func (a *Archive) Search(substr string, limit int) ([]Match, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rows, err := a.db.Query(
		"SELECT row, text FROM lines WHERE instr(text, ?) > 0 ORDER BY row DESC LIMIT ?",
		substr, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.Row, &m.Text); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Close closes the database.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.db.Close()
}
