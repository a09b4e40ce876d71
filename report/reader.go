// Package report persists conversion diagnostics to a SQLite database.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package report

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/eak1mov/go-bintmx/codec"
	"github.com/eak1mov/go-bintmx/tile"
)

type Reader struct {
	db *sql.DB
}

// NewReader opens the report at filePath read-only.
//
// The returned Reader must be closed after use to release database resources.
func NewReader(filePath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return &Reader{db: db}, nil
}

func (r *Reader) Close() error {
	return r.db.Close()
}

func (r *Reader) ReadMetadata() (map[string]string, error) {
	metadata := make(map[string]string)

	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metadata, nil
}

// Counts returns the number of stored diagnostics per kind.
func (r *Reader) Counts() (map[codec.Kind]int, error) {
	counts := make(map[codec.Kind]int)

	rows, err := r.db.Query("SELECT kind, COUNT(*) FROM diagnostics GROUP BY kind")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, err
		}
		kind, err := codec.ParseKind(name)
		if err != nil {
			return nil, err
		}
		counts[kind] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// VisitDiagnostics calls visitor for every stored diagnostic in insertion
// order.
func (r *Reader) VisitDiagnostics(visitor func(codec.Diagnostic) error) error {
	rows, err := r.db.Query("SELECT layer, cell_x, cell_y, kind, gid, value FROM diagnostics ORDER BY rowid")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var d codec.Diagnostic
		var x, y int
		var kind string
		var gid uint32

		if err := rows.Scan(&d.Layer, &x, &y, &kind, &gid, &d.Value); err != nil {
			return err
		}
		d.Cell = tile.Point{X: x, Y: y}
		d.GID = tile.GID(gid)
		if d.Kind, err = codec.ParseKind(kind); err != nil {
			return err
		}

		if err := visitor(d); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}

	return nil
}
