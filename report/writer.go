package report

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/eak1mov/go-bintmx/codec"
)

// Writer stores diagnostics in a SQLite database.
type Writer struct {
	db     *sql.DB
	stmt   *sql.Stmt
	logger *slog.Logger
	count  int
}

type writerConfig struct {
	Metadata map[string]string
	Logger   *slog.Logger
}

type WriterOption func(*writerConfig)

func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates a new report database at filePath. The file must not
// already contain a report.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	_, err = db.Exec(`
		CREATE TABLE metadata (name TEXT, value TEXT);
		CREATE TABLE diagnostics (
			layer TEXT,
			cell_x INTEGER,
			cell_y INTEGER,
			kind TEXT,
			gid INTEGER,
			value INTEGER
		);
	`)
	if err != nil {
		return nil, err
	}

	for k, v := range config.Metadata {
		_, err = db.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", k, v)
		if err != nil {
			return nil, err
		}
	}

	stmt, err := db.Prepare("INSERT INTO diagnostics (layer, cell_x, cell_y, kind, gid, value) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return nil, err
	}

	return &Writer{db: db, stmt: stmt, logger: config.Logger}, nil
}

func (w *Writer) Close() error {
	return errors.Join(w.stmt.Close(), w.db.Close())
}

func (w *Writer) WriteDiagnostic(d codec.Diagnostic) error {
	_, err := w.stmt.Exec(d.Layer, d.Cell.X, d.Cell.Y, d.Kind.String(), uint32(d.GID), d.Value)
	if err == nil {
		w.count++
	}
	return err
}

// WriteAll stores every diagnostic of d inside a single transaction.
func (w *Writer) WriteAll(d *codec.Diagnostics) error {
	tx, err := w.db.Begin()
	if err != nil {
		return err
	}
	stmt := tx.Stmt(w.stmt)
	for diag := range d.All() {
		_, err := stmt.Exec(diag.Layer, diag.Cell.X, diag.Cell.Y, diag.Kind.String(), uint32(diag.GID), diag.Value)
		if err != nil {
			return errors.Join(err, tx.Rollback())
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	w.count += d.Len()
	return nil
}

func (w *Writer) Finalize() error {
	w.logger.Debug("bintmx: creating report index", "diagnostics", w.count)
	_, err := w.db.Exec("CREATE INDEX diagnostics_index ON diagnostics (layer, kind)")
	w.logger.Debug("bintmx: report done")
	return err
}
