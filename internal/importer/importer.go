// Package importer bulk-loads the reference CSV dumps (categories, genres,
// titles, users, reviews, comments) into PostgreSQL.
package importer

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lib/pq"
)

// Stats counts imported rows per file.
type Stats map[string]int

type step struct {
	file  string
	table string // serial table whose sequence is advanced afterwards
	load  func(ctx context.Context, tx *sql.Tx, r record) error
}

type Importer struct {
	db  *sql.DB
	dir string
	log *slog.Logger

	// users maps the id column of users.csv to the stored uuid.
	users map[string]string
}

func New(db *sql.DB, dir string, log *slog.Logger) *Importer {
	return &Importer{db: db, dir: dir, log: log, users: make(map[string]string)}
}

func (im *Importer) steps() []step {
	return []step{
		{file: "category.csv", table: "categories", load: im.loadCategory},
		{file: "genre.csv", table: "genres", load: im.loadGenre},
		{file: "titles.csv", table: "titles", load: im.loadTitle},
		{file: "genre_title.csv", table: "genre_titles", load: im.loadGenreTitle},
		{file: "users.csv", load: im.loadUser},
		{file: "review.csv", table: "reviews", load: im.loadReview},
		{file: "comments.csv", table: "comments", load: im.loadComment},
	}
}

// Run imports every file present in dir, in dependency order, inside one
// transaction. Missing files are skipped. Rows are upserted by id, so
// running it twice is safe.
func (im *Importer) Run(ctx context.Context) (Stats, error) {
	tx, err := im.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stats := make(Stats)
	var touched []string
	for _, s := range im.steps() {
		n, err := im.runStep(ctx, tx, s)
		if errors.Is(err, os.ErrNotExist) {
			im.log.Warn("skipping missing file", "file", s.file)
			continue
		}
		if err != nil {
			return nil, err
		}
		stats[s.file] = n
		if s.table != "" {
			touched = append(touched, s.table)
		}
		im.log.Info("imported", "file", s.file, "rows", n)
	}

	for _, table := range touched {
		if err := resetSequence(ctx, tx, table); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return stats, nil
}

func (im *Importer) runStep(ctx context.Context, tx *sql.Tx, s step) (int, error) {
	f, err := os.Open(filepath.Join(im.dir, s.file))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	rd := csv.NewReader(f)
	header, err := rd.Read()
	if err != nil {
		return 0, fmt.Errorf("%s: read header: %w", s.file, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		// exports carry a UTF-8 BOM
		h = strings.TrimPrefix(h, "\ufeff")
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	n := 0
	for line := 2; ; line++ {
		fields, err := rd.Read()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("%s line %d: %w", s.file, line, err)
		}
		if err := s.load(ctx, tx, record{index: index, fields: fields}); err != nil {
			return n, fmt.Errorf("%s line %d: %w", s.file, line, describe(err))
		}
		n++
	}
}

// resetSequence moves the id sequence past the imported rows. An empty table
// leaves the sequence uncalled so the next insert gets id 1.
func resetSequence(ctx context.Context, tx *sql.Tx, table string) error {
	query := fmt.Sprintf(
		`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), GREATEST(m.max_id, 1), m.max_id > 0) `+
			`FROM (SELECT COALESCE(MAX(id), 0) AS max_id FROM %[1]s) AS m`,
		table,
	)
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("reset %s sequence: %w", table, describe(err))
	}
	return nil
}

// describe adds the server-side detail of a PostgreSQL error.
func describe(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Constraint != "" {
		return fmt.Errorf("%w (constraint %s)", err, pqErr.Constraint)
	}
	return err
}
