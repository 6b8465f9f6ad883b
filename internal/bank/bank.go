// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bank keeps extracted questions from many papers in a SQLite
// database so they can be searched and exported together.
package bank

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/qextract/internal/output"
	"github.com/pdiddy/qextract/pkg/types"
)

const (
	dbFile            = "questions.db"
	defaultMaxResults = 20
	questionsSuffix   = "-questions"
)

// Bank manages the question bank database.
type Bank struct {
	db         *sql.DB
	dir        string
	maxResults int
	fts        bool
}

// Open opens or creates the question bank at cfg.BankDir/questions.db and
// creates the schema if it does not exist.
func Open(cfg types.BankConfig) (*Bank, error) {
	dir := cfg.BankDir
	if dir == "" {
		dir = "bank"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating bank directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	b := &Bank{db: db, dir: dir, maxResults: maxResults}
	if err := b.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return b, nil
}

// Close releases the database connection.
func (b *Bank) Close() error {
	return b.db.Close()
}

// FullText reports whether searches use the FTS5 index. SQLite builds
// without FTS5 fall back to substring matching.
func (b *Bank) FullText() bool {
	return b.fts
}

func (b *Bank) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			ingested_at TEXT NOT NULL,
			questions INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			source_id TEXT NOT NULL REFERENCES sources(id),
			seq INTEGER NOT NULL,
			qid INTEGER NOT NULL,
			page INTEGER NOT NULL,
			raw TEXT NOT NULL,
			UNIQUE(source_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_source ON questions(source_id)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_qid ON questions(qid)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			source_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := b.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := b.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='questions_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		b.fts = true
		return nil
	}

	// Without FTS5 compiled in, the virtual table cannot be created and
	// search falls back to LIKE.
	if _, err := b.db.Exec(
		`CREATE VIRTUAL TABLE questions_fts USING fts5(raw, content=questions, content_rowid=rowid)`,
	); err != nil {
		return nil
	}
	triggers := []string{
		`CREATE TRIGGER questions_ai AFTER INSERT ON questions BEGIN
			INSERT INTO questions_fts(rowid, raw) VALUES (new.rowid, new.raw);
		END`,
		`CREATE TRIGGER questions_ad AFTER DELETE ON questions BEGIN
			INSERT INTO questions_fts(questions_fts, rowid, raw) VALUES('delete', old.rowid, old.raw);
		END`,
		`CREATE TRIGGER questions_au AFTER UPDATE ON questions BEGIN
			INSERT INTO questions_fts(questions_fts, rowid, raw) VALUES('delete', old.rowid, old.raw);
			INSERT INTO questions_fts(rowid, raw) VALUES (new.rowid, new.raw);
		END`,
	}
	for _, stmt := range triggers {
		if _, err := b.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	b.fts = true
	return nil
}

// IngestSummary holds counts from an ingest run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of record files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// recordFile is a record file and the source ID it is stored under. A
// non-empty clash names an earlier file of the same run with the same ID.
type recordFile struct {
	id    string
	path  string
	clash string
}

// Ingest loads record files written by the extract stage. Directories are
// walked for .json, .yaml and .yml files. A file whose modification time is
// unchanged since the last ingest is skipped; a changed file replaces every
// question of its source.
func (b *Bank) Ingest(ctx context.Context, paths []string, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	files, err := collectRecordFiles(paths)
	if err != nil {
		return summary, err
	}

	for _, f := range files {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if f.clash != "" {
			fmt.Fprintf(w, "failed   %s: %s has the same source ID as %s\n", f.id, f.path, f.clash)
			summary.Failed++
			continue
		}

		info, err := os.Stat(f.path)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", f.id, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = b.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM ingest_status WHERE source_id = ?`, f.id,
		).Scan(&storedModTime)
		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped  %s\n", f.id)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		records, err := output.Read(f.path)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", f.id, err)
			summary.Failed++
			continue
		}

		if err := b.ingestSource(ctx, f, records, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", f.id, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated  %s (%d questions)\n", f.id, len(records))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed  %s (%d questions)\n", f.id, len(records))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

func (b *Bank) ingestSource(ctx context.Context, f recordFile, records []types.Question, modTime string, isUpdate bool) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE source_id = ?`, f.id); err != nil {
			return fmt.Errorf("deleting old questions: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sources (id, path, ingested_at, questions) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			path=excluded.path, ingested_at=excluded.ingested_at, questions=excluded.questions`,
		f.id, f.path, time.Now().UTC().Format(time.RFC3339), len(records),
	)
	if err != nil {
		return fmt.Errorf("upserting source: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO questions (source_id, seq, qid, page, raw) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, q := range records {
		if _, err := stmt.ExecContext(ctx, f.id, i, q.ID, q.Page, q.Raw); err != nil {
			return fmt.Errorf("inserting question %d: %w", i, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_status (source_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(source_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		f.id, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating ingest status: %w", err)
	}

	return tx.Commit()
}

// collectRecordFiles expands paths into record files. Files named directly
// are keyed by their base name; files found under a directory are keyed by
// their slash-separated path relative to it. Extensions and a trailing
// "-questions" are dropped from the key. A file whose key repeats an earlier
// one is marked as clashing.
func collectRecordFiles(paths []string) ([]recordFile, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no record files: pass files or directories written by extract")
	}

	var files []recordFile
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", root, err)
		}
		if !info.IsDir() {
			files = append(files, recordFile{id: sourceID(filepath.Base(root)), path: root})
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isRecordFile(path) {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, recordFile{id: sourceID(filepath.ToSlash(rel)), path: path})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	owners := make(map[string]string, len(files))
	for i, f := range files {
		if owner, ok := owners[f.id]; ok {
			files[i].clash = owner
			continue
		}
		owners[f.id] = f.path
	}
	return files, nil
}

func isRecordFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func sourceID(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimSuffix(name, questionsSuffix)
}
