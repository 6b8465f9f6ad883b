// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bank

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/qextract/pkg/types"
)

// SearchOptions holds parameters for question bank searches.
type SearchOptions struct {
	// Query is matched against the question text. With FTS5 it uses FTS5
	// query syntax; otherwise it is a case-insensitive substring.
	Query string

	// SourceID filters by record file.
	SourceID string

	// Page filters by page number when positive.
	Page int

	// QuestionID filters by the printed question number when positive.
	QuestionID int

	// MaxResults limits result count. Zero uses the bank default.
	MaxResults int
}

// IsEmpty reports whether the search has no query or filters.
func (o SearchOptions) IsEmpty() bool {
	return o.Query == "" && o.SourceID == "" && o.Page <= 0 && o.QuestionID <= 0
}

// Result is a stored question with the source it came from.
type Result struct {
	SourceID string `json:"source_id" yaml:"source_id"`
	Seq      int    `json:"seq" yaml:"seq"`
	types.Question `yaml:",inline"`
}

// Search queries the bank. Text queries are ranked by relevance when the
// FTS5 index is available; otherwise results are ordered by source and
// position within the source.
func (b *Bank) Search(ctx context.Context, opts SearchOptions) ([]Result, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = b.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != "" && b.fts
	)

	if useFTS {
		qb.WriteString(
			`SELECT q.source_id, q.seq, q.qid, q.page, q.raw
			FROM questions_fts
			JOIN questions q ON q.rowid = questions_fts.rowid
			WHERE questions_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT q.source_id, q.seq, q.qid, q.page, q.raw
			FROM questions q
			WHERE 1=1`)
		if opts.Query != "" {
			qb.WriteString(` AND q.raw LIKE ? ESCAPE '\'`)
			args = append(args, "%"+escapeLike(opts.Query)+"%")
		}
	}

	if opts.SourceID != "" {
		qb.WriteString(` AND q.source_id = ?`)
		args = append(args, opts.SourceID)
	}
	if opts.Page > 0 {
		qb.WriteString(` AND q.page = ?`)
		args = append(args, opts.Page)
	}
	if opts.QuestionID > 0 {
		qb.WriteString(` AND q.qid = ?`)
		args = append(args, opts.QuestionID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY questions_fts.rank, q.source_id, q.seq`)
	} else {
		qb.WriteString(` ORDER BY q.source_id, q.seq`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := b.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying question bank: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.SourceID, &r.Seq, &r.ID, &r.Page, &r.Raw); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Sources returns the IDs of every ingested source in order.
func (b *Bank) Sources(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT id FROM sources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
