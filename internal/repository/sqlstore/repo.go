// Package sqlstore keeps speeches in a SQL database (SQLite or PostgreSQL)
// and compiles search predicates into WHERE clauses.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/speeches/internal/domain"
	"github.com/kailas-cloud/speeches/internal/domain/search/predicate"
	domspeech "github.com/kailas-cloud/speeches/internal/domain/speech"
)

// DBTX is the subset of database/sql used by the repository.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type pinger interface {
	PingContext(ctx context.Context) error
}

// Repo implements usecase/speech.Repository over database/sql.
type Repo struct {
	db      DBTX
	dialect Dialect
	newID   func() string
}

// New creates a repository bound to db.
func New(db DBTX, d Dialect) *Repo {
	return &Repo{db: db, dialect: d, newID: uuid.NewString}
}

// Open opens a connection pool for d. The caller owns the returned *sql.DB.
func Open(d Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Name, err)
	}
	if d.Name == SQLite.Name && strings.Contains(dsn, ":memory:") {
		// each connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// EnsureSchema creates the speeches table when missing.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range strings.Split(r.dialect.schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Ping checks database availability.
func (r *Repo) Ping(ctx context.Context) error {
	p, ok := r.db.(pinger)
	if !ok {
		return nil
	}
	if err := p.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", r.dialect.Name, err)
	}
	return nil
}

// Insert assigns a fresh identity and stores s.
func (r *Repo) Insert(ctx context.Context, s domspeech.Speech) (domspeech.Speech, error) {
	stored := s.WithID(r.newID())
	kw, err := encodeKeywords(stored.Keywords())
	if err != nil {
		return domspeech.Speech{}, err
	}

	b := r.newBuilder()
	query := fmt.Sprintf(
		"INSERT INTO speeches (id, title, body, author, speech_date, keywords) VALUES (%s, %s, %s, %s, %s, %s)",
		b.arg(stored.ID()), b.arg(stored.Title()), b.arg(stored.Body()), b.arg(stored.Author()),
		b.date(stored.SpeechDate()), b.arg(kw),
	)
	if _, err := r.db.ExecContext(ctx, query, b.args...); err != nil {
		return domspeech.Speech{}, fmt.Errorf("insert speech: %w", err)
	}
	return stored, nil
}

// FindByID returns the speech with the given identity.
func (r *Repo) FindByID(ctx context.Context, id string) (domspeech.Speech, bool, error) {
	b := r.newBuilder()
	query := fmt.Sprintf("SELECT %s FROM speeches WHERE id = %s", r.columns(), b.arg(id))

	s, err := scanSpeech(r.db.QueryRowContext(ctx, query, b.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domspeech.Speech{}, false, nil
	}
	if err != nil {
		return domspeech.Speech{}, false, fmt.Errorf("select speech %s: %w", id, err)
	}
	return s, true, nil
}

// FindAll returns every speech in insertion order.
func (r *Repo) FindAll(ctx context.Context) ([]domspeech.Speech, error) {
	return r.FindMatching(ctx, predicate.All())
}

// Update overwrites the row with the same identity.
func (r *Repo) Update(ctx context.Context, s domspeech.Speech) error {
	kw, err := encodeKeywords(s.Keywords())
	if err != nil {
		return err
	}

	b := r.newBuilder()
	query := fmt.Sprintf(
		"UPDATE speeches SET title = %s, body = %s, author = %s, speech_date = %s, keywords = %s WHERE id = %s",
		b.arg(s.Title()), b.arg(s.Body()), b.arg(s.Author()), b.date(s.SpeechDate()), b.arg(kw), b.arg(s.ID()),
	)
	return r.execOne(ctx, "update", s.ID(), query, b.args)
}

// Delete removes the row with the given identity.
func (r *Repo) Delete(ctx context.Context, id string) error {
	b := r.newBuilder()
	query := "DELETE FROM speeches WHERE id = " + b.arg(id)
	return r.execOne(ctx, "delete", id, query, b.args)
}

// FindMatching compiles the natively supported clauses of p into SQL
// and applies the rest in-process.
func (r *Repo) FindMatching(ctx context.Context, p predicate.Predicate) ([]domspeech.Speech, error) {
	query, args, residual := r.compile(p)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select speeches: %w", err)
	}
	defer rows.Close()

	out := make([]domspeech.Speech, 0)
	for rows.Next() {
		s, err := scanSpeech(rows)
		if err != nil {
			return nil, fmt.Errorf("scan speech: %w", err)
		}
		if residual.Match(s) {
			out = append(out, s)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate speeches: %w", err)
	}
	return out, nil
}

// compile returns the SELECT statement for p and the residual predicate.
func (r *Repo) compile(p predicate.Predicate) (string, []any, predicate.Predicate) {
	pushed, residual := p.Split(r.dialect.native)

	b := r.newBuilder()
	var where []string
	for _, c := range pushed.Clauses() {
		switch c.Kind() {
		case predicate.KindAuthorEquals:
			where = append(where, "author = "+b.arg(c.Text()))
		case predicate.KindDateFrom:
			where = append(where, "speech_date >= "+b.date(c.Date()))
		case predicate.KindDateTo:
			// an undated speech sorts before every date
			where = append(where, "(speech_date IS NULL OR speech_date <= "+b.date(c.Date())+")")
		}
	}

	query := "SELECT " + r.columns() + " FROM speeches"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq"
	return query, b.args, residual
}

func (r *Repo) execOne(ctx context.Context, op, id, query string, args []any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s speech %s: %w", op, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s speech %s: rows affected: %w", op, id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) columns() string {
	return "id, title, body, author, " + r.dialect.dateSelect + ", keywords"
}

func (r *Repo) newBuilder() *argBuilder {
	return &argBuilder{dialect: r.dialect}
}

// argBuilder numbers placeholders in the order arguments are added.
type argBuilder struct {
	dialect Dialect
	args    []any
}

func (b *argBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return b.dialect.placeholder(len(b.args))
}

// date binds d. The zero date is stored as NULL.
func (b *argBuilder) date(d domspeech.Date) string {
	if d.IsZero() {
		return b.arg(nil) + b.dialect.dateCast
	}
	return b.arg(d.String()) + b.dialect.dateCast
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpeech(row rowScanner) (domspeech.Speech, error) {
	var (
		id, title, body, author, kw string
		date                        sql.NullString
	)
	if err := row.Scan(&id, &title, &body, &author, &date, &kw); err != nil {
		return domspeech.Speech{}, err //nolint:wrapcheck // wrapped by callers
	}
	var d domspeech.Date
	if date.Valid && date.String != "" {
		parsed, err := domspeech.ParseDate(date.String)
		if err != nil {
			return domspeech.Speech{}, fmt.Errorf("speech %s: %w", id, err)
		}
		d = parsed
	}
	keywords, err := decodeKeywords(kw)
	if err != nil {
		return domspeech.Speech{}, fmt.Errorf("speech %s: %w", id, err)
	}
	return domspeech.Reconstruct(id, domspeech.Fields{
		Title:      title,
		Body:       body,
		Author:     author,
		SpeechDate: d,
		Keywords:   keywords,
	}), nil
}

func encodeKeywords(kw []string) (string, error) {
	if kw == nil {
		kw = []string{}
	}
	data, err := json.Marshal(kw)
	if err != nil {
		return "", fmt.Errorf("marshal keywords: %w", err)
	}
	return string(data), nil
}

func decodeKeywords(raw string) ([]string, error) {
	var kw []string
	if err := json.Unmarshal([]byte(raw), &kw); err != nil {
		return nil, fmt.Errorf("unmarshal keywords: %w", err)
	}
	return kw, nil
}
