package sqlstore

import (
	"strconv"

	"github.com/kailas-cloud/speeches/internal/domain/search/predicate"
)

// Dialect captures what differs between the supported SQL engines.
type Dialect struct {
	// Name is the storage driver name used in configuration.
	Name string
	// Driver is the database/sql driver name.
	Driver string

	schema      string
	placeholder func(n int) string
	dateCast    string // appended to date placeholders
	dateSelect  string
}

// SQLite stores dates as ISO text, which orders like the calendar.
var SQLite = Dialect{
	Name:   "sqlite",
	Driver: "sqlite",
	schema: `CREATE TABLE IF NOT EXISTS speeches (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT    NOT NULL UNIQUE,
	title       TEXT    NOT NULL,
	body        TEXT    NOT NULL,
	author      TEXT    NOT NULL,
	speech_date TEXT,
	keywords    TEXT    NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS speeches_author_date ON speeches (author, speech_date);`,
	placeholder: func(int) string { return "?" },
	dateSelect:  "speech_date",
}

// Postgres uses a native DATE column.
var Postgres = Dialect{
	Name:   "postgres",
	Driver: "pgx",
	schema: `CREATE TABLE IF NOT EXISTS speeches (
	seq         BIGSERIAL,
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	body        TEXT NOT NULL,
	author      TEXT NOT NULL,
	speech_date DATE,
	keywords    TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS speeches_author_date ON speeches (author, speech_date);`,
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	dateCast:    "::date",
	dateSelect:  "to_char(speech_date, 'YYYY-MM-DD')",
}

// DialectByName returns the dialect registered under name.
func DialectByName(name string) (Dialect, bool) {
	switch name {
	case SQLite.Name:
		return SQLite, true
	case Postgres.Name:
		return Postgres, true
	default:
		return Dialect{}, false
	}
}

// native reports whether c compiles to SQL under d. SQL lower() folds by
// collation, not like strings.ToLower, so keyword matching stays in-process.
func (d Dialect) native(c predicate.Clause) bool {
	switch c.Kind() {
	case predicate.KindAuthorEquals, predicate.KindDateFrom, predicate.KindDateTo:
		return true
	default:
		return false
	}
}
