package sqlstore

import (
	// database/sql drivers for the supported dialects.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)
