package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"

	"github.com/abhisek/luxscan/internal/record"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ReadSQLite reads every row of table from the SQLite database at path.
// Columns of any affinity are read as text; NULLs are absent.
func ReadSQLite(ctx context.Context, path, table string) (record.Batch, error) {
	if !identRe.MatchString(table) {
		return record.Batch{}, fmt.Errorf("invalid table name %q", table)
	}

	dsn := url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}
	db, err := sql.Open("sqlite", dsn.String())
	if err != nil {
		return record.Batch{}, fmt.Errorf("open database %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, table))
	if err != nil {
		return record.Batch{}, fmt.Errorf("query %s.%s: %w", path, table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return record.Batch{}, fmt.Errorf("columns: %w", err)
	}
	h := record.NewHeader(cols...)

	var out []record.Raw
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return record.Batch{}, fmt.Errorf("scan %s.%s: %w", path, table, err)
		}

		ptrs := make([]*string, len(cols))
		for i := range vals {
			if vals[i].Valid {
				ptrs[i] = &vals[i].String
			}
		}
		out = append(out, record.NewNullable(h, ptrs))
	}
	if err := rows.Err(); err != nil {
		return record.Batch{}, fmt.Errorf("iterate %s.%s: %w", path, table, err)
	}
	return record.Batch{Header: h, Rows: out}, nil
}
