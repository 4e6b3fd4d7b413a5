// Package ingest finds input files and reads them into record batches. It is
// the I/O boundary in front of the classification core.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abhisek/luxscan/internal/record"
	"github.com/bmatcuk/doublestar"
	"go.uber.org/zap"
)

// ErrNoInput is returned when discovery and reading leave nothing to process.
var ErrNoInput = errors.New("no readable input files were loaded")

// Options configure Load.
type Options struct {
	// Exclude lists file base names to skip.
	Exclude []string
	// SQLiteTable is read from database inputs.
	SQLiteTable string
}

// Discover expands each glob pattern (doublestar syntax, so ** is allowed)
// and returns matching files in pattern order, sorted within a pattern and
// de-duplicated. Excluded base names are logged and skipped.
func Discover(patterns, exclude []string, logger *zap.Logger) ([]string, error) {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}

	seen := make(map[string]bool)
	var out []string
	for _, p := range patterns {
		matches, err := doublestar.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", p, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			if skip[filepath.Base(m)] {
				logger.Info("skipping excluded input", zap.String("path", m))
				continue
			}
			out = append(out, m)
		}
	}
	return out, nil
}

// IsSQLite reports whether path names a SQLite database by extension.
func IsSQLite(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Load discovers and reads every input, stacking them into one batch.
// Unreadable (permission-locked) files are skipped with a warning; any other
// read failure aborts.
func Load(ctx context.Context, patterns []string, opts Options, logger *zap.Logger) (record.Batch, []string, error) {
	paths, err := Discover(patterns, opts.Exclude, logger)
	if err != nil {
		return record.Batch{}, nil, err
	}

	var (
		batches []record.Batch
		read    []string
	)
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return record.Batch{}, nil, err
		}

		var b record.Batch
		if IsSQLite(p) {
			b, err = ReadSQLite(ctx, p, opts.SQLiteTable)
		} else {
			b, err = ReadCSV(p)
		}
		if errors.Is(err, fs.ErrPermission) {
			logger.Warn("skipping locked input", zap.String("path", p), zap.Error(err))
			continue
		}
		if err != nil {
			return record.Batch{}, nil, err
		}

		logger.Info("read input", zap.String("path", p), zap.Int("rows", len(b.Rows)))
		batches = append(batches, b)
		read = append(read, p)
	}

	if len(batches) == 0 {
		return record.Batch{}, nil, ErrNoInput
	}
	return record.Concat(batches...), read, nil
}
