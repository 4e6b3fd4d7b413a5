// Package pipeline runs one batch through normalization, signal matching,
// classification, filtering and aggregation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/luxscan/internal/aggregate"
	"github.com/abhisek/luxscan/internal/classify"
	"github.com/abhisek/luxscan/internal/config"
	"github.com/abhisek/luxscan/internal/dates"
	"github.com/abhisek/luxscan/internal/normalize"
	"github.com/abhisek/luxscan/internal/record"
	"github.com/abhisek/luxscan/internal/ruleset"
	"github.com/abhisek/luxscan/internal/signal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// cancelCheckEvery is how many records a shard processes between context
// checks.
const cancelCheckEvery = 1024

// Options are the resolved inputs of a run.
type Options struct {
	TextCols    []string
	CitationCol string
	DateCol     string
	KeepTags    []classify.Tag
	MinScore    int
	BroadOnly   bool
	Workers     int
}

// Validate rejects unknown keep tags and negative worker counts.
func (o Options) Validate() error {
	for _, t := range o.KeepTags {
		if !t.Valid() {
			return &config.ConfigError{Field: "keep_tags", Value: string(t), Err: errors.New("unknown tag")}
		}
	}
	if o.Workers < 0 {
		return &config.ConfigError{Field: "workers", Value: strconv.Itoa(o.Workers), Err: errors.New("must be >= 0")}
	}
	return nil
}

// SchemaError reports that none of the text columns exist in the input.
// Records still classify, with empty text.
type SchemaError struct {
	Columns []string
}

func (e *SchemaError) Error() string {
	if len(e.Columns) == 0 {
		return "no text columns resolved; every record has empty text"
	}
	return fmt.Sprintf("none of the text columns [%s] exist in the input; every record has empty text",
		strings.Join(e.Columns, ", "))
}

// Result is everything a run produces.
type Result struct {
	// InputRows is the size of the batch.
	InputRows int
	// Classified holds every record that went through the classifier, in
	// input order. With BroadOnly it is the broad candidate subset.
	Classified []classify.Record
	// Filtered is the subset retained by the keep tags and score floor.
	Filtered []classify.Record
	// ByTag counts Classified by tag.
	ByTag []aggregate.TagCount
	// ByYearTag counts Filtered by year and tag.
	ByYearTag []aggregate.YearTagCount

	// Candidates counts classified records carrying broad vocabulary.
	Candidates int
	EmptyText  int
	Undated    int
	Warnings   []error
}

// Engine binds a Ruleset for the lifetime of a run. It holds no mutable
// state and may be shared.
type Engine struct {
	rules   *ruleset.Ruleset
	matcher *signal.Matcher
}

// NewEngine returns an Engine over rs.
func NewEngine(rs *ruleset.Ruleset) *Engine {
	return &Engine{rules: rs, matcher: signal.NewMatcher(rs)}
}

// ClassifyRecord derives everything for one row. A date that cannot be
// parsed leaves the year absent and is returned as the error; the record is
// complete either way.
func (e *Engine) ClassifyRecord(raw record.Raw, opts Options) (classify.Record, error) {
	text := normalize.Text(raw, opts.TextCols)
	citation := normalize.Field(raw, opts.CitationCol)
	flags := e.matcher.Match(text, citation)
	res := classify.Classify(flags, e.rules.Weights())

	rec := classify.Record{
		Raw:      raw,
		Text:     text,
		Citation: citation,
		Flags:    flags,
		Score:    res.Score,
		Tag:      res.Tag,
		Part:     e.rules.Part(citation),
	}

	if opts.DateCol == "" {
		return rec, nil
	}
	v, ok := raw.Get(opts.DateCol)
	if !ok {
		return rec, nil
	}
	year, err := dates.Year(v)
	if err != nil {
		return rec, err
	}
	rec.Year, rec.HasYear = year, true
	return rec, nil
}

// shard is one worker's slice of the batch and its partial results.
type shard struct {
	lo, hi     int
	records    []classify.Record
	tags       *aggregate.TagCounter
	years      *aggregate.YearTagCounter
	candidates int
	emptyText  int
	undated    int
}

// Run processes batch. Options are validated before any record is touched.
func (e *Engine) Run(ctx context.Context, logger *zap.Logger, opts Options, batch record.Batch) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	res := &Result{InputRows: len(batch.Rows)}
	if w := checkSchema(batch.Header, opts.TextCols); w != nil {
		logger.Warn("text columns missing", zap.Strings("text_cols", opts.TextCols), zap.Error(w))
		res.Warnings = append(res.Warnings, w)
	}

	keep := make(map[classify.Tag]bool, len(opts.KeepTags))
	for _, t := range opts.KeepTags {
		keep[t] = true
	}

	shards := split(len(batch.Rows), opts.Workers)
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range shards {
		g.Go(func() error {
			return e.runShard(gctx, logger, opts, keep, batch.Rows, s)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tags := aggregate.NewTagCounter()
	years := aggregate.NewYearTagCounter()
	for _, s := range shards {
		res.Classified = append(res.Classified, s.records...)
		tags.Merge(s.tags)
		years.Merge(s.years)
		res.Candidates += s.candidates
		res.EmptyText += s.emptyText
		res.Undated += s.undated
	}
	res.Filtered = classify.Filter(res.Classified, opts.KeepTags, opts.MinScore)
	res.ByTag = tags.Summary()
	res.ByYearTag = years.Summary()

	logger.Info("batch classified",
		zap.Int("input_rows", res.InputRows),
		zap.Int("classified", len(res.Classified)),
		zap.Int("candidates", res.Candidates),
		zap.Int("filtered", len(res.Filtered)),
		zap.Int("empty_text", res.EmptyText),
		zap.Int("undated", res.Undated),
	)
	return res, nil
}

func (e *Engine) runShard(ctx context.Context, logger *zap.Logger, opts Options, keep map[classify.Tag]bool, rows []record.Raw, s *shard) error {
	for i := s.lo; i < s.hi; i++ {
		if (i-s.lo)%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		rec, err := e.ClassifyRecord(rows[i], opts)
		if opts.BroadOnly && !rec.Flags.Broad {
			continue
		}
		if err != nil {
			s.undated++
			logger.Debug("date unparseable, year absent", zap.Int("row", i), zap.Error(err))
		}
		if rec.Flags.Broad {
			s.candidates++
		}
		if rec.Text == "" {
			s.emptyText++
			logger.Debug("record has no usable text", zap.Int("row", i))
		}

		s.records = append(s.records, rec)
		s.tags.Add(rec.Tag, i)
		if rec.HasYear && keep[rec.Tag] && rec.Score >= opts.MinScore {
			s.years.Add(rec.Year, rec.Tag, i)
		}
	}
	return nil
}

// split cuts n rows into at most workers contiguous shards.
func split(n, workers int) []*shard {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if workers == 0 {
		return nil
	}
	size := (n + workers - 1) / workers

	var out []*shard
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		out = append(out, &shard{
			lo:    lo,
			hi:    hi,
			tags:  aggregate.NewTagCounter(),
			years: aggregate.NewYearTagCounter(),
		})
	}
	return out
}

func checkSchema(h *record.Header, cols []string) error {
	if h == nil {
		return &SchemaError{Columns: cols}
	}
	for _, c := range cols {
		if h.Has(c) {
			return nil
		}
	}
	return &SchemaError{Columns: cols}
}
