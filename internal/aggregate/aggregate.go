// Package aggregate counts classified records by tag and by year and tag.
// Counters are mergeable, so shards can be counted independently and
// combined; ties are broken by the ordinal of the first record seen, which
// keeps the output identical however the batch was split.
package aggregate

import (
	"sort"

	"github.com/abhisek/luxscan/internal/classify"
)

// TagCount is one row of the tag summary.
type TagCount struct {
	Tag classify.Tag
	N   int
}

// YearTagCount is one row of the year×tag summary.
type YearTagCount struct {
	Year int
	Tag  classify.Tag
	N    int
}

type entry struct {
	n     int
	first int
}

func (e *entry) add(ordinal int) {
	if e.n == 0 || ordinal < e.first {
		e.first = ordinal
	}
	e.n++
}

func (e *entry) merge(o *entry) {
	if e.n == 0 || o.first < e.first {
		e.first = o.first
	}
	e.n += o.n
}

// TagCounter accumulates counts per tag.
type TagCounter struct {
	counts map[classify.Tag]*entry
}

// NewTagCounter returns an empty counter.
func NewTagCounter() *TagCounter {
	return &TagCounter{counts: make(map[classify.Tag]*entry)}
}

// Add counts one record. ordinal is the record's position in the batch.
func (c *TagCounter) Add(tag classify.Tag, ordinal int) {
	e, ok := c.counts[tag]
	if !ok {
		e = &entry{}
		c.counts[tag] = e
	}
	e.add(ordinal)
}

// Merge folds o into c.
func (c *TagCounter) Merge(o *TagCounter) {
	for tag, oe := range o.counts {
		e, ok := c.counts[tag]
		if !ok {
			e = &entry{}
			c.counts[tag] = e
		}
		e.merge(oe)
	}
}

// Summary returns counts by descending size, ties in first-seen order.
func (c *TagCounter) Summary() []TagCount {
	type row struct {
		TagCount
		first int
	}
	rows := make([]row, 0, len(c.counts))
	for tag, e := range c.counts {
		rows = append(rows, row{TagCount{Tag: tag, N: e.n}, e.first})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].N != rows[j].N {
			return rows[i].N > rows[j].N
		}
		return rows[i].first < rows[j].first
	})

	out := make([]TagCount, len(rows))
	for i, r := range rows {
		out[i] = r.TagCount
	}
	return out
}

type yearTag struct {
	year int
	tag  classify.Tag
}

// YearTagCounter accumulates counts per (year, tag).
type YearTagCounter struct {
	counts map[yearTag]*entry
}

// NewYearTagCounter returns an empty counter.
func NewYearTagCounter() *YearTagCounter {
	return &YearTagCounter{counts: make(map[yearTag]*entry)}
}

// Add counts one record with a resolved year.
func (c *YearTagCounter) Add(year int, tag classify.Tag, ordinal int) {
	k := yearTag{year, tag}
	e, ok := c.counts[k]
	if !ok {
		e = &entry{}
		c.counts[k] = e
	}
	e.add(ordinal)
}

// Merge folds o into c.
func (c *YearTagCounter) Merge(o *YearTagCounter) {
	for k, oe := range o.counts {
		e, ok := c.counts[k]
		if !ok {
			e = &entry{}
			c.counts[k] = e
		}
		e.merge(oe)
	}
}

// Summary returns rows by ascending year, then descending count, ties in
// first-seen order.
func (c *YearTagCounter) Summary() []YearTagCount {
	type row struct {
		YearTagCount
		first int
	}
	rows := make([]row, 0, len(c.counts))
	for k, e := range c.counts {
		rows = append(rows, row{YearTagCount{Year: k.year, Tag: k.tag, N: e.n}, e.first})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		if rows[i].N != rows[j].N {
			return rows[i].N > rows[j].N
		}
		return rows[i].first < rows[j].first
	})

	out := make([]YearTagCount, len(rows))
	for i, r := range rows {
		out[i] = r.YearTagCount
	}
	return out
}
