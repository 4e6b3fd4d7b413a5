// Package record holds the raw rows handed to the classification core.
// A Raw row is read-only once built; the core only looks values up by name.
package record

// Header is the ordered set of column names shared by every row of a source.
type Header struct {
	names []string
	index map[string]int
}

// NewHeader builds a Header from column names. Duplicate names keep the
// first position.
func NewHeader(names ...string) *Header {
	h := &Header{
		names: make([]string, 0, len(names)),
		index: make(map[string]int, len(names)),
	}
	for _, n := range names {
		if _, ok := h.index[n]; ok {
			continue
		}
		h.index[n] = len(h.names)
		h.names = append(h.names, n)
	}
	return h
}

// Names returns a copy of the column names in order.
func (h *Header) Names() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Has reports whether the header contains the column.
func (h *Header) Has(name string) bool {
	_, ok := h.index[name]
	return ok
}

// Len returns the number of columns.
func (h *Header) Len() int { return len(h.names) }

// Field is one named value of a row. Valid is false for absent values
// (empty CSV cells, SQL NULLs, columns a source did not carry).
type Field struct {
	Name  string
	Value string
	Valid bool
}

// Raw is a single input row.
type Raw struct {
	header *Header
	values []string
	valid  []bool
}

// New builds a row over header. Missing trailing values are absent; an empty
// string is treated as absent, matching how tabular sources report blanks.
func New(header *Header, values []string) Raw {
	r := Raw{
		header: header,
		values: make([]string, header.Len()),
		valid:  make([]bool, header.Len()),
	}
	for i := 0; i < header.Len() && i < len(values); i++ {
		r.values[i] = values[i]
		r.valid[i] = values[i] != ""
	}
	return r
}

// NewNullable builds a row from values that may be nil (SQL NULL).
func NewNullable(header *Header, values []*string) Raw {
	r := Raw{
		header: header,
		values: make([]string, header.Len()),
		valid:  make([]bool, header.Len()),
	}
	for i := 0; i < header.Len() && i < len(values); i++ {
		if values[i] == nil {
			continue
		}
		r.values[i] = *values[i]
		r.valid[i] = *values[i] != ""
	}
	return r
}

// FromMap builds a row with its own header, columns in the given order.
// Handy for tests and small callers.
func FromMap(order []string, m map[string]string) Raw {
	h := NewHeader(order...)
	values := make([]string, h.Len())
	for i, n := range h.names {
		values[i] = m[n]
	}
	return New(h, values)
}

// Header returns the row's header.
func (r Raw) Header() *Header { return r.header }

// Get returns the value of the named column and whether it is present.
func (r Raw) Get(name string) (string, bool) {
	if r.header == nil {
		return "", false
	}
	i, ok := r.header.index[name]
	if !ok || !r.valid[i] {
		return "", false
	}
	return r.values[i], true
}

// Fields returns all fields in header order.
func (r Raw) Fields() []Field {
	if r.header == nil {
		return nil
	}
	out := make([]Field, len(r.header.names))
	for i, n := range r.header.names {
		out[i] = Field{Name: n, Value: r.values[i], Valid: r.valid[i]}
	}
	return out
}

// Project re-expresses r over another header. Columns r does not carry are
// absent in the result.
func (r Raw) Project(h *Header) Raw {
	out := Raw{
		header: h,
		values: make([]string, h.Len()),
		valid:  make([]bool, h.Len()),
	}
	for i, n := range h.names {
		if v, ok := r.Get(n); ok {
			out.values[i] = v
			out.valid[i] = true
		}
	}
	return out
}

// Batch is a fully materialized set of rows sharing one header.
type Batch struct {
	Header *Header
	Rows   []Raw
}

// Concat stacks batches into one. The result header is the union of the
// input headers in first-seen order, like concatenating data frames.
func Concat(batches ...Batch) Batch {
	var names []string
	for _, b := range batches {
		if b.Header != nil {
			names = append(names, b.Header.names...)
		}
	}
	h := NewHeader(names...)

	total := 0
	for _, b := range batches {
		total += len(b.Rows)
	}
	rows := make([]Raw, 0, total)
	for _, b := range batches {
		same := b.Header != nil && sameColumns(b.Header, h)
		for _, r := range b.Rows {
			if same {
				rows = append(rows, Raw{header: h, values: r.values, valid: r.valid})
				continue
			}
			rows = append(rows, r.Project(h))
		}
	}
	return Batch{Header: h, Rows: rows}
}

func sameColumns(a, b *Header) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.names {
		if a.names[i] != b.names[i] {
			return false
		}
	}
	return true
}

// Select keeps the named columns the batch carries, in header order.
// Unknown names are ignored.
func (b Batch) Select(names ...string) Batch {
	if b.Header == nil {
		return b
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var keep []string
	for _, n := range b.Header.names {
		if want[n] {
			keep = append(keep, n)
		}
	}
	h := NewHeader(keep...)
	rows := make([]Raw, len(b.Rows))
	for i, r := range b.Rows {
		rows[i] = r.Project(h)
	}
	return Batch{Header: h, Rows: rows}
}
