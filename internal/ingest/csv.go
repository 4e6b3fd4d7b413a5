package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abhisek/luxscan/internal/record"
)

// ReadCSV reads a headered CSV file. Every value stays a string; blank cells
// are absent. Rows may be shorter or longer than the header.
func ReadCSV(path string) (record.Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return record.Batch{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	b, err := DecodeCSV(f)
	if err != nil {
		return record.Batch{}, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}

// DecodeCSV reads CSV from r.
func DecodeCSV(r io.Reader) (record.Batch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return record.Batch{Header: record.NewHeader()}, nil
	}
	if err != nil {
		return record.Batch{}, fmt.Errorf("header: %w", err)
	}
	if len(head) > 0 {
		head[0] = strings.TrimPrefix(head[0], "\ufeff")
	}

	h := record.NewHeader(uniqueNames(head)...)
	var rows []record.Raw
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return record.Batch{}, err
		}
		rows = append(rows, record.New(h, row))
	}
	return record.Batch{Header: h, Rows: rows}, nil
}

// uniqueNames trims column names and suffixes repeats with .1, .2, ... so
// every value keeps its own column.
func uniqueNames(head []string) []string {
	out := make([]string, len(head))
	used := make(map[string]bool, len(head))
	for i, n := range head {
		n = strings.TrimSpace(n)
		name := n
		for k := 1; used[name]; k++ {
			name = fmt.Sprintf("%s.%d", n, k)
		}
		used[name] = true
		out[i] = name
	}
	return out
}
