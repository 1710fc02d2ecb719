// Package aggregate applies the sentiment scorer over uploaded rows and shapes the
// results for trend, heatmap and map rendering.
package aggregate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pscheid92/nlpnavigator/internal/domain"
)

const (
	ColumnDate     = "Date"
	ColumnLocation = "Location"
	ColumnText     = "Text"
)

// Row is one (category, text) pair from an upload. Category is a date or a location.
type Row struct {
	Line     int
	Category string
	Text     string
}

// ReadRows reads a CSV upload that must carry categoryColumn and Text columns.
// An empty categoryColumn requires Text only. Rows with an empty Text are dropped.
// Missing columns fail the whole upload before any row is read. Stray quotes
// inside fields are kept as text; other parse failures wrap ErrMalformedUpload.
func ReadRows(r io.Reader, categoryColumn string) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumns, strings.Join(required(categoryColumn), ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", domain.ErrMalformedUpload, err)
	}

	catIdx, textIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case ColumnText:
			textIdx = i
		case categoryColumn:
			catIdx = i
		}
	}

	var missing []string
	if categoryColumn != "" && catIdx < 0 {
		missing = append(missing, categoryColumn)
	}
	if textIdx < 0 {
		missing = append(missing, ColumnText)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumns, strings.Join(missing, ", "))
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", domain.ErrMalformedUpload, line, err)
		}

		text := field(rec, textIdx)
		if text == "" {
			continue
		}
		rows = append(rows, Row{Line: line, Category: field(rec, catIdx), Text: text})
	}
	return rows, nil
}

func required(categoryColumn string) []string {
	if categoryColumn == "" {
		return []string{ColumnText}
	}
	return []string{categoryColumn, ColumnText}
}

func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}
