package filestore

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"slices"
	"strings"

	"github.com/pscheid92/nlpnavigator/internal/adapter/metrics"
	"github.com/pscheid92/nlpnavigator/internal/domain"
)

// CSVStore is an append-only table with a fixed header.
type CSVStore struct {
	file   *lockedFile
	header []string
}

func NewCSVStore(name, path string, header []string, m *metrics.StoreMetrics) *CSVStore {
	return &CSVStore{file: newLockedFile(name, path, m), header: slices.Clone(header)}
}

// Append adds one row. A file that does not parse, or whose header differs, is left
// untouched and reported as ErrMalformedStore.
func (s *CSVStore) Append(ctx context.Context, row []string) error {
	if len(row) != len(s.header) {
		return fmt.Errorf("row has %d fields, want %d", len(row), len(s.header))
	}

	return s.file.update(ctx, func(current []byte) ([]byte, error) {
		records := [][]string{s.header}
		if len(bytes.TrimSpace(current)) > 0 {
			parsed, err := s.parse(current)
			if err != nil {
				return nil, err
			}
			records = parsed
		}
		records = append(records, row)

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.WriteAll(records); err != nil {
			return nil, fmt.Errorf("failed to encode csv: %w", err)
		}
		return buf.Bytes(), nil
	})
}

// Rows returns every data row in file order, without the header.
func (s *CSVStore) Rows(ctx context.Context) ([][]string, error) {
	data, err := s.file.read(ctx)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	records, err := s.parse(data)
	if err != nil {
		return nil, err
	}
	return records[1:], nil
}

func (s *CSVStore) parse(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\ufeff"))))
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedStore, s.file.path, err)
	}
	if len(records) == 0 || !slices.Equal(records[0], s.header) {
		got := ""
		if len(records) > 0 {
			got = strings.Join(records[0], ",")
		}
		return nil, fmt.Errorf("%w: %s: header %q, want %q", domain.ErrMalformedStore, s.file.path, got, strings.Join(s.header, ","))
	}
	return records, nil
}
