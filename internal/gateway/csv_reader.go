package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"generic-matcher/internal/domain"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CSVPersonRepository reads people from CSV files with a header row.
// Columns are located by name; only member_id is required.
type CSVPersonRepository struct{}

// NewCSVPersonRepository creates a new repository instance.
func NewCSVPersonRepository() *CSVPersonRepository {
	return &CSVPersonRepository{}
}

// GetSeedPeople reads the seed people file.
func (r *CSVPersonRepository) GetSeedPeople(ctx context.Context, path string) ([]*domain.Person, error) {
	return r.readFile(ctx, path)
}

// GetOtherPeople reads and concatenates every other people file in order.
func (r *CSVPersonRepository) GetOtherPeople(ctx context.Context, paths []string) ([]*domain.Person, error) {
	var all []*domain.Person
	for _, path := range paths {
		people, err := r.readFile(ctx, path)
		if err != nil {
			return nil, err
		}
		all = append(all, people...)
	}
	return all, nil
}

func (r *CSVPersonRepository) readFile(ctx context.Context, path string) ([]*domain.Person, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open people file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}
	columns, err := indexColumns(header)
	if err != nil {
		return nil, fmt.Errorf("invalid header in %s: %w", path, err)
	}

	source := filepath.Base(path)
	people := []*domain.Person{}
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", path, err)
		}

		p, err := parsePerson(func(column string) string {
			i, ok := columns[column]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		})
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		p.Source = source
		people = append(people, p)
	}
	return people, nil
}

func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := columns[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		columns[name] = i
	}
	if _, ok := columns[ColumnMemberID]; !ok {
		return nil, fmt.Errorf("missing required column %q", ColumnMemberID)
	}
	return columns, nil
}
