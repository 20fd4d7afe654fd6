package gateway

import (
	"context"
	"fmt"
	"generic-matcher/internal/domain"
	"path/filepath"
	"strings"
)

// PersonRepository dispatches every path to the CSV or SQLite reader by file
// extension. .db, .sqlite and .sqlite3 are databases; everything else is CSV.
type PersonRepository struct {
	csv    *CSVPersonRepository
	sqlite *SQLitePersonRepository
}

// NewPersonRepository creates a repository reading both CSV and SQLite sources.
func NewPersonRepository() *PersonRepository {
	return &PersonRepository{
		csv:    NewCSVPersonRepository(),
		sqlite: NewSQLitePersonRepository(),
	}
}

// GetSeedPeople reads the seed source at path.
func (r *PersonRepository) GetSeedPeople(ctx context.Context, path string) ([]*domain.Person, error) {
	if isSQLite(path) {
		return r.sqlite.GetSeedPeople(ctx, path)
	}
	return r.csv.GetSeedPeople(ctx, path)
}

// GetOtherPeople reads every other source in order. Sources may mix formats.
func (r *PersonRepository) GetOtherPeople(ctx context.Context, paths []string) ([]*domain.Person, error) {
	var all []*domain.Person
	for _, path := range paths {
		var (
			people []*domain.Person
			err    error
		)
		if isSQLite(path) {
			people, err = r.sqlite.GetOtherPeople(ctx, []string{path})
		} else {
			people, err = r.csv.GetOtherPeople(ctx, []string{path})
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load other people: %w", err)
		}
		all = append(all, people...)
	}
	return all, nil
}

func isSQLite(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}
