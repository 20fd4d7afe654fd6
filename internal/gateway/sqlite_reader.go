package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"generic-matcher/internal/domain"
	"os"
	"path/filepath"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// PeopleTable is the table read by SQLitePersonRepository.
const PeopleTable = "people"

type personRow struct {
	MemberID    string         `db:"member_id"`
	SSN         sql.NullString `db:"ssn"`
	FirstName   sql.NullString `db:"first_name"`
	LastName    sql.NullString `db:"last_name"`
	Email       sql.NullString `db:"email"`
	Phone       sql.NullString `db:"phone"`
	DateOfBirth sql.NullString `db:"date_of_birth"`
	IsEmployee  sql.NullBool   `db:"is_employee"`
}

func (row personRow) value(column string) string {
	switch column {
	case ColumnMemberID:
		return row.MemberID
	case ColumnSSN:
		return row.SSN.String
	case ColumnFirstName:
		return row.FirstName.String
	case ColumnLastName:
		return row.LastName.String
	case ColumnEmail:
		return row.Email.String
	case ColumnPhone:
		return row.Phone.String
	case ColumnDateOfBirth:
		// DATE columns come back as full timestamps.
		if dob := row.DateOfBirth.String; len(dob) > len(domain.DateLayout) {
			return dob[:len(domain.DateLayout)]
		}
		return row.DateOfBirth.String
	case ColumnIsEmployee:
		if !row.IsEmployee.Valid {
			return ""
		}
		return fmt.Sprint(row.IsEmployee.Bool)
	}
	return ""
}

// SQLitePersonRepository reads people from the people table of SQLite databases.
type SQLitePersonRepository struct{}

// NewSQLitePersonRepository creates a new repository instance.
func NewSQLitePersonRepository() *SQLitePersonRepository {
	return &SQLitePersonRepository{}
}

// GetSeedPeople reads the seed people database.
func (r *SQLitePersonRepository) GetSeedPeople(ctx context.Context, path string) ([]*domain.Person, error) {
	return r.readDatabase(ctx, path)
}

// GetOtherPeople reads and concatenates every other people database in order.
func (r *SQLitePersonRepository) GetOtherPeople(ctx context.Context, paths []string) ([]*domain.Person, error) {
	var all []*domain.Person
	for _, path := range paths {
		people, err := r.readDatabase(ctx, path)
		if err != nil {
			return nil, err
		}
		all = append(all, people...)
	}
	return all, nil
}

func (r *SQLitePersonRepository) readDatabase(ctx context.Context, path string) ([]*domain.Person, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open people database %s: %w", path, err)
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open people database %s: %w", path, err)
	}
	defer db.Close()

	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(Columns...)
	sb.From(PeopleTable)
	sb.OrderBy("rowid")
	query, args := sb.Build()

	var rows []personRow
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query %s in %s: %w", PeopleTable, path, err)
	}

	source := filepath.Base(path)
	people := make([]*domain.Person, 0, len(rows))
	for i, row := range rows {
		p, err := parsePerson(row.value)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		p.Source = source
		people = append(people, p)
	}
	return people, nil
}
