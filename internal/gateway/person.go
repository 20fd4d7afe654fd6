package gateway

import (
	"fmt"
	"generic-matcher/internal/domain"
	"strconv"
	"strings"
	"time"
)

// Column names shared by every person source.
const (
	ColumnMemberID    = "member_id"
	ColumnSSN         = "ssn"
	ColumnFirstName   = "first_name"
	ColumnLastName    = "last_name"
	ColumnEmail       = "email"
	ColumnPhone       = "phone"
	ColumnDateOfBirth = "date_of_birth"
	ColumnIsEmployee  = "is_employee"
)

// Columns lists the person columns in file order.
var Columns = []string{
	ColumnMemberID, ColumnSSN, ColumnFirstName, ColumnLastName,
	ColumnEmail, ColumnPhone, ColumnDateOfBirth, ColumnIsEmployee,
}

// parsePerson builds a Person from raw column values. Missing columns read as "".
func parsePerson(value func(column string) string) (*domain.Person, error) {
	get := func(column string) string { return strings.TrimSpace(value(column)) }

	memberID := get(ColumnMemberID)
	if memberID == "" {
		return nil, fmt.Errorf("empty %s", ColumnMemberID)
	}

	p := &domain.Person{
		MemberID:  memberID,
		SSN:       get(ColumnSSN),
		FirstName: get(ColumnFirstName),
		LastName:  get(ColumnLastName),
		Email:     get(ColumnEmail),
		Phone:     get(ColumnPhone),
	}

	if raw := get(ColumnDateOfBirth); raw != "" {
		dob, err := time.Parse(domain.DateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("could not parse %s '%s': %w", ColumnDateOfBirth, raw, err)
		}
		p.DateOfBirth = dob
	}

	if raw := get(ColumnIsEmployee); raw != "" {
		isEmployee, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("could not parse %s '%s': %w", ColumnIsEmployee, raw, err)
		}
		p.IsEmployee = isEmployee
	}
	return p, nil
}
