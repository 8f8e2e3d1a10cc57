package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownLabel = errors.New("unknown label")
	ErrInvalidValue = errors.New("value must be a string or a number")
)

// UnknownLabel is rendered for codes that are not part of a lookup table.
const UnknownLabel = "Unknown"

// Department is the stored numeric code of an employee's department.
type Department int

const (
	DepartmentHR Department = iota + 1
	DepartmentFinance
	DepartmentMarketing
	DepartmentOperations
	DepartmentIT
)

// EmploymentStatus is the stored numeric code of an employee's employment type.
type EmploymentStatus int

const (
	EmploymentFullTime EmploymentStatus = iota + 1
	EmploymentPartTime
	EmploymentContract
	EmploymentInternship
)

// codeTable maps codes 1..n onto display labels in both directions.
type codeTable[T ~int] struct {
	labels []string
}

func (t codeTable[T]) label(code T) string {
	if code < 1 || int(code) > len(t.labels) {
		return UnknownLabel
	}

	return t.labels[code-1]
}

func (t codeTable[T]) valid(code T) bool {
	return code >= 1 && int(code) <= len(t.labels)
}

// parse accepts an exact label or the code written as digits.
func (t codeTable[T]) parse(raw string) (T, error) {
	raw = strings.TrimSpace(raw)

	for i, label := range t.labels {
		if raw == label {
			return T(i + 1), nil
		}
	}

	if code, err := strconv.Atoi(raw); err == nil && t.valid(T(code)) {
		return T(code), nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, raw)
}

// lookup resolves free text against the labels ignoring case and surrounding space.
func (t codeTable[T]) lookup(text string) (T, bool) {
	text = strings.TrimSpace(text)

	for i, label := range t.labels {
		if strings.EqualFold(text, label) {
			return T(i + 1), true
		}
	}

	return 0, false
}

var (
	departments = codeTable[Department]{labels: []string{
		"Human Resources (HR)",
		"Finance & Accounting",
		"Marketing & Sales",
		"Operations",
		"IT/Engineering",
	}}
	employmentStatuses = codeTable[EmploymentStatus]{labels: []string{
		"Full Time",
		"Part Time",
		"Contract",
		"Internship",
	}}

	// Genders lists the accepted gender labels.
	Genders = []string{"Male", "Female"}
	// Positions lists the accepted position labels.
	Positions = []string{"Team Leader", "Assistant", "Member"}
)

// Label returns the display label of the department.
func (d Department) Label() string { return departments.label(d) }

// Valid reports whether d is a known department code.
func (d Department) Valid() bool { return departments.valid(d) }

// ParseDepartment translates a department label, or its code, into the stored code.
func ParseDepartment(raw string) (Department, error) { return departments.parse(raw) }

// LookupDepartment resolves free-text department names.
func LookupDepartment(text string) (Department, bool) { return departments.lookup(text) }

// DepartmentLabels returns the department labels ordered by code.
func DepartmentLabels() []string { return append([]string(nil), departments.labels...) }

// Label returns the display label of the employment status.
func (s EmploymentStatus) Label() string { return employmentStatuses.label(s) }

// Valid reports whether s is a known employment status code.
func (s EmploymentStatus) Valid() bool { return employmentStatuses.valid(s) }

// ParseEmploymentStatus translates an employment status label, or its code, into the stored code.
func ParseEmploymentStatus(raw string) (EmploymentStatus, error) { return employmentStatuses.parse(raw) }

// EmploymentStatusLabels returns the employment status labels ordered by code.
func EmploymentStatusLabels() []string { return append([]string(nil), employmentStatuses.labels...) }

// IsGender reports whether value is one of Genders.
func IsGender(value string) bool { return contains(Genders, value) }

// IsPosition reports whether value is one of Positions.
func IsPosition(value string) bool { return contains(Positions, value) }

// LookupPosition resolves free-text position names.
func LookupPosition(text string) (string, bool) {
	text = strings.TrimSpace(text)
	for _, position := range Positions {
		if strings.EqualFold(text, position) {
			return position, true
		}
	}

	return "", false
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}

	return false
}

// Value is a scalar that clients send either as a JSON string or as a JSON number.
type Value string

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}

	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return ErrInvalidValue
	}
	*v = Value(data)

	return nil
}

// String returns the raw text of the value.
func (v Value) String() string { return string(v) }
