// Package dberr specifically handles document store driver errors.
//
// It parses the error codes of the Postgres and MongoDB drivers and
// converts them into user-friendly messages (e.g., converting a
// "duplicate key" into a "Bad Request" error)
package dberr

import "fmt"

// Code is the store-neutral category of a driver error.
type Code string

const (
	Other               Code = "other"
	UniqueViolation     Code = "unique_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	NotNullViolation    Code = "not_null_violation"
	CheckViolation      Code = "check_violation"
	InvalidInput        Code = "invalid_input"
	ConnectionFailure   Code = "connection_failure"
	QueryCanceled       Code = "query_canceled"
)

// Severity mirrors the Postgres severity levels; Mongo errors are always SeverityError.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is a normalized driver error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// NewUniqueViolation reports a uniqueness conflict found by the application
// itself, before the store had a chance to reject the write.
func NewUniqueViolation(table, column string) *Error {
	return &Error{
		Code:       UniqueViolation,
		Severity:   SeverityError,
		Message:    fmt.Sprintf("duplicate value for %s.%s", table, column),
		TableName:  table,
		ColumnName: column,
	}
}

// MapCode maps a Postgres SQLSTATE onto a Code.
func MapCode(sqlState string) Code {
	switch sqlState {
	case "23505":
		return UniqueViolation
	case "23503":
		return ForeignKeyViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	case "22P02", "22003", "22007", "22008":
		return InvalidInput
	case "57014":
		return QueryCanceled
	}

	if len(sqlState) >= 2 && sqlState[:2] == "08" {
		return ConnectionFailure
	}
	return Other
}

// MapSeverity maps a Postgres severity string onto a Severity.
func MapSeverity(severity string) Severity {
	switch Severity(severity) {
	case SeverityFatal, SeverityPanic, SeverityWarning, SeverityNotice,
		SeverityDebug, SeverityInfo, SeverityLog:
		return Severity(severity)
	default:
		return SeverityError
	}
}

// tableError tags a not-found error with the table or collection it came from.
type tableError struct {
	table string
	err   error
}

func (e *tableError) Error() string {
	return "table:" + e.table + ": " + e.err.Error()
}

func (e *tableError) Unwrap() error {
	return e.err
}

// WithTable records which table or collection err came from so that
// HandleError can name the missing entity.
func WithTable(err error, table string) error {
	if err == nil {
		return nil
	}
	return &tableError{table: table, err: err}
}
