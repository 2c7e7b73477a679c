package dberr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/brand-api/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	uniqueKeyRe       = regexp.MustCompile(`_([^_]+)_(?:key|ukey|idx)$`)
	mongoCollectionRe = regexp.MustCompile(`collection: [^.\s]+\.(\S+)`)
	mongoIndexRe      = regexp.MustCompile(`index: (\S+)`)
)

// ErrCode reports the Code of err, or Other when err is not an *Error.
func ErrCode(err error) Code {
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr.Code
	}
	return Other
}

// ConvertPgError converts a raw Postgres error into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// ConvertMongoError converts a Mongo duplicate key error into an *Error.
// It returns nil for every other Mongo error.
//
// The driver only exposes the offending index through the server message:
//
//	E11000 duplicate key error collection: app.brands index: name_1 dup key: { name: "Acme" }
func ConvertMongoError(err error) *Error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}

	msg := err.Error()
	out := &Error{
		Code:         UniqueViolation,
		Severity:     SeverityError,
		DatabaseCode: "11000",
		Message:      msg,
		driverErr:    err,
	}

	if m := mongoCollectionRe.FindStringSubmatch(msg); len(m) > 1 {
		out.TableName = m[1]
	}
	if m := mongoIndexRe.FindStringSubmatch(msg); len(m) > 1 {
		out.ConstraintName = m[1]
		out.ColumnName = columnFromMongoIndex(m[1])
	}
	return out
}

// columnFromMongoIndex turns a default index name ("name_1") into its field.
// Compound and custom index names are returned unchanged.
func columnFromMongoIndex(index string) string {
	for _, suffix := range []string{"_1", "_-1"} {
		if base, ok := strings.CutSuffix(index, suffix); ok && !strings.Contains(base, "_") {
			return base
		}
	}
	return index
}

// generateErrorCode builds <DOMAIN>_<ACTION> codes, e.g.
// brands + UniqueViolation => BRAND_ALREADY_EXISTS.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation, InvalidInput:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage produces the client-facing message of a
// classified error. It never includes driver text.
func formatUserFriendlyMessage(dbErr *Error) string {
	entityName := getEntityName(dbErr.TableName, dbErr.ColumnName)

	switch dbErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		column := dbErr.ColumnName
		if column == "" {
			column = extractColumnForUniqueViolation(dbErr.ConstraintName)
		}
		if column == "" {
			return fmt.Sprintf("A %s with this identifier already exists", entityName)
		}
		return fmt.Sprintf("%s must be unique. This %s is already in use.",
			humanizeText(column), strings.ToLower(humanizeText(column)))

	case NotNullViolation:
		fieldName := humanizeText(dbErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation, InvalidInput:
		fieldName := humanizeText(dbErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName infers the entity a message refers to: a "<x>_id" column
// first, then the singularized table name, then "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case and camelCase identifiers into Title Case.
//
//	"first_name" -> "First Name"
//	"foundedYear" -> "Founded Year"
func humanizeText(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	for i, r := range text {
		if r >= 'A' && r <= 'Z' && i > 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	return cases.Title(language.English).String(strings.ReplaceAll(b.String(), "_", " "))
}

// extractColumnForUniqueViolation infers the column of a unique constraint
// named "unique_<table>_<column>" or "<table>_<column>_(key|ukey|idx)".
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	matches := uniqueKeyRe.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// HandleError converts a low-level store error into an application error.
//
//   - *errs.HTTPError is returned unchanged
//   - *Error, *pgconn.PgError and Mongo duplicate keys become 400s or a 500
//   - no rows / no documents become a 404 naming the entity
//   - malformed ObjectIDs become the invalid id 400
//   - anything else is a generic 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var dbErr *Error
	if !errors.As(err, &dbErr) {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) {
			dbErr = ConvertPgError(pgerr)
		} else {
			dbErr = ConvertMongoError(err)
		}
	}

	if dbErr != nil {
		errorCode := generateErrorCode(dbErr.TableName, dbErr.Code)
		userMessage := formatUserFriendlyMessage(dbErr)

		switch dbErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(userMessage, false, &errorCode, nil, nil)

		case UniqueViolation:
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{
				{
					Field:   strings.ToLower(dbErr.ColumnName),
					Message: "is required",
				},
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors, nil)

		case CheckViolation, InvalidInput:
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, primitive.ErrInvalidHex) {
		return errs.NewInvalidIDError()
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, sql.ErrNoRows), errors.Is(err, mongo.ErrNoDocuments):
		var tblErr *tableError
		if errors.As(err, &tblErr) {
			entityName := getEntityName(tblErr.table, "")
			return errs.NewNotFoundError(fmt.Sprintf("%s not found.", entityName), true, nil)
		}
		return errs.NewNotFoundError("Resource not found.", false, nil)
	}

	return errs.NewInternalServerError()
}
