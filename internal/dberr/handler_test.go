package dberr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/brand-api/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const duplicateMessage = "Name must be unique. This name is already in use."

func requireHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleError_PassesHTTPErrorThrough(t *testing.T) {
	in := errs.NewNotFoundError("gone", true, nil)
	assert.Same(t, in, HandleError(in))
}

func TestHandleError_MongoDuplicateKey(t *testing.T) {
	err := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{
			Code:    11000,
			Message: `E11000 duplicate key error collection: brandapi.brands index: name_1 dup key: { name: "Acme" }`,
		}},
	}

	httpErr := requireHTTPError(t, HandleError(fmt.Errorf("insert brand: %w", err)))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "BRAND_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, duplicateMessage, httpErr.Message)
	assert.True(t, httpErr.Override)
}

func TestHandleError_PostgresUniqueViolation(t *testing.T) {
	err := &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint",
		TableName:      "brands",
		ConstraintName: "brands_name_key",
	}

	httpErr := requireHTTPError(t, HandleError(err))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "BRAND_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, duplicateMessage, httpErr.Message)
}

func TestHandleError_ApplicationUniqueViolation(t *testing.T) {
	httpErr := requireHTTPError(t, HandleError(NewUniqueViolation("brands", "name")))

	assert.Equal(t, "BRAND_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, duplicateMessage, httpErr.Message)
	assert.Equal(t, UniqueViolation, ErrCode(NewUniqueViolation("brands", "name")))
}

func TestHandleError_PostgresNotNull(t *testing.T) {
	err := &pgconn.PgError{Code: "23502", TableName: "brands", ColumnName: "doc"}

	httpErr := requireHTTPError(t, HandleError(err))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "BRAND_REQUIRED", httpErr.Code)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "doc", httpErr.Errors[0].Field)
}

func TestHandleError_PostgresUnknownIsInternal(t *testing.T) {
	err := &pgconn.PgError{Code: "XX000", Message: "internal_error"}

	httpErr := requireHTTPError(t, HandleError(err))

	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.NotContains(t, httpErr.Message, "internal_error")
}

func TestHandleError_NotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"mongo with table", WithTable(mongo.ErrNoDocuments, "brands"), "Brand not found."},
		{"pgx with table", WithTable(fmt.Errorf("get brand: %w", pgx.ErrNoRows), "brands"), "Brand not found."},
		{"no table", mongo.ErrNoDocuments, "Resource not found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := requireHTTPError(t, HandleError(tt.err))
			assert.Equal(t, http.StatusNotFound, httpErr.Status)
			assert.Equal(t, tt.want, httpErr.Message)
		})
	}
}

func TestHandleError_InvalidObjectID(t *testing.T) {
	_, err := primitive.ObjectIDFromHex("not-an-id")
	require.Error(t, err)

	httpErr := requireHTTPError(t, HandleError(err))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, errs.InvalidIDMessage, httpErr.Message)
}

func TestHandleError_UnknownIsInternal(t *testing.T) {
	httpErr := requireHTTPError(t, HandleError(errors.New("connection reset by peer")))

	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), httpErr.Message)
}

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, ForeignKeyViolation, MapCode("23503"))
	assert.Equal(t, NotNullViolation, MapCode("23502"))
	assert.Equal(t, CheckViolation, MapCode("23514"))
	assert.Equal(t, InvalidInput, MapCode("22P02"))
	assert.Equal(t, ConnectionFailure, MapCode("08006"))
	assert.Equal(t, Other, MapCode("XX000"))
}

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, SeverityFatal, MapSeverity("FATAL"))
	assert.Equal(t, SeverityError, MapSeverity("ERROR"))
	assert.Equal(t, SeverityError, MapSeverity("bogus"))
}

func TestHumanizeText(t *testing.T) {
	assert.Equal(t, "First Name", humanizeText("first_name"))
	assert.Equal(t, "Founded Year", humanizeText("foundedYear"))
	assert.Equal(t, "", humanizeText(""))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "name", extractColumnForUniqueViolation("unique_brands_name"))
	assert.Equal(t, "name", extractColumnForUniqueViolation("brands_name_key"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("brands_email_idx"))
	assert.Equal(t, "", extractColumnForUniqueViolation("pk"))
}

func TestColumnFromMongoIndex(t *testing.T) {
	assert.Equal(t, "name", columnFromMongoIndex("name_1"))
	assert.Equal(t, "createdAt", columnFromMongoIndex("createdAt_-1"))
	assert.Equal(t, "name_1_status_1", columnFromMongoIndex("name_1_status_1"))
}
