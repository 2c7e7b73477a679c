package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/brand-api/internal/dberr"
	"github.com/deppfellow/brand-api/internal/model/brand"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// pgDB is the subset of *pgxpool.Pool the repository uses.
type pgDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ pgDB = (*pgxpool.Pool)(nil)

// PostgresBrandRepository stores brands as JSONB documents.
//
// The id and timestamps live in their own columns, every other field in doc.
type PostgresBrandRepository struct {
	db  pgDB
	now func() time.Time
}

func NewPostgresBrandRepository(db pgDB) *PostgresBrandRepository {
	return &PostgresBrandRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// pgDocument is the JSONB body of a row.
type pgDocument struct {
	Name              string       `json:"name"`
	Description       string       `json:"description,omitempty"`
	Website           string       `json:"website,omitempty"`
	Email             string       `json:"email"`
	Country           string       `json:"country,omitempty"`
	FoundedYear       int          `json:"foundedYear"`
	Status            brand.Status `json:"status"`
	AvailableLocation string       `json:"availableLocation,omitempty"`
	TotalProduct      *int         `json:"totalProduct,omitempty"`
	Rating            float64      `json:"rating"`
}

func newPgDocument(f brand.Fields) pgDocument {
	return pgDocument{
		Name:              f.Name,
		Description:       f.Description,
		Website:           f.Website,
		Email:             f.Email,
		Country:           f.Country,
		FoundedYear:       f.FoundedYear,
		Status:            f.Status,
		AvailableLocation: f.AvailableLocation,
		TotalProduct:      f.TotalProduct,
		Rating:            f.Rating,
	}
}

func (d pgDocument) fields() brand.Fields {
	return brand.Fields{
		Name:              d.Name,
		Description:       d.Description,
		Website:           d.Website,
		Email:             d.Email,
		Country:           d.Country,
		FoundedYear:       d.FoundedYear,
		Status:            d.Status,
		AvailableLocation: d.AvailableLocation,
		TotalProduct:      d.TotalProduct,
		Rating:            d.Rating,
	}
}

const selectBrandColumns = "id, doc, created_at, updated_at"

// pgSortColumns maps sortable document fields onto SQL expressions.
var pgSortColumns = map[string]string{
	brand.FieldName:      "doc->>'name'",
	brand.FieldCreatedAt: "created_at",
	brand.FieldUpdatedAt: "updated_at",
}

// PgListQuery is a translated list request: the WHERE clause shared by the
// page and count statements and their positional arguments.
type PgListQuery struct {
	Where string
	Args  []any
	Order string
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// BuildPgListQuery translates a normalized ListQuery into SQL fragments.
//
// Without a sort key rows come back in id order; ObjectIDs grow with
// insertion time so this matches Mongo's natural order for fresh data.
func BuildPgListQuery(q brand.ListQuery) PgListQuery {
	var conds []string
	var args []any

	if q.Filter.Search != "" {
		args = append(args, "%"+escapeLike(q.Filter.Search)+"%")
		conds = append(conds, fmt.Sprintf(`doc->>'name' ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if q.Filter.MinRating != nil {
		args = append(args, *q.Filter.MinRating)
		conds = append(conds, fmt.Sprintf("(doc->>'rating')::float8 >= $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	order := " ORDER BY id"
	if sf, ok := q.Sort.Field(); ok {
		dir := "ASC"
		if sf.Desc {
			dir = "DESC"
		}
		order = fmt.Sprintf(" ORDER BY %s %s, id %s", pgSortColumns[sf.Field], dir, dir)
	}

	return PgListQuery{Where: where, Args: args, Order: order}
}

// PageSQL returns the statement selecting one page plus its arguments.
func (p PgListQuery) PageSQL(limit int, skip int64) (string, []any) {
	args := append(append([]any{}, p.Args...), limit, skip)
	sql := fmt.Sprintf("SELECT %s FROM brands%s%s LIMIT $%d OFFSET $%d",
		selectBrandColumns, p.Where, p.Order, len(args)-1, len(args))
	return sql, args
}

// CountSQL returns the statement counting every matching row.
func (p PgListQuery) CountSQL() (string, []any) {
	return "SELECT count(*) FROM brands" + p.Where, p.Args
}

func scanBrand(row pgx.Row) (*brand.Brand, error) {
	var (
		id  string
		doc pgDocument
		b   brand.Brand
	)
	if err := row.Scan(&id, &doc, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("stored brand id %q: %w", id, err)
	}
	b.ID = oid
	doc.fields().Apply(&b)
	return &b, nil
}

func (r *PostgresBrandRepository) Create(ctx context.Context, b *brand.Brand) error {
	now := r.now()
	if b.ID.IsZero() {
		b.ID = brand.NewID()
	}
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		"INSERT INTO brands (id, doc, created_at, updated_at) VALUES ($1, $2, $3, $4)",
		b.ID.Hex(), newPgDocument(brand.FieldsOf(b)), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert brand: %w", err)
	}
	return nil
}

func (r *PostgresBrandRepository) FindByID(ctx context.Context, id string) (*brand.Brand, error) {
	if _, err := brand.ParseID(id); err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, "SELECT "+selectBrandColumns+" FROM brands WHERE id = $1", id)
	b, err := scanBrand(row)
	if err != nil {
		return nil, dberr.WithTable(fmt.Errorf("find brand %s: %w", id, err), brandsTable)
	}
	return b, nil
}

func (r *PostgresBrandRepository) FindAll(ctx context.Context, q brand.ListQuery) ([]*brand.Brand, int64, error) {
	q = q.Normalized()
	built := BuildPgListQuery(q)

	countSQL, countArgs := built.CountSQL()
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count brands: %w", err)
	}

	pageSQL, pageArgs := built.PageSQL(q.Limit, q.Skip())
	rows, err := r.db.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("find brands: %w", err)
	}
	defer rows.Close()

	brands := make([]*brand.Brand, 0, q.Limit)
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate brands: %w", err)
	}
	return brands, total, nil
}

func (r *PostgresBrandRepository) Update(ctx context.Context, id string, f brand.Fields) (*brand.Brand, error) {
	if _, err := brand.ParseID(id); err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx,
		"UPDATE brands SET doc = $2, updated_at = $3 WHERE id = $1 RETURNING "+selectBrandColumns,
		id, newPgDocument(f), r.now())
	b, err := scanBrand(row)
	if err != nil {
		return nil, dberr.WithTable(fmt.Errorf("update brand %s: %w", id, err), brandsTable)
	}
	return b, nil
}

func (r *PostgresBrandRepository) Delete(ctx context.Context, id string) error {
	if _, err := brand.ParseID(id); err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM brands WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete brand %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.WithTable(pgx.ErrNoRows, brandsTable)
	}
	return nil
}

func (r *PostgresBrandRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM brands WHERE doc->>'name' = $1 AND id <> $2)",
		name, excludeID).Scan(&exists)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("check brand name: %w", err)
	}
	return exists, nil
}
