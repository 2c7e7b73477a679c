package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/deppfellow/brand-api/internal/dberr"
	"github.com/deppfellow/brand-api/internal/model/brand"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBrandRepository stores brands as documents of a Mongo collection.
type MongoBrandRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoBrandRepository(coll *mongo.Collection) *MongoBrandRepository {
	return &MongoBrandRepository{coll: coll, now: mongoNow}
}

// mongoNow truncates to the millisecond precision of BSON dates so the
// returned brand equals what a later read gives back.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// MongoFilter builds the find/count filter. The search term is matched
// literally and case-insensitively anywhere in the name.
func MongoFilter(f brand.Filter) bson.M {
	filter := bson.M{}
	if f.Search != "" {
		filter[brand.FieldName] = bson.M{
			"$regex":   regexp.QuoteMeta(f.Search),
			"$options": "i",
		}
	}
	if f.MinRating != nil {
		filter["rating"] = bson.M{"$gte": *f.MinRating}
	}
	return filter
}

// MongoSort returns the sort document of key, or nil for natural order.
func MongoSort(key brand.SortKey) bson.D {
	sf, ok := key.Field()
	if !ok {
		return nil
	}
	dir := 1
	if sf.Desc {
		dir = -1
	}
	return bson.D{{Key: sf.Field, Value: dir}}
}

// MongoFindOptions applies sort, skip and limit of a normalized query.
func MongoFindOptions(q brand.ListQuery) *options.FindOptions {
	opts := options.Find().
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit))
	if sort := MongoSort(q.Sort); sort != nil {
		opts.SetSort(sort)
	}
	return opts
}

// MongoUpdate replaces every writable field: optional fields left empty are
// unset rather than kept from the previous version.
func MongoUpdate(f brand.Fields, now time.Time) bson.M {
	set := bson.M{
		"name":        f.Name,
		"email":       f.Email,
		"foundedYear": f.FoundedYear,
		"status":      f.Status,
		"rating":      f.Rating,
		"updatedAt":   now,
	}
	unset := bson.M{}

	optional := map[string]string{
		"description":       f.Description,
		"website":           f.Website,
		"country":           f.Country,
		"availableLocation": f.AvailableLocation,
	}
	for key, value := range optional {
		if value == "" {
			unset[key] = ""
		} else {
			set[key] = value
		}
	}

	if f.TotalProduct != nil {
		set["totalProduct"] = *f.TotalProduct
	} else {
		unset["totalProduct"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

func (r *MongoBrandRepository) Create(ctx context.Context, b *brand.Brand) error {
	now := r.now()
	if b.ID.IsZero() {
		b.ID = brand.NewID()
	}
	b.CreatedAt = now
	b.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("insert brand: %w", err)
	}
	return nil
}

func (r *MongoBrandRepository) FindByID(ctx context.Context, id string) (*brand.Brand, error) {
	oid, err := brand.ParseID(id)
	if err != nil {
		return nil, err
	}

	var b brand.Brand
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&b); err != nil {
		return nil, dberr.WithTable(fmt.Errorf("find brand %s: %w", id, err), brandsTable)
	}
	return &b, nil
}

func (r *MongoBrandRepository) FindAll(ctx context.Context, q brand.ListQuery) ([]*brand.Brand, int64, error) {
	q = q.Normalized()
	filter := MongoFilter(q.Filter)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count brands: %w", err)
	}

	cursor, err := r.coll.Find(ctx, filter, MongoFindOptions(q))
	if err != nil {
		return nil, 0, fmt.Errorf("find brands: %w", err)
	}

	brands := make([]*brand.Brand, 0, q.Limit)
	if err := cursor.All(ctx, &brands); err != nil {
		return nil, 0, fmt.Errorf("decode brands: %w", err)
	}
	return brands, total, nil
}

func (r *MongoBrandRepository) Update(ctx context.Context, id string, f brand.Fields) (*brand.Brand, error) {
	oid, err := brand.ParseID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var b brand.Brand
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, MongoUpdate(f, r.now()), opts).Decode(&b)
	if err != nil {
		return nil, dberr.WithTable(fmt.Errorf("update brand %s: %w", id, err), brandsTable)
	}
	return &b, nil
}

func (r *MongoBrandRepository) Delete(ctx context.Context, id string) error {
	oid, err := brand.ParseID(id)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete brand %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return dberr.WithTable(mongo.ErrNoDocuments, brandsTable)
	}
	return nil
}

func (r *MongoBrandRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	filter := bson.M{brand.FieldName: name}
	if excludeID != "" {
		oid, err := brand.ParseID(excludeID)
		if err != nil {
			return false, err
		}
		filter["_id"] = bson.M{"$ne": oid}
	}

	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check brand name: %w", err)
	}
	return n > 0, nil
}
