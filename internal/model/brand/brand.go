// Package brand holds the Brand document, its request payloads and the
// backend-neutral list query built from query-string parameters.
package brand

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the lifecycle state of a brand.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Brand is the stored document.
//
// Optional numeric fields are pointers so that "not provided" survives a
// round trip through either store.
type Brand struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Description       string             `bson:"description,omitempty" json:"description,omitempty"`
	Website           string             `bson:"website,omitempty" json:"website,omitempty"`
	Email             string             `bson:"email" json:"email"`
	Country           string             `bson:"country,omitempty" json:"country,omitempty"`
	FoundedYear       int                `bson:"foundedYear" json:"foundedYear"`
	Status            Status             `bson:"status" json:"status"`
	AvailableLocation string             `bson:"availableLocation,omitempty" json:"availableLocation,omitempty"`
	TotalProduct      *int               `bson:"totalProduct,omitempty" json:"totalProduct,omitempty"`
	Rating            float64            `bson:"rating" json:"rating"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Fields is the writable part of a brand, shared by create and update.
type Fields struct {
	Name              string
	Description       string
	Website           string
	Email             string
	Country           string
	FoundedYear       int
	Status            Status
	AvailableLocation string
	TotalProduct      *int
	Rating            float64
}

// Apply copies the writable fields onto b.
func (f Fields) Apply(b *Brand) {
	b.Name = f.Name
	b.Description = f.Description
	b.Website = f.Website
	b.Email = f.Email
	b.Country = f.Country
	b.FoundedYear = f.FoundedYear
	b.Status = f.Status
	b.AvailableLocation = f.AvailableLocation
	b.TotalProduct = f.TotalProduct
	b.Rating = f.Rating
}

// FieldsOf extracts the writable fields of b.
func FieldsOf(b *Brand) Fields {
	return Fields{
		Name:              b.Name,
		Description:       b.Description,
		Website:           b.Website,
		Email:             b.Email,
		Country:           b.Country,
		FoundedYear:       b.FoundedYear,
		Status:            b.Status,
		AvailableLocation: b.AvailableLocation,
		TotalProduct:      b.TotalProduct,
		Rating:            b.Rating,
	}
}

// IsValidID reports whether id is a 24 character hex ObjectID.
func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// ParseID converts a hex id into an ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(id)
}

// NewID allocates a fresh ObjectID; the Postgres backend uses it too so both
// stores expose the same id format.
func NewID() primitive.ObjectID {
	return primitive.NewObjectID()
}
