package brand

import (
	"fmt"
	"strings"

	"github.com/deppfellow/brand-api/internal/validation"
)

// Request messages mirror the wording clients of the brand API rely on.
const (
	msgRating       = "Rating must be a number between 0 and 5"
	msgTotalProduct = "Total Product must be a non-negative integer"
)

// ------------------------------------------------------------

// BrandPayload is the JSON body accepted by create and update.
//
// Required numbers are pointers so a missing field is told apart from zero
// (a rating of 0 is valid, a missing rating is not).
type BrandPayload struct {
	Name              string   `json:"name" validate:"required,brandname"`
	Description       string   `json:"description"`
	Website           string   `json:"website" validate:"omitempty,url"`
	Email             string   `json:"email" validate:"required,email"`
	Country           string   `json:"country"`
	FoundedYear       *int     `json:"foundedYear" validate:"required,min=1800,notfutureyear"`
	Status            Status   `json:"status" validate:"required,oneof=Active Inactive"`
	AvailableLocation string   `json:"availableLocation"`
	TotalProduct      *int     `json:"totalProduct" validate:"omitempty,min=0"`
	Rating            *float64 `json:"rating" validate:"required,min=0,max=5"`
}

func (p *BrandPayload) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Website = strings.TrimSpace(p.Website)
}

// Validate trims the payload then runs the tag rules.
func (p *BrandPayload) Validate() error {
	p.normalize()
	return validation.Struct(p)
}

// ValidationMessages implements validation.MessageProvider.
func (p *BrandPayload) ValidationMessages() map[string]string {
	yearRange := fmt.Sprintf("Founded Year must be a valid year between %d and %d",
		validation.MinFoundedYear, validation.CurrentYear())

	return map[string]string{
		"name.required":             "Name is required",
		"name.brandname":            "Special characters are not allowed",
		"website.url":               "Website must be a valid URL",
		"email.required":            "Email is required",
		"email.email":               "Email must be a valid email address",
		"foundedYear.required":      "Founded Year is required",
		"foundedYear.min":           yearRange,
		"foundedYear.notfutureyear": yearRange,
		"status.required":           "Status is required",
		"status.oneof":              "Status must be either 'Active' or 'Inactive'",
		"totalProduct.min":          msgTotalProduct,
		"rating.required":           "Rating is required",
		"rating.min":                msgRating,
		"rating.max":                msgRating,

		// Type mismatches found while decoding the body.
		"name":              "Name must be a string",
		"description":       "Description must be a string",
		"website":           "Website must be a string",
		"email":             "Email must be a string",
		"country":           "Country must be a string",
		"foundedYear":       "Founded Year must be a valid number",
		"status":            "Status must be a string",
		"availableLocation": "Available Location must be a string",
		"totalProduct":      msgTotalProduct,
		"rating":            msgRating,
	}
}

// Fields converts a validated payload into the writable brand fields.
func (p *BrandPayload) Fields() Fields {
	f := Fields{
		Name:              p.Name,
		Description:       p.Description,
		Website:           p.Website,
		Email:             p.Email,
		Country:           p.Country,
		Status:            p.Status,
		AvailableLocation: p.AvailableLocation,
		TotalProduct:      p.TotalProduct,
	}
	if p.FoundedYear != nil {
		f.FoundedYear = *p.FoundedYear
	}
	if p.Rating != nil {
		f.Rating = *p.Rating
	}
	return f
}

// ------------------------------------------------------------

// CreateBrandRequest is the body of POST /api/brands.
type CreateBrandRequest struct {
	BrandPayload
}

// ------------------------------------------------------------

// UpdateBrandRequest is PUT /api/brands/:id; the body replaces every field.
type UpdateBrandRequest struct {
	ID string `param:"id" json:"-"`
	BrandPayload
}

// ------------------------------------------------------------

// GetBrandRequest is GET /api/brands/:id.
type GetBrandRequest struct {
	ID string `param:"id" validate:"required"`
}

func (r *GetBrandRequest) Validate() error {
	return validation.Struct(r)
}

// ------------------------------------------------------------

// DeleteBrandRequest is DELETE /api/brands/:id.
type DeleteBrandRequest struct {
	ID string `param:"id" validate:"required"`
}

func (r *DeleteBrandRequest) Validate() error {
	return validation.Struct(r)
}

// ------------------------------------------------------------

// ListBrandsRequest carries the query string of GET /api/brands.
//
// Zero values mean "not provided": page and limit fall back to their
// defaults and a zero rating filters nothing out.
type ListBrandsRequest struct {
	Search string  `query:"search"`
	Rating float64 `query:"rating" validate:"min=0,max=5"`
	Sort   string  `query:"sort" validate:"omitempty,oneof=name nameDesc createdAtAsc createdAtDesc updatedAtAsc updatedAtDesc"`
	Page   int     `query:"page" validate:"min=0"`
	Limit  int     `query:"limit" validate:"min=0,max=100"`
}

func (r *ListBrandsRequest) Validate() error {
	r.Search = strings.TrimSpace(r.Search)
	return validation.Struct(r)
}

// ValidationMessages implements validation.MessageProvider.
func (r *ListBrandsRequest) ValidationMessages() map[string]string {
	limitRange := fmt.Sprintf("Limit must be between 1 and %d", MaxLimit)

	return map[string]string{
		"rating.min": msgRating,
		"rating.max": msgRating,
		"sort.oneof": "Sort must be one of: " + strings.Join(SortKeyNames(), ", "),
		"page.min":   "Page must be at least 1",
		"limit.min":  limitRange,
		"limit.max":  limitRange,

		"rating": msgRating,
		"page":   "Page must be a positive integer",
		"limit":  limitRange,
	}
}

// Query converts the validated request into a ListQuery with defaults applied.
func (r *ListBrandsRequest) Query() ListQuery {
	q := ListQuery{
		Filter: Filter{Search: r.Search},
		Sort:   SortKey(r.Sort),
		Page:   DefaultPage,
		Limit:  DefaultLimit,
	}
	if r.Rating > 0 {
		rating := r.Rating
		q.Filter.MinRating = &rating
	}
	if r.Page > 0 {
		q.Page = r.Page
	}
	if r.Limit > 0 {
		q.Limit = r.Limit
	}
	return q
}

// ------------------------------------------------------------

// ListBrandsResponse is the paginated result of GET /api/brands.
type ListBrandsResponse struct {
	Success bool     `json:"success"`
	Data    []*Brand `json:"data"`
	Total   int64    `json:"total"`
	Page    int      `json:"page"`
	Limit   int      `json:"limit"`
}

// BrandResponse wraps a single brand.
type BrandResponse struct {
	Success bool   `json:"success"`
	Data    *Brand `json:"data"`
	Message string `json:"message,omitempty"`
}

// MessageResponse is returned when there is no document to send back.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
