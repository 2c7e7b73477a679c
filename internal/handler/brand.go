package handler

import (
	"context"
	"net/http"

	"github.com/deppfellow/brand-api/internal/model/brand"
	"github.com/deppfellow/brand-api/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	msgBrandCreated = "Brand created successfully."
	msgBrandUpdated = "Brand updated successfully."
	msgBrandDeleted = "Brand deleted successfully."
)

// BrandService is the part of service.BrandService the handlers call.
type BrandService interface {
	Create(ctx context.Context, f brand.Fields) (*brand.Brand, error)
	List(ctx context.Context, q brand.ListQuery) ([]*brand.Brand, int64, error)
	Get(ctx context.Context, id string) (*brand.Brand, error)
	Update(ctx context.Context, id string, f brand.Fields) (*brand.Brand, error)
	Delete(ctx context.Context, id string) error
}

// BrandHandler serves the /api/brands resource.
type BrandHandler struct {
	Handler
	brands BrandService
}

func NewBrandHandler(s *server.Server, brands BrandService) *BrandHandler {
	return &BrandHandler{
		Handler: NewHandler(s),
		brands:  brands,
	}
}

func (h *BrandHandler) CreateBrand(c echo.Context, req *brand.CreateBrandRequest) (*brand.BrandResponse, error) {
	b, err := h.brands.Create(c.Request().Context(), req.Fields())
	if err != nil {
		return nil, err
	}
	return &brand.BrandResponse{Success: true, Data: b, Message: msgBrandCreated}, nil
}

func (h *BrandHandler) ListBrands(c echo.Context, req *brand.ListBrandsRequest) (*brand.ListBrandsResponse, error) {
	q := req.Query()

	brands, total, err := h.brands.List(c.Request().Context(), q)
	if err != nil {
		return nil, err
	}
	if brands == nil {
		brands = []*brand.Brand{}
	}

	return &brand.ListBrandsResponse{
		Success: true,
		Data:    brands,
		Total:   total,
		Page:    q.Page,
		Limit:   q.Limit,
	}, nil
}

func (h *BrandHandler) GetBrand(c echo.Context, req *brand.GetBrandRequest) (*brand.BrandResponse, error) {
	b, err := h.brands.Get(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return &brand.BrandResponse{Success: true, Data: b}, nil
}

func (h *BrandHandler) UpdateBrand(c echo.Context, req *brand.UpdateBrandRequest) (*brand.BrandResponse, error) {
	b, err := h.brands.Update(c.Request().Context(), req.ID, req.Fields())
	if err != nil {
		return nil, err
	}
	return &brand.BrandResponse{Success: true, Data: b, Message: msgBrandUpdated}, nil
}

func (h *BrandHandler) DeleteBrand(c echo.Context, req *brand.DeleteBrandRequest) (*brand.MessageResponse, error) {
	if err := h.brands.Delete(c.Request().Context(), req.ID); err != nil {
		return nil, err
	}
	return &brand.MessageResponse{Success: true, Message: msgBrandDeleted}, nil
}

func newCreateBrandRequest() *brand.CreateBrandRequest { return &brand.CreateBrandRequest{} }
func newListBrandsRequest() *brand.ListBrandsRequest   { return &brand.ListBrandsRequest{} }
func newGetBrandRequest() *brand.GetBrandRequest       { return &brand.GetBrandRequest{} }
func newUpdateBrandRequest() *brand.UpdateBrandRequest { return &brand.UpdateBrandRequest{} }
func newDeleteBrandRequest() *brand.DeleteBrandRequest { return &brand.DeleteBrandRequest{} }

// Routes returns the echo handlers for each brand operation.
func (h *BrandHandler) Routes() BrandRoutes {
	return BrandRoutes{
		Create: Handle(h.Handler, h.CreateBrand, http.StatusCreated, newCreateBrandRequest),
		List:   Handle(h.Handler, h.ListBrands, http.StatusOK, newListBrandsRequest),
		Get:    Handle(h.Handler, h.GetBrand, http.StatusOK, newGetBrandRequest),
		Update: Handle(h.Handler, h.UpdateBrand, http.StatusOK, newUpdateBrandRequest),
		Delete: Handle(h.Handler, h.DeleteBrand, http.StatusOK, newDeleteBrandRequest),
	}
}

// BrandRoutes holds the ready-to-mount brand endpoints.
type BrandRoutes struct {
	Create echo.HandlerFunc
	List   echo.HandlerFunc
	Get    echo.HandlerFunc
	Update echo.HandlerFunc
	Delete echo.HandlerFunc
}
