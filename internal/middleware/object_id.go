package middleware

import (
	"github.com/deppfellow/brand-api/internal/errs"
	"github.com/deppfellow/brand-api/internal/model/brand"
	"github.com/labstack/echo/v4"
)

// ValidateObjectID rejects requests whose path parameter param is not a
// 24 character hex ObjectID.
func ValidateObjectID(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !brand.IsValidID(c.Param(param)) {
				return errs.NewInvalidIDError()
			}
			return next(c)
		}
	}
}
