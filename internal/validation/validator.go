package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// MinFoundedYear is the oldest founding year a brand may declare.
const MinFoundedYear = 1800

// brandNameRegex allows letters, digits and whitespace only.
var brandNameRegex = regexp.MustCompile(`^[A-Za-z0-9\s]*$`)

// now is swapped by tests that need a fixed calendar.
var now = time.Now

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator instance with the custom tags
// registered and field names reported by their json (or query) tag.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		if err := validate.RegisterValidation("brandname", validateBrandName); err != nil {
			panic(err)
		}
		if err := validate.RegisterValidation("notfutureyear", validateNotFutureYear); err != nil {
			panic(err)
		}

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "query", "param"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	})
	return validate
}

// Struct validates s with the shared validator.
func Struct(s any) error {
	return Validator().Struct(s)
}

// CurrentYear is the upper bound enforced by the notfutureyear tag.
func CurrentYear() int {
	return now().Year()
}

func validateBrandName(fl validator.FieldLevel) bool {
	return brandNameRegex.MatchString(fl.Field().String())
}

func validateNotFutureYear(fl validator.FieldLevel) bool {
	return fl.Field().Int() <= int64(CurrentYear())
}
