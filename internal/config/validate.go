package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report settings by their logical key rather than the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateSettings checks required settings and the port range. Missing keys
// are reported in field order, which is host, user, password.
func validateSettings(s *settings) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Error{Kind: KindInvalidSetting, Err: err}
	}

	var missing []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return &Error{Kind: KindMissingSettings, Missing: missing}
	}

	fe := fieldErrs[0]
	return &Error{Kind: KindInvalidSetting, Err: fmt.Errorf("%s %v fails %q", fe.Field(), fe.Value(), fe.Tag()+"="+fe.Param())}
}
