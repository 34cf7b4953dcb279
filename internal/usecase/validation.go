package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

const defaultPhoneRegion = "US"

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	validate  = newValidator()
	slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})
	return v
}

// validateStruct runs the struct tags and flattens failures into field errors.
func validateStruct(s any) []ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Field: "body", Message: err.Error()}}
	}
	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{Field: fieldPath(fe), Message: describe(fe)})
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is invalid"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must not exceed " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "numeric":
		return "must be numeric"
	case "gte":
		return "must be at least " + fe.Param()
	case "startswith":
		return "must start with " + fe.Param()
	case "slug":
		return "must be lowercase letters, digits and dashes"
	case "uuid":
		return "must be a UUID"
	}
	return "is invalid"
}

// NormalizePhone parses a phone number and formats it as E.164. Numbers
// without a country code are read as US numbers.
func NormalizePhone(raw string) (string, error) {
	num, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return "", err
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", errors.New("not a valid phone number")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	errs := validateStruct(input)

	if input.FormType == FormTypeOrganicAudit && strings.TrimSpace(input.BusinessSize) == "" {
		errs = append(errs, ValidationError{"business_size", "is required for organic audit requests"})
	}
	switch input.LeadType {
	case "package":
		if input.SelectedTier == "" {
			errs = append(errs, ValidationError{"selected_tier", "is required for package leads"})
		}
	default:
		if input.SelectedTier != "" {
			errs = append(errs, ValidationError{"selected_tier", "is only allowed for package leads"})
		}
	}
	if strings.TrimSpace(input.Phone) != "" {
		if _, err := NormalizePhone(input.Phone); err != nil {
			errs = append(errs, ValidationError{"phone", "must be a valid phone number"})
		}
	}
	return errs
}
