// Package validation runs struct-tag checks and turns violations into one
// readable message per field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"edupath/internal/utils"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// fieldMessages overrides the generic text for known fields.
var fieldMessages = map[string]string{
	"email":              "Please enter a valid email address",
	"password":           "Password must be at least 6 characters long",
	"full_name":          "Full name must be at least 2 characters long",
	"role":               "Role must be one of student, parent, counselor, admin",
	"preferred_language": "Preferred language must be one of en, hi, ks",
}

// Struct validates v. It returns nil or a *utils.ValidationError with the
// first violated rule of every field, in declaration order.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &utils.ValidationError{}
	seen := map[string]bool{}
	for _, fe := range verrs {
		name := fe.Field()
		if seen[name] {
			continue
		}
		seen[name] = true
		out.Fields = append(out.Fields, utils.FieldError{
			Field:   name,
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	if fe.Tag() == "required" && fe.Field() != "password" {
		return fmt.Sprintf("%s is required", humanize(fe.Field()))
	}
	if msg, ok := fieldMessages[fe.Field()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", humanize(fe.Field()), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", humanize(fe.Field()), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", humanize(fe.Field()))
	}
}

func humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
