package domain

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	_ "time/tzdata" // timezone validation must not depend on the host zoneinfo

	"github.com/go-playground/validator/v10"
)

var (
	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	hhmmRe    = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// The patterns only check shape, matching what the upstream accepts.
	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		return isoDateRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "hhmm", func(fl validator.FieldLevel) bool {
		return hhmmRe.MatchString(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// ValidateBirthInput checks field constraints and returns a *ValidationError
// listing every rejected field, or nil.
func ValidateBirthInput(in BirthInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: []FieldError{{Field: "body", Message: err.Error()}}}
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		return "Nome deve ter pelo menos 2 caracteres"
	case "birthDate":
		return "Data deve estar no formato YYYY-MM-DD"
	case "birthTime":
		return "Hora deve estar no formato HH:MM"
	case "birthCity":
		return "Cidade deve ter pelo menos 2 caracteres"
	case "timezone":
		return "Fuso horário deve ser um nome IANA válido"
	case "latitude":
		return "Latitude deve estar entre -90 e 90"
	case "longitude":
		return "Longitude deve estar entre -180 e 180"
	default:
		return fe.Field() + " inválido"
	}
}
