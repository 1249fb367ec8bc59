package validation

import (
	"errors"
	"fmt"
	"reflect"

	validatorv10 "github.com/go-playground/validator/v10"
)

// ErrClientInput is returned for bodies that cannot be parsed or that miss a
// required field. Both are answered the same way.
var ErrClientInput = errors.New("missing required fields")

// New returns a validator that understands Price.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// Price has no exported fields; expose its value so "required" applies
	// the same falsy rules as IsSet.
	v.RegisterCustomTypeFunc(priceValue, Price{})

	return v
}

// priceValue must not render numeric prices: a short exponent form can
// expand to an arbitrarily long digit string.
func priceValue(field reflect.Value) interface{} {
	p, ok := field.Interface().(Price)
	return ok && p.IsSet()
}

// Validate runs struct validation and wraps failures in ErrClientInput.
func Validate(v *validatorv10.Validate, req interface{}) error {
	if err := v.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrClientInput, fieldList(err))
	}
	return nil
}

func fieldList(err error) []string {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(ve))
	for _, fe := range ve {
		out = append(out, fe.Field())
	}
	return out
}
