// Package validation оборачивает валидатор struct-тегов, общий для конфигураций алгоритмов.
package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct проверяет теги `validate` у v и возвращает первое нарушение.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Errorf("%s: должно выполняться %s=%s (получено %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("%s: должно выполняться %s (получено %v)", fe.Field(), fe.Tag(), fe.Value())
	}
	return err
}
