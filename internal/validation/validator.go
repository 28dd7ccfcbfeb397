package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"kitchenwise.dev/api/internal/exceptions"
)

// Validator checks request structs and reports every failed field at once.
type Validator struct {
	validate *validator.Validate
	messages map[string]string
}

// New builds a Validator. messages are keyed by "field.tag" or "field",
// using JSON field names; the most specific key wins.
func New(messages map[string]string) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return true
		}
		return strings.TrimSpace(field.String()) != ""
	})
	return &Validator{
		validate: v,
		messages: messages,
	}
}

func (v *Validator) _message(fe validator.FieldError) string {
	if msg, ok := v.messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := v.messages[fe.Field()]; ok {
		return msg
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}

// Struct returns nil or a *exceptions.ValidationError listing each violation.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return exceptions.InvalidInput(err.Error())
	}
	seen := make(map[string]bool, len(fieldErrors))
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		msg := v._message(fe)
		if !seen[msg] {
			seen[msg] = true
			messages = append(messages, msg)
		}
	}
	return exceptions.Validation(messages...)
}
