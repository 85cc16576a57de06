package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/khrees2412/mockprep/internal/app"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json names so messages line up with form fields
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// messages maps "<json field>.<tag>" to the message shown to the user
type messages map[string]string

// check validates s and translates failures into an ordered ValidationError
func check(s any, msgs messages) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	ve := &app.ValidationError{}
	for _, fe := range verrs {
		msg, ok := msgs[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		ve.Fields = append(ve.Fields, app.FieldError{Field: fe.Field(), Message: msg})
	}
	return ve
}

// collector gathers field errors for rules that are not struct tags
type collector struct {
	fields []app.FieldError
}

func (c *collector) add(field, message string) {
	c.fields = append(c.fields, app.FieldError{Field: field, Message: message})
}

func (c *collector) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &app.ValidationError{Fields: c.fields}
}
