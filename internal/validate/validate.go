// Package validate runs struct tag validation and reports failures as
// structured errors.
package validate

import (
	stderrors "errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wippyai/ascabi/errors"
)

// validate is shared; building a validator per call is expensive.
var validate = validator.New()

// Struct validates v against its `validate` tags. Failures are reported as
// a KindInvalidInput error in phase, with the offending fields as its path.
func Struct(phase errors.Phase, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fields validator.ValidationErrors
	if !stderrors.As(err, &fields) {
		return errors.Wrap(phase, errors.KindInvalidInput, err, "validate")
	}

	path := make([]string, 0, len(fields))
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		path = append(path, f.Field())
		msgs = append(msgs, f.Field()+" failed '"+f.Tag()+"'")
	}
	return errors.New(phase, errors.KindInvalidInput).
		Path(path...).
		Detail("%s", strings.Join(msgs, ", ")).
		Cause(err).
		Build()
}
