package validate

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string {
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// From flattens ozzo validation errors into field/message pairs sorted by field.
// Nested errors are joined with a dot, e.g. "cardDetails.number".
// It returns nil when err carries no field errors.
func From(err error) Errs {
	var ve validation.Errors
	if !errors.As(err, &ve) {
		return nil
	}
	var out Errs
	flatten("", ve, &out)
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func flatten(prefix string, ve validation.Errors, out *Errs) {
	for field, err := range ve {
		if err == nil {
			continue
		}
		name := field
		if prefix != "" {
			name = prefix + "." + field
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			flatten(name, nested, out)
			continue
		}
		*out = append(*out, ErrField{Field: name, Msg: err.Error()})
	}
}
