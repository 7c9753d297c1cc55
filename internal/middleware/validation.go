package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "supplychain/internal/errors"
)

// Validator binds query parameters into request structs and validates them
// against their struct tags
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a validator that reports fields by their query names
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := tagName(fld, "query"); name != "" {
			return name
		}
		if name := tagName(fld, "param"); name != "" {
			return name
		}
		return tagName(fld, "json")
	})

	return &Validator{
		validate: v,
		logger:   logger.With(slog.String("component", "validator")),
	}
}

func tagName(fld reflect.StructField, key string) string {
	name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// ValidateStruct validates v. Failures are validator.ValidationErrors, which
// the error handler renders as a 400 problem listing each field.
func (m *Validator) ValidateStruct(v interface{}) error {
	return m.validate.Struct(v)
}

// BindQuery fills the query-tagged fields of dst (a pointer to a struct,
// embedded structs included) from the request's query string and validates
// the result. Supported field kinds are string, []string and bool.
func (m *Validator) BindQuery(r *http.Request, dst interface{}) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind query: destination must be a pointer to a struct, got %T", dst)
	}

	if err := bindValues(rv.Elem(), r.URL.Query()); err != nil {
		m.logger.DebugContext(r.Context(), "query binding failed",
			slog.String("query", r.URL.RawQuery),
			slog.String("error", err.Error()))
		return err
	}

	if err := m.ValidateStruct(dst); err != nil {
		m.logger.DebugContext(r.Context(), "query validation failed",
			slog.String("query", r.URL.RawQuery),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

func bindValues(v reflect.Value, values map[string][]string) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)

		if field.Anonymous && fv.Kind() == reflect.Struct {
			if err := bindValues(fv, values); err != nil {
				return err
			}
			continue
		}

		name := tagName(field, "query")
		if name == "" || !fv.CanSet() {
			continue
		}
		raw, ok := values[name]
		if !ok || len(raw) == 0 {
			continue
		}

		switch fv.Kind() {
		case reflect.String:
			fv.SetString(strings.TrimSpace(raw[0]))
		case reflect.Slice:
			if fv.Type().Elem().Kind() != reflect.String {
				return fmt.Errorf("bind query: unsupported slice type for %s", name)
			}
			out := make([]string, 0, len(raw))
			for _, s := range raw {
				out = append(out, strings.TrimSpace(s))
			}
			fv.Set(reflect.ValueOf(out))
		case reflect.Bool:
			b, err := parseFlag(raw[0])
			if err != nil {
				return apierrors.ErrValidation(name, fmt.Sprintf("%s must be a boolean", name))
			}
			fv.SetBool(b)
		default:
			return fmt.Errorf("bind query: unsupported field type %s for %s", fv.Kind(), name)
		}
	}
	return nil
}

// parseFlag accepts the usual boolean spellings plus "on" from checkboxes
func parseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(s)
}
