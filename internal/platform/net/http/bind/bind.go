// Package bind decodes request bodies and query strings into structs and validates them
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	perr "confsrv/internal/platform/errors"
	"confsrv/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// ValidatorSvc holds the validator singleton and its english translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *ValidatorSvc
)

// setting names are lowercase identifiers, optionally namespaced with a dot
var settingName = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z0-9_]+)*$`)

// Get returns the validator, building it on first use
func Get() *ValidatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		trans, _ := ut.New(enLoc, enLoc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(fieldName)
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		shortMessage(v, trans, "min", "{0} must be at least {1}")
		shortMessage(v, trans, "max", "{0} must be at most {1}")
		shortMessage(v, trans, "gte", "{0} must be at least {1}")
		shortMessage(v, trans, "lte", "{0} must be at most {1}")

		_ = v.RegisterValidation("setting_name", func(fl validator.FieldLevel) bool {
			return settingName.MatchString(fl.Field().String())
		})
		shortMessage(v, trans, "setting_name", "{0} must be a lowercase setting name")

		vSvc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return vSvc
}

// fieldName prefers the json tag, then the query tag, in validation messages
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "query"} {
		tag, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if tag != "" && tag != "-" {
			return tag
		}
	}
	return f.Name
}

// Struct validates v and maps the first failure to a validation error tagged with the field
func Struct(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Msg("validator internal error")
		return perr.Internalf("validation error")
	}
	field, msg := ValidationFieldAndMessage(err)
	out := perr.Newf(perr.ErrorCodeValidation, "%s", msg)
	if field != "" {
		out = perr.WithField(out, field)
	}
	return out
}

// ValidationFieldAndMessage returns the first failing field and its translated message
func ValidationFieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Translator)
	}
	return "", err.Error()
}

// JSONOptions controls body decoding
type JSONOptions struct {
	MaxBytes        int64
	DisallowUnknown bool
	AllowEmptyBody  bool
}

// DefaultJSON caps bodies at 1MB and rejects unknown fields
var DefaultJSON = JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: true}

// ParseJSON decodes the body into T and validates it
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := DefaultJSON
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("failed to close request body")
		}
	}()

	var body io.Reader = r.Body
	if o.MaxBytes > 0 {
		body = io.LimitReader(r.Body, o.MaxBytes)
	}
	// peek one byte so an empty body is reported as such
	head := make([]byte, 1)
	n, _ := io.ReadFull(body, head)
	if n == 0 {
		if o.AllowEmptyBody {
			return zero, nil
		}
		return zero, perr.JSONErrf("empty body")
	}

	dec := json.NewDecoder(io.MultiReader(bytes.NewReader(head), body))
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}
	var dst T
	if err := dec.Decode(&dst); err != nil {
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, perr.JSONErrf("unexpected trailing data")
	}
	if err := Struct(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

// ParseQuery fills T from the query string using `query:"name"` tags and validates it.
// Supported field kinds are string, bool and signed integers; absent keys keep the zero value.
func ParseQuery[T any](r *http.Request) (T, error) {
	var dst T
	rv := reflect.ValueOf(&dst).Elem()
	if rv.Kind() != reflect.Struct {
		return dst, perr.Internalf("query target must be a struct")
	}
	if err := decodeQuery(rv, r.URL.Query()); err != nil {
		var zero T
		return zero, err
	}
	if err := Struct(dst); err != nil {
		var zero T
		return zero, err
	}
	return dst, nil
}

func decodeQuery(rv reflect.Value, q url.Values) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("query"), ",")
		if name == "" || name == "-" || !sf.IsExported() {
			continue
		}
		raw, ok := q[name]
		if !ok || len(raw) == 0 {
			continue
		}
		s := strings.TrimSpace(raw[0])
		f := rv.Field(i)
		switch f.Kind() {
		case reflect.String:
			f.SetString(s)
		case reflect.Bool:
			b, err := strconv.ParseBool(s)
			if err != nil {
				return perr.WithField(perr.Validationf("%s must be a boolean", name), name)
			}
			f.SetBool(b)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if s == "" {
				continue
			}
			n, err := strconv.ParseInt(s, 10, f.Type().Bits())
			if err != nil {
				return perr.WithField(perr.Validationf("%s must be an integer", name), name)
			}
			f.SetInt(n)
		default:
			return perr.Internalf("query field %s has unsupported kind %s", sf.Name, f.Kind())
		}
	}
	return nil
}

func shortMessage(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
