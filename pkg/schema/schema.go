// Package schema validates entity values and turns loosely typed form input
// into typed entities and patches.
//
// Rules are declared as validate struct tags on the types in pkg/models.
// Form controls deliver everything as strings, so Decode coerces numeric and
// boolean fields before the rules run. Any failure is reported as a single
// *ValidationError listing every offending field.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
)

// Draft is the raw, loosely typed input of a create or edit form, keyed by
// JSON field name.
type Draft map[string]any

// Fields that belong to the store and are never taken from a draft.
var metaFields = []string{"id", "created_at", "updated_at"}

// Validate checks v, a struct or pointer to struct, against its rules. It
// returns nil or a *ValidationError.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("schema: %w", err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = message(fe)
		}
	}
	return &ValidationError{Fields: fields}
}

// Decode converts a draft into a validated T.
func Decode[T any](d Draft) (T, error) {
	return decode[T](d)
}

// DecodePatch converts a draft into a validated patch. Fields missing from
// the draft, or set to the empty string, stay absent, so applying the patch
// keeps their stored value. A patch therefore cannot clear an optional text
// field; blanking one in an edit form leaves it unchanged.
func DecodePatch[P any](d Draft) (P, error) {
	return decode[P](d)
}

func decode[T any](d Draft) (T, error) {
	var out T

	kinds := fieldKinds(reflect.TypeOf(out))
	input := make(map[string]any, len(d))
	fields := map[string]string{}

	for name, raw := range d {
		if isMeta(name) {
			continue
		}
		if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		kind, known := kinds[name]
		if !known {
			continue
		}
		v, msg := coerce(name, kind, raw)
		if msg != "" {
			fields[name] = msg
			continue
		}
		input[name] = v
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Squash:  true,
		Result:  &out,
	})
	if err != nil {
		return out, fmt.Errorf("schema: %w", err)
	}
	if err := dec.Decode(input); err != nil {
		return out, fmt.Errorf("schema: decoding %T: %w", out, err)
	}

	if err := Validate(out); err != nil {
		verr, ok := AsValidationError(err)
		if !ok {
			return out, err
		}
		for name, msg := range verr.Fields {
			if _, seen := fields[name]; !seen {
				fields[name] = msg
			}
		}
	}
	if len(fields) > 0 {
		var zero T
		return zero, &ValidationError{Fields: fields}
	}
	return out, nil
}

// DraftOf renders v as a draft, without the store-managed fields. It is how
// an edit form is populated from an existing record.
func DraftOf(v any) (Draft, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	d := Draft{}
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	for _, name := range metaFields {
		delete(d, name)
	}
	return d, nil
}

func isMeta(name string) bool {
	for _, m := range metaFields {
		if m == name {
			return true
		}
	}
	return false
}

func coerce(name string, kind reflect.Kind, raw any) (any, string) {
	switch kind {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		switch v := raw.(type) {
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, name + " must be a number"
			}
			return f, ""
		case float64, float32, int, int64, int32, uint, uint64:
			return v, ""
		}
		return nil, name + " must be a number"
	case reflect.Bool:
		switch v := raw.(type) {
		case bool:
			return v, ""
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "on", "yes", "1":
				return true, ""
			case "false", "off", "no", "0":
				return false, ""
			}
		}
		return nil, name + " must be true or false"
	case reflect.String:
		switch v := raw.(type) {
		case string:
			return v, ""
		case float64, float32, int, int64, int32, uint, uint64, bool:
			return fmt.Sprint(v), ""
		}
		return nil, name + " must be text"
	}
	return raw, ""
}

var kindCache sync.Map // reflect.Type -> map[string]reflect.Kind

// fieldKinds maps the JSON names of t's fields to their underlying kinds,
// looking through pointers and embedded structs.
func fieldKinds(t reflect.Type) map[string]reflect.Kind {
	if cached, ok := kindCache.Load(t); ok {
		return cached.(map[string]reflect.Kind)
	}
	kinds := map[string]reflect.Kind{}
	collectKinds(t, kinds)
	kindCache.Store(t, kinds)
	return kinds
}

func collectKinds(t reflect.Type, into map[string]reflect.Kind) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			collectKinds(f.Type, into)
			continue
		}
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		into[name] = ft.Kind()
	}
}
