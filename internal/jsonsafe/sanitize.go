// Package jsonsafe prepares arbitrary Go values containing NaN or Inf
// measurement sentinels for JSON encoding, which the standard library
// otherwise rejects outright.
package jsonsafe

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Sanitize walks v and returns an equivalent tree of maps, slices, and
// primitives in which every NaN or infinite float becomes nil (encoded as
// JSON null), so the result can always be passed to json.Marshal. Struct
// field names follow their `json` tag when present, falling back to the Go
// field name; unexported fields are skipped, matching encoding/json's own
// rules.
func Sanitize(v interface{}) interface{} {
	return sanitizeValue(reflect.ValueOf(v))
}

func sanitizeValue(rv reflect.Value) interface{} {
	if !rv.IsValid() {
		return nil
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return sanitizeValue(rv.Elem())

	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f

	case reflect.Struct:
		t := rv.Type()
		out := make(map[string]interface{}, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.PkgPath != "" { // unexported
				continue
			}
			out[jsonFieldName(field)] = sanitizeValue(rv.Field(i))
		}
		return out

	case reflect.Map:
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = sanitizeValue(iter.Value())
		}
		return out

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = sanitizeValue(rv.Index(i))
		}
		return out

	default:
		return rv.Interface()
	}
}

func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		return f.Name
	}
	return name
}
