package tree

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// ErrInvalidValue is returned when an update value contains something
// that cannot live in the tree. The update is rejected before any
// mutation is applied.
var ErrInvalidValue = errors.New("tree: invalid value")

// Normalize validates a value and converts it to the plain shape the
// tree stores: nil, atomic values (bool, numbers, strings, funcs),
// []any, and map[string]any, nested arbitrarily.
//
// Plain structs (and pointers to them) count as records and are
// normalized through a JSON round-trip; their numeric fields come back
// as float64. Types with custom marshaling such as time.Time are not
// plain records and are rejected, as are pointers to non-struct
// values, maps with non-string keys, channels, and other non-value
// shapes.
//
// The check is a single upfront recursive pass: either the whole value
// normalizes, or an error wrapping ErrInvalidValue names the offending
// path and nothing is written.
func Normalize(value any) (any, error) {
	return normalize(value, "$")
}

func normalize(v any, path string) (any, error) {
	if v == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Func:
		return v, nil

	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		if rv.Elem().Kind() == reflect.Struct {
			return normalizeStruct(v, path)
		}
		return nil, fmt.Errorf("%w: %s: pointer to %s is not a plain value",
			ErrInvalidValue, path, rv.Elem().Type())

	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := normalize(rv.Index(i).Interface(), path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			out[i] = elem
		}
		return out, nil

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: %s: map key type %s, want string",
				ErrInvalidValue, path, rv.Type().Key())
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			elem, err := normalize(iter.Value().Interface(), path+"."+key)
			if err != nil {
				return nil, err
			}
			out[key] = elem
		}
		return out, nil

	case reflect.Struct:
		return normalizeStruct(v, path)

	default:
		return nil, fmt.Errorf("%w: %s: unsupported type %T", ErrInvalidValue, path, v)
	}
}

// normalizeStruct turns a plain struct into a record. A type that
// implements its own marshaling (time.Time, for one) is not a plain
// record and is rejected.
func normalizeStruct(v any, path string) (any, error) {
	if _, ok := v.(json.Marshaler); ok {
		return nil, fmt.Errorf("%w: %s: %T is not a plain record", ErrInvalidValue, path, v)
	}
	if _, ok := v.(encoding.TextMarshaler); ok {
		return nil, fmt.Errorf("%w: %s: %T is not a plain record", ErrInvalidValue, path, v)
	}

	raw, err := gojson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %T: %v", ErrInvalidValue, path, v, err)
	}
	var out map[string]any
	if err := gojson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %T: %v", ErrInvalidValue, path, v, err)
	}
	return out, nil
}
