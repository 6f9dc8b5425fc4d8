package json

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

const hexDigits = "0123456789abcdef"

// Marshal encodes v as JSON. Struct fields honor the `json` tag name and the
// omitempty option; unexported fields and fields tagged "-" are skipped.
func Marshal(v any) ([]byte, error) {
	buf := make([]byte, 0, 256)
	return appendValue(buf, reflect.ValueOf(v))
}

func appendValue(buf []byte, rv reflect.Value) ([]byte, error) {
	if !rv.IsValid() {
		return append(buf, "null"...), nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return append(buf, "null"...), nil
		}
		return appendValue(buf, rv.Elem())
	case reflect.Bool:
		return strconv.AppendBool(buf, rv.Bool()), nil
	case reflect.String:
		return appendString(buf, rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.AppendInt(buf, rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.AppendUint(buf, rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.AppendFloat(buf, rv.Float(), 'g', -1, 32), nil
	case reflect.Float64:
		return strconv.AppendFloat(buf, rv.Float(), 'g', -1, 64), nil
	case reflect.Struct:
		return appendStruct(buf, rv)
	case reflect.Map:
		return appendMap(buf, rv)
	case reflect.Slice, reflect.Array:
		return appendSlice(buf, rv)
	default:
		return nil, fmt.Errorf("json: unsupported type %s", rv.Type())
	}
}

func appendStruct(buf []byte, rv reflect.Value) ([]byte, error) {
	buf = append(buf, '{')

	rt := rv.Type()
	first := true
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}

		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}

		name, options, _ := strings.Cut(tag, ",")
		if name == "" {
			name = field.Name
		}

		value := rv.Field(i)
		if strings.Contains(options, "omitempty") && isEmptyValue(value) {
			continue
		}

		if !first {
			buf = append(buf, ',')
		}
		first = false

		buf = appendString(buf, name)
		buf = append(buf, ':')

		var err error
		if buf, err = appendValue(buf, value); err != nil {
			return nil, err
		}
	}

	return append(buf, '}'), nil
}

func appendMap(buf []byte, rv reflect.Value) ([]byte, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("json: unsupported map key type %s", rv.Type().Key())
	}
	if rv.IsNil() {
		return append(buf, "null"...), nil
	}

	keys := make([]string, 0, rv.Len())
	for _, key := range rv.MapKeys() {
		keys = append(keys, key.String())
	}
	sort.Strings(keys)

	buf = append(buf, '{')
	for i, key := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}

		buf = appendString(buf, key)
		buf = append(buf, ':')

		var err error
		if buf, err = appendValue(buf, rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))); err != nil {
			return nil, err
		}
	}

	return append(buf, '}'), nil
}

func appendSlice(buf []byte, rv reflect.Value) ([]byte, error) {
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return append(buf, "null"...), nil
	}

	buf = append(buf, '[')
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			buf = append(buf, ',')
		}

		var err error
		if buf, err = appendValue(buf, rv.Index(i)); err != nil {
			return nil, err
		}
	}

	return append(buf, ']'), nil
}

// appendString writes a quoted, escaped JSON string. Valid UTF-8 passes
// through untouched; only quotes, backslashes and control characters are
// escaped.
func appendString(buf []byte, s string) []byte {
	buf = append(buf, '"')

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			buf = append(buf, '\\', '"')
		case c == '\\':
			buf = append(buf, '\\', '\\')
		case c == '\n':
			buf = append(buf, '\\', 'n')
		case c == '\r':
			buf = append(buf, '\\', 'r')
		case c == '\t':
			buf = append(buf, '\\', 't')
		case c == '\b':
			buf = append(buf, '\\', 'b')
		case c == '\f':
			buf = append(buf, '\\', 'f')
		case c < 0x20:
			buf = append(buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
		default:
			buf = append(buf, c)
		}
	}

	return append(buf, '"')
}

func isEmptyValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
