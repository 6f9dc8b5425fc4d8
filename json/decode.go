package json

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Unmarshal decodes data into the value pointed to. Decoding is strict the
// way the chat wire format needs it to be: a type mismatch is an error, and
// content trailing the top-level value is an error.
func Unmarshal(data []byte, value any) error {
	rv := reflect.ValueOf(value)

	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("json: Unmarshal requires a non-nil pointer to a value")
	}

	scanner := NewScanner(data)
	if err := unmarshal(rv.Elem(), &scanner); err != nil {
		return err
	}

	token, err := scanner.Next()
	if err != nil {
		return err
	}
	if token.Type != TOKEN_TYPE_EOF {
		return fmt.Errorf("json: unexpected content after top-level value: %w", ErrUnexpectedTokenError)
	}

	return nil
}

func unmarshal(rv reflect.Value, scanner *Scanner) error {
	switch rv.Kind() {
	case reflect.Pointer:
		{
			token, err := scanner.Peek()
			if err != nil {
				return err
			}
			if token.Type == TOKEN_TYPE_NULL {
				scanner.Next()
				rv.SetZero()
				return nil
			}

			if rv.IsNil() {
				rv.Set(reflect.New(rv.Type().Elem()))
			}
			return unmarshal(rv.Elem(), scanner)
		}
	case reflect.Bool:
		{
			token, err := scanner.Next()
			if err != nil {
				return err
			}

			switch token.Type {
			case TOKEN_TYPE_TRUE:
				rv.SetBool(true)
			case TOKEN_TYPE_FALSE:
				rv.SetBool(false)
			case TOKEN_TYPE_NULL:
			default:
				return ErrUnexpectedTokenError
			}
			return nil
		}
	case reflect.String:
		{
			token, err := scanner.Next()
			if err != nil {
				return err
			}

			switch token.Type {
			case TOKEN_TYPE_STRING:
				s, err := unquote(token.Value)
				if err != nil {
					return err
				}
				rv.SetString(s)
			case TOKEN_TYPE_NULL:
			default:
				return ErrUnexpectedTokenError
			}
			return nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		{
			token, err := scanner.Next()
			if err != nil {
				return err
			}
			if token.Type == TOKEN_TYPE_NULL {
				return nil
			}
			if token.Type != TOKEN_TYPE_NUMBER {
				return ErrUnexpectedTokenError
			}

			n, err := strconv.ParseInt(string(token.Value), 10, 64)
			if err != nil || rv.OverflowInt(n) {
				return fmt.Errorf("json: number %s does not fit %s", token.Value, rv.Type())
			}
			rv.SetInt(n)
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		{
			token, err := scanner.Next()
			if err != nil {
				return err
			}
			if token.Type == TOKEN_TYPE_NULL {
				return nil
			}
			if token.Type != TOKEN_TYPE_NUMBER {
				return ErrUnexpectedTokenError
			}

			n, err := strconv.ParseUint(string(token.Value), 10, 64)
			if err != nil || rv.OverflowUint(n) {
				return fmt.Errorf("json: number %s does not fit %s", token.Value, rv.Type())
			}
			rv.SetUint(n)
			return nil
		}
	case reflect.Float32, reflect.Float64:
		{
			token, err := scanner.Next()
			if err != nil {
				return err
			}
			if token.Type == TOKEN_TYPE_NULL {
				return nil
			}
			if token.Type != TOKEN_TYPE_NUMBER {
				return ErrUnexpectedTokenError
			}

			f, err := strconv.ParseFloat(string(token.Value), 64)
			if err != nil || rv.OverflowFloat(f) {
				return fmt.Errorf("json: number %s does not fit %s", token.Value, rv.Type())
			}
			rv.SetFloat(f)
			return nil
		}
	case reflect.Struct:
		return unmarshalStruct(rv, scanner)
	case reflect.Map:
		return unmarshalMap(rv, scanner)
	case reflect.Slice:
		return unmarshalSlice(rv, scanner)
	case reflect.Interface:
		{
			if rv.NumMethod() != 0 {
				return ErrUnexpectedValueTypeError
			}

			value, err := decodeAny(scanner)
			if err != nil {
				return err
			}
			if value == nil {
				rv.SetZero()
			} else {
				rv.Set(reflect.ValueOf(value))
			}
			return nil
		}
	default:
		return ErrUnexpectedValueTypeError
	}
}

func unmarshalStruct(rv reflect.Value, scanner *Scanner) error {
	token, err := scanner.Next()
	if err != nil {
		return err
	}
	if token.Type == TOKEN_TYPE_NULL {
		return nil
	}
	if token.Type != TOKEN_TYPE_OBJECT_START {
		return ErrUnexpectedTokenError
	}

	first := true
	for {
		token, err := scanner.Next()
		if err != nil {
			return err
		}
		if token.Type == TOKEN_TYPE_OBJECT_END {
			return nil
		}
		if !first {
			if token.Type != TOKEN_TYPE_COMMA {
				return ErrUnexpectedTokenError
			}
			if token, err = scanner.Next(); err != nil {
				return err
			}
		}
		first = false

		if token.Type != TOKEN_TYPE_STRING {
			return ErrUnexpectedTokenError
		}
		key, err := unquote(token.Value)
		if err != nil {
			return err
		}

		if token, err = scanner.Next(); err != nil {
			return err
		}
		if token.Type != TOKEN_TYPE_COLON {
			return ErrUnexpectedTokenError
		}

		fieldIndex, found := structFieldIndex(rv.Type(), key)
		if !found {
			if err := skipValue(scanner); err != nil {
				return err
			}
			continue
		}

		if err := unmarshal(rv.Field(fieldIndex), scanner); err != nil {
			return err
		}
	}
}

func unmarshalMap(rv reflect.Value, scanner *Scanner) error {
	if rv.Type().Key().Kind() != reflect.String {
		return ErrUnexpectedValueTypeError
	}

	token, err := scanner.Next()
	if err != nil {
		return err
	}
	if token.Type == TOKEN_TYPE_NULL {
		return nil
	}
	if token.Type != TOKEN_TYPE_OBJECT_START {
		return ErrUnexpectedTokenError
	}

	if rv.IsNil() {
		rv.Set(reflect.MakeMap(rv.Type()))
	}

	first := true
	for {
		token, err := scanner.Next()
		if err != nil {
			return err
		}
		if token.Type == TOKEN_TYPE_OBJECT_END {
			return nil
		}
		if !first {
			if token.Type != TOKEN_TYPE_COMMA {
				return ErrUnexpectedTokenError
			}
			if token, err = scanner.Next(); err != nil {
				return err
			}
		}
		first = false

		if token.Type != TOKEN_TYPE_STRING {
			return ErrUnexpectedTokenError
		}
		key, err := unquote(token.Value)
		if err != nil {
			return err
		}

		if token, err = scanner.Next(); err != nil {
			return err
		}
		if token.Type != TOKEN_TYPE_COLON {
			return ErrUnexpectedTokenError
		}

		element := reflect.New(rv.Type().Elem()).Elem()
		if err := unmarshal(element, scanner); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()), element)
	}
}

func unmarshalSlice(rv reflect.Value, scanner *Scanner) error {
	token, err := scanner.Next()
	if err != nil {
		return err
	}
	if token.Type == TOKEN_TYPE_NULL {
		return nil
	}
	if token.Type != TOKEN_TYPE_ARRAY_START {
		return ErrUnexpectedTokenError
	}

	result := reflect.MakeSlice(rv.Type(), 0, 4)
	first := true
	for {
		token, err := scanner.Peek()
		if err != nil {
			return err
		}
		if token.Type == TOKEN_TYPE_ARRAY_END {
			scanner.Next()
			rv.Set(result)
			return nil
		}
		if !first {
			if token.Type != TOKEN_TYPE_COMMA {
				return ErrUnexpectedTokenError
			}
			scanner.Next()
		}
		first = false

		element := reflect.New(rv.Type().Elem()).Elem()
		if err := unmarshal(element, scanner); err != nil {
			return err
		}
		result = reflect.Append(result, element)
	}
}

// decodeAny materializes a value for an empty interface target:
// map[string]any, []any, string, float64, bool or nil.
func decodeAny(scanner *Scanner) (any, error) {
	token, err := scanner.Next()
	if err != nil {
		return nil, err
	}

	switch token.Type {
	case TOKEN_TYPE_NULL:
		return nil, nil
	case TOKEN_TYPE_TRUE:
		return true, nil
	case TOKEN_TYPE_FALSE:
		return false, nil
	case TOKEN_TYPE_STRING:
		return unquote(token.Value)
	case TOKEN_TYPE_NUMBER:
		return strconv.ParseFloat(string(token.Value), 64)
	case TOKEN_TYPE_OBJECT_START:
		{
			result := make(map[string]any)
			first := true
			for {
				token, err := scanner.Next()
				if err != nil {
					return nil, err
				}
				if token.Type == TOKEN_TYPE_OBJECT_END {
					return result, nil
				}
				if !first {
					if token.Type != TOKEN_TYPE_COMMA {
						return nil, ErrUnexpectedTokenError
					}
					if token, err = scanner.Next(); err != nil {
						return nil, err
					}
				}
				first = false

				if token.Type != TOKEN_TYPE_STRING {
					return nil, ErrUnexpectedTokenError
				}
				key, err := unquote(token.Value)
				if err != nil {
					return nil, err
				}

				if token, err = scanner.Next(); err != nil {
					return nil, err
				}
				if token.Type != TOKEN_TYPE_COLON {
					return nil, ErrUnexpectedTokenError
				}

				value, err := decodeAny(scanner)
				if err != nil {
					return nil, err
				}
				result[key] = value
			}
		}
	case TOKEN_TYPE_ARRAY_START:
		{
			result := make([]any, 0, 4)
			first := true
			for {
				token, err := scanner.Peek()
				if err != nil {
					return nil, err
				}
				if token.Type == TOKEN_TYPE_ARRAY_END {
					scanner.Next()
					return result, nil
				}
				if !first {
					if token.Type != TOKEN_TYPE_COMMA {
						return nil, ErrUnexpectedTokenError
					}
					scanner.Next()
				}
				first = false

				value, err := decodeAny(scanner)
				if err != nil {
					return nil, err
				}
				result = append(result, value)
			}
		}
	default:
		return nil, ErrUnexpectedTokenError
	}
}

// skipValue consumes exactly one value, tracking nesting depth.
func skipValue(scanner *Scanner) error {
	depth := 0
	for {
		token, err := scanner.Next()
		if err != nil {
			return err
		}

		switch token.Type {
		case TOKEN_TYPE_OBJECT_START, TOKEN_TYPE_ARRAY_START:
			depth++
		case TOKEN_TYPE_OBJECT_END, TOKEN_TYPE_ARRAY_END:
			depth--
		case TOKEN_TYPE_COLON, TOKEN_TYPE_COMMA:
			continue
		case TOKEN_TYPE_EOF:
			return ErrUnexpectedTokenError
		}

		if depth <= 0 {
			return nil
		}
	}
}

func structFieldIndex(rt reflect.Type, name string) (int, bool) {
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}

		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}

		tagName, _, _ := strings.Cut(tag, ",")
		if tagName != "" {
			if tagName == name {
				return i, true
			}
			continue
		}

		if field.Name == name || strings.EqualFold(field.Name, name) {
			return i, true
		}
	}

	return 0, false
}
