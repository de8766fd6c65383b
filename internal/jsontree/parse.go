package jsontree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrEmptyDocument indicates there was no JSON value to parse.
	ErrEmptyDocument = errors.New("empty document")
	// ErrInvalidDocument indicates the payload is not a single well-formed JSON value.
	ErrInvalidDocument = errors.New("invalid document")
)

// Parse decodes exactly one JSON value from data. Numbers without a fraction
// or exponent that fit in an int64 become Integer values; every other number
// becomes a Float.
func Parse(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, ErrEmptyDocument
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return Value{}, fmt.Errorf("%w: trailing content", ErrInvalidDocument)
	}

	return FromAny(raw)
}

// FromAny converts a value produced by encoding/json (with or without
// UseNumber) into a Value.
func FromAny(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return NewNull(), nil
	case Value:
		return v, nil
	case map[string]any:
		fields := make(map[string]Value, len(v))
		for key, child := range v {
			converted, err := FromAny(child)
			if err != nil {
				return Value{}, err
			}
			fields[key] = converted
		}
		return NewObject(fields), nil
	case []any:
		items := make([]Value, len(v))
		for i, child := range v {
			converted, err := FromAny(child)
			if err != nil {
				return Value{}, err
			}
			items[i] = converted
		}
		return NewArray(items...), nil
	case string:
		return NewString(v), nil
	case bool:
		return NewBoolean(v), nil
	case json.Number:
		return fromNumber(v)
	case float64:
		return NewFloat(v), nil
	case float32:
		return NewFloat(float64(v)), nil
	case int:
		return NewInteger(int64(v)), nil
	case int32:
		return NewInteger(int64(v)), nil
	case int64:
		return NewInteger(v), nil
	}
	return Value{}, fmt.Errorf("%w: unsupported Go type %T", ErrInvalidDocument, raw)
}

func fromNumber(n json.Number) (Value, error) {
	text := n.String()
	if !strings.ContainsAny(text, ".eE") {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return NewInteger(i), nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: number %q: %v", ErrInvalidDocument, text, err)
	}
	return NewFloat(f), nil
}
