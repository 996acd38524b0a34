// Package plist implements the property-list wire codec used by the store
// backend. Decoded documents are represented as an explicit tagged value tree
// so that field extraction is a checked projection rather than a silent
// coercion.
package plist

import (
	"fmt"

	howett "howett.net/plist"
)

// Value is one node of a decoded property list. The concrete types are
// String, Integer, Boolean, Real, Array, Dict and Data.
type Value interface {
	isPlistValue()
}

type String string
type Integer int64
type Boolean bool
type Real float64
type Array []Value
type Dict map[string]Value
type Data []byte

func (String) isPlistValue()  {}
func (Integer) isPlistValue() {}
func (Boolean) isPlistValue() {}
func (Real) isPlistValue()    {}
func (Array) isPlistValue()   {}
func (Dict) isPlistValue()    {}
func (Data) isPlistValue()    {}

// Encode serializes a dictionary into the XML property-list wire format.
func Encode(d Dict) ([]byte, error) {
	data, err := howett.Marshal(toNative(d), howett.XMLFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plist: %w", err)
	}
	return data, nil
}

// Decode parses a property-list body into a Value tree. It accepts any format
// the backend may respond with (XML or binary).
func Decode(body []byte) (Value, error) {
	var raw interface{}
	if _, err := howett.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode plist: %w", err)
	}
	return fromNative(raw)
}

func toNative(v Value) interface{} {
	switch t := v.(type) {
	case String:
		return string(t)
	case Integer:
		return int64(t)
	case Boolean:
		return bool(t)
	case Real:
		return float64(t)
	case Array:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = toNative(item)
		}
		return out
	case Dict:
		out := make(map[string]interface{}, len(t))
		for key, item := range t {
			out[key] = toNative(item)
		}
		return out
	case Data:
		return []byte(t)
	default:
		return nil
	}
}

func fromNative(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case string:
		return String(t), nil
	case int64:
		return Integer(t), nil
	case uint64:
		return Integer(int64(t)), nil
	case int:
		return Integer(int64(t)), nil
	case bool:
		return Boolean(t), nil
	case float64:
		return Real(t), nil
	case float32:
		return Real(float64(t)), nil
	case []byte:
		return Data(t), nil
	case []interface{}:
		out := make(Array, len(t))
		for i, item := range t {
			value, err := fromNative(item)
			if err != nil {
				return nil, err
			}
			out[i] = value
		}
		return out, nil
	case map[string]interface{}:
		out := make(Dict, len(t))
		for key, item := range t {
			value, err := fromNative(item)
			if err != nil {
				return nil, err
			}
			out[key] = value
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported plist value of type %T", raw)
	}
}

// String projects a string field out of the dictionary. The second return
// value is false when the key is absent or holds a non-string value.
func (d Dict) String(key string) (string, bool) {
	value, ok := d[key].(String)
	return string(value), ok
}

// Int projects an integer field out of the dictionary.
func (d Dict) Int(key string) (int64, bool) {
	value, ok := d[key].(Integer)
	return int64(value), ok
}

// Bool projects a boolean field out of the dictionary.
func (d Dict) Bool(key string) (bool, bool) {
	value, ok := d[key].(Boolean)
	return bool(value), ok
}

// Array projects a sequence field out of the dictionary.
func (d Dict) Array(key string) (Array, bool) {
	value, ok := d[key].(Array)
	return value, ok
}

// Dict projects a nested dictionary field out of the dictionary.
func (d Dict) Dict(key string) (Dict, bool) {
	value, ok := d[key].(Dict)
	return value, ok
}

// Data projects a raw data field out of the dictionary.
func (d Dict) Data(key string) ([]byte, bool) {
	value, ok := d[key].(Data)
	return []byte(value), ok
}
