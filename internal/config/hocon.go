package config

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/gurkankaymak/hocon"
)

// HOCON is a read-only koanf.Parser for HOCON documents. Scalars keep their
// native types: strings, ints, float64s, bools, and nil for null.
type HOCON struct{}

// HOCONParser returns a HOCON parser for koanf.Load.
func HOCONParser() *HOCON {
	return &HOCON{}
}

func (p *HOCON) Unmarshal(b []byte) (map[string]interface{}, error) {
	conf, err := hocon.ParseString(string(b))
	if err != nil {
		return nil, err
	}

	root, ok := conf.GetRoot().(hocon.Object)
	if !ok {
		return nil, errors.New("document root is not an object")
	}
	return convertObject(root), nil
}

func (p *HOCON) Marshal(map[string]interface{}) ([]byte, error) {
	return nil, errors.New("hocon: marshal is not supported")
}

func convertObject(obj hocon.Object) map[string]interface{} {
	out := make(map[string]interface{}, len(obj))
	for key, value := range obj {
		out[key] = convertValue(value)
	}
	return out
}

func convertValue(v hocon.Value) interface{} {
	if v == nil {
		return nil
	}

	switch val := v.(type) {
	case hocon.Object:
		return convertObject(val)
	case hocon.Array:
		out := make([]interface{}, 0, len(val))
		for _, item := range val {
			out = append(out, convertValue(item))
		}
		return out
	case hocon.String:
		return string(val)
	case hocon.Int:
		return int(val)
	case hocon.Float64:
		return float64(val)
	case hocon.Float32:
		return float64(val)
	case hocon.Boolean:
		return bool(val)
	}

	switch v.Type() {
	case hocon.NullType:
		return nil
	case hocon.ConcatenationType:
		// Unquoted text such as vsphere.example.com or "my host" arrives as
		// a concatenation of parts, including the whitespace between them.
		return joinParts(v)
	}
	return plainString(v)
}

// joinParts flattens a concatenation into plain text. The concatenation type
// is unexported by hocon, so its parts are read as a slice of values.
func joinParts(v hocon.Value) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return plainString(v)
	}

	var b strings.Builder
	for i := 0; i < rv.Len(); i++ {
		part, ok := rv.Index(i).Interface().(hocon.Value)
		if !ok {
			continue
		}
		b.WriteString(plainString(part))
	}
	return b.String()
}

// plainString renders a scalar without the quoting hocon.String adds in String.
func plainString(v hocon.Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case hocon.String:
		return string(val)
	case hocon.Int:
		return strconv.Itoa(int(val))
	case hocon.Boolean:
		return strconv.FormatBool(bool(val))
	}
	if v.Type() == hocon.ConcatenationType {
		return joinParts(v)
	}
	return v.String()
}
