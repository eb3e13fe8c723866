package config

import (
	"fmt"
	"strconv"

	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
)

// fileSection is the top-level object holding the vCenter settings.
const fileSection = "vcenter"

// readFile parses the config file at path into rawSettings. Every key found
// under the vcenter object must carry a value of the expected type.
func readFile(path string) (rawSettings, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), HOCONParser()); err != nil {
		return rawSettings{}, invalidFile(path, err)
	}

	section, ok := k.Get(fileSection).(map[string]interface{})
	if !ok {
		return rawSettings{}, invalidFile(path, fmt.Errorf("missing %q object", fileSection))
	}

	raw, err := decodeSection(section)
	if err != nil {
		return rawSettings{}, invalidFile(path, err)
	}
	return raw, nil
}

func decodeSection(section map[string]interface{}) (rawSettings, error) {
	var (
		raw rawSettings
		err error
	)

	// Required keys must be scalars when present; null is a malformed value
	// rather than an absent one.
	if raw.Host, err = requiredString(section, "host"); err != nil {
		return raw, err
	}
	if raw.User, err = requiredString(section, "user"); err != nil {
		return raw, err
	}
	if raw.Password, err = requiredString(section, "password"); err != nil {
		return raw, err
	}

	if raw.Datacenter, err = optionalString(section, "datacenter"); err != nil {
		return raw, err
	}
	if raw.Insecure, err = optional[bool](section, "insecure"); err != nil {
		return raw, err
	}
	if raw.SSL, err = optional[bool](section, "ssl"); err != nil {
		return raw, err
	}
	if raw.Port, err = optionalInt(section, "port"); err != nil {
		return raw, err
	}
	return raw, nil
}

func requiredString(section map[string]interface{}, key string) (*string, error) {
	v, ok := section[key]
	if !ok {
		return nil, nil
	}
	s, ok := scalarString(v)
	if !ok {
		return nil, fmt.Errorf("%s.%s must be a string, got %s", fileSection, key, describe(v))
	}
	return &s, nil
}

// optionalString is requiredString for keys where null means unset.
func optionalString(section map[string]interface{}, key string) (*string, error) {
	if v, ok := section[key]; !ok || v == nil {
		return nil, nil
	}
	return requiredString(section, key)
}

// scalarString accepts any HOCON scalar as text: user: 1001 is a valid user.
func scalarString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	}
	return "", false
}

// optional returns nil for an absent or null key.
func optional[T any](section map[string]interface{}, key string) (*T, error) {
	v, ok := section[key]
	if !ok || v == nil {
		return nil, nil
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return nil, fmt.Errorf("%s.%s must be a %T, got %s", fileSection, key, zero, describe(v))
	}
	return &typed, nil
}

func optionalInt(section map[string]interface{}, key string) (*int, error) {
	v, ok := section[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch n := v.(type) {
	case int:
		return &n, nil
	case int64:
		i := int(n)
		return &i, nil
	case float64:
		if n == float64(int(n)) {
			i := int(n)
			return &i, nil
		}
	}
	return nil, fmt.Errorf("%s.%s must be an integer, got %s", fileSection, key, describe(v))
}

func describe(v interface{}) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
