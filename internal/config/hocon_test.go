package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHOCONUnmarshal(t *testing.T) {
	out, err := HOCONParser().Unmarshal([]byte(fullFile))
	require.NoError(t, err)

	section, ok := out["vcenter"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "vsphere2.example.com", section["host"])
	assert.Equal(t, 8091, section["port"])
	assert.Equal(t, false, section["ssl"])
}

func TestHOCONUnmarshalUnquoted(t *testing.T) {
	out, err := HOCONParser().Unmarshal([]byte(unquotedFullFile + "\nother: {\n  name: my vcenter host\n}\n"))
	require.NoError(t, err)

	section, ok := out["vcenter"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "vsphere2.example.com", section["host"])
	assert.Equal(t, "user2", section["user"])
	assert.Equal(t, 8091, section["port"])
	assert.Equal(t, false, section["insecure"])

	other, ok := out["other"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "my vcenter host", other["name"])
}

func TestHOCONUnmarshalInvalid(t *testing.T) {
	_, err := HOCONParser().Unmarshal([]byte("vcenter: {\n  host: \"h\"\n"))
	assert.Error(t, err)
}

func TestHOCONMarshalUnsupported(t *testing.T) {
	_, err := HOCONParser().Marshal(map[string]interface{}{})
	assert.Error(t, err)
}

func TestDecodeSection(t *testing.T) {
	raw, err := decodeSection(map[string]interface{}{
		"host":       "h",
		"datacenter": nil,
		"port":       float64(443),
	})
	require.NoError(t, err)
	require.NotNil(t, raw.Host)
	assert.Nil(t, raw.Datacenter)
	require.NotNil(t, raw.Port)
	assert.Equal(t, 443, *raw.Port)

	raw, err = decodeSection(map[string]interface{}{
		"host":       12345,
		"user":       1001,
		"password":   true,
		"datacenter": 2.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "12345", *raw.Host)
	assert.Equal(t, "1001", *raw.User)
	assert.Equal(t, "true", *raw.Password)
	assert.Equal(t, "2.5", *raw.Datacenter)

	_, err = decodeSection(map[string]interface{}{"user": []interface{}{"a"}})
	assert.ErrorContains(t, err, "vcenter.user must be a string")

	_, err = decodeSection(map[string]interface{}{"password": map[string]interface{}{}})
	assert.ErrorContains(t, err, "vcenter.password must be a string")

	_, err = decodeSection(map[string]interface{}{"host": nil})
	assert.ErrorContains(t, err, "vcenter.host must be a string, got null")

	_, err = decodeSection(map[string]interface{}{"ssl": "yes"})
	assert.ErrorContains(t, err, "vcenter.ssl must be a bool")
}
