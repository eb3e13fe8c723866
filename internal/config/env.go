package config

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const envPrefix = "VCENTER_"

// Environment variables consumed by the resolver.
const (
	EnvServer     = envPrefix + "SERVER"
	EnvUser       = envPrefix + "USER"
	EnvPassword   = envPrefix + "PASSWORD"
	EnvDatacenter = envPrefix + "DATACENTER"
	EnvInsecure   = envPrefix + "INSECURE"
	EnvSSL        = envPrefix + "SSL"
	EnvPort       = envPrefix + "PORT"
)

var envKeys = []string{EnvServer, EnvUser, EnvPassword, EnvDatacenter, EnvInsecure, EnvSSL, EnvPort}

// Environment looks up named settings. It lets callers resolve against
// something other than the process environment.
type Environment interface {
	LookupEnv(key string) (string, bool)
}

// OSEnvironment reads the process environment.
type OSEnvironment struct{}

func (OSEnvironment) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnvironment is an Environment backed by a fixed map.
type MapEnvironment map[string]string

func (m MapEnvironment) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// LoadDotEnv reads a dotenv file and layers it under base: a key already set
// in base keeps its value.
func LoadDotEnv(path string, base Environment) (MapEnvironment, error) {
	fileVars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}

	merged := MapEnvironment{}
	for _, key := range envKeys {
		if v, ok := base.LookupEnv(key); ok {
			merged[key] = v
		}
	}
	if err := mergo.Merge(&merged, MapEnvironment(fileVars)); err != nil {
		return nil, fmt.Errorf("merge env file %s: %w", path, err)
	}
	return merged, nil
}

// readEnvironment decodes the VCENTER_* variables. Empty values count as unset.
func readEnvironment(e Environment) (rawSettings, error) {
	vars := make(map[string]string, len(envKeys))
	for _, key := range envKeys {
		if v, ok := e.LookupEnv(key); ok && v != "" {
			vars[key] = v
		}
	}

	var raw rawSettings
	if err := env.ParseWithOptions(&raw, env.Options{
		Environment: vars,
		Prefix:      envPrefix,
	}); err != nil {
		return rawSettings{}, &Error{Kind: KindInvalidSetting, Err: err}
	}
	return raw, nil
}
