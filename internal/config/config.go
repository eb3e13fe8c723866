package config

import (
	"errors"
	"fmt"
	"strconv"

	"dario.cat/mergo"
	"go.uber.org/zap"
)

const (
	defaultInsecure = true
	defaultSSL      = true
)

// Config holds vCenter connection settings resolved once by New.
// Precedence: Environment variables > Config file > Defaults
type Config struct {
	settings settings
	source   Source
	confDir  string
}

type settings struct {
	Host       string  `koanf:"host" validate:"required"`
	User       string  `koanf:"user" validate:"required"`
	Password   string  `koanf:"password" validate:"required"`
	Datacenter *string `koanf:"datacenter"`
	Insecure   bool    `koanf:"insecure"`
	SSL        bool    `koanf:"ssl"`
	Port       *int    `koanf:"port" validate:"omitempty,min=1,max=65535"`
}

// rawSettings is one source's view of the settings before defaults apply.
// A nil field means the source did not supply the key.
type rawSettings struct {
	Host       *string `env:"SERVER"`
	User       *string `env:"USER"`
	Password   *string `env:"PASSWORD"`
	Datacenter *string `env:"DATACENTER"`
	Insecure   *bool   `env:"INSECURE"`
	SSL        *bool   `env:"SSL"`
	Port       *int    `env:"PORT"`
}

func (r rawSettings) hasAllRequired() bool {
	return r.Host != nil && r.User != nil && r.Password != nil
}

func (r rawSettings) hasAnyRequired() bool {
	return r.Host != nil || r.User != nil || r.Password != nil
}

func (r rawSettings) isEmpty() bool {
	return !r.hasAnyRequired() && r.Datacenter == nil && r.Insecure == nil && r.SSL == nil && r.Port == nil
}

func (r rawSettings) withDefaults() settings {
	s := settings{
		Datacenter: r.Datacenter,
		Insecure:   defaultInsecure,
		SSL:        defaultSSL,
		Port:       r.Port,
	}
	if r.Host != nil {
		s.Host = *r.Host
	}
	if r.User != nil {
		s.User = *r.User
	}
	if r.Password != nil {
		s.Password = *r.Password
	}
	if r.Insecure != nil {
		s.Insecure = *r.Insecure
	}
	if r.SSL != nil {
		s.SSL = *r.SSL
	}
	return s
}

// Option customises New.
type Option func(*options)

type options struct {
	file    string
	confDir string
	env     Environment
	logger  *zap.Logger
}

// WithFile sets an explicit config file path instead of the default one.
func WithFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// WithConfDir sets the configuration directory holding the default file.
func WithConfDir(dir string) Option {
	return func(o *options) {
		o.confDir = dir
	}
}

// WithEnvironment replaces the process environment as the variable source.
func WithEnvironment(env Environment) Option {
	return func(o *options) {
		if env != nil {
			o.env = env
		}
	}
}

// WithLogger sets the logger used to report which source was used.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New resolves vCenter settings. When the environment supplies host, user and
// password, the config file is not read at all. Otherwise the file fills the
// keys the environment left unset, and resolution fails if a required setting
// is still missing. VCENTER_INSECURE and VCENTER_SSL are parsed with
// strconv.ParseBool and VCENTER_PORT as a base-10 integer.
func New(opts ...Option) (*Config, error) {
	o := options{
		env:    OSEnvironment{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.confDir == "" {
		o.confDir = ConfDir()
	}

	cfg := &Config{confDir: o.confDir}
	path := o.file
	if path == "" {
		path = cfg.DefaultConfigFile()
	}

	raw, err := readEnvironment(o.env)
	if err != nil {
		o.logger.Debug("vcenter environment rejected", zap.Error(err))
		return nil, err
	}
	cfg.source = Source{Kind: SourceEnvironment}

	if !raw.hasAllRequired() {
		exists, err := fileExists(path)
		if err != nil {
			return nil, invalidFile(path, err)
		}

		switch {
		case exists:
			fileRaw, err := readFile(path)
			if err != nil {
				o.logger.Debug("vcenter config file rejected", zap.String("path", path), zap.Error(err))
				return nil, err
			}
			kind := SourceFile
			if !raw.isEmpty() {
				kind = SourceMixed
			}
			// WithoutDereference keeps an explicit env value such as false
			// from being replaced by the file's value.
			if err := mergo.Merge(&raw, fileRaw, mergo.WithoutDereference); err != nil {
				return nil, fmt.Errorf("merge config file %s: %w", path, err)
			}
			cfg.source = Source{Kind: kind, Path: path}
		case !raw.hasAnyRequired():
			o.logger.Debug("no vcenter credentials found", zap.String("path", path))
			return nil, &Error{Kind: KindNoCredentials, Path: path}
		}
	}

	cfg.settings = raw.withDefaults()
	if err := validateSettings(&cfg.settings); err != nil {
		var resErr *Error
		if errors.As(err, &resErr) && resErr.Kind == KindMissingSettings {
			resErr.Path = cfg.source.Path
		}
		return nil, err
	}

	o.logger.Debug("vcenter settings resolved",
		zap.Stringer("source", cfg.source),
		zap.String("host", cfg.settings.Host),
		zap.String("user", cfg.settings.User),
		zap.Bool("insecure", cfg.settings.Insecure),
		zap.Bool("ssl", cfg.settings.SSL),
	)
	return cfg, nil
}

// Host returns the vCenter server name.
func (c *Config) Host() string { return c.settings.Host }

// User returns the vCenter user name.
func (c *Config) User() string { return c.settings.User }

// Password returns the plain-text password. String redacts it.
func (c *Config) Password() string { return c.settings.Password }

// Insecure reports whether certificate verification is skipped. Defaults to true.
func (c *Config) Insecure() bool { return c.settings.Insecure }

// SSL reports whether the connection uses TLS. Defaults to true.
func (c *Config) SSL() bool { return c.settings.SSL }

// Datacenter returns the configured datacenter and whether one was set.
func (c *Config) Datacenter() (string, bool) {
	if c.settings.Datacenter == nil {
		return "", false
	}
	return *c.settings.Datacenter, true
}

// Port returns the configured port and whether one was set. Callers apply
// their own transport default when it was not.
func (c *Config) Port() (int, bool) {
	if c.settings.Port == nil {
		return 0, false
	}
	return *c.settings.Port, true
}

// Source reports where the settings came from.
func (c *Config) Source() Source {
	return c.source
}

// DefaultConfigFile returns the config file consulted when no explicit path
// was given. Calling it has no side effects.
func (c *Config) DefaultConfigFile() string {
	return DefaultConfigFile(c.confDir)
}

// String renders the settings with the password redacted.
func (c *Config) String() string {
	dc, _ := c.Datacenter()
	port := "default"
	if p, ok := c.Port(); ok {
		port = strconv.Itoa(p)
	}
	return fmt.Sprintf("vcenter{host=%s user=%s password=%s datacenter=%s insecure=%t ssl=%t port=%s}",
		c.settings.Host, c.settings.User, Redacted, dc, c.settings.Insecure, c.settings.SSL, port)
}

// Redacted replaces secrets in rendered output.
const Redacted = "********"

// SourceKind names the origin of resolved settings.
type SourceKind string

const (
	SourceEnvironment SourceKind = "environment"
	SourceFile        SourceKind = "file"
	SourceMixed       SourceKind = "environment+file"
)

// Source describes where resolved settings came from. Path is set whenever
// the config file contributed.
type Source struct {
	Kind SourceKind
	Path string
}

func (s Source) String() string {
	if s.Path == "" {
		return string(s.Kind)
	}
	return string(s.Kind) + ":" + s.Path
}
