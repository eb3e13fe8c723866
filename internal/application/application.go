package application

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/vsphere-config/internal/config"
)

const (
	sdkPath      = "/sdk"
	defaultHTTPS = 443
	defaultHTTP  = 80
)

// ErrInvalidHost is returned when the configured host cannot be used as a
// network address.
var ErrInvalidHost = errors.New("vcenter host must be a bare host name or host:port")

// Endpoint is everything a vSphere client needs to open a session.
type Endpoint struct {
	Scheme     string
	Host       string
	Port       int
	Path       string
	User       string
	Insecure   bool
	Datacenter string
}

// URL returns the SDK URL with the user embedded. The password is never
// part of the URL.
func (e Endpoint) URL() *url.URL {
	return &url.URL{
		Scheme: e.Scheme,
		User:   url.User(e.User),
		Host:   net.JoinHostPort(e.Host, strconv.Itoa(e.Port)),
		Path:   e.Path,
	}
}

// Summary is a printable view of the resolved settings with the password
// redacted.
type Summary struct {
	Host       string `yaml:"host" json:"host"`
	User       string `yaml:"user" json:"user"`
	Password   string `yaml:"password" json:"password"`
	Datacenter string `yaml:"datacenter,omitempty" json:"datacenter,omitempty"`
	Insecure   bool   `yaml:"insecure" json:"insecure"`
	SSL        bool   `yaml:"ssl" json:"ssl"`
	Port       int    `yaml:"port,omitempty" json:"port,omitempty"`
	URL        string `yaml:"url" json:"url"`
	Source     string `yaml:"source" json:"source"`
}

// App couples resolved settings with the endpoint derived from them.
type App struct {
	cfg      *config.Config
	endpoint Endpoint
	logger   *zap.Logger
}

// New derives the connection endpoint from a resolved configuration.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	endpoint, err := BuildEndpoint(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build endpoint: %w", err)
	}

	logger.Info("vcenter endpoint ready",
		zap.String("url", endpoint.URL().String()),
		zap.Bool("insecure", endpoint.Insecure),
		zap.Stringer("source", cfg.Source()),
	)

	return &App{
		cfg:      cfg,
		endpoint: endpoint,
		logger:   logger,
	}, nil
}

// BuildEndpoint applies transport defaults to cfg: https unless SSL is
// disabled, and the scheme's standard port unless one is configured. A port
// written into the host is honoured when no port setting exists.
func BuildEndpoint(cfg *config.Config) (Endpoint, error) {
	host := cfg.Host()
	if strings.Contains(host, "/") {
		return Endpoint{}, fmt.Errorf("%w: %q", ErrInvalidHost, host)
	}

	scheme, port := "https", defaultHTTPS
	if !cfg.SSL() {
		scheme, port = "http", defaultHTTP
	}

	if h, p, err := net.SplitHostPort(host); err == nil {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Endpoint{}, fmt.Errorf("%w: port %q", ErrInvalidHost, p)
		}
		host, port = h, n
	}
	host = strings.Trim(host, "[]")

	if p, ok := cfg.Port(); ok {
		port = p
	}
	dc, _ := cfg.Datacenter()

	return Endpoint{
		Scheme:     scheme,
		Host:       host,
		Port:       port,
		Path:       sdkPath,
		User:       cfg.User(),
		Insecure:   cfg.Insecure(),
		Datacenter: dc,
	}, nil
}

// Endpoint returns the derived connection endpoint.
func (a *App) Endpoint() Endpoint {
	return a.endpoint
}

// Config returns the resolved settings.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Summary returns the redacted settings view.
func (a *App) Summary() Summary {
	dc, _ := a.cfg.Datacenter()
	port, _ := a.cfg.Port()
	return Summary{
		Host:       a.cfg.Host(),
		User:       a.cfg.User(),
		Password:   config.Redacted,
		Datacenter: dc,
		Insecure:   a.cfg.Insecure(),
		SSL:        a.cfg.SSL(),
		Port:       port,
		URL:        a.endpoint.URL().String(),
		Source:     a.cfg.Source().String(),
	}
}
