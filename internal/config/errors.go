package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoCredentials is returned when neither the environment nor a config
	// file supplies any of the required settings.
	ErrNoCredentials = errors.New("no vCenter credentials provided")
	// ErrMissingSettings is returned when at least one required setting is
	// still absent after both sources were consulted.
	ErrMissingSettings = errors.New("missing required vCenter settings")
	// ErrInvalidConfigFile is returned when the config file exists but cannot be
	// parsed or binds a setting to a value of the wrong type.
	ErrInvalidConfigFile = errors.New("invalid vCenter config file")
	// ErrInvalidSetting is returned when an environment value cannot be
	// converted or a port is out of range.
	ErrInvalidSetting = errors.New("invalid vCenter setting")
)

// Kind classifies a resolution failure.
type Kind int

const (
	KindNoCredentials Kind = iota + 1
	KindMissingSettings
	KindInvalidConfigFile
	KindInvalidSetting
)

func (k Kind) sentinel() error {
	switch k {
	case KindNoCredentials:
		return ErrNoCredentials
	case KindMissingSettings:
		return ErrMissingSettings
	case KindInvalidConfigFile:
		return ErrInvalidConfigFile
	case KindInvalidSetting:
		return ErrInvalidSetting
	default:
		return nil
	}
}

// Error is the single error type returned by New. The message is meant for
// the operator; use errors.Is with the sentinels above to branch on Kind.
type Error struct {
	Kind Kind
	// Path is the config file involved, if any.
	Path string
	// Missing lists absent required settings in host, user, password order.
	Missing []string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNoCredentials:
		return "You must provide credentials in either environment variables or a config file."
	case KindMissingSettings:
		return "To use this module you must provide the following settings: " + strings.Join(e.Missing, " ")
	case KindInvalidConfigFile:
		if e.Err != nil {
			return fmt.Sprintf("Your configuration file at %s is invalid: %v", e.Path, e.Err)
		}
		return fmt.Sprintf("Your configuration file at %s is invalid", e.Path)
	case KindInvalidSetting:
		return fmt.Sprintf("Invalid vCenter setting: %v", e.Err)
	default:
		return "vCenter configuration error"
	}
}

// Is reports whether target is the sentinel matching e.Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidFile(path string, err error) *Error {
	return &Error{Kind: KindInvalidConfigFile, Path: path, Err: err}
}
