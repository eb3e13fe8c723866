// Package config resolves vCenter connection settings from environment
// variables and an optional HOCON config file with precedence: Environment
// variables > Config file > Defaults. Resolution happens once, in New, and the
// resulting Config is read-only.
package config
