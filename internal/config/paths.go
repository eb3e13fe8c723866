package config

import (
	"os"
	"path/filepath"
)

// DefaultFileName is the config file looked up inside the configuration
// directory when no explicit path is given.
const DefaultFileName = "vsphere.conf"

// ConfDir returns the provider configuration directory: the system directory
// for root and a per-user directory otherwise.
func ConfDir() string {
	if os.Geteuid() == 0 {
		return filepath.Join(string(filepath.Separator), "etc", "puppetlabs", "puppet")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".puppetlabs", "etc", "puppet")
	}
	return filepath.Join(home, ".puppetlabs", "etc", "puppet")
}

// DefaultConfigFile returns the config file path inside confDir. It does not
// touch the file system.
func DefaultConfigFile(confDir string) string {
	return filepath.Join(confDir, DefaultFileName)
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
