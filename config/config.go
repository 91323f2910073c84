package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/sirupsen/logrus"
)

// DefaultOCIConfigPath is where the OCI CLI keeps its configuration.
const DefaultOCIConfigPath = "~/.oci/config"

// ExpandPath replaces a leading ~ with the current user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %v", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// LoadOCIConfig loads the given profile (DEFAULT when empty) from the OCI
// configuration file at configFilePath.
func LoadOCIConfig(configFilePath, profile string, log logrus.FieldLogger) (common.ConfigurationProvider, error) {
	if profile == "" {
		profile = "DEFAULT"
	}
	path, err := ExpandPath(configFilePath)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %v", path, err)
	}
	log.WithFields(logrus.Fields{"path": path, "profile": profile}).Debug("loading OCI config")
	provider, err := common.ConfigurationProviderFromFileWithProfile(path, profile, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load config from file: %v", err)
	}
	return provider, nil
}
