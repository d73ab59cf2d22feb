package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckConfigCompatibility checks whether a configuration file written for
// configVersion can be loaded by a binary at binaryVersion.
//
// Compatibility Rules:
//   - If either version is "main" (development build), the check is skipped
//   - An empty config version is accepted (unversioned file)
//   - Major versions must match exactly
//   - The config minor version must not be newer than the binary's
//   - Patch versions can differ
//
// Examples:
//   - Binary 0.3.0, Config 0.3.0 -> OK
//   - Binary 0.3.2, Config 0.2.9 -> OK (older config)
//   - Binary 0.3.0, Config 0.4.0 -> ERROR (config needs a newer binary)
//   - Binary 1.0.0, Config 0.3.0 -> ERROR (major differs)
func CheckConfigCompatibility(binaryVersion, configVersion string) error {
	binaryVersion = strings.TrimPrefix(binaryVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if configVersion == "" || binaryVersion == "main" || configVersion == "main" {
		return nil
	}

	binarySemver, err := semver.NewVersion(binaryVersion)
	if err != nil {
		return fmt.Errorf("invalid binary version '%s': %w", binaryVersion, err)
	}

	configSemver, err := semver.NewVersion(configVersion)
	if err != nil {
		return fmt.Errorf("invalid config version '%s': %w", configVersion, err)
	}

	if binarySemver.Major() != configSemver.Major() {
		return fmt.Errorf("major version mismatch: binary is %d.x.x but config requires %d.x.x",
			binarySemver.Major(), configSemver.Major())
	}

	if configSemver.Minor() > binarySemver.Minor() {
		return fmt.Errorf("config requires %d.%d.x but binary is %d.%d.x",
			configSemver.Major(), configSemver.Minor(),
			binarySemver.Major(), binarySemver.Minor())
	}

	return nil
}
