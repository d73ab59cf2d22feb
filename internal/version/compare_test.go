package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConfigCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		binaryVersion string
		configVersion string
		expectError   bool
		errorContains string
	}{
		{
			name:          "exact match",
			binaryVersion: "0.3.0",
			configVersion: "0.3.0",
		},
		{
			name:          "binary patch higher",
			binaryVersion: "0.3.4",
			configVersion: "0.3.0",
		},
		{
			name:          "config patch higher",
			binaryVersion: "0.3.0",
			configVersion: "0.3.7",
		},
		{
			name:          "older config minor",
			binaryVersion: "0.5.0",
			configVersion: "0.2.1",
		},
		{
			name:          "unversioned config",
			binaryVersion: "0.3.0",
			configVersion: "",
		},
		{
			name:          "binary is main",
			binaryVersion: "main",
			configVersion: "9.9.9",
		},
		{
			name:          "config is main",
			binaryVersion: "0.3.0",
			configVersion: "main",
		},
		{
			name:          "v prefix on both",
			binaryVersion: "v0.3.0",
			configVersion: "v0.3.0",
		},
		{
			name:          "prerelease binary",
			binaryVersion: "0.3.0-rc.1",
			configVersion: "0.3.0",
		},
		{
			name:          "newer config minor",
			binaryVersion: "0.3.0",
			configVersion: "0.4.0",
			expectError:   true,
			errorContains: "config requires 0.4.x",
		},
		{
			name:          "major differs",
			binaryVersion: "1.0.0",
			configVersion: "0.3.0",
			expectError:   true,
			errorContains: "major version mismatch",
		},
		{
			name:          "invalid binary version",
			binaryVersion: "not-a-version",
			configVersion: "0.3.0",
			expectError:   true,
			errorContains: "invalid binary version",
		},
		{
			name:          "invalid config version",
			binaryVersion: "0.3.0",
			configVersion: "latest",
			expectError:   true,
			errorContains: "invalid config version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConfigCompatibility(tt.binaryVersion, tt.configVersion)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, Version, GetVersion())
}
