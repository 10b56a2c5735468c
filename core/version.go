package core

import (
	"fmt"
	"strconv"
	"strings"
)

// InitialVersion is the version assigned to the first artifact at a key.
const InitialVersion = "1.0"

// ParseVersion splits a "major.minor" version string into its components.
func ParseVersion(version string) (major, minor int, err error) {
	parts := strings.Split(version, ".")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
	return major, minor, nil
}

// BumpVersion returns the next minor version for an overwrite of the same key.
// The major component is left unchanged. An unparseable prior version falls
// back to the initial version rather than failing the save.
func BumpVersion(prior string) string {
	major, minor, err := ParseVersion(prior)
	if err != nil {
		return InitialVersion
	}
	return fmt.Sprintf("%d.%d", major, minor+1)
}
