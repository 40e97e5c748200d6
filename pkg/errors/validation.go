package errors

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	maxNameLength    = 214 // npm's own limit for package names
	maxVersionLength = 256
)

// ValidatePackageName validates a package name for safety and correctness.
// It rejects names that could be used for path traversal or injection
// against the registry URLs the name is interpolated into.
//
// The rules are intentionally conservative:
//   - No empty names
//   - No control characters or whitespace
//   - No path traversal sequences (.., //, backslash)
//   - Maximum length of 214 characters
//
// npm-specific syntax is checked by [ValidateNpmPackageName].
func ValidatePackageName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidPackage, "package name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters")
		}
	}

	for _, pattern := range []string{"..", "//", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// npmPackageNameRegex matches npm package names, optionally scoped.
// Upper case is accepted because the registry still serves legacy
// packages such as "JSONStream".
var npmPackageNameRegex = regexp.MustCompile(`^(@[A-Za-z0-9-~][A-Za-z0-9-._~]*/)?[A-Za-z0-9-~][A-Za-z0-9-._~]*$`)

// ValidateNpmPackageName validates an npm package name.
func ValidateNpmPackageName(name string) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}
	if !npmPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid npm package name: %q", name)
	}
	return nil
}

// ValidateVersion validates a version, dist-tag or range string.
// Empty is allowed and means "latest".
func ValidateVersion(version string) error {
	if version == "" {
		return nil
	}
	if len(version) > maxVersionLength {
		return New(ErrCodeInvalidVersion, "version too long (max %d characters)", maxVersionLength)
	}
	for _, r := range version {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidVersion, "version contains invalid characters")
		}
	}
	if strings.ContainsAny(version, "/\\?#") {
		return New(ErrCodeInvalidVersion, "invalid version: %q", version)
	}
	return nil
}
