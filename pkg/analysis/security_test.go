package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/stacklens/pkg/registry"
)

func TestClassifyLicense(t *testing.T) {
	tests := []struct {
		license string
		want    string
	}{
		{"MIT", LicensePermissive},
		{"BSD-3-Clause", LicensePermissive},
		{"Apache-2.0", LicensePermissive},
		{"(MIT OR GPL-3.0)", LicensePermissive},
		{"GPL-3.0-only", LicenseCopyleft},
		{"LGPL-2.1", LicenseCopyleft},
		{"AGPL-3.0", LicenseCopyleft},
		{"Proprietary", LicenseProprietary},
		{"SEE LICENSE IN commercial.txt", LicenseProprietary},
		{"ISC", LicenseOther},
		{"Unlicense", LicenseOther},
		{"", LicenseUnknown},
		{"   ", LicenseUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.license, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyLicense(tt.license))
		})
	}
}

func TestSecurityAnalyzer(t *testing.T) {
	src := newFakeSource()
	src.packages["request"] = registry.Metadata{Name: "request", License: "Apache-2.0"}
	src.deprecated["request"] = true
	src.advisories["request"] = []registry.Vulnerability{
		{ID: "1", Severity: "moderate"},
		{ID: "2", Severity: "high"},
	}

	info := NewSecurityAnalyzer(src, nil).Analyze(context.Background(), "request", "2.88.2")

	assert.Equal(t, 2, info.VulnerabilityCount)
	assert.True(t, info.HasDeprecatedDependencies)
	assert.Equal(t, []string{"request"}, info.DeprecatedPackages)
	assert.Equal(t, LicensePermissive, info.LicenseCompatibility)
}

func TestSecurityAnalyzerDefaults(t *testing.T) {
	src := newFakeSource()
	src.panics["IsDeprecated"] = true

	info := NewSecurityAnalyzer(src, nil).Analyze(context.Background(), "ghost", "1.0.0")

	assert.Zero(t, info.VulnerabilityCount)
	assert.NotNil(t, info.Vulnerabilities)
	assert.False(t, info.HasDeprecatedDependencies)
	assert.Equal(t, []string{}, info.DeprecatedPackages)
	assert.Equal(t, LicenseUnknown, info.LicenseCompatibility)
}
