package analysis

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stacklens/pkg/registry"
)

func TestClassifyChange(t *testing.T) {
	tests := []struct {
		v, prev string
		want    ChangeType
	}{
		{"2.0.0", "1.9.3", ChangeMajor},
		{"1.10.0", "1.9.3", ChangeMinor},
		{"1.9.4", "1.9.3", ChangePatch},
		{"2.0.0-rc.1", "1.9.3", ChangePrerelease},
		{"2.0.0", "2.0.0-rc.1", ChangeMajor},
		{"2.1.0", "2.1.0-beta.2", ChangeMinor},
		{"2.1.3", "2.1.3-beta.2", ChangePatch},
		{"banana", "1.0.0", ChangeUnknown},
		{"1.0.0", "apple", ChangeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.v+"<-"+tt.prev, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyChange(tt.v, tt.prev))
		})
	}
}

func TestVersionHistory(t *testing.T) {
	published := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	info := registry.Metadata{Versions: map[string]registry.VersionInfo{
		"1.0.11": {Deprecated: true, Reason: "use 2.x", PublishedAt: published},
	}}
	versions := make([]string, 0, 12)
	for i := 11; i >= 0; i-- {
		versions = append(versions, fmt.Sprintf("1.0.%d", i))
	}

	h := VersionHistory(info, versions)
	require.Len(t, h, 10)
	assert.Equal(t, "1.0.11", h[0].Version)
	assert.True(t, h[0].Deprecated)
	assert.Equal(t, "use 2.x", h[0].DeprecationReason)
	require.NotNil(t, h[0].PublishedDate)
	assert.Equal(t, published, *h[0].PublishedDate)
	assert.Nil(t, h[1].PublishedDate)

	// the tenth entry still has an older version to compare against
	assert.Equal(t, ChangePatch, h[9].ChangeType)
}

func TestVersionHistoryShort(t *testing.T) {
	h := VersionHistory(registry.Metadata{}, []string{"1.0.0"})
	require.Len(t, h, 1)
	assert.Equal(t, ChangeUnknown, h[0].ChangeType)

	assert.Empty(t, VersionHistory(registry.Metadata{}, nil))
}
