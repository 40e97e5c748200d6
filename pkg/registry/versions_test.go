package registry

import (
	"reflect"
	"testing"
)

func TestSortVersionsDesc(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"semver", []string{"1.0.0", "1.10.0", "1.9.1"}, []string{"1.10.0", "1.9.1", "1.0.0"}},
		{"prerelease below release", []string{"2.0.0-rc.1", "2.0.0", "1.0.0"}, []string{"2.0.0", "2.0.0-rc.1", "1.0.0"}},
		{"non-semver last", []string{"banana", "1.0.0", "apple"}, []string{"1.0.0", "apple", "banana"}},
		{"empty", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := append([]string(nil), tt.in...)
			if got == nil {
				got = []string{}
			}
			SortVersionsDesc(got)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SortVersionsDesc(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
