package analysis

import (
	"context"

	"github.com/matzehuels/stacklens/pkg/registry"
)

// AlternativesFinder suggests packages similar to a given one.
type AlternativesFinder struct {
	src Source
}

// NewAlternativesFinder creates an AlternativesFinder reading from src.
func NewAlternativesFinder(src Source) *AlternativesFinder {
	return &AlternativesFinder{src: src}
}

// Find returns the registry's similar packages for name.
func (f *AlternativesFinder) Find(ctx context.Context, name string) []registry.Alternative {
	alts := f.src.SimilarPackages(ctx, name)
	if alts == nil {
		return []registry.Alternative{}
	}
	return alts
}
