package registry

import (
	"context"
	"strings"
	"unicode"

	"github.com/matzehuels/stacklens/pkg/cache"
)

const (
	maxKeywords      = 3
	minDescription   = 10 // descriptions this short or shorter yield no keywords
	similarSearchMax = 10
	maxSimilar       = 5
)

var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
}

// SimilarPackages suggests up to five packages found by searching for
// keywords from name's description. name itself is never included.
func (c *Client) SimilarPackages(ctx context.Context, name string) []Alternative {
	return cache.Memoize(ctx, c.cache, cache.SimilarPackages, name, func(ctx context.Context) ([]Alternative, cache.Outcome) {
		info := c.PackageInfo(ctx, name)
		query := Keywords(info.Description)
		if query == "" {
			if info.IsEmpty() {
				return []Alternative{}, cache.Fallback
			}
			return []Alternative{}, cache.Fresh
		}

		hits := c.SearchPackages(ctx, query, similarSearchMax)
		alternatives := make([]Alternative, 0, maxSimilar)
		for _, hit := range hits {
			if hit.Name == name {
				continue
			}
			if len(alternatives) == maxSimilar {
				break
			}
			alternatives = append(alternatives, newAlternative(hit))
		}
		if len(hits) == 0 {
			return alternatives, cache.Fallback
		}
		return alternatives, cache.Fresh
	})
}

func newAlternative(hit SearchResult) Alternative {
	desc := hit.Description
	if desc == "" {
		desc = "Alternative package"
	}
	return Alternative{
		Name:                hit.Name,
		Description:         desc,
		MigrationDifficulty: "moderate",
		Recommendation:      "Consider as alternative",
	}
}

// Keywords extracts a search query from a package description: the first
// three lower-cased words longer than three characters that are not
// stopwords, joined by spaces. Descriptions of ten characters or fewer
// yield "".
func Keywords(description string) string {
	if len(description) <= minDescription {
		return ""
	}
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(description))

	words := make([]string, 0, maxKeywords)
	for _, w := range strings.Fields(cleaned) {
		if len(w) <= 3 || stopwords[w] {
			continue
		}
		words = append(words, w)
		if len(words) == maxKeywords {
			break
		}
	}
	return strings.Join(words, " ")
}
