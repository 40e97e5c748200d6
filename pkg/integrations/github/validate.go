package github

import (
	"errors"
	"regexp"
	"strings"

	"github.com/matzehuels/stacklens/pkg/integrations"
)

// Regex patterns for GitHub resource validation.
var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ValidateOwner validates a GitHub username or organization name.
func ValidateOwner(owner string) error {
	if owner == "" {
		return errors.New("owner is required")
	}
	if !validOwner.MatchString(owner) {
		return errors.New("invalid owner format: must be 1-39 alphanumeric characters or hyphens, cannot start with hyphen")
	}
	return nil
}

// ValidateRepo validates a GitHub repository name.
func ValidateRepo(repo string) error {
	if repo == "" {
		return errors.New("repo is required")
	}
	if repo == "." || repo == ".." || !validRepo.MatchString(repo) {
		return errors.New("invalid repo format: must be 1-100 alphanumeric characters, hyphens, underscores, or dots")
	}
	return nil
}

// ValidateRepoRef validates both owner and repo parameters.
func ValidateRepoRef(owner, repo string) error {
	if err := ValidateOwner(owner); err != nil {
		return err
	}
	return ValidateRepo(repo)
}

const canonicalRepoPrefix = "https://github.com/"

// ParseRepoURL extracts owner and repo from a repository URL as written in
// a package manifest. The URL is first normalized with
// [integrations.NormalizeRepoURL], so https://, git+https://, git://,
// ssh://git@ and git@ forms are recognized. A trailing ".git" and anything
// after owner/repo (paths, fragments) are dropped. ok is false for any
// other URL.
func ParseRepoURL(raw string) (owner, repo string, ok bool) {
	rest, found := strings.CutPrefix(integrations.NormalizeRepoURL(raw), canonicalRepoPrefix)
	if !found {
		return "", "", false
	}
	rest, _, _ = strings.Cut(rest, "#")
	rest, _, _ = strings.Cut(rest, "?")
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 2 {
		return "", "", false
	}
	owner, repo = parts[0], strings.TrimSuffix(parts[1], ".git")
	if ValidateRepoRef(owner, repo) != nil {
		return "", "", false
	}
	return owner, repo, true
}
