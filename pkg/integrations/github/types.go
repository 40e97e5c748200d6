package github

import "time"

// Repo holds the repository fields used for maintenance and popularity
// signals.
type Repo struct {
	FullName    string     `json:"fullName"`
	Description string     `json:"description,omitempty"`
	HTMLURL     string     `json:"htmlUrl,omitempty"`
	Stars       int        `json:"stars"`
	Forks       int        `json:"forks"`
	Watchers    int        `json:"watchers"`
	OpenIssues  int        `json:"openIssues"`
	License     string     `json:"license,omitempty"`
	Language    string     `json:"language,omitempty"`
	Topics      []string   `json:"topics,omitempty"`
	Archived    bool       `json:"archived"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	PushedAt    *time.Time `json:"pushedAt,omitempty"`
}

// IsEmpty reports whether r is the zero repository, which the registry
// client returns for unknown or unreachable repositories.
func (r Repo) IsEmpty() bool {
	return r.FullName == "" && r.Stars == 0 && r.PushedAt == nil
}

type repoResponse struct {
	FullName    string     `json:"full_name"`
	Description string     `json:"description"`
	HTMLURL     string     `json:"html_url"`
	Stars       int        `json:"stargazers_count"`
	Forks       int        `json:"forks_count"`
	Watchers    int        `json:"subscribers_count"`
	OpenIssues  int        `json:"open_issues_count"`
	CreatedAt   *time.Time `json:"created_at"`
	PushedAt    *time.Time `json:"pushed_at"`
	License     struct {
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
	Language string   `json:"language"`
	Topics   []string `json:"topics"`
	Archived bool     `json:"archived"`
}
