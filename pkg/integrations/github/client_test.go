package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/stacklens/pkg/httputil"
	"github.com/matzehuels/stacklens/pkg/integrations"
)

func testClient(t *testing.T, server *httptest.Server, token string) *Client {
	t.Helper()
	return NewClient(server.URL, token,
		integrations.WithHTTPClient(server.Client()),
		integrations.WithRetry(httputil.NoRetry),
	)
}

func TestClient_Repo(t *testing.T) {
	pushed := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/repos/expressjs/express":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"full_name":         "expressjs/express",
				"stargazers_count":  64000,
				"forks_count":       15000,
				"open_issues_count": 180,
				"pushed_at":         pushed,
				"archived":          false,
				"license":           map[string]string{"spdx_id": "MIT"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	repo, err := testClient(t, server, "secret").Repo(context.Background(), "expressjs", "express")
	if err != nil {
		t.Fatalf("Repo() error: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if repo.Stars != 64000 || repo.Forks != 15000 || repo.OpenIssues != 180 {
		t.Errorf("repo = %+v", repo)
	}
	if repo.License != "MIT" {
		t.Errorf("license = %q", repo.License)
	}
	if repo.PushedAt == nil || !repo.PushedAt.Equal(pushed) {
		t.Errorf("pushedAt = %v", repo.PushedAt)
	}
}

func TestClient_RepoNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := testClient(t, server, "").Repo(context.Background(), "nobody", "nothing")
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestClient_RepoInvalidRef(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid refs must not reach the API")
	}))
	defer server.Close()

	if _, err := testClient(t, server, "").Repo(context.Background(), "-bad", "repo"); err == nil {
		t.Error("expected validation error")
	}
}

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		input     string
		wantOwner string
		wantRepo  string
		wantOK    bool
	}{
		{"https://github.com/expressjs/express", "expressjs", "express", true},
		{"git+https://github.com/expressjs/express.git", "expressjs", "express", true},
		{"git://github.com/lodash/lodash.git", "lodash", "lodash", true},
		{"ssh://git@github.com/facebook/react.git", "facebook", "react", true},
		{"git@github.com:vuejs/core.git", "vuejs", "core", true},
		{"https://github.com/babel/babel/tree/main/packages/babel-core", "babel", "babel", true},
		{"https://github.com/user/repo#readme", "user", "repo", true},
		{"  git@github.com:vuejs/core.git  ", "vuejs", "core", true},

		{"", "", "", false},
		{"https://gitlab.com/user/repo", "", "", false},
		{"http://github.com/user/repo", "", "", false},
		{"github:user/repo", "", "", false},
		{"https://github.com/onlyowner", "", "", false},
		{"https://github.com/user/..", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			owner, repo, ok := ParseRepoURL(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("got %s/%s, want %s/%s", owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}
}

func TestValidateRepoRef(t *testing.T) {
	tests := []struct {
		owner, repo string
		wantErr     bool
	}{
		{"expressjs", "express", false},
		{"a", "b.js", false},
		{"", "repo", true},
		{"owner", "", true},
		{"-owner", "repo", true},
		{"owner", "re po", true},
	}
	for _, tt := range tests {
		if err := ValidateRepoRef(tt.owner, tt.repo); (err != nil) != tt.wantErr {
			t.Errorf("ValidateRepoRef(%q, %q) error = %v, wantErr %v", tt.owner, tt.repo, err, tt.wantErr)
		}
	}
}
