// Package github provides an HTTP client for the GitHub REST API.
//
// # Overview
//
// Only repository metadata is read (https://api.github.com/repos/{owner}/{repo}):
// stars, forks, open issues, the last push time and the archived flag feed
// the maintenance and popularity dimensions of a package report.
//
// # Usage
//
//	client := github.NewClient("", os.Getenv("GITHUB_TOKEN"))
//	owner, repo, ok := github.ParseRepoURL("git+https://github.com/expressjs/express.git")
//	if ok {
//	    info, err := client.Repo(ctx, owner, repo)
//	}
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// With a token, the limit is 5000 requests/hour.
package github
