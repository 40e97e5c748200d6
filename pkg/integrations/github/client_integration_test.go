//go:build integration

package github

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRepo_Integration(t *testing.T) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		t.Skip("GITHUB_TOKEN not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := NewClient("", token).Repo(ctx, "expressjs", "express")
	if err != nil {
		t.Fatalf("Repo() error: %v", err)
	}
	if repo.Stars == 0 {
		t.Error("expressjs/express should have stars")
	}
	if repo.PushedAt == nil {
		t.Error("pushed_at should be set")
	}
}
