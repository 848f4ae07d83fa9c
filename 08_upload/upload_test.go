package upload

import (
	"context"
	"testing"

	"audiobook-pipeline/config"

	"google.golang.org/api/option"
)

func TestGetOAuthClientRequiresCredentials(t *testing.T) {
	t.Setenv("YOUTUBE_CLIENT_ID", "")
	t.Setenv("YOUTUBE_CLIENT_SECRET", "")
	t.Setenv("YOUTUBE_REFRESH_TOKEN", "")

	u := New(&config.Config{})
	if _, err := u.getOAuthClient(context.Background()); err == nil {
		t.Fatalf("expected error when credentials are missing")
	}
}

func TestGetOAuthClientBuildsHTTPClient(t *testing.T) {
	t.Setenv("YOUTUBE_CLIENT_ID", "id")
	t.Setenv("YOUTUBE_CLIENT_SECRET", "secret")
	t.Setenv("YOUTUBE_REFRESH_TOKEN", "refresh")

	u := New(&config.Config{})
	client, err := u.getOAuthClient(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client == nil || client.Transport == nil {
		t.Fatalf("expected an HTTP client with an oauth transport, got %+v", client)
	}

	// the client must be usable as a youtube service option directly
	_ = option.WithHTTPClient(client)
}
