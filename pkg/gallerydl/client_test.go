package gallerydl

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "stogramctl/pkg/errors"
	"stogramctl/pkg/runner"
)

func TestRequestArgs(t *testing.T) {
	req := Request{
		Username:  "alice",
		MediaType: "posts",
		Browser:   "firefox",
		PostLimit: 10,
		OutputDir: "instagram/alice",
	}

	assert.Equal(t, []string{
		"https://www.instagram.com/alice/",
		"--cookies-from-browser", "firefox",
		"-o", "include=posts",
		"-o", "extractor.instagram.max-posts=10",
		"-D", "instagram/alice",
	}, req.Args())
}

func TestRequestArgsStories(t *testing.T) {
	req := Request{
		Username:  "alice",
		MediaType: "Stories",
		Browser:   "chromium",
		PostLimit: 0,
		OutputDir: "instagram/alice",
	}

	args := req.Args()
	assert.Equal(t, "https://www.instagram.com/stories/alice/", args[0])
	assert.Contains(t, args, "include=stories")
	assert.Contains(t, args, "extractor.instagram.max-posts=0")
}

func TestFetch(t *testing.T) {
	fake := &runner.FakeRunner{}
	client := NewClient("gallery-dl", fake)

	err := client.Fetch(context.Background(), Request{
		Username:  "alice",
		MediaType: "posts",
		Browser:   "firefox",
		PostLimit: 5,
		OutputDir: "instagram/alice",
	})
	require.NoError(t, err)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "gallery-dl", calls[0].Name)
	assert.Equal(t, "https://www.instagram.com/alice/", calls[0].Args[0])
}

func TestFetchNonZeroExit(t *testing.T) {
	fake := &runner.FakeRunner{Err: errors.New("gallery-dl exited with code 1")}
	client := NewClient("gallery-dl", fake)

	err := client.Fetch(context.Background(), Request{Username: "alice", Browser: "firefox"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeScraper))
}
