// Package gallerydl drives the external gallery-dl binary.
package gallerydl

import (
	"context"
	"fmt"
	"strings"

	apperrors "stogramctl/pkg/errors"
	"stogramctl/pkg/runner"
)

// Request describes one fetch of a user's media.
type Request struct {
	Username  string
	MediaType string // "posts" or "stories"
	Browser   string // browser profile to borrow cookies from
	PostLimit int    // 0 means unbounded
	OutputDir string
}

// Client invokes gallery-dl through a runner.
type Client struct {
	binary string
	runner runner.Runner
}

// NewClient creates a gallery-dl client.
func NewClient(binary string, r runner.Runner) *Client {
	return &Client{binary: binary, runner: r}
}

// TargetURL returns the Instagram URL for the request's media type.
func (req Request) TargetURL() string {
	if strings.EqualFold(req.MediaType, "stories") {
		return fmt.Sprintf("https://www.instagram.com/stories/%s/", req.Username)
	}
	return fmt.Sprintf("https://www.instagram.com/%s/", req.Username)
}

// Args returns the full gallery-dl argument list for the request.
func (req Request) Args() []string {
	include := "posts"
	if strings.EqualFold(req.MediaType, "stories") {
		include = "stories"
	}

	return []string{
		req.TargetURL(),
		"--cookies-from-browser", req.Browser,
		"-o", "include=" + include,
		"-o", fmt.Sprintf("extractor.instagram.max-posts=%d", req.PostLimit),
		"-D", req.OutputDir,
	}
}

// Fetch runs gallery-dl for the request. A non-zero exit is surfaced as a
// scraper error; files the scraper wrote before failing are left in place.
func (c *Client) Fetch(ctx context.Context, req Request) error {
	if err := c.runner.Run(ctx, c.binary, req.Args()...); err != nil {
		return apperrors.Wrap(apperrors.ErrorTypeScraper,
			fmt.Sprintf("gallery-dl failed for @%s", req.Username), err)
	}
	return nil
}
