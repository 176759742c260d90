// Package thumbnail extracts a single representative frame from a video
// with the external ffmpeg binary.
package thumbnail

import (
	"context"
	"fmt"
	"strconv"

	apperrors "stogramctl/pkg/errors"
	"stogramctl/pkg/runner"
)

// Extractor invokes ffmpeg through a runner. Output is discarded by the
// runner supplied at construction; the Stogram flow uses a quiet runner.
type Extractor struct {
	binary string
	seek   int
	runner runner.Runner
}

// NewExtractor creates a thumbnail extractor seeking to seekSeconds before
// grabbing the frame.
func NewExtractor(binary string, seekSeconds int, r runner.Runner) *Extractor {
	return &Extractor{binary: binary, seek: seekSeconds, runner: r}
}

// Args returns the ffmpeg argument list for extracting one frame.
func (e *Extractor) Args(videoPath, thumbPath string) []string {
	return []string{
		"-ss", strconv.Itoa(e.seek),
		"-i", videoPath,
		"-vframes", "1",
		thumbPath,
	}
}

// Extract writes a JPEG frame from videoPath to thumbPath.
func (e *Extractor) Extract(ctx context.Context, videoPath, thumbPath string) error {
	if err := e.runner.Run(ctx, e.binary, e.Args(videoPath, thumbPath)...); err != nil {
		return apperrors.Wrap(apperrors.ErrorTypeThumbnail,
			fmt.Sprintf("frame extraction failed for %s", videoPath), err)
	}
	return nil
}
