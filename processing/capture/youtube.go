package capture

import (
	"context"
	"net/url"
	"strings"

	"github.com/kkdai/youtube/v2"
	"github.com/pkg/errors"
)

// Stream is a direct media URL plus its frame size when known.
type Stream struct {
	URL    string
	Width  int
	Height int
}

// Resolver turns a page URL into something ffmpeg can read.
type Resolver interface {
	Resolve(ctx context.Context, pageURL string) (Stream, error)
}

// YouTubeResolver resolves youtube.com and youtu.be links; other URLs are
// returned unchanged.
type YouTubeResolver struct {
	Client  *youtube.Client
	Quality string
}

func NewYouTubeResolver(quality string) *YouTubeResolver {
	return &YouTubeResolver{Client: &youtube.Client{}, Quality: quality}
}

func (r *YouTubeResolver) Resolve(ctx context.Context, pageURL string) (Stream, error) {
	if !IsYouTubeURL(pageURL) {
		return Stream{URL: pageURL}, nil
	}

	video, err := r.Client.GetVideoContext(ctx, pageURL)
	if err != nil {
		return Stream{}, errors.Wrap(err, "fetch video metadata")
	}

	format := pickFormat(video.Formats, r.Quality)
	if format == nil {
		return Stream{}, errors.Errorf("no playable video format for %q", video.Title)
	}

	streamURL, err := r.Client.GetStreamURLContext(ctx, video, format)
	if err != nil {
		return Stream{}, errors.Wrap(err, "resolve stream url")
	}

	return Stream{URL: streamURL, Width: format.Width, Height: format.Height}, nil
}

// pickFormat prefers the requested quality label and otherwise the largest
// format carrying a video track.
func pickFormat(formats youtube.FormatList, quality string) *youtube.Format {
	var best *youtube.Format

	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "video/") || f.Width == 0 {
			continue
		}
		if quality != "" && f.QualityLabel == quality {
			return f
		}
		if best == nil || f.Width*f.Height > best.Width*best.Height {
			best = f
		}
	}

	return best
}

func IsYouTubeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtu.be":
		return true
	}
	return false
}
