package capture

import (
	"context"
	"net/url"
	"os/exec"
)

var streamSchemes = map[string]bool{
	"http": true, "https": true, "rtsp": true, "rtmp": true,
}

// RemoteStreamer plays a network stream through ffmpeg after resolving the
// page URL.
type RemoteStreamer struct {
	pipeSource

	pageURL   string
	resolver  Resolver
	targetFPS uint
	maxWidth  int
	maxHeight int
}

func NewRemoteStreamer(pageURL string, resolver Resolver, targetFPS uint, maxWidth, maxHeight int) *RemoteStreamer {
	name := "Stream"
	if IsYouTubeURL(pageURL) {
		name = "YouTube"
	}

	return &RemoteStreamer{
		pipeSource: pipeSource{name: name},
		pageURL:    pageURL,
		resolver:   resolver,
		targetFPS:  targetFPS,
		maxWidth:   maxWidth,
		maxHeight:  maxHeight,
	}
}

func (rs *RemoteStreamer) Open(ctx context.Context) error {
	u, err := url.Parse(rs.pageURL)
	if err != nil || !streamSchemes[u.Scheme] {
		return unavailable(err, "could not open %s stream: unsupported url %q", rs.name, rs.pageURL)
	}

	stream, err := rs.resolver.Resolve(ctx, rs.pageURL)
	if err != nil {
		return unavailable(err, "could not open %s stream", rs.name)
	}

	w, h := stream.Width, stream.Height
	if w == 0 || h == 0 {
		if w, h, err = probeVideoDimensions(ctx, stream.URL); err != nil {
			return unavailable(err, "failed to probe %s stream", rs.name)
		}
	}

	rs.width, rs.height = fitWithin(w, h, rs.maxWidth, rs.maxHeight)

	args := append([]string{"-i", stream.URL}, rawOutputArgs(rs.targetFPS, rs.width, rs.height)...)
	rs.command = func(ctx context.Context) *exec.Cmd {
		return exec.CommandContext(ctx, "ffmpeg", args...)
	}

	return rs.start(ctx)
}
