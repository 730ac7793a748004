package capture

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
)

type LocalFileStreamer struct {
	pipeSource

	path      string
	targetFPS uint
	maxWidth  int
	maxHeight int
}

func NewLocalStreamer(path string, targetFPS uint, maxWidth, maxHeight int) *LocalFileStreamer {
	return &LocalFileStreamer{
		pipeSource: pipeSource{name: filepath.Base(path)},
		path:       path,
		targetFPS:  targetFPS,
		maxWidth:   maxWidth,
		maxHeight:  maxHeight,
	}
}

func (ls *LocalFileStreamer) Open(ctx context.Context) error {
	if _, err := os.Stat(ls.path); err != nil {
		return unavailable(err, "failed to open video source: %s", ls.name)
	}

	w, h, err := probeVideoDimensions(ctx, ls.path)
	if err != nil {
		return unavailable(err, "failed to probe video: %s", ls.name)
	}

	ls.width, ls.height = fitWithin(w, h, ls.maxWidth, ls.maxHeight)

	args := append([]string{"-i", ls.path}, rawOutputArgs(ls.targetFPS, ls.width, ls.height)...)
	ls.command = func(ctx context.Context) *exec.Cmd {
		return exec.CommandContext(ctx, "ffmpeg", args...)
	}

	return ls.start(ctx)
}

type probeData struct {
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
}

// probeVideoDimensions asks ffprobe for the size of the first video stream of
// input, which may be a path or a URL.
func probeVideoDimensions(ctx context.Context, input string) (int, int, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "json",
		input,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, 0, errors.Wrap(err, "ffprobe")
	}

	return parseProbe(output)
}

func parseProbe(output []byte) (int, int, error) {
	var data probeData
	if err := json.Unmarshal(output, &data); err != nil {
		return 0, 0, errors.Wrap(err, "decode ffprobe output")
	}

	if len(data.Streams) == 0 {
		return 0, 0, errors.New("no video streams found")
	}

	return data.Streams[0].Width, data.Streams[0].Height, nil
}
