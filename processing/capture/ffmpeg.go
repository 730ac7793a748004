package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

const bytesPerPixel = 4

// commandFunc builds the process whose stdout carries raw RGBA frames.
type commandFunc func(ctx context.Context) *exec.Cmd

// pipeSource reads fixed-size raw RGBA frames from an ffmpeg process.
type pipeSource struct {
	releaseOnce sync.Once
	waitOnce    sync.Once

	name    string
	width   int
	height  int
	command commandFunc

	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	buffer []byte
	frames int

	waitErr error
}

func (ps *pipeSource) start(ctx context.Context) error {
	if ps.width <= 0 || ps.height <= 0 {
		return unavailable(nil, "%s: invalid frame size %dx%d", ps.name, ps.width, ps.height)
	}

	ps.cmd = ps.command(ctx)
	ps.cmd.Stderr = &ps.stderr

	stdout, err := ps.cmd.StdoutPipe()
	if err != nil {
		return unavailable(err, "%s: stdout pipe", ps.name)
	}

	if err := ps.cmd.Start(); err != nil {
		return unavailable(err, "%s: ffmpeg start error. Details: %s", ps.name, ps.stderr.String())
	}

	ps.stdout = stdout
	ps.buffer = make([]byte, ps.width*ps.height*bytesPerPixel)

	return nil
}

func (ps *pipeSource) Read() (image.Image, error) {
	if ps.stdout == nil {
		return nil, errors.Errorf("%s: read before open", ps.name)
	}

	if _, err := io.ReadFull(ps.stdout, ps.buffer); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ps.exitError()
		}
		return nil, errors.Wrapf(err, "%s: read error", ps.name)
	}
	ps.frames++

	pixelData := make([]byte, len(ps.buffer))
	copy(pixelData, ps.buffer)

	return &image.RGBA{
		Pix:    pixelData,
		Stride: ps.width * bytesPerPixel,
		Rect:   image.Rect(0, 0, ps.width, ps.height),
	}, nil
}

// exitError reaps the process once stdout is drained. A clean exit is the end
// of the stream; a failed one, or a stream that ended before its first frame,
// means the input could not be opened.
func (ps *pipeSource) exitError() error {
	ps.wait()

	if ps.waitErr != nil {
		return unavailable(ps.waitErr, "%s: ffmpeg exited. Details: %s", ps.name, strings.TrimSpace(ps.stderr.String()))
	}
	if ps.frames == 0 {
		return unavailable(nil, "%s: no frames received. Details: %s", ps.name, strings.TrimSpace(ps.stderr.String()))
	}
	return io.EOF
}

func (ps *pipeSource) wait() {
	ps.waitOnce.Do(func() {
		ps.waitErr = ps.cmd.Wait()
	})
}

func (ps *pipeSource) Release() error {
	ps.releaseOnce.Do(func() {
		if ps.stdout != nil {
			ps.stdout.Close()
		}
		if ps.cmd != nil && ps.cmd.Process != nil {
			ps.cmd.Process.Kill()
			ps.wait()
		}
	})
	return nil
}

func (ps *pipeSource) Name() string {
	return ps.name
}

// rawOutputArgs are the ffmpeg arguments that turn any input into a raw RGBA
// pipe scaled to width x height, optionally resampled to fps.
func rawOutputArgs(fps uint, width, height int) []string {
	filters := []string{fmt.Sprintf("scale=%d:%d", width, height)}
	if fps > 0 {
		filters = append([]string{fmt.Sprintf("fps=%d", fps)}, filters...)
	}

	return []string{
		"-vf", strings.Join(filters, ","),
		"-f", "image2pipe",
		"-pix_fmt", "rgba",
		"-vcodec", "rawvideo",
		"-",
	}
}

// fitWithin scales w x h down to fit maxW x maxH keeping the aspect ratio.
// Results are even, as required by most ffmpeg pixel formats.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}

	if maxW > 0 && w > maxW {
		h = h * maxW / w
		w = maxW
	}
	if maxH > 0 && h > maxH {
		w = w * maxH / h
		h = maxH
	}

	w -= w % 2
	h -= h % 2
	if w < 2 {
		w = 2
	}
	if h < 2 {
		h = 2
	}

	return w, h
}
