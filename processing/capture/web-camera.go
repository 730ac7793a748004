package capture

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
)

type FFmpegWebcamStreamer struct {
	pipeSource

	deviceName string
	targetFPS  uint
}

func NewFFmpegWebcam(deviceName string, targetFps uint, width, height int) *FFmpegWebcamStreamer {
	ws := &FFmpegWebcamStreamer{
		pipeSource: pipeSource{
			name:   "Webcam",
			width:  width - width%2,
			height: height - height%2,
		},
		deviceName: deviceName,
		targetFPS:  targetFps,
	}
	ws.command = ws.buildCommand
	return ws
}

func (ws *FFmpegWebcamStreamer) Open(ctx context.Context) error {
	if ws.deviceName == "" {
		return unavailable(nil, "could not access the webcam: no device selected")
	}
	return ws.start(ctx)
}

func (ws *FFmpegWebcamStreamer) buildCommand(ctx context.Context) *exec.Cmd {
	var input []string

	switch runtime.GOOS {
	case "windows":
		input = []string{"-f", "dshow", "-i", fmt.Sprintf("video=%s", ws.deviceName)}
	case "darwin":
		input = []string{"-f", "avfoundation", "-i", ws.deviceName}
	default:
		input = []string{"-f", "v4l2", "-i", ws.deviceName}
	}

	args := append(input, rawOutputArgs(ws.targetFPS, ws.width, ws.height)...)
	return exec.CommandContext(ctx, "ffmpeg", args...)
}

var dshowDevice = regexp.MustCompile(`"([^"]+)"\s+\(video\)`)

// ListCameras returns the capture devices ffmpeg can open on this platform.
func ListCameras() ([]string, error) {
	switch runtime.GOOS {
	case "windows":
		cmd := exec.Command("ffmpeg", "-list_devices", "true", "-f", "dshow", "-i", "dummy")
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		cmd.Run()

		return parseDshowDevices(stderr.String()), nil

	case "darwin":
		return []string{"0"}, nil

	default:
		devices, err := filepath.Glob("/dev/video*")
		if err != nil {
			return nil, err
		}
		sort.Strings(devices)
		return devices, nil
	}
}

func parseDshowDevices(output string) []string {
	var cameras []string
	seen := make(map[string]bool)

	for _, m := range dshowDevice.FindAllStringSubmatch(output, -1) {
		name := m[1]
		if name != "dummy" && !seen[name] {
			cameras = append(cameras, name)
			seen[name] = true
		}
	}

	return cameras
}
