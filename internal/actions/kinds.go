package actions

import (
	"fmt"
	"path/filepath"

	"vision/internal/config"
)

type promptKind int

const (
	promptNone promptKind = iota
	promptImage
	promptVideo
	promptURL
)

type action struct {
	prompt   promptKind
	still    bool
	busyText string

	openingText func(target string) string
	openFailed  func(target string) string
	activeText  func(name string) string
	windowTitle func(name string) string
}

var actionsByKind = map[config.SourceType]action{
	config.SourceImage: {
		prompt:   promptImage,
		still:    true,
		busyText: "Opening file dialog...",
		openingText: func(target string) string {
			return fmt.Sprintf("Processing %s...", filepath.Base(target))
		},
		openFailed:  func(string) string { return "Error loading image" },
		activeText:  func(string) string { return "Detection complete. Displaying results..." },
		windowTitle: func(string) string { return "Detected Objects - Press any key to close" },
	},
	config.SourceWebcam: {
		prompt:      promptNone,
		busyText:    "Starting webcam...",
		openFailed:  func(string) string { return "Webcam error" },
		activeText:  func(string) string { return "Webcam active. Press 'q' to quit." },
		windowTitle: func(string) string { return "Webcam Detection - Press 'q' to quit" },
	},
	config.SourceLocal: {
		prompt:   promptVideo,
		busyText: "Opening file dialog...",
		openFailed: func(target string) string {
			return fmt.Sprintf("Error opening %s", filepath.Base(target))
		},
		activeText:  playingText,
		windowTitle: detectionTitle,
	},
	config.SourceYouTube: {
		prompt:      promptURL,
		busyText:    "Waiting for YouTube URL...",
		openFailed:  func(string) string { return "YouTube stream error" },
		activeText:  playingText,
		windowTitle: detectionTitle,
	},
}

func playingText(name string) string {
	return fmt.Sprintf("Playing %s. Press 'q' to quit.", name)
}

func detectionTitle(name string) string {
	return fmt.Sprintf("%s Detection - Press 'q' to quit", name)
}
