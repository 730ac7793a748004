package config

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
)

type SourceType string

const (
	SourceImage   SourceType = "Image"
	SourceWebcam  SourceType = "Web-Camera"
	SourceLocal   SourceType = "Local"
	SourceYouTube SourceType = "YouTube"

	BackendDNN    string = "dnn"
	BackendRemote string = "remote"

	DefaultConfigPath           string = "config.json"
	DefaultModelPath            string = "yolov8m.onnx"
	DefaultDetectorProcessorUrl string = "localhost:8080"
)

var SourcesList = [...]string{
	string(SourceImage),
	string(SourceWebcam),
	string(SourceLocal),
	string(SourceYouTube),
}

type DetectorConfig struct {
	Backend       string  `json:"backend"`
	ModelPath     string  `json:"model_path"`
	Host          string  `json:"host"`
	ConfThreshold float32 `json:"conf_threshold"`
	IoUThreshold  float32 `json:"iou_threshold"`
}

type CalibrationConfig struct {
	Enabled       bool               `json:"enabled"`
	FocalLength   float64            `json:"focal_length"`
	KnownWidthsCM map[string]float64 `json:"known_widths_cm"`
}

type WebcamConfig struct {
	DeviceID string `json:"device_id"`
}

type YouTubeConfig struct {
	Quality string `json:"quality"`
}

type LogConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Config struct {
	mu sync.RWMutex

	TargetFPS    uint `json:"target_fps"`
	ScaledWitdh  int  `json:"scaled_witdh"`
	ScaledHeight int  `json:"scaled_height"`
	ShowFPS      bool `json:"show_fps"`

	Detector    DetectorConfig    `json:"detector"`
	Calibration CalibrationConfig `json:"calibration"`
	Webcam      WebcamConfig      `json:"webcam"`
	YouTube     YouTubeConfig     `json:"youtube"`
	Log         LogConfig         `json:"log"`
}

func (c *Config) GetFPS() uint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.TargetFPS
}

func (c *Config) SetFPS(fps uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.TargetFPS = fps
}

func (c *Config) GetWidth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ScaledWitdh
}

func (c *Config) SetWidth(width int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ScaledWitdh = width
}

func (c *Config) GetHeight() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ScaledHeight
}

func (c *Config) SetHeight(height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ScaledHeight = height
}

func (c *Config) GetShowFPS() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ShowFPS
}

func (c *Config) SetShowFPS(show bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ShowFPS = show
}

func (c *Config) GetDeviceID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Webcam.DeviceID
}

func (c *Config) GetQuality() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.YouTube.Quality
}

func (c *Config) GetDetector() DetectorConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Detector
}

// GetCalibration returns a copy; the map is cloned so callers may keep it.
func (c *Config) GetCalibration() CalibrationConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cal := c.Calibration
	cal.KnownWidthsCM = make(map[string]float64, len(c.Calibration.KnownWidthsCM))
	for k, v := range c.Calibration.KnownWidthsCM {
		cal.KnownWidthsCM[k] = v
	}
	return cal
}

func (c *Config) SetFocalLength(focal float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calibration.FocalLength = focal
}

func (c *Config) SetCalibrationEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calibration.Enabled = enabled
}

func (c *Config) Save(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap(err, "open config for writing")
	}
	defer f.Close()

	c.mu.RLock()
	defer c.mu.RUnlock()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(c), "encode config")
}

func (c *Config) SaveByDefault() error {
	return c.Save(DefaultConfigPath)
}

// Apply copies the tunable runtime settings of other into c. Detector backend
// and model path are read once at startup and are left untouched.
func (c *Config) Apply(other *Config) {
	cal := other.GetCalibration()
	det := other.GetDetector()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.TargetFPS = other.TargetFPS
	c.ScaledWitdh = other.ScaledWitdh
	c.ScaledHeight = other.ScaledHeight
	c.ShowFPS = other.ShowFPS
	c.Calibration = cal
	c.Detector.ConfThreshold = det.ConfThreshold
	c.Detector.IoUThreshold = det.IoUThreshold
	c.Webcam = other.Webcam
	c.YouTube = other.YouTube
}

func LoadConfigFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(err, "open config")
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return NewDefaultConfig(), errors.Wrapf(err, "decode %s", path)
	}

	return cfg, nil
}

func NewDefaultConfig() *Config {
	return &Config{
		TargetFPS:    24,
		ScaledWitdh:  1280,
		ScaledHeight: 720,
		ShowFPS:      true,
		Detector: DetectorConfig{
			Backend:       BackendDNN,
			ModelPath:     DefaultModelPath,
			Host:          DefaultDetectorProcessorUrl,
			ConfThreshold: 0.4,
			IoUThreshold:  0.5,
		},
		Calibration: CalibrationConfig{
			Enabled:     true,
			FocalLength: 700,
			KnownWidthsCM: map[string]float64{
				"person": 45, "car": 180, "bus": 250, "truck": 260, "motorcycle": 80,
				"bicycle": 50, "laptop": 35, "cell phone": 7, "bottle": 6, "cup": 8,
				"stop sign": 76,
			},
		},
		YouTube: YouTubeConfig{Quality: "720p"},
		Log:     LogConfig{Level: "info", File: "vision.log"},
	}
}
