package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// LoadEnvFile loads .env style files into the process environment. Missing
// files are ignored; variables already set win.
func LoadEnvFile(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "load %s", p)
		}
	}
	return nil
}

// ApplyEnv overrides the process-level settings from environment variables.
func (c *Config) ApplyEnv() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Detector.Backend = getEnv("DETECTOR_BACKEND", c.Detector.Backend)
	c.Detector.ModelPath = getEnv("MODEL_PATH", c.Detector.ModelPath)
	c.Detector.Host = getEnv("DETECTOR_HOST", c.Detector.Host)
	c.Detector.ConfThreshold = getEnvAsFloat32("CONF_THRESHOLD", c.Detector.ConfThreshold)
	c.Detector.IoUThreshold = getEnvAsFloat32("IOU_THRESHOLD", c.Detector.IoUThreshold)
	c.Webcam.DeviceID = getEnv("WEBCAM_DEVICE", c.Webcam.DeviceID)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("LOG_FILE", c.Log.File)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(f)
		}
	}
	return defaultValue
}
