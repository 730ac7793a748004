package main

import (
	"context"
	"image"
	"io"
	"net"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vision/internal/actions"
	"vision/internal/config"
	"vision/internal/models"
	"vision/processing/detector"
	"vision/processing/detector/dnn"
)

type fakeShell struct {
	fatal []error
	bound bool
	runs  int
}

func (s *fakeShell) RunFatal(err error) { s.fatal = append(s.fatal, err) }

func (s *fakeShell) Bind(sources actions.SourceFactory, playback actions.Playback) {
	s.bound = sources != nil && playback != nil
}

func (s *fakeShell) Run(ctx context.Context) { s.runs++ }

type stubDetector struct {
	closed bool
}

func (d *stubDetector) Detect(ctx context.Context, frame image.Image) (models.Detections, error) {
	return models.Detections{}, nil
}

func (d *stubDetector) Close() error {
	d.closed = true
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRunMissingModelIsFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.NewDefaultConfig()
	cfg.Detector.Backend = config.BackendDNN
	cfg.Detector.ModelPath = filepath.Join(t.TempDir(), "yolov8m.onnx")

	sh := &fakeShell{}
	err := run(ctx, cfg, quietLogger(), sh, newDetector)

	require.Error(t, err)
	assert.True(t, errors.Is(err, dnn.ErrModelNotFound))
	require.Len(t, sh.fatal, 1)
	assert.Equal(t, err, sh.fatal[0])
	assert.False(t, sh.bound)
	assert.Zero(t, sh.runs)
}

func TestRunUnreachableRemoteIsFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	cfg := config.NewDefaultConfig()
	cfg.Detector.Backend = config.BackendRemote
	cfg.Detector.Host = addr

	sh := &fakeShell{}
	require.Error(t, run(ctx, cfg, quietLogger(), sh, newDetector))
	assert.Len(t, sh.fatal, 1)
	assert.Zero(t, sh.runs)
}

func TestRunUnknownBackendIsFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.NewDefaultConfig()
	cfg.Detector.Backend = "tpu"

	sh := &fakeShell{}
	err := run(ctx, cfg, quietLogger(), sh, newDetector)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tpu")
	assert.Len(t, sh.fatal, 1)
	assert.Zero(t, sh.runs)
}

func TestRunOpensMainWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	det := &stubDetector{}
	newDet := func(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (detector.Detector, error) {
		return det, nil
	}

	sh := &fakeShell{}
	require.NoError(t, run(ctx, config.NewDefaultConfig(), quietLogger(), sh, newDet))

	assert.Empty(t, sh.fatal)
	assert.True(t, sh.bound)
	assert.Equal(t, 1, sh.runs)
	assert.True(t, det.closed)
}
