package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"vision/internal/actions"
	"vision/internal/config"
	"vision/internal/logger"
	"vision/internal/ui"
	"vision/processing/capture"
	"vision/processing/detector"
	"vision/processing/detector/dnn"
	"vision/processing/player"
)

// shell is the part of the UI startup drives: either the fatal dialog or the
// main window, never both.
type shell interface {
	RunFatal(err error)
	Bind(sources actions.SourceFactory, playback actions.Playback)
	Run(ctx context.Context)
}

type detectorFactory func(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (detector.Detector, error)

func main() {
	envErr := config.LoadEnvFile(".env")

	cfg, cfgErr := config.LoadConfigFile(config.DefaultConfigPath)
	cfg.ApplyEnv()

	log := logger.New(cfg.Log.Level, cfg.Log.File)
	if envErr != nil {
		log.WithError(envErr).Warn("ignoring .env")
	}
	if cfgErr != nil {
		log.WithError(cfgErr).Warn("using default config")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := run(ctx, cfg, log, ui.CreateApp(cfg, log), newDetector)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

// run builds the detector and hands control to the main window. A detector
// that cannot be created is fatal: the error is shown on its own and the main
// window is never opened.
func run(ctx context.Context, cfg *config.Config, log logrus.FieldLogger, app shell, newDet detectorFactory) error {
	det, err := newDet(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("fatal error")
		app.RunFatal(err)
		return err
	}
	defer det.Close()

	go func() {
		if err := cfg.Watch(ctx, config.DefaultConfigPath, log); err != nil {
			log.WithError(err).Warn("config hot reload disabled")
		}
	}()

	sources := func(kind config.SourceType, target string) (capture.FrameSource, error) {
		return capture.NewSource(cfg, kind, target)
	}

	app.Bind(sources, &player.Sessions{Config: cfg, Detector: det, Log: log})
	app.Run(ctx)

	return nil
}

func newDetector(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (detector.Detector, error) {
	dc := cfg.GetDetector()

	switch dc.Backend {
	case config.BackendDNN:
		d, err := dnn.New(dnn.Options{
			ModelPath:     dc.ModelPath,
			ConfThreshold: dc.ConfThreshold,
			IoUThreshold:  dc.IoUThreshold,
		}, log)
		if err != nil {
			return nil, err
		}
		return d, nil

	case config.BackendRemote:
		rd := detector.NewRemoteDetector(dc.Host, log)
		if err := rd.Connect(ctx); err != nil {
			return nil, errors.Wrap(err, "failed to initialize the detector")
		}
		return rd, nil

	default:
		return nil, errors.Errorf("unknown detector backend %q", dc.Backend)
	}
}
