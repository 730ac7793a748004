package player

import (
	"context"
	"image"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"vision/processing/capture"
	"vision/processing/detector"
	"vision/processing/overlay"
)

// Sink receives annotated frames. Show must not block for long; the display
// surface drops frames it cannot keep up with.
type Sink interface {
	Show(frame image.Image)
}

type Options struct {
	ShowFPS bool
}

type Stats struct {
	Frames  int
	Latency time.Duration
	FPS     float64
}

// Processor drives one playback session at a time: read, detect, draw, show.
type Processor struct {
	det      detector.Detector
	renderer *overlay.Renderer
	opts     Options
	log      logrus.FieldLogger

	mu    sync.RWMutex
	stats Stats
}

func NewProcessor(det detector.Detector, renderer *overlay.Renderer, opts Options, log logrus.FieldLogger) *Processor {
	return &Processor{
		det:      det,
		renderer: renderer,
		opts:     opts,
		log:      log,
	}
}

// Run plays an opened source into sink until end of stream, a read or
// detection failure, or ctx cancellation. Cancellation is not an error. The
// source is released before Run returns.
func (p *Processor) Run(ctx context.Context, src capture.FrameSource, sink Sink) (Stats, error) {
	log := p.log.WithField("source", src.Name())

	p.mu.Lock()
	p.stats = Stats{}
	p.mu.Unlock()

	defer func() {
		if err := src.Release(); err != nil {
			log.WithError(err).Warn("release failed")
		}
	}()

	for {
		if ctx.Err() != nil {
			return p.finish(log, "cancelled"), nil
		}

		frame, err := src.Read()
		if err == io.EOF {
			return p.finish(log, "end of stream"), nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return p.finish(log, "cancelled"), nil
			}
			return p.Stats(), errors.Wrap(err, "read frame")
		}

		start := time.Now()

		dets, err := p.det.Detect(ctx, frame)
		if err != nil {
			if ctx.Err() != nil {
				return p.finish(log, "cancelled"), nil
			}
			return p.Stats(), errors.Wrap(err, "detect")
		}
		if err := dets.Validate(); err != nil {
			return p.Stats(), err
		}

		annotated := p.renderer.Draw(frame, dets)

		latency := time.Since(start)
		fps := overlay.InstantFPS(latency)
		if p.opts.ShowFPS {
			p.renderer.DrawFPS(annotated, fps)
		}

		p.mu.Lock()
		p.stats.Frames++
		p.stats.Latency = latency
		p.stats.FPS = fps
		p.mu.Unlock()

		sink.Show(annotated)
	}
}

func (p *Processor) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats
}

func (p *Processor) finish(log logrus.FieldLogger, reason string) Stats {
	st := p.Stats()
	log.WithFields(logrus.Fields{
		"frames":  st.Frames,
		"latency": st.Latency,
	}).Infof("playback finished: %s", reason)
	return st
}
