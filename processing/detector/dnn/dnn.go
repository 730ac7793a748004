// Package dnn runs an ONNX detection model through OpenCV's DNN module.
package dnn

import (
	"context"
	"image"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"vision/internal/models"
)

var (
	// ErrModelNotFound is returned when the model file does not exist.
	ErrModelNotFound = errors.New("model file not found")
	// ErrInit is returned when OpenCV cannot load or configure the network.
	ErrInit = errors.New("failed to initialize the detector")
)

const inputSize = 640

type Options struct {
	ModelPath     string
	ConfThreshold float32
	IoUThreshold  float32
}

// Detector wraps a gocv network. It is not safe for concurrent use; the
// playback loop calls it from one goroutine at a time.
type Detector struct {
	net gocv.Net
	log logrus.FieldLogger

	mu   sync.RWMutex
	opts Options
}

func New(opts Options, log logrus.FieldLogger) (*Detector, error) {
	if _, err := os.Stat(opts.ModelPath); err != nil {
		return nil, errors.Wrapf(ErrModelNotFound, "model file not found at '%s'", opts.ModelPath)
	}

	net := gocv.ReadNetFromONNX(opts.ModelPath)
	if net.Empty() {
		return nil, errors.Wrapf(ErrInit, "failed to load network from %s", opts.ModelPath)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return nil, errors.Wrap(ErrInit, "failed to set preferable backend or target")
	}

	log.WithField("model", opts.ModelPath).Info("detection network initialized")

	return &Detector{net: net, opts: opts, log: log}, nil
}

func (d *Detector) Detect(ctx context.Context, frame image.Image) (models.Detections, error) {
	if err := ctx.Err(); err != nil {
		return models.Detections{}, err
	}

	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return models.Detections{}, errors.Wrap(err, "convert frame")
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(inputSize, inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	dims := output.Size()
	if len(dims) != 3 {
		return models.Detections{}, errors.Errorf("unexpected output shape %v", dims)
	}

	data, err := output.DataPtrFloat32()
	if err != nil {
		return models.Detections{}, errors.Wrap(err, "read output tensor")
	}

	d.mu.RLock()
	conf, iou := d.opts.ConfThreshold, d.opts.IoUThreshold
	d.mu.RUnlock()

	b := frame.Bounds()
	scale := scaleFactors{
		x: float32(b.Dx()) / inputSize,
		y: float32(b.Dy()) / inputSize,
	}

	cands := decode(data, dims[1], dims[2], conf, scale)
	if len(cands.Boxes) == 0 {
		return models.Detections{}, nil
	}

	var out models.Detections
	for _, i := range gocv.NMSBoxes(cands.Boxes, cands.Scores, conf, iou) {
		det := cands.At(i)
		det.Box = det.Box.Add(b.Min).Intersect(b)
		out.Append(det)
	}

	return out, nil
}

// SetThresholds changes the confidence and IoU cut-offs for later frames.
func (d *Detector) SetThresholds(conf, iou float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opts.ConfThreshold = conf
	d.opts.IoUThreshold = iou
}

func (d *Detector) Close() error {
	return d.net.Close()
}
