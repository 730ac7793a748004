package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"vision/internal/models"
)

const (
	dialTimeout  = 5 * time.Second
	replyTimeout = 10 * time.Second
	jpegQuality  = 85
)

// RemoteDetector sends JPEG frames to a detection server over a websocket
// and reads one JSON result list per frame.
type RemoteDetector struct {
	serverURL string
	log       logrus.FieldLogger

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewRemoteDetector(host string, log logrus.FieldLogger) *RemoteDetector {
	u := url.URL{Scheme: "ws", Host: host, Path: "/ws"}

	return &RemoteDetector{
		serverURL: u.String(),
		log:       log.WithField("detector", u.String()),
	}
}

// Connect dials the server eagerly so start-up can fail fast.
func (d *RemoteDetector) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := d.connLocked(ctx)
	return err
}

func (d *RemoteDetector) connLocked(ctx context.Context) (*websocket.Conn, error) {
	if d.conn != nil {
		return d.conn, nil
	}

	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	d.log.Info("connecting to detector server...")
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, d.serverURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "connect to detector %s", d.serverURL)
	}
	d.log.Info("connected to detection server")

	d.conn = conn
	return conn, nil
}

func (d *RemoteDetector) Detect(ctx context.Context, frame image.Image) (models.Detections, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return models.Detections{}, errors.Wrap(err, "jpeg encode")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	conn, err := d.connLocked(ctx)
	if err != nil {
		return models.Detections{}, err
	}

	results, err := d.roundTrip(ctx, conn, buf.Bytes())
	if err != nil {
		d.log.WithError(err).Warn("connection lost")
		conn.Close()
		d.conn = nil
		return models.Detections{}, err
	}

	return models.FromResults(results, frame.Bounds()), nil
}

func (d *RemoteDetector) roundTrip(ctx context.Context, conn *websocket.Conn, payload []byte) ([]models.DetectionResult, error) {
	deadline := time.Now().Add(replyTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	conn.SetWriteDeadline(deadline)
	conn.SetReadDeadline(deadline)

	if err := conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
		return nil, errors.Wrap(err, "send frame")
	}

	_, message, err := conn.ReadMessage()
	if err != nil {
		return nil, errors.Wrap(err, "read detections")
	}

	var results []models.DetectionResult
	if err := json.Unmarshal(message, &results); err != nil {
		return nil, errors.Wrap(err, "decode detections")
	}

	return results, nil
}

func (d *RemoteDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return nil
	}

	d.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := d.conn.Close()
	d.conn = nil
	return err
}
